// Package cmd provides CLI commands for the midiwatch binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags. Every one of them overrides the matching config value.
var (
	// ConfigFlag points at a midiwatch.yaml file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to config file (default: ./midiwatch.yaml if present)",
	}

	// LogLevelFlag sets the diagnostic log level.
	LogLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level: debug, info, warn, error",
	}

	// LogFileFlag redirects diagnostic logs to a file.
	LogFileFlag = &cli.StringFlag{
		Name:  "log-file",
		Usage: "Write diagnostic logs to this file instead of stderr",
	}

	// ViewFlag selects how each message is printed.
	ViewFlag = &cli.StringFlag{
		Name:    "view",
		Aliases: []string{"v"},
		Usage:   "Message view: human, hex, binary",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// ExportFlag writes the capture log to a file when the command ends.
	ExportFlag = &cli.StringFlag{
		Name:    "export",
		Aliases: []string{"o"},
		Usage:   "Export captured messages to this file",
	}

	// FormatFlag selects the export format.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Export format: csv, msgpack (default: from --export extension)",
	}
)

// CommonFlags returns the flags shared by every command that prints messages.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		ConfigFlag,
		LogLevelFlag,
		LogFileFlag,
		ViewFlag,
		NoColorFlag,
	}
}

// CaptureFlags returns CommonFlags plus the flags of commands that run a
// capture session.
func CaptureFlags() []cli.Flag {
	return append(CommonFlags(),
		ExportFlag,
		FormatFlag,
		&cli.IntFlag{
			Name:  "capacity",
			Usage: "Keep at most this many messages in the capture log (0 = no limit)",
		},
		&cli.StringSliceFlag{
			Name:  "type",
			Usage: "Only log these message types, e.g. note_on (repeatable)",
		},
		&cli.IntSliceFlag{
			Name:  "channel",
			Usage: "Only log channel messages on these channels, 1-16 (repeatable)",
		},
	)
}
