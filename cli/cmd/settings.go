package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/leandrodaf/midiwatch/cli/config"
	"github.com/leandrodaf/midiwatch/sdk/capture"
	"github.com/leandrodaf/midiwatch/sdk/contracts"
	"github.com/leandrodaf/midiwatch/sdk/export"
	"github.com/leandrodaf/midiwatch/sdk/midi"
	"github.com/leandrodaf/midiwatch/sdk/render"
)

// Exit codes.
const (
	exitRuntime = 1 // Input failure or export failure.
	exitUsage   = 2 // Bad flags or config.
)

// defaultLogLevel keeps lifecycle logs off the terminal unless asked for.
const defaultLogLevel = "warn"

// settings is the config file merged with command flags.
type settings struct {
	cfg          *config.Config
	view         render.Format
	noColor      bool
	exportPath   string
	exportFormat export.Format
	opts         []contracts.Option
}

// loadSettings loads the config file, applies flag overrides and resolves
// the library options once so every component shares one logger.
func loadSettings(c *cli.Context) (*settings, error) {
	cfg, err := config.LoadDefault(c.String("config"))
	if err != nil {
		return nil, cli.Exit(err.Error(), exitUsage)
	}

	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if c.IsSet("log-file") {
		cfg.Log.File = c.String("log-file")
	}
	if c.IsSet("view") {
		cfg.Display.View = c.String("view")
	}
	if c.IsSet("no-color") {
		cfg.Display.NoColor = c.Bool("no-color")
	}
	if c.IsSet("export") {
		cfg.Export.Path = c.String("export")
	}
	if c.IsSet("format") {
		cfg.Export.Format = c.String("format")
	} else if cfg.Export.Format == "" {
		cfg.Export.Format = formatFromPath(cfg.Export.Path)
	}
	if c.IsSet("port") {
		cfg.Capture.Port = c.String("port")
	}
	if c.IsSet("capacity") {
		cfg.Capture.Capacity = c.Int("capacity")
	}
	if c.IsSet("duration") {
		cfg.Capture.Duration.Duration = c.Duration("duration")
	}
	if c.IsSet("type") {
		cfg.Capture.Filter.Types = c.StringSlice("type")
	}
	if c.IsSet("channel") {
		cfg.Capture.Filter.Channels = c.IntSlice("channel")
	}

	if err := cfg.Validate(); err != nil {
		return nil, cli.Exit(err.Error(), exitUsage)
	}

	// Validate has checked both formats.
	view, _ := render.ParseFormat(cfg.Display.View)
	format, _ := export.ParseFormat(cfg.Export.Format)

	opts := cfg.Options()
	resolved, err := midi.ResolveOptions(opts...)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("cannot open log file: %v", err), exitUsage)
	}
	// The resolved logger already writes to the log file.
	opts = append(opts, contracts.WithLogger(resolved.Logger), contracts.WithLogFile(""))

	return &settings{
		cfg:          cfg,
		view:         view,
		noColor:      cfg.Display.NoColor,
		exportPath:   cfg.Export.Path,
		exportFormat: format,
		opts:         opts,
	}, nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mpk", ".msgpack":
		return string(export.FormatMsgPack)
	default:
		return ""
	}
}

// exportLog writes the session log to the configured export path, if any.
func (s *settings) exportLog(c *cli.Context, log *capture.Log) error {
	if s.exportPath == "" {
		return nil
	}
	e, err := export.New(s.exportFormat)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	f, err := os.Create(s.exportPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("%v: %v", contracts.ErrExportFailed, err), exitRuntime)
	}
	if err := log.Export(f, e); err != nil {
		_ = f.Close()
		return cli.Exit(err.Error(), exitRuntime)
	}
	if err := f.Close(); err != nil {
		return cli.Exit(fmt.Sprintf("%v: %v", contracts.ErrExportFailed, err), exitRuntime)
	}

	fmt.Fprintf(c.App.ErrWriter, "Exported %d messages to %s (%s)\n", log.Len(), s.exportPath, s.exportFormat)
	return nil
}
