package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// Version is the midiwatch release version.
const Version = "0.3.0"

// VersionCommand returns the version command.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprintf(c.App.Writer, "midiwatch %s (commit: %s)\n", Version, commit)
			return err
		},
	}
}
