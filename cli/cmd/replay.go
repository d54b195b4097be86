package cmd

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/leandrodaf/midiwatch/sdk/capture"
	"github.com/leandrodaf/midiwatch/sdk/export"
)

// ReplayCommand returns the replay command, which prints a MessagePack
// export in any view and can convert it to another format.
func ReplayCommand() *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Usage:     "Print messages from a MessagePack export",
		ArgsUsage: "<file.mpk>",
		Flags:     append(CommonFlags(), ExportFlag, FormatFlag),
		Action:    replayAction,
	}
}

func replayAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("replay expects exactly one file argument", exitUsage)
	}
	s, err := loadSettings(c)
	if err != nil {
		return err
	}

	path := c.Args().First()
	f, err := os.Open(path)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	defer f.Close()

	msgs, readErr := export.DecodeMessagePack(f)

	(&rowPrinter{out: c.App.Writer, view: s.view, noColor: s.noColor}).print(msgs)

	if s.exportPath != "" {
		log := capture.NewLog(0)
		for _, m := range msgs {
			log.Append(m)
		}
		if err := s.exportLog(c, log); err != nil {
			return err
		}
	}

	if readErr != nil {
		return cli.Exit(readErr.Error(), exitRuntime)
	}
	return nil
}
