package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/leandrodaf/midiwatch/sdk/midi"
	"github.com/leandrodaf/midiwatch/sdk/render"
)

// DecodeCommand returns the decode command, which decodes raw MIDI bytes
// from a file, a hex or binary string, or stdin.
func DecodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "decode",
		Usage: "Decode raw MIDI bytes from a file, --hex, --binary or stdin",
		Flags: append(CaptureFlags(),
			&cli.StringFlag{
				Name:  "file",
				Usage: "Read raw bytes from this file or device node",
			},
			&cli.StringFlag{
				Name:  "hex",
				Usage: `Decode space separated hex bytes, e.g. "90 3C 7F"`,
			},
			&cli.StringFlag{
				Name:  "binary",
				Usage: `Decode space separated binary bytes, e.g. "10010000 00111100"`,
			},
		),
		Action: decodeAction,
	}
}

func decodeAction(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}

	r, name, closeInput, err := decodeInput(c)
	if err != nil {
		return err
	}
	defer closeInput()

	client, err := midi.NewStreamClient(r, name, s.opts...)
	if err != nil {
		return cli.Exit(err.Error(), exitRuntime)
	}
	session, err := openPort(client, "0", s.opts)
	if err != nil {
		return err
	}
	if err := session.Start(c.Context); err != nil {
		return cli.Exit(err.Error(), exitRuntime)
	}

	follow(session, &rowPrinter{out: c.App.Writer, view: s.view, noColor: s.noColor})
	_ = session.Stop()

	printSummary(c.App.ErrWriter, session.Stats(), s.noColor)
	if err := s.exportLog(c, session.Log()); err != nil {
		return err
	}

	if err := session.Err(); err != nil && !errors.Is(err, io.EOF) {
		return cli.Exit(fmt.Sprintf("reading %s: %v", name, err), exitRuntime)
	}
	return nil
}

// decodeInput picks the byte source. At most one of --file, --hex and
// --binary may be given; with none, stdin is read.
func decodeInput(c *cli.Context) (io.Reader, string, func(), error) {
	noop := func() {}
	given := 0
	for _, name := range []string{"file", "hex", "binary"} {
		if c.IsSet(name) {
			given++
		}
	}
	if given > 1 {
		return nil, "", noop, cli.Exit("--file, --hex and --binary are mutually exclusive", exitUsage)
	}

	switch {
	case c.IsSet("file"):
		path := c.String("file")
		f, err := os.Open(path)
		if err != nil {
			return nil, "", noop, cli.Exit(err.Error(), exitUsage)
		}
		return f, path, func() { _ = f.Close() }, nil
	case c.IsSet("hex"):
		data, err := render.ParseHex(c.String("hex"))
		if err != nil {
			return nil, "", noop, cli.Exit(err.Error(), exitUsage)
		}
		return bytes.NewReader(data), "hex", noop, nil
	case c.IsSet("binary"):
		data, err := render.ParseBinary(c.String("binary"))
		if err != nil {
			return nil, "", noop, cli.Exit(err.Error(), exitUsage)
		}
		return bytes.NewReader(data), "binary", noop, nil
	default:
		return c.App.Reader, "stdin", noop, nil
	}
}
