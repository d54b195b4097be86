package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/leandrodaf/midiwatch/sdk/capture"
	"github.com/leandrodaf/midiwatch/sdk/contracts"
	"github.com/leandrodaf/midiwatch/sdk/midi"
)

// MonitorCommand returns the monitor command, which captures from a MIDI
// input port and prints each message as it arrives.
func MonitorCommand() *cli.Command {
	return &cli.Command{
		Name:      "monitor",
		Usage:     "Capture and print messages from a MIDI input port",
		ArgsUsage: "[port]",
		Flags: append(CaptureFlags(),
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Input port ID or name (unique substring allowed)",
			},
			&cli.DurationFlag{
				Name:    "duration",
				Aliases: []string{"d"},
				Usage:   "Stop after this long (0 = until interrupted)",
			},
		),
		Action: monitorAction,
	}
}

func monitorAction(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}
	port := s.cfg.Capture.Port
	if c.Args().Present() {
		port = c.Args().First()
	}
	if port == "" {
		return cli.Exit("no input port given: use --port, a positional argument or capture.port in the config", exitUsage)
	}

	client, err := midi.NewMIDIClient(s.opts...)
	if err != nil {
		return cli.Exit(err.Error(), exitRuntime)
	}

	session, err := openPort(client, port, s.opts)
	if err != nil {
		_ = client.Stop()
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if d := s.cfg.Capture.Duration.Duration; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	if err := session.Start(ctx); err != nil {
		return cli.Exit(err.Error(), exitRuntime)
	}
	fmt.Fprintf(c.App.ErrWriter, "Monitoring %q, press Ctrl-C to stop\n", port)

	follow(session, &rowPrinter{out: c.App.Writer, view: s.view, noColor: s.noColor})
	if err := session.Stop(); err != nil {
		fmt.Fprintf(c.App.ErrWriter, "warning: closing port: %v\n", err)
	}

	printSummary(c.App.ErrWriter, session.Stats(), s.noColor)
	if err := s.exportLog(c, session.Log()); err != nil {
		return err
	}

	if err := session.Err(); err != nil {
		if errors.Is(err, contracts.ErrInputDisconnected) {
			return cli.Exit(fmt.Sprintf("port %q disconnected: %v", port, err), exitRuntime)
		}
		return cli.Exit(err.Error(), exitRuntime)
	}
	return nil
}

// openPort selects the device matching port and wraps the client in a session.
func openPort(client contracts.ClientMIDI, port string, opts []contracts.Option) (*capture.Session, error) {
	devices, err := client.ListDevices()
	if err != nil {
		return nil, cli.Exit(err.Error(), exitRuntime)
	}
	device, err := midi.FindDevice(devices, port)
	if err != nil {
		return nil, cli.Exit(err.Error(), exitUsage)
	}
	if err := client.SelectDevice(device.ID); err != nil {
		return nil, cli.Exit(err.Error(), exitRuntime)
	}

	session, err := capture.NewSession(client, opts...)
	if err != nil {
		return nil, cli.Exit(err.Error(), exitRuntime)
	}
	return session, nil
}
