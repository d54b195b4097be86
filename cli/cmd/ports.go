package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/leandrodaf/midiwatch/sdk/midi"
)

// PortsCommand returns the ports command, which lists MIDI input devices.
func PortsCommand() *cli.Command {
	return &cli.Command{
		Name:   "ports",
		Usage:  "List MIDI input ports",
		Flags:  []cli.Flag{ConfigFlag, LogLevelFlag, LogFileFlag},
		Action: portsAction,
	}
}

func portsAction(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}

	client, err := midi.NewMIDIClient(s.opts...)
	if err != nil {
		return cli.Exit(err.Error(), exitRuntime)
	}
	defer client.Stop()

	devices, err := client.ListDevices()
	if err != nil {
		return cli.Exit(err.Error(), exitRuntime)
	}
	if len(devices) == 0 {
		fmt.Fprintln(c.App.Writer, "(no MIDI input ports)")
		return nil
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tNAME\tMANUFACTURER")
	for _, d := range devices {
		fmt.Fprintf(w, "%d\t%s\t%s\n", d.ID, d.Name, d.Manufacturer)
	}
	return nil
}
