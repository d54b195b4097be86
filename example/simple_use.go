package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/leandrodaf/midiwatch/internal/logger"
	"github.com/leandrodaf/midiwatch/sdk/capture"
	"github.com/leandrodaf/midiwatch/sdk/contracts"
	"github.com/leandrodaf/midiwatch/sdk/midi"
	"github.com/leandrodaf/midiwatch/sdk/render"
)

func main() {
	log := logger.NewZapLogger()
	opts := []contracts.Option{
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithLogCapacity(10000),
		contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{
			Types: []contracts.MessageType{contracts.NoteOn, contracts.NoteOff},
		}),
	}

	client, err := midi.NewMIDIClient(opts...)
	if err != nil {
		log.Error("Failed to initialize MIDI client", log.Field().Error("error", err))
		return
	}

	devices, err := client.ListDevices()
	if err != nil || len(devices) == 0 {
		log.Error("No MIDI devices found or error listing devices", log.Field().Error("error", err))
		return
	}
	fmt.Println("Available MIDI devices:", devices)

	query := "0"
	if len(os.Args) > 1 {
		query = os.Args[1]
	}
	device, err := midi.FindDevice(devices, query)
	if err != nil {
		log.Error("Failed to find MIDI device", log.Field().Error("error", err))
		return
	}
	if err = client.SelectDevice(device.ID); err != nil {
		log.Error("Failed to select MIDI device", log.Field().Error("error", err))
		return
	}

	session, err := capture.NewSession(client, opts...)
	if err != nil {
		log.Error("Failed to create capture session", log.Field().Error("error", err))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := session.Start(ctx); err != nil {
		log.Error("Failed to start capture", log.Field().Error("error", err))
		return
	}
	defer session.Stop()

	fmt.Println("Capturing notes from", device.Name, "... Press Ctrl+C to exit.")
	var last uint64
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-session.Done():
			if err := session.Err(); err != nil {
				log.Warn("Capture ended", log.Field().Error("error", err))
			}
			return
		case <-ticker.C:
			for _, m := range session.Log().Since(last) {
				fmt.Printf("%-28s %s\n", render.Hex(m.Raw), render.Human(m))
				last = m.Seq
			}
		}
	}
}
