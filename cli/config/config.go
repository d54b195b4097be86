package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/leandrodaf/midiwatch/sdk/contracts"
	"github.com/leandrodaf/midiwatch/sdk/export"
	"github.com/leandrodaf/midiwatch/sdk/render"
)

// Config represents a midiwatch.yaml configuration file.
// All values are optional and act as defaults for command flags.
// CLI flags always override config values.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Capture CaptureConfig `yaml:"capture"`
	Export  ExportConfig  `yaml:"export"`
	Display DisplayConfig `yaml:"display"`
}

// LogConfig holds logger defaults.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// CaptureConfig holds capture session defaults.
type CaptureConfig struct {
	Port          string       `yaml:"port"`
	BufferSize    int          `yaml:"buffer_size"`
	Capacity      int          `yaml:"capacity"`
	SysExLimit    int          `yaml:"sysex_limit"`
	ExcludedPorts []string     `yaml:"excluded_ports,omitempty"`
	Filter        FilterConfig `yaml:"filter"`
	Duration      Duration     `yaml:"duration"`
}

// FilterConfig selects which messages reach the capture log.
// Types are message type keys such as "note_on"; channels are 1-16.
type FilterConfig struct {
	Types    []string `yaml:"types,omitempty"`
	Channels []int    `yaml:"channels,omitempty"`
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

// DisplayConfig holds terminal output defaults.
type DisplayConfig struct {
	View    string `yaml:"view"`
	NoColor bool   `yaml:"no_color"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Validate checks every value that the commands would otherwise reject
// later, and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := contracts.ParseLogLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Capture.BufferSize < 0 {
		errs = append(errs, fmt.Errorf("capture.buffer_size: must not be negative, got %d", c.Capture.BufferSize))
	}
	if c.Capture.Capacity < 0 {
		errs = append(errs, fmt.Errorf("capture.capacity: must not be negative, got %d", c.Capture.Capacity))
	}
	if c.Capture.SysExLimit < 0 {
		errs = append(errs, fmt.Errorf("capture.sysex_limit: must not be negative, got %d", c.Capture.SysExLimit))
	}
	if c.Capture.Duration.Duration < 0 {
		errs = append(errs, fmt.Errorf("capture.duration: must not be negative, got %s", c.Capture.Duration))
	}
	if _, err := c.Filter(); err != nil {
		errs = append(errs, err)
	}
	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		errs = append(errs, fmt.Errorf("export.format: %w", err))
	}
	if _, err := render.ParseFormat(c.Display.View); err != nil {
		errs = append(errs, fmt.Errorf("display.view: %w", err))
	}
	return errors.Join(errs...)
}

// Filter converts the filter section. A section with no types and no
// channels yields nil, which lets every message through.
func (c *Config) Filter() (*contracts.MIDIEventFilter, error) {
	f := c.Capture.Filter
	if len(f.Types) == 0 && len(f.Channels) == 0 {
		return nil, nil
	}

	filter := &contracts.MIDIEventFilter{}
	for _, key := range f.Types {
		t, err := contracts.ParseMessageType(key)
		if err != nil {
			return nil, fmt.Errorf("capture.filter.types: %w", err)
		}
		filter.Types = append(filter.Types, t)
	}
	for _, ch := range f.Channels {
		if ch < 1 || ch > 16 {
			return nil, fmt.Errorf("capture.filter.channels: %d out of range 1-16", ch)
		}
		filter.Channels = append(filter.Channels, uint8(ch-1))
	}
	return filter, nil
}

// Options converts the log and capture sections into library options.
// Call Validate first; invalid values are skipped here.
func (c *Config) Options() []contracts.Option {
	var opts []contracts.Option
	if level, err := contracts.ParseLogLevel(c.Log.Level); err == nil {
		opts = append(opts, contracts.WithLogLevel(level))
	}
	if c.Log.File != "" {
		opts = append(opts, contracts.WithLogFile(c.Log.File))
	}
	if c.Capture.BufferSize > 0 {
		opts = append(opts, contracts.WithBufferSize(c.Capture.BufferSize))
	}
	if c.Capture.Capacity > 0 {
		opts = append(opts, contracts.WithLogCapacity(c.Capture.Capacity))
	}
	if c.Capture.SysExLimit > 0 {
		opts = append(opts, contracts.WithSysExLimit(c.Capture.SysExLimit))
	}
	if c.Capture.ExcludedPorts != nil {
		opts = append(opts, contracts.WithExcludedPorts(c.Capture.ExcludedPorts...))
	}
	if filter, err := c.Filter(); err == nil && filter != nil {
		opts = append(opts, contracts.WithMIDIEventFilter(*filter))
	}
	return opts
}
