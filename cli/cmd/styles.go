package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/leandrodaf/midiwatch/sdk/contracts"
)

// Color palette.
var (
	noteColor      = lipgloss.Color("#10B981") // Green
	voiceColor     = lipgloss.Color("#3B82F6") // Blue
	commonColor    = lipgloss.Color("#F59E0B") // Amber
	sysexColor     = lipgloss.Color("#7C3AED") // Purple
	undefinedColor = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray
)

// Row styles, one per message category.
var (
	// NoteStyle for Note On and Note Off rows.
	NoteStyle = lipgloss.NewStyle().
			Foreground(noteColor)

	// VoiceStyle for other channel voice rows.
	VoiceStyle = lipgloss.NewStyle().
			Foreground(voiceColor)

	// CommonStyle for system common rows.
	CommonStyle = lipgloss.NewStyle().
			Foreground(commonColor)

	// SysExStyle for system exclusive rows.
	SysExStyle = lipgloss.NewStyle().
			Foreground(sysexColor)

	// RealTimeStyle for clock and transport rows.
	RealTimeStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// UndefinedStyle for reserved status bytes.
	UndefinedStyle = lipgloss.NewStyle().
			Foreground(undefinedColor)

	// TitleStyle for summaries and table headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	// WarningStyle for anomaly counts.
	WarningStyle = lipgloss.NewStyle().
			Foreground(commonColor)
)

// CategoryStyle returns the row style for a message type.
func CategoryStyle(t contracts.MessageType) lipgloss.Style {
	switch {
	case t.IsNote():
		return NoteStyle
	case t.IsChannelVoice():
		return VoiceStyle
	case t == contracts.SysEx:
		return SysExStyle
	case t.IsSystemCommon():
		return CommonStyle
	case t.IsRealTime():
		return RealTimeStyle
	default:
		return UndefinedStyle
	}
}

// paint renders s with style unless color is disabled.
func paint(style lipgloss.Style, s string, noColor bool) string {
	if noColor {
		return s
	}
	return style.Render(s)
}
