package ui

import (
	"strings"

	"barcode-scanner.klederson.com/internal/session"
	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom bar: lifecycle state, status pill and
// torch indicator.
func RenderStatusBar(width int, snap session.Snapshot) string {
	state := "[" + strings.ToUpper(snap.State.String()) + "]"
	switch snap.State {
	case session.StateScanning:
		state = StyleStatusScanning.Render(state)
	case session.StateError:
		state = StyleStatusError.Render(state)
	default:
		state = StyleStatusPaused.Render(state)
	}

	content := state + StyleStatusBar.Foreground(ColorGreen).Render(" "+snap.Status)

	if snap.TorchVisible && snap.State == session.StateScanning {
		if snap.TorchOn {
			content += "  " + StyleTorchOn.Render("TORCH ON")
		} else {
			content += "  " + StyleTorchOff.Render("torch off")
		}
	}

	gap := width - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}
	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
