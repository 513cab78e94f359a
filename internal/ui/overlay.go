package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderAlert renders a blocking message box dismissed with Enter or Esc.
func RenderAlert(message string, width int) string {
	innerW := width - 8
	if innerW < 20 {
		innerW = 20
	}
	var lines []string
	for _, l := range wrap(message, innerW) {
		lines = append(lines, StyleText.Render(l))
	}
	lines = append(lines, "", StyleHelp.Render("[ENTER] OK"))
	return StylePanelAlert.Render(strings.Join(lines, "\n"))
}

// RenderStartOverlay renders the tap-to-start gate.
func RenderStartOverlay() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		StylePanelTitle.Render("BARCODE SCANNER"),
		"",
		StyleText.Render("Press ENTER to start the camera"),
		StyleHelp.Render("[H] help   [Q] quit"),
	)
	return StylePanelActive.Padding(1, 4).Render(content)
}
