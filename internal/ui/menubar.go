package ui

import (
	"fmt"
	"strings"

	"barcode-scanner.klederson.com/internal/config"
	"github.com/charmbracelet/lipgloss"
)

// RenderMenuBar renders the top menu bar. The torch key is only listed when
// the control is visible.
func RenderMenuBar(width int, source string, torchVisible bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"S", "tart"},
		{"X", " close"},
		{"T", "orch"},
		{"H", "elp"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		if k.key == "T" && !torchVisible {
			continue
		}
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	left := StyleMenuKey.Render(title) + menu
	right := StyleMenuLabel.Render(fmt.Sprintf("Source: %s", source)) + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
