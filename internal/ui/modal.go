package ui

import (
	"fmt"
	"strings"

	"barcode-scanner.klederson.com/internal/session"
	"github.com/charmbracelet/lipgloss"
)

// RenderResultModal renders the decoded result with its actions. Open is
// dimmed and inert unless the text is a URL.
func RenderResultModal(p session.Presentation, width int, copyLabel string) string {
	innerW := width - 4
	if innerW < 24 {
		innerW = 24
	}

	title := StylePanelTitle.Render("SCANNED")
	escHint := StyleHelp.Render("[ESC]")
	titleLine := title + strings.Repeat(" ", max(0, innerW-lipgloss.Width(title)-lipgloss.Width(escHint))) + escHint

	sep := StyleRegion.Render(strings.Repeat("-", innerW))

	lines := []string{titleLine, sep, ""}
	lines = append(lines, StyleFieldLabel.Render(fmt.Sprintf("  %-8s", "Format"))+StyleFieldValue.Render(p.FormatName))
	lines = append(lines, "")
	lines = append(lines, StyleFieldLabel.Render("  Text"))

	textW := innerW - 4
	for _, l := range wrap(p.Text, textW) {
		lines = append(lines, "    "+StyleFieldValue.Render(l))
	}
	lines = append(lines, "", sep)

	open := StyleButton.Render("[O]pen")
	if !p.IsURL {
		open = StyleButtonDisabled.Render("[O]pen")
	}
	buttons := []string{
		StyleButton.Render("[C] " + copyLabel),
		open,
		StyleButton.Render("[A]gain"),
	}
	lines = append(lines, "  "+strings.Join(buttons, "   "))

	return StylePanelActive.Width(innerW + 2).Render(strings.Join(lines, "\n"))
}

// wrap splits s into lines of at most width runes, honoring embedded
// newlines.
func wrap(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	var out []string
	for _, para := range strings.Split(s, "\n") {
		r := []rune(para)
		if len(r) == 0 {
			out = append(out, "")
			continue
		}
		for len(r) > width {
			out = append(out, string(r[:width]))
			r = r[width:]
		}
		out = append(out, string(r))
	}
	return out
}
