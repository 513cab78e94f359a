package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout stacks the menu bar, body and status bar.
func ComposeLayout(menuBar, body, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, body, statusBar)
}

// Center places content in the middle of a width x height area.
func Center(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
