package ui

import (
	"strings"

	"barcode-scanner.klederson.com/internal/scanner"
)

// RenderViewfinder draws the scan region as corner brackets inside a
// width x height area, with the scan line when active. caption is centered
// in the region.
func RenderViewfinder(width, height int, line *ScanLine, active bool, caption string) string {
	if width < 4 || height < 3 {
		return ""
	}

	region := scanner.ScanRegion(width, height)
	if region.Width < 4 {
		region.Width = width
	}
	if region.Height < 3 {
		region.Height = height
	}
	x0, y0 := region.Offset(width, height)
	x1 := x0 + region.Width - 1
	y1 := y0 + region.Height - 1

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}

	arm := region.Width / 8
	if arm < 2 {
		arm = 2
	}
	armV := region.Height / 6
	if armV < 1 {
		armV = 1
	}
	for i := 0; i <= arm && x0+i <= x1; i++ {
		grid[y0][x0+i], grid[y0][x1-i] = '─', '─'
		grid[y1][x0+i], grid[y1][x1-i] = '─', '─'
	}
	for i := 0; i <= armV && y0+i <= y1; i++ {
		grid[y0+i][x0], grid[y1-i][x0] = '│', '│'
		grid[y0+i][x1], grid[y1-i][x1] = '│', '│'
	}
	grid[y0][x0], grid[y0][x1] = '┌', '┐'
	grid[y1][x0], grid[y1][x1] = '└', '┘'

	lineRow := -1
	if active && line != nil && region.Height > 2 {
		lineRow = y0 + 1 + line.Row(region.Height-2)
	}

	captionRow := y0 + region.Height/2
	if captionRow == lineRow {
		captionRow++
	}

	rows := make([]string, height)
	for r := range grid {
		switch {
		case r == lineRow:
			inner := x1 - x0 - 1
			rows[r] = StyleRegion.Render(string(grid[r][:x0+1])) +
				StyleScanLine.Render(strings.Repeat("━", inner)) +
				StyleRegion.Render(string(grid[r][x1:]))
		case r == captionRow && caption != "":
			rows[r] = overlayCenter(string(grid[r]), caption, width)
		default:
			rows[r] = StyleRegion.Render(string(grid[r]))
		}
	}
	return strings.Join(rows, "\n")
}

func overlayCenter(row, caption string, width int) string {
	runes := []rune(row)
	c := []rune(caption)
	if len(c) > width-4 {
		c = c[:width-4]
	}
	start := (width - len(c)) / 2
	return StyleRegion.Render(string(runes[:start])) +
		StyleText.Render(string(c)) +
		StyleRegion.Render(string(runes[start+len(c):]))
}
