package ui

import (
	"math"
	"time"

	"barcode-scanner.klederson.com/internal/config"
)

// ScanLine animates the horizontal line that sweeps the viewfinder.
type ScanLine struct {
	Pos       float64 // Current position in [0, 1], top to bottom
	StartTime time.Time
}

// NewScanLine creates a scan line starting at the top.
func NewScanLine() *ScanLine {
	return &ScanLine{StartTime: time.Now()}
}

// Update advances the line based on elapsed time. The line bounces between
// the top and bottom edges.
func (s *ScanLine) Update() {
	elapsed := time.Since(s.StartTime).Seconds()
	passes := elapsed * float64(config.ScanLineRPM) / 60.0
	phase := math.Mod(passes, 2)
	if phase > 1 {
		phase = 2 - phase
	}
	s.Pos = phase
}

// Row returns the line's row within a region of the given height.
func (s *ScanLine) Row(height int) int {
	if height <= 1 {
		return 0
	}
	return int(math.Round(s.Pos * float64(height-1)))
}
