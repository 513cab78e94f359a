package scanner

import "barcode-scanner.klederson.com/internal/config"

// Region is a centered crop rectangle inside a frame.
type Region struct {
	Width  int
	Height int
}

// ScanRegion returns the decode crop for a view of the given size: 98% of
// each dimension, floored, then rounded down to an even number.
func ScanRegion(viewWidth, viewHeight int) Region {
	w := int(float64(viewWidth) * config.ScanRegionFraction)
	h := int(float64(viewHeight) * config.ScanRegionFraction)
	return Region{
		Width:  w - w%2,
		Height: h - h%2,
	}
}

// Offset returns the top-left corner that centers r inside a view.
func (r Region) Offset(viewWidth, viewHeight int) (x, y int) {
	x = (viewWidth - r.Width) / 2
	y = (viewHeight - r.Height) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}
