package ui

import (
	"strings"

	"barcode-scanner.klederson.com/internal/scanner"
)

// HelpText lists the supported symbologies and scanning tips.
func HelpText() string {
	return strings.Join([]string{
		"Supported here:",
		strings.Join(scanner.Labels(scanner.Catalog()), ", ") + ".",
		"",
		"Not supported: MS1 Plessey.",
		"Camera cannot read yet: " + strings.Join(scanner.Labels(scanner.Unreadable(scanner.Catalog())), ", ") + ".",
		"",
		"PDF417 tips:",
		"- Bright light / torch",
		"- Hold steady, reduce angle/skew",
		"- Move closer until it is sharp",
	}, "\n")
}
