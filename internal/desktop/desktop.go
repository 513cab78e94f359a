package desktop

import (
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
)

func init() {
	// The terminal belongs to the UI; opener chatter would corrupt it.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// URLOpener opens a URL in a new, separate browser context.
type URLOpener interface {
	Open(url string) error
}

// System is the desktop implementation of Clipboard and URLOpener.
type System struct{}

// WriteText copies text to the system clipboard.
func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard: no clipboard utility available")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}

// Open launches the user's browser. The browser runs as its own process, so
// it shares no opener or referrer with this program.
func (System) Open(url string) error {
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("open url: %w", err)
	}
	return nil
}
