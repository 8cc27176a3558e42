package overlay

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

// Clipboard receives copied text.
type Clipboard interface {
	Write(text string) error
}

type systemClipboard struct {
	once    sync.Once
	initErr error
}

var sharedClipboard = &systemClipboard{}

// SystemClipboard returns the desktop clipboard. It is initialised on first write.
func SystemClipboard() Clipboard {
	return sharedClipboard
}

func (c *systemClipboard) Write(text string) error {
	c.once.Do(func() {
		c.initErr = clipboard.Init()
	})
	if c.initErr != nil {
		return fmt.Errorf("clipboard unavailable: %w", c.initErr)
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
