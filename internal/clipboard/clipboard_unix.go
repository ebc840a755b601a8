//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"errors"
	"image"
	"os"
	"sync"

	"golang.design/x/clipboard"
)

var errNoDisplay = errors.New("clipboard needs DISPLAY or WAYLAND_DISPLAY")

var (
	initOnce sync.Once
	initErr  error
)

// ready initialises the backend once. It fails without a display.
func ready() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		initErr = clipboard.Init()
	})
	return initErr
}

func publish(format clipboard.Format, data []byte) error {
	if err := ready(); err != nil {
		return err
	}
	clipboard.Write(format, data)
	return nil
}

// WriteImage publishes img to the clipboard as PNG.
func WriteImage(img image.Image) error {
	if err := ready(); err != nil {
		return err
	}
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	return publish(clipboard.FmtImage, data)
}

// WriteText publishes text, e.g. a data URL, to the clipboard.
func WriteText(text string) error {
	return publish(clipboard.FmtText, []byte(text))
}
