// Package clipboard publishes edited images to the system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"image"
	"image/png"
)

// ErrUnsupported is returned where no clipboard backend is compiled in.
var ErrUnsupported = errors.New("clipboard is not supported on this platform")

// encodePNG is the clipboard's image wire format.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
