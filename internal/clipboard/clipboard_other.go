//go:build !((linux || freebsd || openbsd || netbsd || dragonfly) && cgo)

package clipboard

import "image"

// WriteImage is unavailable in this build.
func WriteImage(img image.Image) error {
	if _, err := encodePNG(img); err != nil {
		return err
	}
	return ErrUnsupported
}

// WriteText is unavailable in this build.
func WriteText(string) error { return ErrUnsupported }
