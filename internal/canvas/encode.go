package canvas

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/example/maskedit/internal/export"
)

// DefaultJPEGQuality matches the browser canvas default for image/jpeg.
const DefaultJPEGQuality = 92

// Encode writes img to w in the named format. jpg and tif aliases are
// accepted.
func Encode(w io.Writer, img image.Image, format string, jpegQuality int) error {
	switch export.NormalizeFormat(format) {
	case "png":
		return png.Encode(w, img)
	case "jpeg":
		return jpeg.Encode(w, flatten(img), &jpeg.Options{Quality: jpegQuality})
	case "gif":
		return gif.Encode(w, img, nil)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
