package editor

import (
	"path"
	"regexp"
	"strings"

	"github.com/example/maskedit/internal/export"
)

var dataURLPattern = regexp.MustCompile(`^data:image/([a-zA-Z+.-]+);base64,.+$`)

// SniffMIME returns the image subtype implied by src: the type embedded in a
// data URL, otherwise the extension of the URL path. Formats the canvas cannot
// encode fall back to png.
func SniffMIME(src string) string {
	var ext string
	if m := dataURLPattern.FindStringSubmatch(src); m != nil {
		ext = m[1]
	} else {
		p := src
		if i := strings.IndexAny(p, "?#"); i >= 0 {
			p = p[:i]
		}
		ext = strings.TrimPrefix(path.Ext(p), ".")
	}
	format := export.NormalizeFormat(ext)
	if !export.Encodable(format) {
		return export.DefaultFormat
	}
	return format
}
