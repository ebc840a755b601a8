package ui

import (
	"image"
	"math"

	"github.com/example/maskedit/internal/editor"
)

const (
	barHeight = 24
	margin    = 8
)

// area is the editor.Container for the window: the space above the shortcut
// bar minus a margin on each side.
type area struct {
	width, height int
}

var _ editor.Container = (*area)(nil)

func (a *area) resize(winW, winH int) {
	a.width, a.height = winW, winH
}

// Size implements editor.Container. It never reports less than one pixel so
// the fit stays finite in tiny windows.
func (a *area) Size() (float64, float64) {
	w := a.width - 2*margin
	h := a.height - barHeight - 2*margin
	return float64(max(w, 1)), float64(max(h, 1))
}

// canvasRect centres the display geometry in the area above the bar.
func canvasRect(g editor.Geometry, winW, winH int) image.Rectangle {
	w := int(math.Round(g.DisplayWidth))
	h := int(math.Round(g.DisplayHeight))
	availH := winH - barHeight
	x0 := (winW - w) / 2
	y0 := (availH - h) / 2
	return image.Rect(x0, y0, x0+w, y0+h)
}

// windowSize is the window needed to show g without scaling.
func windowSize(g editor.Geometry) (int, int) {
	w := int(math.Ceil(g.DisplayWidth)) + 2*margin
	h := int(math.Ceil(g.DisplayHeight)) + barHeight + 2*margin
	return w, h
}

// toNative maps a window point to backing-store coordinates.
func toNative(g editor.Geometry, r image.Rectangle, x, y float32) (float64, float64) {
	return g.ToNative(float64(x)-float64(r.Min.X), float64(y)-float64(r.Min.Y))
}
