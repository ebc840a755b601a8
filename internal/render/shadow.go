// Package render draws decorations around the editor canvas.
package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the drop shadow cast by the canvas.
type ShadowOptions struct {
	Radius int
	Offset image.Point
	Color  color.RGBA
}

// DefaultShadowOptions returns a small soft shadow in c.
func DefaultShadowOptions(c color.RGBA) ShadowOptions {
	return ShadowOptions{
		Radius: 6,
		Offset: image.Pt(3, 3),
		Color:  c,
	}
}

// Shadow paints blurred rectangle shadows. The mask for the last size drawn
// is cached, so repeated paints at a stable window size only composite.
type Shadow struct {
	opts ShadowOptions
	size image.Point
	mask *image.Alpha
}

// NewShadow creates a Shadow using opts.
func NewShadow(opts ShadowOptions) *Shadow {
	if opts.Radius < 0 {
		opts.Radius = 0
	}
	return &Shadow{opts: opts}
}

// Draw composites the shadow cast by r onto dst. Empty rectangles and a
// transparent colour draw nothing.
func (s *Shadow) Draw(dst draw.Image, r image.Rectangle) {
	if r.Empty() || s.opts.Color.A == 0 {
		return
	}
	m := s.maskFor(r.Size())
	at := r.Min.Add(s.opts.Offset).Sub(image.Pt(s.opts.Radius, s.opts.Radius))
	draw.DrawMask(dst, m.Bounds().Add(at), image.NewUniform(s.opts.Color), image.Point{}, m, image.Point{}, draw.Over)
}

// Bounds reports the area Draw touches for r.
func (s *Shadow) Bounds(r image.Rectangle) image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	return r.Add(s.opts.Offset).Inset(-s.opts.Radius)
}

func (s *Shadow) maskFor(size image.Point) *image.Alpha {
	if s.mask != nil && s.size == size {
		return s.mask
	}
	pad := s.opts.Radius
	m := image.NewAlpha(image.Rect(0, 0, size.X+2*pad, size.Y+2*pad))
	draw.Draw(m, image.Rect(pad, pad, pad+size.X, pad+size.Y), image.Opaque, image.Point{}, draw.Src)
	boxBlur(m.Pix, m.Stride, m.Rect.Dx(), m.Rect.Dy(), pad)
	s.size, s.mask = size, m
	return m
}

// boxBlur blurs a w x h plane of 8-bit samples in place, one row pass and one
// column pass.
func boxBlur(pix []uint8, stride, w, h, radius int) {
	if radius <= 0 {
		return
	}
	n := max(w, h)
	prefix := make([]int, n+1)
	out := make([]uint8, n)
	for y := 0; y < h; y++ {
		blurLine(pix, y*stride, 1, w, radius, prefix, out)
	}
	for x := 0; x < w; x++ {
		blurLine(pix, x, stride, h, radius, prefix, out)
	}
}

func blurLine(pix []uint8, start, step, n, radius int, prefix []int, out []uint8) {
	for i := 0; i < n; i++ {
		prefix[i+1] = prefix[i] + int(pix[start+i*step])
	}
	for i := 0; i < n; i++ {
		lo := max(i-radius, 0)
		hi := min(i+radius, n-1)
		out[i] = uint8((prefix[hi+1] - prefix[lo]) / (hi - lo + 1))
	}
	for i := 0; i < n; i++ {
		pix[start+i*step] = out[i]
	}
}
