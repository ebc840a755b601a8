// Package canvas is a raster implementation of editor.Engine. Objects are kept
// in insertion order and rasterised over the background at native resolution.
package canvas

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"

	"github.com/example/maskedit/internal/editor"
	"github.com/example/maskedit/internal/export"
)

var _ editor.Engine = (*Canvas)(nil)

// Canvas holds the background image, the visible objects and the last frame.
// It is not safe for concurrent use.
type Canvas struct {
	background image.Image
	width      int
	height     int

	displayW float64
	displayH float64

	objects []editor.Object
	onAdded []func(editor.Object)

	frame       *image.RGBA
	jpegQuality int
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithJPEGQuality sets the quality used when exporting jpeg. Values outside
// 1..100 keep the default.
func WithJPEGQuality(q int) Option {
	return func(c *Canvas) {
		if q >= 1 && q <= 100 {
			c.jpegQuality = q
		}
	}
}

// New creates an empty canvas with a width x height backing store.
func New(width, height int, opts ...Option) *Canvas {
	c := &Canvas{
		width:       width,
		height:      height,
		displayW:    float64(width),
		displayH:    float64(height),
		jpegQuality: DefaultJPEGQuality,
	}
	for _, o := range opts {
		o(c)
	}
	c.frame = image.NewRGBA(image.Rect(0, 0, width, height))
	return c
}

// Add appends obj and notifies the OnAdded callbacks.
func (c *Canvas) Add(obj editor.Object) {
	c.objects = append(c.objects, obj)
	for _, fn := range c.onAdded {
		fn(obj)
	}
}

// Remove drops each given object, matched by identity. Unknown objects are
// ignored.
func (c *Canvas) Remove(objs ...editor.Object) {
	if len(objs) == 0 || len(c.objects) == 0 {
		return
	}
	drop := make(map[editor.Object]struct{}, len(objs))
	for _, o := range objs {
		drop[o] = struct{}{}
	}
	kept := c.objects[:0]
	for _, o := range c.objects {
		if _, ok := drop[o]; !ok {
			kept = append(kept, o)
		}
	}
	clear(c.objects[len(kept):])
	c.objects = kept
}

// Objects returns a copy of the visible objects in drawing order.
func (c *Canvas) Objects() []editor.Object {
	out := make([]editor.Object, len(c.objects))
	copy(out, c.objects)
	return out
}

// OnAdded registers a callback for Add.
func (c *Canvas) OnAdded(fn func(editor.Object)) {
	c.onAdded = append(c.onAdded, fn)
}

// SetBackground replaces the background and resizes the backing store to
// the image bounds.
func (c *Canvas) SetBackground(img image.Image) {
	c.background = img
	if img == nil {
		return
	}
	b := img.Bounds()
	if b.Dx() != c.width || b.Dy() != c.height {
		c.width, c.height = b.Dx(), b.Dy()
		c.frame = image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	}
}

// SetDisplaySize records the on-screen size of the canvas.
func (c *Canvas) SetDisplaySize(w, h float64) {
	c.displayW, c.displayH = w, h
}

// DisplaySize returns the on-screen size set by SetDisplaySize.
func (c *Canvas) DisplaySize() (float64, float64) { return c.displayW, c.displayH }

// Size returns the backing-store dimensions.
func (c *Canvas) Size() (int, int) { return c.width, c.height }

// Frame returns the image produced by the last Render.
func (c *Canvas) Frame() *image.RGBA { return c.frame }

// Render redraws the background and every object into the frame.
func (c *Canvas) Render() {
	draw.Draw(c.frame, c.frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
	if c.background != nil {
		draw.Draw(c.frame, c.frame.Bounds(), c.background, c.background.Bounds().Min, draw.Src)
	}
	if len(c.objects) == 0 {
		return
	}
	dc := gg.NewContextForRGBA(c.frame)
	for _, o := range c.objects {
		switch obj := o.(type) {
		case *editor.Line:
			strokeLine(dc, obj)
		}
	}
}

func strokeLine(dc *gg.Context, l *editor.Line) {
	if l.Width <= 0 {
		return
	}
	dc.SetColor(l.Color)
	if l.X1 == l.X2 && l.Y1 == l.Y2 {
		// A click without a drag leaves a dot the size of the cap.
		dc.DrawCircle(l.X1, l.Y1, l.Width/2)
		dc.Fill()
		return
	}
	dc.SetLineWidth(l.Width)
	dc.SetLineCapRound()
	dc.DrawLine(l.X1, l.Y1, l.X2, l.Y2)
	dc.Stroke()
}

// Export renders the canvas and encodes it as format.
func (c *Canvas) Export(format string) ([]byte, error) {
	c.Render()
	var buf bytes.Buffer
	if err := Encode(&buf, c.frame, format, c.jpegQuality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURL renders the canvas and returns it as a base64 data URL.
func (c *Canvas) DataURL(format string) (string, error) {
	data, err := c.Export(format)
	if err != nil {
		return "", err
	}
	format = export.NormalizeFormat(format)
	return fmt.Sprintf("data:image/%s;base64,%s", format, base64.StdEncoding.EncodeToString(data)), nil
}

// flatten composites img over white; used for formats without alpha.
func flatten(img image.Image) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Over)
	return out
}
