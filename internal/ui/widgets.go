package ui

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/maskedit/internal/theme"
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	StateDisabled
)

// Shortcut is a labelled button in the bottom bar.
type Shortcut struct {
	Label   string
	Action  string
	Enabled func() bool
	rect    image.Rectangle
}

func (s *Shortcut) enabled() bool { return s.Enabled == nil || s.Enabled() }

func (s *Shortcut) draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	bg := th.ButtonBackground
	text := th.ButtonText
	switch state {
	case StateHover:
		bg = th.ButtonBackgroundHover
	case StatePressed:
		bg = th.ButtonBackgroundPress
	case StateDisabled:
		text = th.ButtonTextDisabled
	}
	draw.Draw(dst, s.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	drawRect(dst, s.rect, th.ButtonBorder)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(text), Face: basicfont.Face7x13,
		Dot: fixed.P(s.rect.Min.X+2, s.rect.Min.Y+14)}
	d.DrawString(s.Label)
}

// layoutShortcuts positions the buttons left to right along the bar.
func layoutShortcuts(shortcuts []*Shortcut, winH int) {
	meas := &font.Drawer{Face: basicfont.Face7x13}
	x := margin
	y := winH - barHeight + 16
	for _, sc := range shortcuts {
		w := meas.MeasureString(sc.Label).Ceil()
		sc.rect = image.Rect(x-2, y-14, x+w+2, y+4)
		x = sc.rect.Max.X + 8
	}
}

// shortcutAt returns the index of the button under p, or -1.
func shortcutAt(shortcuts []*Shortcut, p image.Point) int {
	for i, sc := range shortcuts {
		if p.In(sc.rect) {
			return i
		}
	}
	return -1
}

func drawBar(dst *image.RGBA, th *theme.Theme, shortcuts []*Shortcut, hover, pressed int, status string) {
	b := dst.Bounds()
	rect := image.Rect(0, b.Dy()-barHeight, b.Dx(), b.Dy())
	draw.Draw(dst, rect, &image.Uniform{th.BarBackground}, image.Point{}, draw.Src)
	layoutShortcuts(shortcuts, b.Dy())
	right := margin
	for i, sc := range shortcuts {
		state := StateDefault
		switch {
		case !sc.enabled():
			state = StateDisabled
		case i == pressed:
			state = StatePressed
		case i == hover:
			state = StateHover
		}
		sc.draw(dst, th, state)
		right = sc.rect.Max.X + 8
	}
	if status == "" {
		return
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13}
	w := d.MeasureString(status).Ceil()
	x := max(b.Dx()-w-margin, right)
	d.Dot = fixed.P(x, b.Dy()-barHeight+16)
	d.DrawString(status)
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

func drawRect(dst *image.RGBA, r image.Rectangle, col color.Color) {
	u := &image.Uniform{col}
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

// drawCursor outlines the stroke footprint around the pointer. diameter is
// in window pixels.
func drawCursor(dst *image.RGBA, p image.Point, diameter int, col color.Color) {
	dc := gg.NewContextForRGBA(dst)
	dc.SetColor(col)
	dc.SetLineWidth(1)
	dc.DrawCircle(float64(p.X), float64(p.Y), float64(max(diameter, 2))/2)
	dc.Stroke()
}

// drawMessage shows a transient notice centred over the canvas.
func drawMessage(dst *image.RGBA, th *theme.Theme, msg string) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ButtonText), Face: face}
	w := d.MeasureString(msg).Ceil()
	b := dst.Bounds()
	px := (b.Dx() - w) / 2
	py := (b.Dy() - barHeight) / 2
	rect := image.Rect(px-8, py-16, px+w+8, py+8)
	draw.Draw(dst, rect, &image.Uniform{th.ButtonBackground}, image.Point{}, draw.Src)
	drawRect(dst, rect, th.ButtonBorder)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}
