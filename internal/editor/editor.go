// Package editor implements the masking editor core: the stroke edit history,
// the image fit calculation and the pointer driven stroke state machine. It
// drives an external canvas Engine and never inspects the objects it holds.
package editor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/sirupsen/logrus"

	"github.com/example/maskedit/internal/export"
	"github.com/example/maskedit/internal/loader"
)

// ErrNoImage is returned by SaveImage before any image has been drawn.
var ErrNoImage = errors.New("no image loaded")

// Object is a drawable held by an Engine. Implementations must be comparable,
// pointer types are expected.
type Object interface{}

// Line is the object created by a single stroke.
type Line struct {
	X1, Y1 float64
	X2, Y2 float64
	Width  float64
	Color  color.RGBA
}

// Engine is the canvas the editor draws on.
type Engine interface {
	// Add appends obj and fires the OnAdded callbacks synchronously.
	Add(obj Object)
	Remove(objs ...Object)
	Objects() []Object
	Render()
	// SetBackground replaces the background and resizes the backing store to
	// the image's native size.
	SetBackground(img image.Image)
	SetDisplaySize(width, height float64)
	Export(format string) ([]byte, error)
	OnAdded(fn func(Object))
}

// Container reports the space available for displaying the canvas.
type Container interface {
	Size() (width, height float64)
}

// FixedContainer is a Container of constant size.
type FixedContainer struct {
	Width, Height float64
}

// Size implements Container.
func (c FixedContainer) Size() (float64, float64) { return c.Width, c.Height }

// ImageLoader fetches and decodes an image.
type ImageLoader interface {
	Load(ctx context.Context, url string) (*loader.Image, error)
}

// Options configures an Editor.
type Options struct {
	Engine    Engine
	Container Container
	Thickness *Thickness
	Loader    ImageLoader
	// Color is the stroke colour. The zero value draws opaque black.
	Color color.RGBA
}

// Editor coordinates an Engine with the edit history and fit geometry.
// It is not safe for concurrent use.
type Editor struct {
	engine    Engine
	container Container
	thickness *Thickness
	loader    ImageLoader
	color     color.RGBA

	isUndo bool
	isRedo bool
	// redo holds objects removed by undo, most recent last.
	redo []Object

	geometry  Geometry
	lineScale float64
	source    string
	mime      string
	loaded    bool

	stroke    strokeState
	listeners map[EventKind][]func()
}

// New creates an Editor and subscribes it to the engine's additions.
func New(opts Options) *Editor {
	if opts.Engine == nil {
		panic("editor: Options.Engine is required")
	}
	e := &Editor{
		engine:    opts.Engine,
		container: opts.Container,
		thickness: opts.Thickness,
		loader:    opts.Loader,
		color:     opts.Color,
		lineScale: 1,
		listeners: make(map[EventKind][]func()),
	}
	if e.container == nil {
		e.container = FixedContainer{Width: 1024, Height: 768}
	}
	if e.thickness == nil {
		e.thickness = NewThickness(DefaultThickness, DefaultMinThickness, DefaultMaxThickness)
	}
	if e.loader == nil {
		e.loader = loader.New()
	}
	if e.color == (color.RGBA{}) {
		e.color = color.RGBA{A: 255}
	}
	e.engine.OnAdded(func(Object) { e.RecordAddition() })
	return e
}

// DrawImage loads url and makes it the canvas background at native
// resolution, sized for display inside the container. Existing strokes and
// redo history are discarded. A failed load leaves the editor untouched and
// returns a *loader.LoadError.
func (e *Editor) DrawImage(ctx context.Context, url string) error {
	mime := SniffMIME(url)
	img, err := e.loader.Load(ctx, url)
	if err != nil {
		return err
	}

	e.engine.Remove(e.engine.Objects()...)
	e.clearHistory()
	e.stroke = strokeState{}

	e.engine.SetBackground(img.Pixels)
	e.source = url
	e.mime = mime
	e.loaded = true
	e.fit(float64(img.Width), float64(img.Height))
	e.engine.Render()

	logrus.WithFields(logrus.Fields{
		"source": img.Source,
		"format": img.Format,
		"native": fmt.Sprintf("%dx%d", img.Width, img.Height),
		"scale":  e.geometry.ScaleFactor,
	}).Debug("image drawn")
	e.emit(EventLoaded)
	return nil
}

// Refit recomputes the display geometry of the current image against the
// container's current size. Existing strokes keep their widths.
func (e *Editor) Refit() {
	if !e.loaded {
		return
	}
	e.fit(e.geometry.NativeWidth, e.geometry.NativeHeight)
	e.engine.Render()
}

func (e *Editor) fit(nativeW, nativeH float64) {
	cw, ch := e.container.Size()
	e.geometry = ComputeDisplayGeometry(nativeW, nativeH, cw, ch)
	e.engine.SetDisplaySize(e.geometry.DisplayWidth, e.geometry.DisplayHeight)
	e.lineScale = e.geometry.ScaleFactor
}

// SaveImage encodes the canvas in the source image's format and hands it to
// sink under a name derived from the source. It returns the written location.
func (e *Editor) SaveImage(ctx context.Context, sink export.Sink) (string, error) {
	if !e.loaded {
		return "", ErrNoImage
	}
	data, err := e.engine.Export(e.mime)
	if err != nil {
		return "", fmt.Errorf("export %s: %w", e.mime, err)
	}
	name := export.FileName(e.source, e.mime)
	return sink.Save(ctx, name, "image/"+e.mime, data)
}

// Geometry returns the display geometry computed by the last load or refit.
func (e *Editor) Geometry() Geometry { return e.geometry }

// MIME returns the image subtype sniffed from the loaded source, e.g. "png".
func (e *Editor) MIME() string { return e.mime }

// Source returns the URL of the loaded image.
func (e *Editor) Source() string { return e.source }

// Thickness returns the line thickness input.
func (e *Editor) Thickness() *Thickness { return e.thickness }

// Color returns the stroke colour.
func (e *Editor) Color() color.RGBA { return e.color }

// SetColor changes the colour used by subsequent strokes.
func (e *Editor) SetColor(c color.RGBA) { e.color = c }

// LineScale returns the factor applied to the thickness of new strokes.
func (e *Editor) LineScale() float64 { return e.lineScale }
