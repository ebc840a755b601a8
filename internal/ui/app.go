// Package ui is the interactive editor window: the canvas drawn at its
// display size over a checkerboard, a thickness ring that follows the
// pointer, and a shortcut bar along the bottom.
package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/maskedit/internal/canvas"
	"github.com/example/maskedit/internal/clipboard"
	"github.com/example/maskedit/internal/editor"
	"github.com/example/maskedit/internal/export"
	"github.com/example/maskedit/internal/notify"
	"github.com/example/maskedit/internal/render"
	"github.com/example/maskedit/internal/theme"
)

// Actions bound to keys and bar buttons.
const (
	ActionUndo  = "undo"
	ActionRedo  = "redo"
	ActionReset = "reset"
	ActionSave  = "save"
	ActionCopy  = "copy"
	ActionQuit  = "quit"
)

const messageDuration = 2 * time.Second

// Options configures an App.
type Options struct {
	Canvas    *canvas.Canvas
	Loader    editor.ImageLoader
	Thickness *editor.Thickness
	Color     color.RGBA
	Theme     *theme.Theme
	// Sink receives Ctrl+S exports.
	Sink     export.Sink
	Notifier *notify.Notifier
	// Width and Height bound the initial window.
	Width, Height int
}

// App owns the editor shown in the window. All editor calls happen on the
// window's event goroutine.
type App struct {
	editor   *editor.Editor
	canvas   *canvas.Canvas
	area     *area
	theme    *theme.Theme
	shadow   *render.Shadow
	sink     export.Sink
	notifier *notify.Notifier

	shortcuts []*Shortcut
	keys      map[keyBinding]string

	cursor       image.Point
	hover        int
	pressed      int
	dirty        bool
	message      string
	messageUntil time.Time
}

type keyBinding struct {
	Rune      rune
	Modifiers key.Modifiers
}

// New creates an App with its editor. Call Load before Run.
func New(opts Options) *App {
	if opts.Canvas == nil {
		opts.Canvas = canvas.New(1, 1)
	}
	if opts.Theme == nil {
		opts.Theme = theme.Default()
	}
	if opts.Sink == nil {
		opts.Sink = &export.DirSink{Dir: "."}
	}
	a := &App{
		canvas:   opts.Canvas,
		area:     &area{width: opts.Width, height: opts.Height},
		theme:    opts.Theme,
		shadow:   render.NewShadow(render.DefaultShadowOptions(opts.Theme.Shadow)),
		sink:     opts.Sink,
		notifier: opts.Notifier,
		hover:    -1,
		pressed:  -1,
	}
	a.editor = editor.New(editor.Options{
		Engine:    opts.Canvas,
		Container: a.area,
		Thickness: opts.Thickness,
		Loader:    opts.Loader,
		Color:     opts.Color,
	})
	a.editor.On(editor.EventAdded, func() { a.dirty = true })
	a.editor.On(editor.EventLoaded, func() { a.dirty = false })

	hasObjects := a.editor.HasDrawingObject
	a.shortcuts = []*Shortcut{
		{Label: "^Z:undo", Action: ActionUndo, Enabled: hasObjects},
		{Label: "^Y:redo", Action: ActionRedo, Enabled: a.editor.HasEditHistoryStack},
		{Label: "^R:reset", Action: ActionReset, Enabled: hasObjects},
		{Label: "^S:save", Action: ActionSave},
		{Label: "^C:copy", Action: ActionCopy},
		{Label: "Q:quit", Action: ActionQuit},
	}
	a.keys = map[keyBinding]string{
		{'z', key.ModControl}:                ActionUndo,
		{'y', key.ModControl}:                ActionRedo,
		{'z', key.ModControl | key.ModShift}: ActionRedo,
		{'r', key.ModControl}:                ActionReset,
		{'s', key.ModControl}:                ActionSave,
		{'c', key.ModControl}:                ActionCopy,
		{'q', 0}:                             ActionQuit,
	}
	return a
}

// Editor returns the editor driven by the window.
func (a *App) Editor() *editor.Editor { return a.editor }

// Load draws url onto the canvas, fitted to the initial window bounds.
func (a *App) Load(ctx context.Context, url string) error {
	return a.editor.DrawImage(ctx, url)
}

// Run opens the window and blocks until it is closed.
func (a *App) Run() { driver.Main(a.Main) }

// Main runs the event loop on s.
func (a *App) Main(s screen.Screen) {
	width, height := windowSize(a.editor.Geometry())
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.title()})
	if err != nil {
		logrus.WithError(err).Error("new window")
		return
	}
	defer w.Release()
	a.area.resize(width, height)

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			a.area.resize(width, height)
			a.editor.Refit()
			w.Send(paint.Event{})
		case paint.Event:
			a.paint(s, w, width, height)
		case mouse.Event:
			if a.handleMouse(e, w, width, height) {
				return
			}
			w.Send(paint.Event{})
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if a.handleKey(e, w) {
				return
			}
			w.Send(paint.Event{})
		}
	}
}

func (a *App) title() string {
	if src := a.editor.Source(); src != "" {
		return "maskedit - " + export.FileName(src, a.editor.MIME())
	}
	return "maskedit"
}

// handleMouse reports true when the window should close.
func (a *App) handleMouse(e mouse.Event, w screen.Window, width, height int) bool {
	p := image.Point{int(e.X), int(e.Y)}
	a.cursor = p
	geom := a.editor.Geometry()
	rect := canvasRect(geom, width, height)

	switch e.Button {
	case mouse.ButtonWheelUp:
		a.editor.Thickness().Step(1)
		return false
	case mouse.ButtonWheelDown:
		a.editor.Thickness().Step(-1)
		return false
	}

	if p.Y >= height-barHeight && !a.editor.Drawing() {
		a.hover = shortcutAt(a.shortcuts, p)
		if e.Button != mouse.ButtonLeft {
			return false
		}
		switch e.Direction {
		case mouse.DirPress:
			a.pressed = a.hover
		case mouse.DirRelease:
			idx := a.pressed
			a.pressed = -1
			if idx >= 0 && idx == a.hover && a.shortcuts[idx].enabled() {
				return a.trigger(a.shortcuts[idx].Action, w)
			}
		}
		return false
	}
	a.hover = -1

	x, y := toNative(geom, rect, e.X, e.Y)
	switch {
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
		if p.In(rect) {
			a.editor.PointerDown(x, y)
		}
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		a.editor.PointerUp()
	case e.Direction == mouse.DirNone:
		a.editor.PointerMove(x, y)
	}
	return false
}

// handleKey reports true when the window should close.
func (a *App) handleKey(e key.Event, w screen.Window) bool {
	switch e.Rune {
	case '+', '=':
		a.editor.Thickness().Step(1)
		return false
	case '-':
		a.editor.Thickness().Step(-1)
		return false
	}
	mods := e.Modifiers & (key.ModControl | key.ModShift)
	action, ok := a.keys[keyBinding{unicode.ToLower(e.Rune), mods}]
	if !ok {
		return false
	}
	return a.trigger(action, w)
}

// trigger runs action and reports true for quit. w, when set, is used to
// schedule a repaint once a message expires.
func (a *App) trigger(action string, w screen.Window) bool {
	switch action {
	case ActionUndo:
		a.editor.UndoOneEdit()
	case ActionRedo:
		a.editor.RedoOneEdit()
	case ActionReset:
		a.editor.UndoAllEdits()
		a.dirty = false
	case ActionSave:
		loc, err := a.editor.SaveImage(context.Background(), a.sink)
		if err != nil {
			logrus.WithError(err).Error("save")
			a.flash(w, "save failed")
			return false
		}
		a.dirty = false
		a.notifier.Save(loc)
		a.flash(w, "saved "+loc)
	case ActionCopy:
		if err := clipboard.WriteImage(a.canvas.Frame()); err != nil {
			logrus.WithError(err).Error("copy")
			a.flash(w, "copy failed")
			return false
		}
		a.notifier.Copy(export.FileName(a.editor.Source(), a.editor.MIME()))
		a.flash(w, "image copied to clipboard")
	case ActionQuit:
		return true
	}
	return false
}

func (a *App) flash(w screen.Window, msg string) {
	logrus.Info(msg)
	a.message = msg
	a.messageUntil = time.Now().Add(messageDuration)
	if w != nil {
		time.AfterFunc(messageDuration, func() { w.Send(paint.Event{}) })
	}
}

func (a *App) status() string {
	s := fmt.Sprintf("%dpx", a.editor.Thickness().Value())
	if g := a.editor.Geometry(); g.ScaleFactor > 1 {
		s += fmt.Sprintf("  %.0f%%", 100/g.ScaleFactor)
	}
	// An empty canvas has nothing worth saving, however it got there.
	if a.dirty && a.editor.HasDrawingObject() {
		s += "  *"
	}
	return s
}

func (a *App) paint(s screen.Screen, w screen.Window, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Point{width, height})
	if err != nil {
		logrus.WithError(err).Error("new buffer")
		return
	}
	defer b.Release()
	dst := b.RGBA()
	a.render(dst)
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// render draws the whole window into dst.
func (a *App) render(dst *image.RGBA) {
	bounds := dst.Bounds()
	draw.Draw(dst, bounds, &image.Uniform{a.theme.Background}, image.Point{}, draw.Src)

	rect := canvasRect(a.editor.Geometry(), bounds.Dx(), bounds.Dy())
	if !rect.Empty() {
		a.shadow.Draw(dst, rect)
		drawCheckerboard(dst, rect, 8, a.theme.CheckerLight, a.theme.CheckerDark)
		frame := a.canvas.Frame()
		xdraw.ApproxBiLinear.Scale(dst, rect, frame, frame.Bounds(), draw.Over, nil)
	}

	if a.cursor.In(rect) {
		drawCursor(dst, a.cursor, a.editor.Thickness().Value(), a.theme.Cursor)
	}

	drawBar(dst, a.theme, a.shortcuts, a.hover, a.pressed, a.status())

	if a.message != "" && time.Now().Before(a.messageUntil) {
		drawMessage(dst, a.theme, a.message)
	}
}
