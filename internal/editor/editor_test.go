package editor

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/example/maskedit/internal/loader"
)

// fakeEngine records calls and keeps objects in order.
type fakeEngine struct {
	objects  []Object
	onAdded  []func(Object)
	bg       image.Image
	displayW float64
	displayH float64
	renders  int
	exported string
}

func (f *fakeEngine) Add(obj Object) {
	f.objects = append(f.objects, obj)
	for _, fn := range f.onAdded {
		fn(obj)
	}
}

func (f *fakeEngine) Remove(objs ...Object) {
	for _, o := range objs {
		for i, cur := range f.objects {
			if cur == o {
				f.objects = append(f.objects[:i], f.objects[i+1:]...)
				break
			}
		}
	}
}

func (f *fakeEngine) Objects() []Object {
	return append([]Object(nil), f.objects...)
}

func (f *fakeEngine) Render() { f.renders++ }
func (f *fakeEngine) SetBackground(img image.Image) { f.bg = img }
func (f *fakeEngine) SetDisplaySize(w, h float64) { f.displayW, f.displayH = w, h }
func (f *fakeEngine) OnAdded(fn func(Object)) { f.onAdded = append(f.onAdded, fn) }
func (f *fakeEngine) Export(format string) ([]byte, error) {
	f.exported = format
	return []byte("encoded-" + format), nil
}

type fakeLoader struct {
	w, h int
	err  error
	urls []string
}

func (l *fakeLoader) Load(_ context.Context, url string) (*loader.Image, error) {
	l.urls = append(l.urls, url)
	if l.err != nil {
		return nil, &loader.LoadError{URL: url, Err: l.err}
	}
	img := image.NewRGBA(image.Rect(0, 0, l.w, l.h))
	return &loader.Image{Width: l.w, Height: l.h, Pixels: img, Format: "png", Source: url}, nil
}

func newTestEditor(t *testing.T) (*Editor, *fakeEngine) {
	t.Helper()
	eng := &fakeEngine{}
	ed := New(Options{
		Engine:    eng,
		Container: FixedContainer{Width: 400, Height: 1000},
		Loader:    &fakeLoader{w: 800, h: 600},
	})
	if err := ed.DrawImage(context.Background(), "https://example.com/a/photo.jpg?x=1"); err != nil {
		t.Fatalf("DrawImage: %v", err)
	}
	return ed, eng
}

// draw performs one complete stroke and returns the created object.
func draw(ed *Editor, eng *fakeEngine, x, y float64) Object {
	ed.PointerDown(x, y)
	ed.PointerMove(x+5, y+5)
	ed.PointerUp()
	return eng.objects[len(eng.objects)-1]
}

func TestUndoCountsDriveQueries(t *testing.T) {
	for n := 0; n <= 4; n++ {
		for k := 0; k <= n; k++ {
			ed, eng := newTestEditor(t)
			for i := 0; i < n; i++ {
				draw(ed, eng, float64(i), 0)
			}
			for i := 0; i < k; i++ {
				if !ed.UndoOneEdit() {
					t.Fatalf("n=%d k=%d: undo %d returned false", n, k, i)
				}
			}
			if got := ed.HasDrawingObject(); got != (n-k > 0) {
				t.Errorf("n=%d k=%d: HasDrawingObject = %v", n, k, got)
			}
			if got := ed.HasEditHistoryStack(); got != (k > 0) {
				t.Errorf("n=%d k=%d: HasEditHistoryStack = %v", n, k, got)
			}
		}
	}
}

func TestRedoRestoresIdentityInStackOrder(t *testing.T) {
	ed, eng := newTestEditor(t)
	a := draw(ed, eng, 1, 1)
	b := draw(ed, eng, 2, 2)

	ed.UndoOneEdit()
	ed.UndoOneEdit()
	if len(eng.objects) != 0 {
		t.Fatalf("visible = %d, want 0", len(eng.objects))
	}
	if !ed.IsUndo() {
		t.Fatal("IsUndo should be set after undo")
	}

	if !ed.RedoOneEdit() {
		t.Fatal("first redo returned false")
	}
	if eng.objects[0] != a {
		t.Fatal("first redo did not restore A")
	}
	if ed.IsUndo() {
		t.Fatal("redo should clear IsUndo")
	}
	if !ed.RedoOneEdit() {
		t.Fatal("second redo returned false")
	}
	if len(eng.objects) != 2 || eng.objects[0] != a || eng.objects[1] != b {
		t.Fatalf("visible = %v, want [A B]", eng.objects)
	}
	if ed.HasEditHistoryStack() {
		t.Fatal("redo buffer should be empty")
	}
}

func TestRedoKeepsRemainingBuffer(t *testing.T) {
	ed, eng := newTestEditor(t)
	draw(ed, eng, 1, 1)
	draw(ed, eng, 2, 2)
	ed.UndoOneEdit()
	ed.UndoOneEdit()
	ed.RedoOneEdit()
	if !ed.HasEditHistoryStack() {
		t.Fatal("redo must not clear the rest of the buffer")
	}
}

func TestUndoDuringDragEndsStroke(t *testing.T) {
	ed, eng := newTestEditor(t)
	ed.PointerDown(10, 10)
	line := eng.objects[0].(*Line)

	if !ed.UndoOneEdit() {
		t.Fatal("undo of in-progress stroke returned false")
	}
	if ed.Drawing() {
		t.Fatal("still drawing after undo removed the stroke")
	}
	ed.PointerMove(300, 300)
	ed.PointerUp()
	if line.X2 != 10 || line.Y2 != 10 {
		t.Fatalf("undone line reshaped to (%v,%v)", line.X2, line.Y2)
	}

	if !ed.RedoOneEdit() {
		t.Fatal("redo returned false")
	}
	got := eng.objects[0].(*Line)
	if got != line || got.X2 != 10 || got.Y2 != 10 {
		t.Fatalf("redo restored %+v, want the untouched line", got)
	}
}

func TestUndoDragLeavesEarlierStrokes(t *testing.T) {
	ed, eng := newTestEditor(t)
	first := draw(ed, eng, 0, 0)
	ed.PointerDown(50, 50)
	ed.PointerUp()
	ed.PointerDown(70, 70)
	// The drag in progress is the newest object, so only it is undone.
	ed.UndoOneEdit()
	if ed.Drawing() {
		t.Fatal("drag survived undo of its own line")
	}
	if len(eng.objects) != 2 || eng.objects[0] != first {
		t.Fatalf("unexpected objects after undo: %v", eng.objects)
	}
}

func TestUndoAllEditsDuringDrag(t *testing.T) {
	ed, eng := newTestEditor(t)
	ed.PointerDown(10, 10)
	ed.UndoAllEdits()
	if ed.Drawing() {
		t.Fatal("still drawing after reset")
	}
	ed.PointerMove(40, 40)
	if len(eng.objects) != 0 {
		t.Fatalf("objects after reset and move: %v", eng.objects)
	}
}

func TestNewStrokeClearsRedo(t *testing.T) {
	ed, eng := newTestEditor(t)
	draw(ed, eng, 1, 1)
	draw(ed, eng, 2, 2)
	ed.UndoOneEdit()
	draw(ed, eng, 3, 3)
	if ed.RedoOneEdit() {
		t.Fatal("redo after a new stroke should return false")
	}
}

func TestUndoAllEditsIdempotent(t *testing.T) {
	ed, eng := newTestEditor(t)
	draw(ed, eng, 1, 1)
	draw(ed, eng, 2, 2)
	ed.UndoOneEdit()
	for i := 0; i < 2; i++ {
		ed.UndoAllEdits()
		if ed.HasDrawingObject() || ed.HasEditHistoryStack() {
			t.Fatalf("call %d: visible=%v redo=%v", i, ed.HasDrawingObject(), ed.HasEditHistoryStack())
		}
	}
}

func TestNoOpUndoRedo(t *testing.T) {
	ed, eng := newTestEditor(t)
	if ed.UndoOneEdit() {
		t.Fatal("undo on empty canvas returned true")
	}
	if ed.HasEditHistoryStack() {
		t.Fatal("undo on empty canvas changed the redo buffer")
	}

	draw(ed, eng, 1, 1)
	if ed.RedoOneEdit() {
		t.Fatal("redo with empty buffer returned true")
	}
	if len(eng.objects) != 1 {
		t.Fatalf("visible = %d, want 1", len(eng.objects))
	}
}

func TestStrokeWidthUsesScale(t *testing.T) {
	ed, eng := newTestEditor(t)
	if ed.LineScale() != 2 {
		t.Fatalf("LineScale = %v, want 2", ed.LineScale())
	}
	ed.Thickness().Set(7)
	ed.SetColor(color.RGBA{255, 0, 0, 255})
	ed.PointerDown(10, 20)
	l := eng.objects[0].(*Line)
	if l.Width != 14 {
		t.Fatalf("width = %v, want 14", l.Width)
	}
	if l.X1 != 10 || l.X2 != 10 || l.Y1 != 20 || l.Y2 != 20 {
		t.Fatalf("new stroke should have zero length: %+v", l)
	}
	ed.PointerMove(30, 40)
	if l.X2 != 30 || l.Y2 != 40 || l.X1 != 10 {
		t.Fatalf("move should drag the end point: %+v", l)
	}
	ed.PointerUp()
	ed.PointerMove(99, 99)
	if l.X2 != 30 {
		t.Fatal("move after release changed the stroke")
	}
	if l.Color != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("color = %v", l.Color)
	}
}

func TestDrawImageSetsGeometryAndClearsState(t *testing.T) {
	ed, eng := newTestEditor(t)
	if eng.displayW != 400 || eng.displayH != 300 {
		t.Fatalf("display size = %vx%v", eng.displayW, eng.displayH)
	}
	if ed.MIME() != "jpeg" {
		t.Fatalf("MIME = %q", ed.MIME())
	}
	draw(ed, eng, 1, 1)
	draw(ed, eng, 2, 2)
	ed.UndoOneEdit()

	loaded := 0
	ed.On(EventLoaded, func() { loaded++ })
	if err := ed.DrawImage(context.Background(), "other.png"); err != nil {
		t.Fatalf("DrawImage: %v", err)
	}
	if loaded != 1 {
		t.Fatalf("EventLoaded fired %d times", loaded)
	}
	if ed.HasDrawingObject() || ed.HasEditHistoryStack() {
		t.Fatal("load should clear strokes and redo")
	}
	if ed.MIME() != "png" || ed.Source() != "other.png" {
		t.Fatalf("MIME/Source = %q/%q", ed.MIME(), ed.Source())
	}
}

func TestDrawImageFailureLeavesState(t *testing.T) {
	ed, eng := newTestEditor(t)
	draw(ed, eng, 1, 1)
	before := ed.Geometry()

	ed.loader = &fakeLoader{err: errors.New("404")}
	err := ed.DrawImage(context.Background(), "https://example.com/missing.gif")
	var lerr *loader.LoadError
	if !errors.As(err, &lerr) || lerr.URL != "https://example.com/missing.gif" {
		t.Fatalf("expected LoadError naming the URL, got %v", err)
	}
	if ed.Geometry() != before || ed.MIME() != "jpeg" || !ed.HasDrawingObject() {
		t.Fatal("failed load changed editor state")
	}
}

func TestEventsAdded(t *testing.T) {
	ed, eng := newTestEditor(t)
	added := 0
	ed.On(EventAdded, func() { added++ })
	ed.On(EventAdded, nil)
	draw(ed, eng, 1, 1)
	ed.UndoOneEdit()
	ed.RedoOneEdit()
	if added != 2 {
		t.Fatalf("EventAdded fired %d times, want 2", added)
	}
}

func TestSaveImage(t *testing.T) {
	eng := &fakeEngine{}
	ed := New(Options{Engine: eng, Loader: &fakeLoader{w: 10, h: 10}})
	sink := &recordingSink{}
	if _, err := ed.SaveImage(context.Background(), sink); !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
	if err := ed.DrawImage(context.Background(), "/tmp/scan.TIF"); err != nil {
		t.Fatal(err)
	}
	loc, err := ed.SaveImage(context.Background(), sink)
	if err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	if eng.exported != "tiff" || sink.name != "scan.TIF" || sink.contentType != "image/tiff" {
		t.Fatalf("exported %q as %q (%s)", eng.exported, sink.name, sink.contentType)
	}
	if loc != "mem://scan.TIF" {
		t.Fatalf("location = %q", loc)
	}
}

type recordingSink struct {
	name, contentType string
	data              []byte
}

func (s *recordingSink) Save(_ context.Context, name, contentType string, data []byte) (string, error) {
	s.name, s.contentType, s.data = name, contentType, data
	return "mem://" + name, nil
}

func TestRefit(t *testing.T) {
	eng := &fakeEngine{}
	c := &resizable{w: 400, h: 1000}
	ed := New(Options{Engine: eng, Container: c, Loader: &fakeLoader{w: 800, h: 600}})
	ed.Refit() // no image yet
	if err := ed.DrawImage(context.Background(), "a.png"); err != nil {
		t.Fatal(err)
	}
	c.w, c.h = 1600, 1200
	ed.Refit()
	if g := ed.Geometry(); g.DisplayWidth != 800 || g.ScaleFactor != 1 {
		t.Fatalf("after refit %+v", g)
	}
	if eng.displayW != 800 || ed.LineScale() != 1 {
		t.Fatalf("engine display %v, scale %v", eng.displayW, ed.LineScale())
	}
}

type resizable struct{ w, h float64 }

func (r *resizable) Size() (float64, float64) { return r.w, r.h }

func TestNewRequiresEngine(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(Options{})
}
