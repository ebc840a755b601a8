package canvas

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/example/maskedit/internal/editor"
)

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	return img
}

func TestAddRemoveByIdentity(t *testing.T) {
	c := New(10, 10)
	var added []editor.Object
	c.OnAdded(func(o editor.Object) { added = append(added, o) })

	a := &editor.Line{X2: 1}
	b := &editor.Line{X2: 1}
	c.Add(a)
	c.Add(b)
	if len(added) != 2 || added[0] != a || added[1] != b {
		t.Fatalf("OnAdded saw %v", added)
	}

	c.Remove(a)
	objs := c.Objects()
	if len(objs) != 1 || objs[0] != b {
		t.Fatalf("after remove: %v", objs)
	}
	c.Remove(&editor.Line{X2: 1}) // equal value, different identity
	if len(c.Objects()) != 1 {
		t.Fatal("remove matched by value")
	}

	objs[0] = nil
	if c.Objects()[0] != b {
		t.Fatal("Objects must return a copy")
	}
}

func TestSetBackgroundResizes(t *testing.T) {
	c := New(1, 1)
	c.SetBackground(whiteImage(30, 20))
	if w, h := c.Size(); w != 30 || h != 20 {
		t.Fatalf("size = %dx%d", w, h)
	}
	if b := c.Frame().Bounds(); b.Dx() != 30 || b.Dy() != 20 {
		t.Fatalf("frame = %v", b)
	}
	c.SetDisplaySize(15, 10)
	if w, h := c.DisplaySize(); w != 15 || h != 10 {
		t.Fatalf("display = %vx%v", w, h)
	}
}

func TestRenderStrokes(t *testing.T) {
	c := New(1, 1)
	c.SetBackground(whiteImage(40, 40))
	c.Add(&editor.Line{X1: 0, Y1: 20, X2: 40, Y2: 20, Width: 6, Color: color.RGBA{0, 0, 255, 255}})
	c.Add(&editor.Line{X1: 5, Y1: 5, X2: 5, Y2: 5, Width: 0, Color: color.RGBA{255, 0, 0, 255}})
	c.Render()
	f := c.Frame()
	if got := f.RGBAAt(20, 20); got.B < 250 || got.R > 5 {
		t.Fatalf("stroke pixel = %v", got)
	}
	if got := f.RGBAAt(20, 5); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("background pixel = %v", got)
	}
	if got := f.RGBAAt(5, 5); got.G != 255 {
		t.Fatalf("zero-width line drew %v", got)
	}
}

func TestRenderDotFromClick(t *testing.T) {
	c := New(1, 1)
	c.SetBackground(whiteImage(20, 20))
	c.Add(&editor.Line{X1: 10, Y1: 10, X2: 10, Y2: 10, Width: 8, Color: color.RGBA{A: 255}})
	c.Render()
	if got := c.Frame().RGBAAt(10, 10); got.R > 10 {
		t.Fatalf("click should leave a round dot, got %v", got)
	}
}

func TestExportFormats(t *testing.T) {
	c := New(1, 1)
	c.SetBackground(whiteImage(12, 7))
	decoders := map[string]func([]byte) (image.Image, error){
		"png":  func(b []byte) (image.Image, error) { return png.Decode(bytes.NewReader(b)) },
		"jpg":  func(b []byte) (image.Image, error) { return jpeg.Decode(bytes.NewReader(b)) },
		"bmp":  func(b []byte) (image.Image, error) { return bmp.Decode(bytes.NewReader(b)) },
		"tiff": func(b []byte) (image.Image, error) { return tiff.Decode(bytes.NewReader(b)) },
	}
	for format, decode := range decoders {
		data, err := c.Export(format)
		if err != nil {
			t.Fatalf("Export(%s): %v", format, err)
		}
		img, err := decode(data)
		if err != nil {
			t.Fatalf("decode %s: %v", format, err)
		}
		if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 7 {
			t.Fatalf("%s bounds = %v", format, b)
		}
	}
	if _, err := c.Export("webp"); err == nil {
		t.Fatal("expected error for webp export")
	}
}

func TestDataURL(t *testing.T) {
	c := New(1, 1)
	c.SetBackground(whiteImage(3, 3))
	u, err := c.DataURL("JPG")
	if err != nil {
		t.Fatal(err)
	}
	payload, ok := strings.CutPrefix(u, "data:image/jpeg;base64,")
	if !ok {
		t.Fatalf("unexpected prefix: %.40s", u)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("payload is not jpeg: %v", err)
	}
}

func TestWithJPEGQuality(t *testing.T) {
	if c := New(1, 1, WithJPEGQuality(0)); c.jpegQuality != DefaultJPEGQuality {
		t.Fatalf("invalid quality accepted: %d", c.jpegQuality)
	}
	if c := New(1, 1, WithJPEGQuality(50)); c.jpegQuality != 50 {
		t.Fatalf("quality = %d", c.jpegQuality)
	}
}
