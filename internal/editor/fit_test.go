package editor

import "testing"

func TestComputeDisplayGeometry(t *testing.T) {
	cases := []struct {
		name                    string
		nw, nh, cw, ch          float64
		wantW, wantH, wantScale float64
	}{
		{"landscape shrinks to width", 800, 600, 400, 1000, 400, 300, 2},
		{"fits already", 300, 200, 800, 600, 300, 200, 1},
		{"square corrected", 1000, 1000, 200, 500, 200, 200, 5},
		{"portrait shrinks to height", 600, 1200, 1000, 400, 200, 400, 3},
		{"wide corrected", 2000, 1000, 400, 100, 200, 100, 10},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := ComputeDisplayGeometry(c.nw, c.nh, c.cw, c.ch)
			if g.DisplayWidth != c.wantW || g.DisplayHeight != c.wantH || g.ScaleFactor != c.wantScale {
				t.Fatalf("got %vx%v scale %v, want %vx%v scale %v",
					g.DisplayWidth, g.DisplayHeight, g.ScaleFactor, c.wantW, c.wantH, c.wantScale)
			}
			if g.DisplayWidth > c.cw || g.DisplayHeight > c.ch {
				t.Fatalf("display %vx%v overflows container %vx%v", g.DisplayWidth, g.DisplayHeight, c.cw, c.ch)
			}
		})
	}
}

func TestGeometryMapping(t *testing.T) {
	g := ComputeDisplayGeometry(800, 600, 400, 1000)
	x, y := g.ToNative(100, 50)
	if x != 200 || y != 100 {
		t.Fatalf("ToNative = %v,%v", x, y)
	}
	x, y = g.ToDisplay(x, y)
	if x != 100 || y != 50 {
		t.Fatalf("ToDisplay = %v,%v", x, y)
	}
	var zero Geometry
	if x, y := zero.ToNative(3, 4); x != 3 || y != 4 {
		t.Fatalf("zero geometry should be identity, got %v,%v", x, y)
	}
}
