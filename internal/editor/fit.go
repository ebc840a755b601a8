package editor

// Geometry describes how an image of native size is presented inside a
// container. The backing canvas always keeps the native resolution; only the
// display size shrinks.
type Geometry struct {
	NativeWidth   float64
	NativeHeight  float64
	DisplayWidth  float64
	DisplayHeight float64
	// ScaleFactor is NativeWidth / DisplayWidth. Stroke widths are multiplied
	// by it so they look the same on screen regardless of shrinking.
	ScaleFactor float64
}

// ComputeDisplayGeometry fits an image of nativeW x nativeH into a container
// of containerW x containerH without overhang, preserving the aspect ratio.
// Images that already fit keep their native size. Dimensions must be positive.
func ComputeDisplayGeometry(nativeW, nativeH, containerW, containerH float64) Geometry {
	displayW, displayH := nativeW, nativeH
	if nativeW > containerW || nativeH > containerH {
		displayW, displayH = containerW, containerH
		if nativeW > nativeH {
			displayH = nativeH * containerW / nativeW
		} else {
			displayW = nativeW * containerH / nativeH
		}

		// The longer side fit can still overflow for extreme aspect ratios.
		ratio := min(containerW/displayW, containerH/displayH)
		if ratio < 1 {
			displayW *= ratio
			displayH *= ratio
		}
	}
	return Geometry{
		NativeWidth:   nativeW,
		NativeHeight:  nativeH,
		DisplayWidth:  displayW,
		DisplayHeight: displayH,
		ScaleFactor:   nativeW / displayW,
	}
}

// ToNative maps a point in display coordinates to backing-store coordinates.
func (g Geometry) ToNative(x, y float64) (float64, float64) {
	s := g.scale()
	return x * s, y * s
}

// ToDisplay maps a point in backing-store coordinates to display coordinates.
func (g Geometry) ToDisplay(x, y float64) (float64, float64) {
	s := g.scale()
	return x / s, y / s
}

func (g Geometry) scale() float64 {
	if g.ScaleFactor <= 0 {
		return 1
	}
	return g.ScaleFactor
}
