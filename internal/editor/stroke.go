package editor

// strokeState tracks the pointer between press and release. A nil line means
// the machine is idle.
type strokeState struct {
	line *Line
}

func (s strokeState) drawing() bool { return s.line != nil }

// PointerDown starts a stroke at (x, y) in backing-store coordinates. The new
// line has zero length until the pointer moves.
func (e *Editor) PointerDown(x, y float64) {
	line := &Line{
		X1: x, Y1: y,
		X2: x, Y2: y,
		Width: float64(e.thickness.Value()) * e.lineScale,
		Color: e.color,
	}
	e.stroke.line = line
	e.engine.Add(line)
	e.engine.Render()
}

// PointerMove drags the far end of the current stroke to (x, y). Moves
// without a pressed pointer are ignored.
func (e *Editor) PointerMove(x, y float64) {
	if !e.stroke.drawing() {
		return
	}
	e.stroke.line.X2 = x
	e.stroke.line.Y2 = y
	e.engine.Render()
}

// PointerUp ends the current stroke.
func (e *Editor) PointerUp() {
	e.stroke = strokeState{}
}

// Drawing reports whether a stroke is in progress.
func (e *Editor) Drawing() bool { return e.stroke.drawing() }
