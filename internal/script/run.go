package script

import (
	"github.com/sirupsen/logrus"

	"github.com/example/maskedit/internal/editor"
)

// Target is the part of the editor a script drives.
type Target interface {
	PointerDown(x, y float64)
	PointerMove(x, y float64)
	PointerUp()
	UndoOneEdit() bool
	RedoOneEdit() bool
	UndoAllEdits()
	Thickness() *editor.Thickness
}

var _ Target = (*editor.Editor)(nil)

// Result summarises a replay.
type Result struct {
	Strokes int
	// NoOps counts undo and redo commands that had nothing to act on.
	NoOps int
}

// Run applies cmds to t in order. A stroke left open at the end is closed.
func Run(t Target, cmds []Command) Result {
	var res Result
	drawing := false
	for _, c := range cmds {
		switch c.Op {
		case OpDown:
			if drawing {
				t.PointerUp()
			}
			t.PointerDown(c.Args[0], c.Args[1])
			drawing = true
			res.Strokes++
		case OpMove:
			t.PointerMove(c.Args[0], c.Args[1])
		case OpUp:
			t.PointerUp()
			drawing = false
		case OpLine:
			if drawing {
				t.PointerUp()
			}
			t.PointerDown(c.Args[0], c.Args[1])
			t.PointerMove(c.Args[2], c.Args[3])
			t.PointerUp()
			drawing = false
			res.Strokes++
		case OpUndo:
			if !t.UndoOneEdit() {
				res.NoOps++
				logrus.WithField("line", c.Line).Debug("nothing to undo")
			}
		case OpRedo:
			if !t.RedoOneEdit() {
				res.NoOps++
				logrus.WithField("line", c.Line).Debug("nothing to redo")
			}
		case OpReset:
			t.UndoAllEdits()
		case OpThickness:
			th := t.Thickness()
			v := min(max(c.Args[0], float64(th.Min())), float64(th.Max()))
			th.Set(int(v))
		}
	}
	if drawing {
		t.PointerUp()
	}
	return res
}
