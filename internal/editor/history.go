package editor

// RecordAddition is invoked for every object the engine appends, whether it
// came from drawing or from RedoOneEdit. A fresh drawing invalidates the redo
// buffer.
func (e *Editor) RecordAddition() {
	if !e.isRedo {
		e.redo = nil
	}
	e.isRedo = false
	e.emit(EventAdded)
}

// UndoOneEdit moves the most recent stroke to the redo buffer. It reports
// false when there is nothing to undo.
func (e *Editor) UndoOneEdit() bool {
	objs := e.engine.Objects()
	if len(objs) == 0 {
		return false
	}
	last := objs[len(objs)-1]
	if line, ok := last.(*Line); ok && line == e.stroke.line {
		// Undo during a drag ends the stroke; later moves must not reshape
		// the line now held for redo.
		e.stroke = strokeState{}
	}
	e.isUndo = true
	e.engine.Remove(last)
	e.redo = append(e.redo, last)
	e.engine.Render()
	return true
}

// RedoOneEdit restores the most recently undone stroke. It reports false
// when the redo buffer is empty.
func (e *Editor) RedoOneEdit() bool {
	if !e.HasEditHistoryStack() {
		return false
	}
	n := len(e.redo) - 1
	obj := e.redo[n]
	e.redo[n] = nil
	e.redo = e.redo[:n]
	// Set before Add so RecordAddition keeps the remaining buffer.
	e.isRedo = true
	e.isUndo = false
	e.engine.Add(obj)
	e.engine.Render()
	return true
}

// UndoAllEdits removes every stroke and forgets the redo buffer.
func (e *Editor) UndoAllEdits() {
	e.engine.Remove(e.engine.Objects()...)
	e.clearHistory()
	e.stroke = strokeState{}
	e.engine.Render()
}

func (e *Editor) clearHistory() {
	e.isUndo = false
	e.isRedo = false
	e.redo = nil
}

// HasEditHistoryStack reports whether RedoOneEdit would succeed.
func (e *Editor) HasEditHistoryStack() bool { return len(e.redo) > 0 }

// HasDrawingObject reports whether any stroke is visible.
func (e *Editor) HasDrawingObject() bool { return len(e.engine.Objects()) > 0 }

// IsUndo reports whether the last history mutation was an undo.
func (e *Editor) IsUndo() bool { return e.isUndo }
