package editor

// EventKind enumerates the notifications an Editor emits.
type EventKind int

const (
	// EventAdded fires after an object has been added to the canvas, by a
	// stroke or a redo.
	EventAdded EventKind = iota
	// EventLoaded fires after DrawImage succeeds.
	EventLoaded
)

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "added"
	case EventLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// On registers fn to run whenever kind fires. Listeners run in registration
// order on the caller's goroutine.
func (e *Editor) On(kind EventKind, fn func()) {
	if fn == nil {
		return
	}
	e.listeners[kind] = append(e.listeners[kind], fn)
}

func (e *Editor) emit(kind EventKind) {
	for _, fn := range e.listeners[kind] {
		fn()
	}
}
