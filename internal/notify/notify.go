// Package notify sends desktop notifications when the editor saves or copies
// an image.
package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/maskedit/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave fires when an image has been written to a file or bucket.
	EventSave Event = "save"
	// EventCopy fires when an image has been placed on the clipboard.
	EventCopy Event = "copy"
)

// Preferences describes notification wording.
type Preferences struct {
	Title     string
	Templates map[Event]string
	Timeout   time.Duration
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "maskedit",
		Templates: map[Event]string{
			EventSave: "Saved %s",
			EventCopy: "Copied %s to clipboard",
		},
		Timeout: 5 * time.Second,
	}
}

// LoadPreferences reads overrides from MASKEDIT_NOTIFY_* environment
// variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("MASKEDIT_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	if v := strings.TrimSpace(os.Getenv("MASKEDIT_NOTIFY_SAVE_TEXT")); v != "" {
		prefs.Templates[EventSave] = v
	}
	if v := strings.TrimSpace(os.Getenv("MASKEDIT_NOTIFY_COPY_TEXT")); v != "" {
		prefs.Templates[EventCopy] = v
	}
	return prefs
}

// SendFunc delivers a notification. platform.Notify by default.
type SendFunc func(title, body string, opts platform.Options) error

// Notifier sends notifications for enabled events. A nil Notifier is valid
// and sends nothing.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    SendFunc
}

// New creates a Notifier with every event disabled.
func New(prefs Preferences) *Notifier {
	templates := make(map[Event]string, len(prefs.Templates))
	for k, v := range prefs.Templates {
		templates[k] = v
	}
	prefs.Templates = templates
	return &Notifier{prefs: prefs, enabled: make(map[Event]bool), send: platform.Notify}
}

// WithSender replaces the delivery function.
func (n *Notifier) WithSender(fn SendFunc) *Notifier {
	n.send = fn
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Save reports a written image. Local files are shown as absolute paths and
// used as the notification icon.
func (n *Notifier) Save(location string) {
	if !n.enabledFor(EventSave) {
		return
	}
	detail := strings.TrimSpace(location)
	var opts platform.Options
	if !strings.Contains(detail, "://") {
		if abs, err := filepath.Abs(detail); err == nil {
			detail = abs
			if _, err := os.Stat(abs); err == nil {
				opts.IconPath = abs
			}
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy reports a clipboard copy.
func (n *Notifier) Copy(detail string) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.prefs.Templates[event])
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	opts.AppName = n.prefs.Title
	opts.Timeout = n.prefs.Timeout
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		logrus.WithError(err).WithField("event", event).Warn("notification failed")
	}
}
