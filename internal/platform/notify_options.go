package platform

import "time"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName identifies the sender to the notification server.
	AppName string
	// IconPath, when non-empty, points to an image file shown with the
	// notification.
	IconPath string
	// Timeout is how long the notification stays visible. Zero lets the
	// server decide.
	Timeout time.Duration
}

func (o Options) expireMillis() int32 {
	if o.Timeout <= 0 {
		return -1
	}
	return int32(o.Timeout / time.Millisecond)
}
