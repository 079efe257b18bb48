package platform

import "time"

// notifyTimeout bounds the round trip to the notification service.
const notifyTimeout = 3 * time.Second

// AppName identifies the sender of desktop notifications.
var AppName = "regionshot"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
}
