//go:build !linux && !darwin && !windows

package platform

// Notify drops the notification; the platform has no notification service.
func Notify(string, string, Options) error {
	return nil
}
