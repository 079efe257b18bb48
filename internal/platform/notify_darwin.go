//go:build darwin

package platform

import (
	"context"
	"fmt"
	"os/exec"
)

// Notify displays a desktop notification through Notification Center. The
// icon is not supported by osascript and is ignored.
func Notify(title, body string, opts Options) error {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	script := fmt.Sprintf("display notification %q with title %q subtitle %q", body, title, AppName)
	if out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput(); err != nil {
		return fmt.Errorf("osascript: %w: %s", err, out)
	}
	return nil
}
