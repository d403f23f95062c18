//go:build linux

package foreground

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// x11Resolver asks xdotool for the focused window's pid and maps it to a
// process name. Wayland sessions without XWayland focus fail here and
// degrade to an unknown source.
type x11Resolver struct{}

func newPlatform() Resolver { return x11Resolver{} }

func (x11Resolver) CurrentAppName(ctx context.Context) (string, error) {
	out, err := runCommand(ctx, "xdotool", "getactivewindow", "getwindowpid")
	if err != nil {
		return "", fmt.Errorf("foreground: xdotool: %w", err)
	}
	pid, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 32)
	if err != nil {
		return "", fmt.Errorf("foreground: parse pid %q: %w", strings.TrimSpace(string(out)), err)
	}
	return processName(ctx, int32(pid))
}
