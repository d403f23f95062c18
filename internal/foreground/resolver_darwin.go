//go:build darwin

package foreground

import (
	"context"
	"fmt"
	"strings"
)

const frontmostScript = `tell application "System Events" to get name of first application process whose frontmost is true`

type systemEventsResolver struct{}

func newPlatform() Resolver { return systemEventsResolver{} }

func (systemEventsResolver) CurrentAppName(ctx context.Context) (string, error) {
	out, err := runCommand(ctx, "osascript", "-e", frontmostScript)
	if err != nil {
		return "", fmt.Errorf("foreground: osascript: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
