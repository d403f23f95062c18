//go:build windows

package foreground

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sys/windows"
)

type windowResolver struct{}

func newPlatform() Resolver { return windowResolver{} }

func (windowResolver) CurrentAppName(ctx context.Context) (string, error) {
	hwnd := windows.GetForegroundWindow()
	if hwnd == 0 {
		return "", errors.New("foreground: no foreground window")
	}
	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err != nil {
		return "", fmt.Errorf("foreground: window pid: %w", err)
	}
	name, err := processName(ctx, int32(pid))
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(name, ".exe"), nil
}
