// Package foreground resolves the name of the application that currently
// owns input focus. Names are descriptive labels only; every lookup is
// best-effort and bounded in time.
package foreground

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 750 * time.Millisecond

// Resolver returns the foreground application name.
// Implementations must not mutate process-wide state on failure.
type Resolver interface {
	CurrentAppName(ctx context.Context) (string, error)
}

// Func adapts a plain function to Resolver.
type Func func(ctx context.Context) (string, error)

// CurrentAppName calls f.
func (f Func) CurrentAppName(ctx context.Context) (string, error) {
	return f(ctx)
}

// Unknown labels every capture with an empty source.
type Unknown struct{}

// CurrentAppName always returns "".
func (Unknown) CurrentAppName(context.Context) (string, error) {
	return "", nil
}

// New returns the resolver for the running platform wrapped in a
// Bounded with the given timeout (DefaultTimeout when <= 0).
func New(timeout time.Duration) Resolver {
	return Bounded{Resolver: newPlatform(), Timeout: timeout}
}

// Bounded caps how long the wrapped Resolver may take. A lookup that
// ignores its context is abandoned once the timeout fires.
type Bounded struct {
	Resolver Resolver
	Timeout  time.Duration
}

// CurrentAppName resolves with a deadline and trims the result.
func (b Bounded) CurrentAppName(ctx context.Context) (string, error) {
	if b.Resolver == nil {
		return "", nil
	}
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		name string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		name, err := b.Resolver.CurrentAppName(ctx)
		ch <- result{name: name, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return "", r.err
		}
		return strings.TrimSpace(r.name), nil
	case <-ctx.Done():
		return "", fmt.Errorf("foreground: lookup: %w", ctx.Err())
	}
}

// runCommand is a package-level var to allow test injection.
var runCommand = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// processName returns the executable name of pid.
func processName(ctx context.Context, pid int32) (string, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return "", fmt.Errorf("foreground: process %d: %w", pid, err)
	}
	name, err := p.NameWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("foreground: process %d name: %w", pid, err)
	}
	return name, nil
}
