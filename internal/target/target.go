// Package target identifies the application that currently owns input
// focus. Identity is resolved fresh for every request and never cached:
// focus can move between resolution and delivery.
package target

import (
	"context"
	"os"
)

// Identity is the stable key for the focused application. Handle is an
// opaque window address useful within one request only; it is never
// persisted.
type Identity struct {
	ProcessName string
	WindowClass string
	Handle      string
}

// Resolver queries the OS for the focused top-level window. A (nil, nil)
// return means no window has focus or the window belongs to a process we
// may not inspect; both are normal outcomes, not errors, and degrade to
// the generic profile upstream.
type Resolver interface {
	Resolve(ctx context.Context) (*Identity, error)
}

// NewSystemResolver picks the resolver for the running session: hyprctl
// under Hyprland, xdotool on X11.
func NewSystemResolver() Resolver {
	if os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" {
		return &hyprctlResolver{}
	}
	if os.Getenv("DISPLAY") != "" {
		return &xdotoolResolver{}
	}
	return &hyprctlResolver{}
}

// Nop always reports no focused window. Useful in tests and headless
// environments.
type Nop struct{}

func (Nop) Resolve(ctx context.Context) (*Identity, error) { return nil, nil }
