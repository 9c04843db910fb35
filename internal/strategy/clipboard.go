package strategy

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"
)

// Clipboard abstracts the system clipboard so the paste strategy can be
// exercised without touching the real one.
type Clipboard interface {
	Name() string
	Available() error
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, text string) error
}

// NewSystemClipboard returns the clipboard provider for the running
// session: wl-clipboard on Wayland, atotto/clipboard (xclip/xsel)
// elsewhere.
func NewSystemClipboard() Clipboard {
	wl := &wlClipboard{}
	if wl.Available() == nil {
		return wl
	}
	return &attoClipboard{}
}

// wlClipboard shells out to wl-copy and wl-paste.
type wlClipboard struct{}

func (c *wlClipboard) Name() string { return "wl-clipboard" }

func (c *wlClipboard) Available() error {
	if _, err := exec.LookPath("wl-copy"); err != nil {
		return fmt.Errorf("wl-copy not found: %w (install wl-clipboard)", err)
	}
	if _, err := exec.LookPath("wl-paste"); err != nil {
		return fmt.Errorf("wl-paste not found: %w (install wl-clipboard)", err)
	}
	if os.Getenv("WAYLAND_DISPLAY") == "" {
		return fmt.Errorf("WAYLAND_DISPLAY not set - wl-clipboard requires a Wayland session")
	}
	return nil
}

func (c *wlClipboard) Read(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "wl-paste", "--no-newline")
	output, err := cmd.Output()
	if err != nil {
		// wl-paste exits non-zero on an empty clipboard too
		return "", fmt.Errorf("wl-paste failed: %w", err)
	}
	return string(output), nil
}

func (c *wlClipboard) Write(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, "wl-copy")
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("wl-copy failed: %w", err)
	}
	return nil
}

// attoClipboard wraps github.com/atotto/clipboard, which drives
// xclip/xsel on X11. The library has no context support; operations are
// quick enough that the retry loop above provides the bounding.
type attoClipboard struct{}

func (c *attoClipboard) Name() string { return "atotto" }

func (c *attoClipboard) Available() error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard tool available (install xclip or xsel)")
	}
	return nil
}

func (c *attoClipboard) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return clipboard.ReadAll()
}

func (c *attoClipboard) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return clipboard.WriteAll(text)
}

// settle waits d without outliving the context.
func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return pause(ctx, d)
}
