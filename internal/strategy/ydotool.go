package strategy

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// ydotoolDispatcher drives the ydotoold uinput daemon. It works on both
// X11 and Wayland but needs the daemon running.
type ydotoolDispatcher struct{}

func (y *ydotoolDispatcher) Name() string { return "ydotool" }

func (y *ydotoolDispatcher) Available() error {
	if _, err := exec.LookPath("ydotool"); err != nil {
		return fmt.Errorf("ydotool not found: %w (install ydotool package)", err)
	}

	// Only check socket if ydotoold exists
	if _, err := exec.LookPath("ydotoold"); err == nil {
		socketPath := y.getSocketPath()
		if socketPath == "" {
			return fmt.Errorf("ydotoold socket not found - ensure ydotoold is running")
		}

		// ydotoold v1.0.4+ uses SOCK_DGRAM (unixgram) sockets.
		// Try unixgram first, then fall back to stream for older versions.
		conn, err := net.Dial("unixgram", socketPath)
		if err != nil {
			conn, err = net.DialTimeout("unix", socketPath, 500*time.Millisecond)
		}
		if err != nil {
			return fmt.Errorf("ydotoold not responding at %s: %w", socketPath, err)
		}
		conn.Close()
	}

	return nil
}

func (y *ydotoolDispatcher) getSocketPath() string {
	// Check YDOTOOL_SOCKET env var first
	if sock := os.Getenv("YDOTOOL_SOCKET"); sock != "" {
		if _, err := os.Stat(sock); err == nil {
			return sock
		}
	}

	// Check common locations
	paths := []string{
		"/run/user/" + fmt.Sprint(os.Getuid()) + "/.ydotool_socket",
		"/tmp/.ydotool_socket",
	}

	// Also check XDG_RUNTIME_DIR
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		paths = append([]string{filepath.Join(xdg, ".ydotool_socket")}, paths...)
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// Linux input event codes for the named keys and chord modifiers.
const (
	codeTab    = 15
	codeReturn = 28
	codeCtrl   = 29
	codeShift  = 42
	codeV      = 47
	codeInsert = 110
)

func (y *ydotoolDispatcher) Dispatch(ctx context.Context, events []KeyEvent, delay time.Duration) error {
	if err := y.Available(); err != nil {
		return &Failure{Kind: FailureRejected, Err: err}
	}

	for _, seg := range segment(events) {
		var cmd *exec.Cmd
		if seg.key != "" {
			code := codeReturn
			if seg.key == KeyTab {
				code = codeTab
			}
			cmd = exec.CommandContext(ctx, "ydotool", "key",
				fmt.Sprintf("%d:1", code), fmt.Sprintf("%d:0", code))
		} else {
			args := []string{"type"}
			if delay > 0 {
				args = append(args, "--key-delay", strconv.Itoa(int(delay.Milliseconds())))
			}
			args = append(args, "--", seg.text)
			cmd = exec.CommandContext(ctx, "ydotool", args...)
		}

		if err := cmd.Run(); err != nil {
			return classify(ctx, fmt.Errorf("ydotool failed: %w", err))
		}
		if delay > 0 {
			if err := pause(ctx, delay); err != nil {
				return err
			}
		}
	}
	return nil
}

func (y *ydotoolDispatcher) Chord(ctx context.Context, chord PasteChord) error {
	var seq []string
	switch chord {
	case ChordCtrlShiftV:
		seq = keySeq(codeCtrl, codeShift, codeV)
	case ChordShiftInsert:
		seq = keySeq(codeShift, codeInsert)
	default:
		seq = keySeq(codeCtrl, codeV)
	}

	cmd := exec.CommandContext(ctx, "ydotool", append([]string{"key"}, seq...)...)
	if err := cmd.Run(); err != nil {
		return classify(ctx, fmt.Errorf("ydotool paste chord failed: %w", err))
	}
	return nil
}

// keySeq presses the codes in order and releases them in reverse.
func keySeq(codes ...int) []string {
	seq := make([]string, 0, 2*len(codes))
	for _, c := range codes {
		seq = append(seq, fmt.Sprintf("%d:1", c))
	}
	for i := len(codes) - 1; i >= 0; i-- {
		seq = append(seq, fmt.Sprintf("%d:0", codes[i]))
	}
	return seq
}
