package strategy

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"
)

// Dispatcher delivers synthetic key events to the OS input pipeline.
// Implementations must treat a non-zero exit from the underlying tool as
// a rejection: that is what a protected or elevated target looks like
// from out here.
type Dispatcher interface {
	Name() string
	Available() error
	// Dispatch sends the event sequence, pausing delay between
	// consecutive character dispatches.
	Dispatch(ctx context.Context, events []KeyEvent, delay time.Duration) error
	// Chord presses and releases a paste key combination.
	Chord(ctx context.Context, chord PasteChord) error
}

// NewSystemDispatcher picks the best dispatcher for the running session:
// wtype on Wayland, ydotool wherever its daemon is reachable.
func NewSystemDispatcher() Dispatcher {
	w := &wtypeDispatcher{}
	if w.Available() == nil {
		return w
	}
	return &ydotoolDispatcher{}
}

type wtypeDispatcher struct{}

func (w *wtypeDispatcher) Name() string { return "wtype" }

func (w *wtypeDispatcher) Available() error {
	if _, err := exec.LookPath("wtype"); err != nil {
		return fmt.Errorf("wtype not found: %w (install wtype package)", err)
	}
	if os.Getenv("WAYLAND_DISPLAY") == "" {
		return fmt.Errorf("WAYLAND_DISPLAY not set - wtype requires a Wayland session")
	}
	return nil
}

func (w *wtypeDispatcher) Dispatch(ctx context.Context, events []KeyEvent, delay time.Duration) error {
	if err := w.Available(); err != nil {
		return &Failure{Kind: FailureRejected, Err: err}
	}

	// wtype consumes text runs and named keys in separate invocations,
	// so the event stream is replayed as alternating segments.
	for _, seg := range segment(events) {
		var args []string
		if seg.key != "" {
			args = []string{"-k", string(seg.key)}
		} else {
			if delay > 0 {
				args = append(args, "-d", strconv.Itoa(int(delay.Milliseconds())))
			}
			args = append(args, "--", seg.text)
		}

		cmd := exec.CommandContext(ctx, "wtype", args...)
		if err := cmd.Run(); err != nil {
			return classify(ctx, fmt.Errorf("wtype failed: %w", err))
		}
		if delay > 0 {
			if err := pause(ctx, delay); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *wtypeDispatcher) Chord(ctx context.Context, chord PasteChord) error {
	var args []string
	switch chord {
	case ChordCtrlShiftV:
		args = []string{"-M", "ctrl", "-M", "shift", "v", "-m", "ctrl", "-m", "shift"}
	case ChordShiftInsert:
		args = []string{"-M", "shift", "-k", "Insert", "-m", "shift"}
	default:
		args = []string{"-M", "ctrl", "v", "-m", "ctrl"}
	}

	cmd := exec.CommandContext(ctx, "wtype", args...)
	if err := cmd.Run(); err != nil {
		return classify(ctx, fmt.Errorf("wtype paste chord failed: %w", err))
	}
	return nil
}

// segment splits an event stream into maximal text runs and single named
// keys, preserving order.
type eventSegment struct {
	text string
	key  NamedKey
}

func segment(events []KeyEvent) []eventSegment {
	var segs []eventSegment
	var run []KeyEvent

	flush := func() {
		if len(run) > 0 {
			segs = append(segs, eventSegment{text: DecodeEvents(run)})
			run = run[:0]
		}
	}

	for _, ev := range events {
		if ev.Key != "" {
			if ev.Down {
				flush()
				segs = append(segs, eventSegment{key: ev.Key})
			}
			continue
		}
		run = append(run, ev)
	}
	flush()
	return segs
}

func pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return classify(ctx, ctx.Err())
	case <-t.C:
		return nil
	}
}
