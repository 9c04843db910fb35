package strategy

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClipboard and fakeDispatcher keep the paste strategy fully
// exercisable without a desktop session.
type fakeClipboard struct {
	mu            sync.Mutex
	content       string
	writes        []string
	readErr       error
	writeErr      error
	writeFailures int // first N writes fail when writeErr is set
}

func (c *fakeClipboard) Name() string     { return "fake" }
func (c *fakeClipboard) Available() error { return nil }

func (c *fakeClipboard) Read(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return "", c.readErr
	}
	return c.content, nil
}

func (c *fakeClipboard) Write(ctx context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		err := c.writeErr
		if c.writeFailures > 0 {
			c.writeFailures--
			if c.writeFailures == 0 {
				c.writeErr = nil
			}
		}
		return err
	}
	c.content = text
	c.writes = append(c.writes, text)
	return nil
}

type fakeDispatcher struct {
	mu       sync.Mutex
	events   []KeyEvent
	chords   []PasteChord
	err      error
	chordErr error
	// block holds Chord until the context is cancelled, for
	// cancellation tests.
	blockChord bool
}

func (d *fakeDispatcher) Name() string     { return "fake" }
func (d *fakeDispatcher) Available() error { return nil }

func (d *fakeDispatcher) Dispatch(ctx context.Context, events []KeyEvent, delay time.Duration) error {
	if d.err != nil {
		return d.err
	}
	d.mu.Lock()
	d.events = append(d.events, events...)
	d.mu.Unlock()
	return nil
}

func (d *fakeDispatcher) Chord(ctx context.Context, chord PasteChord) error {
	if d.blockChord {
		<-ctx.Done()
		return classify(ctx, ctx.Err())
	}
	if d.chordErr != nil {
		return d.chordErr
	}
	d.mu.Lock()
	d.chords = append(d.chords, chord)
	d.mu.Unlock()
	return nil
}

func pasteTuning() Tuning {
	t := DefaultTuning()
	t.SettleDelay = 5 * time.Millisecond
	return t
}

func TestClipboardPaster_RestoresSnapshot(t *testing.T) {
	clip := &fakeClipboard{content: "previous contents"}
	disp := &fakeDispatcher{}
	p := NewClipboardPaster(clip, disp)

	err := p.Execute(context.Background(), "injected text", pasteTuning())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(disp.chords) != 1 || disp.chords[0] != ChordCtrlV {
		t.Errorf("paste chord = %v, want one %s", disp.chords, ChordCtrlV)
	}
	if clip.content != "previous contents" {
		t.Errorf("clipboard after injection = %q, want restored snapshot", clip.content)
	}
	if len(clip.writes) != 2 || clip.writes[0] != "injected text" {
		t.Errorf("writes = %v, want injected text then snapshot", clip.writes)
	}
}

func TestClipboardPaster_RestoresEmptySnapshot(t *testing.T) {
	clip := &fakeClipboard{content: ""}
	disp := &fakeDispatcher{}
	p := NewClipboardPaster(clip, disp)

	if err := p.Execute(context.Background(), "injected text", pasteTuning()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if clip.content != "" {
		t.Errorf("clipboard after injection = %q, want empty snapshot restored", clip.content)
	}
	if len(clip.writes) != 2 || clip.writes[1] != "" {
		t.Errorf("writes = %v, want injected text then empty restore", clip.writes)
	}
}

func TestClipboardPaster_RestoreDisabled(t *testing.T) {
	clip := &fakeClipboard{content: "previous"}
	disp := &fakeDispatcher{}
	p := NewClipboardPaster(clip, disp)

	tune := pasteTuning()
	tune.RestoreClipboard = false

	if err := p.Execute(context.Background(), "new text", tune); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if clip.content != "new text" {
		t.Errorf("clipboard = %q, want injected text to remain", clip.content)
	}
}

func TestClipboardPaster_RestoresOnChordFailure(t *testing.T) {
	clip := &fakeClipboard{content: "previous"}
	disp := &fakeDispatcher{chordErr: Failf(FailureRejected, "chord refused")}
	p := NewClipboardPaster(clip, disp)

	err := p.Execute(context.Background(), "text", pasteTuning())
	if KindOf(err) != FailureRejected {
		t.Fatalf("Execute() failure kind = %v, want %v", KindOf(err), FailureRejected)
	}
	if clip.content != "previous" {
		t.Errorf("clipboard = %q, want snapshot restored on failure path", clip.content)
	}
}

func TestClipboardPaster_RestoresOnCancellation(t *testing.T) {
	clip := &fakeClipboard{content: "previous"}
	disp := &fakeDispatcher{blockChord: true}
	p := NewClipboardPaster(clip, disp)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.Execute(ctx, "text", pasteTuning())
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if KindOf(err) != FailureCancelled {
			t.Errorf("Execute() failure kind = %v, want %v", KindOf(err), FailureCancelled)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Execute() did not return after cancellation")
	}

	// Restoration must hold on the cancellation exit path too.
	if clip.content != "previous" {
		t.Errorf("clipboard = %q, want snapshot restored despite cancellation", clip.content)
	}
}

func TestClipboardPaster_BusyClipboard(t *testing.T) {
	clip := &fakeClipboard{writeErr: errors.New("clipboard locked")}
	disp := &fakeDispatcher{}
	p := NewClipboardPaster(clip, disp)

	err := p.Execute(context.Background(), "text", pasteTuning())
	if KindOf(err) != FailureResourceBusy {
		t.Errorf("Execute() failure kind = %v, want %v", KindOf(err), FailureResourceBusy)
	}
	if len(disp.chords) != 0 {
		t.Errorf("paste chord dispatched despite busy clipboard")
	}
}

func TestClipboardPaster_WriteRetrySucceeds(t *testing.T) {
	clip := &fakeClipboard{content: "old", writeErr: errors.New("transient"), writeFailures: 2}
	disp := &fakeDispatcher{}
	p := NewClipboardPaster(clip, disp)

	if err := p.Execute(context.Background(), "text", pasteTuning()); err != nil {
		t.Fatalf("Execute() error = %v, want retry to recover", err)
	}
	if len(disp.chords) != 1 {
		t.Errorf("chords = %d, want 1", len(disp.chords))
	}
}

func TestClipboardPaster_SnapshotReadFailureIsBestEffort(t *testing.T) {
	clip := &fakeClipboard{readErr: errors.New("no text on clipboard")}
	disp := &fakeDispatcher{}
	p := NewClipboardPaster(clip, disp)

	if err := p.Execute(context.Background(), "text", pasteTuning()); err != nil {
		t.Fatalf("Execute() error = %v, want snapshot failure to be non-fatal", err)
	}
}
