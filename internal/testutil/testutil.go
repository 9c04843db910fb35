package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/voxtype/voxtype/internal/audit"
	"github.com/voxtype/voxtype/internal/config"
	"github.com/voxtype/voxtype/internal/strategy"
	"github.com/voxtype/voxtype/internal/target"
)

// TestConfig returns a valid configuration for testing
func TestConfig() *config.Config {
	return &config.Config{
		Injection: config.InjectionConfig{
			AttemptTimeout:   500 * time.Millisecond,
			ResolveTimeout:   250 * time.Millisecond,
			SettleDelay:      10 * time.Millisecond,
			RestoreClipboard: true,
		},
		Monitor: config.MonitorConfig{
			WindowSize:  32,
			MinAttempts: 5,
			DemoteBelow: 0.5,
		},
		Notifications: config.NotificationsConfig{
			Enabled: true,
			Type:    "log",
		},
	}
}

// StaticResolver implements target.Resolver with a fixed answer
type StaticResolver struct {
	Identity *target.Identity
	Err      error
}

func (r *StaticResolver) Resolve(ctx context.Context) (*target.Identity, error) {
	return r.Identity, r.Err
}

// StrategyCall records one Execute invocation with entry and exit
// timestamps, so tests can assert that attempts never interleave.
type StrategyCall struct {
	Text    string
	Entered time.Time
	Exited  time.Time
}

// ScriptedStrategy implements strategy.Strategy with a scripted error
// sequence: the first call returns Errs[0], the second Errs[1], and so
// on; past the end every call succeeds.
type ScriptedStrategy struct {
	StrategyKind strategy.Kind
	Errs         []error
	Delay        time.Duration // hold each call this long before returning

	mu    sync.Mutex
	calls []StrategyCall
}

func NewScriptedStrategy(kind strategy.Kind, errs ...error) *ScriptedStrategy {
	return &ScriptedStrategy{StrategyKind: kind, Errs: errs}
}

func (s *ScriptedStrategy) Kind() strategy.Kind {
	return s.StrategyKind
}

func (s *ScriptedStrategy) Execute(ctx context.Context, text string, tune strategy.Tuning) error {
	s.mu.Lock()
	n := len(s.calls)
	call := StrategyCall{Text: text, Entered: time.Now()}
	s.mu.Unlock()

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
		}
	}

	var err error
	if n < len(s.Errs) {
		err = s.Errs[n]
	}
	if ctx.Err() != nil && err == nil {
		err = &strategy.Failure{Kind: strategy.FailureCancelled, Err: ctx.Err()}
	}

	call.Exited = time.Now()
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
	return err
}

// Calls returns a snapshot of recorded invocations
func (s *ScriptedStrategy) Calls() []StrategyCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StrategyCall, len(s.calls))
	copy(out, s.calls)
	return out
}

// MemorySink implements audit.Sink by collecting events
type MemorySink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *MemorySink) Emit(e audit.Event) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

func (s *MemorySink) Events() []audit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]audit.Event, len(s.events))
	copy(out, s.events)
	return out
}

// FakeClipboard implements strategy.Clipboard in memory
type FakeClipboard struct {
	mu      sync.Mutex
	content string
	history []string
	ReadErr error
	// WriteErr fails writes. With WriteFailures > 0 only the first N
	// writes fail (busy-clipboard retry tests); otherwise every write
	// fails.
	WriteErr      error
	WriteFailures int
}

func (c *FakeClipboard) Name() string     { return "fake" }
func (c *FakeClipboard) Available() error { return nil }

func (c *FakeClipboard) Read(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ReadErr != nil {
		return "", c.ReadErr
	}
	return c.content, nil
}

func (c *FakeClipboard) Write(ctx context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.WriteErr != nil {
		err := c.WriteErr
		if c.WriteFailures > 0 {
			c.WriteFailures--
			if c.WriteFailures == 0 {
				c.WriteErr = nil
			}
		}
		return err
	}
	c.content = text
	c.history = append(c.history, text)
	return nil
}

// Set seeds the clipboard content directly
func (c *FakeClipboard) Set(text string) {
	c.mu.Lock()
	c.content = text
	c.mu.Unlock()
}

// Content returns the current clipboard text
func (c *FakeClipboard) Content() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content
}

// History returns every value written, in order
func (c *FakeClipboard) History() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.history))
	copy(out, c.history)
	return out
}

// FakeDispatcher implements strategy.Dispatcher by recording what it is
// asked to send.
type FakeDispatcher struct {
	mu       sync.Mutex
	events   []strategy.KeyEvent
	chords   []strategy.PasteChord
	Err      error
	ChordErr error
}

func (d *FakeDispatcher) Name() string     { return "fake" }
func (d *FakeDispatcher) Available() error { return nil }

func (d *FakeDispatcher) Dispatch(ctx context.Context, events []strategy.KeyEvent, delay time.Duration) error {
	if d.Err != nil {
		return d.Err
	}
	if err := ctx.Err(); err != nil {
		return &strategy.Failure{Kind: strategy.FailureCancelled, Err: err}
	}
	d.mu.Lock()
	d.events = append(d.events, events...)
	d.mu.Unlock()
	return nil
}

func (d *FakeDispatcher) Chord(ctx context.Context, chord strategy.PasteChord) error {
	if d.ChordErr != nil {
		return d.ChordErr
	}
	if err := ctx.Err(); err != nil {
		return &strategy.Failure{Kind: strategy.FailureCancelled, Err: err}
	}
	d.mu.Lock()
	d.chords = append(d.chords, chord)
	d.mu.Unlock()
	return nil
}

// Events returns every key event dispatched so far
func (d *FakeDispatcher) Events() []strategy.KeyEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]strategy.KeyEvent, len(d.events))
	copy(out, d.events)
	return out
}

// Chords returns every paste chord dispatched so far
func (d *FakeDispatcher) Chords() []strategy.PasteChord {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]strategy.PasteChord, len(d.chords))
	copy(out, d.chords)
	return out
}

// TestContext returns a context with timeout for testing
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// WaitForCondition waits for a condition to be true or times out
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("Condition not met within %v", timeout)
		default:
			if condition() {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}
}
