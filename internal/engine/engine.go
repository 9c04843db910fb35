// Package engine coordinates one injection request end to end: resolve
// the focused target, select its compatibility profile, attempt delivery
// strategies in order, fall back on recoverable failures, and report the
// outcome.
package engine

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/voxtype/voxtype/internal/audit"
	"github.com/voxtype/voxtype/internal/monitor"
	"github.com/voxtype/voxtype/internal/profile"
	"github.com/voxtype/voxtype/internal/strategy"
	"github.com/voxtype/voxtype/internal/target"
)

// Config wires an engine's collaborators. Everything an engine touches
// is owned here; there is no ambient process-wide state, so tests can
// run isolated instances side by side.
type Config struct {
	Resolver   target.Resolver
	Registry   *profile.Registry
	Monitor    *monitor.Monitor
	Sink       audit.Sink
	Strategies []strategy.Strategy

	AttemptTimeout time.Duration // default per-strategy budget
	ResolveTimeout time.Duration // budget for the focus query
}

// defaults fills in the standard collaborators and budgets
func (c *Config) defaults() {
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = 500 * time.Millisecond
	}
	if c.ResolveTimeout <= 0 {
		c.ResolveTimeout = 250 * time.Millisecond
	}
	if c.Sink == nil {
		c.Sink = audit.Nop{}
	}
	if c.Monitor == nil {
		c.Monitor = monitor.New(monitor.DefaultConfig())
	}
	if c.Registry == nil {
		c.Registry = profile.NewRegistry()
	}
	if c.Resolver == nil {
		c.Resolver = target.Nop{}
	}
}

// Engine is the injection coordinator. A mutex serializes the whole
// resolve -> select -> attempt sequence: at most one injection is in
// flight per engine, and a second Inject call blocks until the first
// reaches a terminal state. Dictation results arrive one utterance at a
// time, so callers await rather than race.
type Engine struct {
	mu sync.Mutex // single-flight gate

	resolver   target.Resolver
	registry   *profile.Registry
	monitor    *monitor.Monitor
	sink       audit.Sink
	strategies map[strategy.Kind]strategy.Strategy

	stateMu sync.RWMutex
	phase   Phase
	last    *Outcome

	// reloadable settings, also guarded by stateMu
	attemptTimeout   time.Duration
	resolveTimeout   time.Duration
	disableClipboard bool
}

// Settings are the engine knobs the daemon reapplies on configuration
// reload. Zero durations keep the current budgets.
type Settings struct {
	AttemptTimeout   time.Duration
	ResolveTimeout   time.Duration
	DisableClipboard bool
}

// Apply updates the reloadable settings. Safe to call while a request
// is in flight; the next request observes the new values.
func (e *Engine) Apply(s Settings) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	if s.AttemptTimeout > 0 {
		e.attemptTimeout = s.AttemptTimeout
	}
	if s.ResolveTimeout > 0 {
		e.resolveTimeout = s.ResolveTimeout
	}
	e.disableClipboard = s.DisableClipboard
}

// Settings reports the current reloadable settings
func (e *Engine) Settings() Settings {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return Settings{
		AttemptTimeout:   e.attemptTimeout,
		ResolveTimeout:   e.resolveTimeout,
		DisableClipboard: e.disableClipboard,
	}
}

// New creates an engine from explicit collaborators
func New(config Config) (*Engine, error) {
	config.defaults()
	if len(config.Strategies) == 0 {
		return nil, fmt.Errorf("engine requires at least one delivery strategy")
	}

	strategies := make(map[strategy.Kind]strategy.Strategy, len(config.Strategies))
	for _, s := range config.Strategies {
		strategies[s.Kind()] = s
	}

	return &Engine{
		resolver:       config.Resolver,
		registry:       config.Registry,
		monitor:        config.Monitor,
		sink:           config.Sink,
		strategies:     strategies,
		attemptTimeout: config.AttemptTimeout,
		resolveTimeout: config.ResolveTimeout,
		phase:          PhaseIdle,
	}, nil
}

// NewSystem wires an engine against the real OS: system resolver, system
// dispatcher and clipboard.
func NewSystem(config Config) (*Engine, error) {
	dispatcher := strategy.NewSystemDispatcher()
	config.Strategies = []strategy.Strategy{
		strategy.NewSynthetic(dispatcher),
		strategy.NewClipboardPaster(strategy.NewSystemClipboard(), dispatcher),
	}
	if config.Resolver == nil {
		config.Resolver = target.NewSystemResolver()
	}
	return New(config)
}

// Registry exposes the profile table for the daemon's reload path
func (e *Engine) Registry() *profile.Registry {
	return e.registry
}

// Phase reports where the coordinator currently is
func (e *Engine) Phase() Phase {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.phase
}

// LastOutcome returns the most recent terminal outcome, nil before the
// first request completes.
func (e *Engine) LastOutcome() *Outcome {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	if e.last == nil {
		return nil
	}
	out := *e.last
	return &out
}

func (e *Engine) setPhase(p Phase) {
	e.stateMu.Lock()
	e.phase = p
	e.stateMu.Unlock()
}

// Inject delivers text into the currently focused application. Expected
// failures (rejection, timeout, busy clipboard, exhaustion,
// cancellation) come back as data in the Outcome, never as an error; the
// error return covers invalid usage only.
func (e *Engine) Inject(ctx context.Context, text string, opts Options) (Outcome, error) {
	if text == "" {
		return Outcome{}, fmt.Errorf("cannot inject empty text")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.setPhase(PhaseIdle)

	start := time.Now()
	outcome := Outcome{CorrelationID: ulid.Make().String()}

	e.setPhase(PhaseResolving)
	outcome.Target = e.resolveTarget(ctx)

	e.setPhase(PhaseSelecting)
	prof := e.selectProfile(outcome.Target)
	outcome.ProfileID = prof.ID

	settings := e.Settings()
	if settings.DisableClipboard {
		opts.DisableClipboard = true
	}
	order := buildOrder(prof.Order, opts)
	attemptTimeout := settings.AttemptTimeout
	if opts.AttemptTimeout > 0 {
		attemptTimeout = opts.AttemptTimeout
	}

	attempts := 0
	terminal := PhaseExhausted
	var lastErr error

	for _, kind := range order {
		s, ok := e.strategies[kind]
		if !ok {
			continue
		}

		e.setPhase(PhaseAttempting)
		attempts++
		outcome.Strategy = kind

		attemptStart := time.Now()
		actx, cancel := context.WithTimeout(ctx, attemptTimeout)
		err := s.Execute(actx, text, prof.Tuning)
		cancel()
		elapsed := time.Since(attemptStart)

		e.monitor.Record(prof.ID, kind, err == nil, elapsed)

		if err == nil {
			outcome.Success = true
			terminal = PhaseSucceeded
			break
		}
		lastErr = err
		log.Printf("Engine: %s attempt failed for profile %s: %v", kind, prof.ID, err)

		if ctx.Err() != nil || !strategy.Recoverable(err) {
			outcome.FailureKind = strategy.KindOf(err)
			break
		}
		e.setPhase(PhaseFallingBack)
	}

	outcome.Fallbacks = attempts - 1
	if attempts == 0 {
		outcome.Fallbacks = 0
	}
	outcome.Duration = time.Since(start)

	if !outcome.Success && outcome.FailureKind == "" {
		// Every strategy in the order was tried and reported a
		// recoverable failure.
		outcome.FailureKind = strategy.FailureExhausted
		if lastErr == nil {
			outcome.FailureKind = strategy.FailureRejected
		}
	}
	e.setPhase(terminal)

	e.applyDemotions(prof.ID, order)
	e.emit(outcome)

	e.stateMu.Lock()
	last := outcome
	e.last = &last
	e.stateMu.Unlock()

	return outcome, nil
}

// resolveTarget queries focus under its own small budget. Failure is a
// normal outcome that degrades to the generic profile.
func (e *Engine) resolveTarget(ctx context.Context) *target.Identity {
	e.stateMu.RLock()
	budget := e.resolveTimeout
	e.stateMu.RUnlock()
	rctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	id, err := e.resolver.Resolve(rctx)
	if err != nil {
		log.Printf("Engine: target resolution failed, using generic profile: %v", err)
		return nil
	}
	return id
}

func (e *Engine) selectProfile(id *target.Identity) profile.Profile {
	if id == nil {
		return e.registry.Generic()
	}
	return e.registry.Lookup(id.ProcessName, id.WindowClass)
}

// buildOrder applies the caller's preferences to the profile's declared
// order. Strategies run strictly sequentially in this order; racing them
// in parallel would risk the text appearing twice.
func buildOrder(order []strategy.Kind, opts Options) []strategy.Kind {
	out := slices.Clone(order)

	if opts.DisableClipboard {
		out = slices.DeleteFunc(out, func(k strategy.Kind) bool {
			return k == strategy.ClipboardPaste
		})
	}
	if opts.Preferred != "" && !(opts.DisableClipboard && opts.Preferred == strategy.ClipboardPaste) {
		if idx := slices.Index(out, opts.Preferred); idx > 0 {
			out = append([]strategy.Kind{opts.Preferred}, slices.Delete(out, idx, idx+1)...)
		} else if idx < 0 {
			out = append([]strategy.Kind{opts.Preferred}, out...)
		}
	}

	// Synthetic input stays available as the mechanism of last resort.
	if len(out) == 0 {
		out = []strategy.Kind{strategy.SyntheticInput}
	}
	return out
}

// applyDemotions folds the monitor's signal back into the registry after
// the request, so the adjustment is visible to subsequent requests only.
// A strategy is demoted only when some other strategy in the order is
// healthy enough to take its place; when everything is failing, moving
// the order around just churns it.
func (e *Engine) applyDemotions(profileID string, order []strategy.Kind) {
	for _, kind := range order {
		if !e.monitor.ShouldDemote(profileID, kind) {
			continue
		}
		for _, other := range order {
			if other != kind && !e.monitor.ShouldDemote(profileID, other) {
				e.registry.Demote(profileID, kind)
				break
			}
		}
	}
}

func (e *Engine) emit(o Outcome) {
	ev := audit.Event{
		CorrelationID: o.CorrelationID,
		ProfileID:     o.ProfileID,
		Strategy:      string(o.Strategy),
		Success:       o.Success,
		Duration:      o.Duration,
		Fallbacks:     o.Fallbacks,
		FailureKind:   string(o.FailureKind),
	}
	if o.Target != nil {
		ev.ProcessName = o.Target.ProcessName
		ev.WindowClass = o.Target.WindowClass
	}
	e.sink.Emit(ev)
}
