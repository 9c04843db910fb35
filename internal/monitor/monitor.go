// Package monitor tracks per-strategy health so the engine can self-tune
// for applications whose behavior drifts from the built-in table.
package monitor

import (
	"sync"
	"time"

	"github.com/voxtype/voxtype/internal/strategy"
)

// Sample is one delivery attempt's data point
type Sample struct {
	At       time.Time
	Duration time.Duration
	Success  bool
}

// Stats aggregates the rolling window for one (profile, strategy) pair
type Stats struct {
	Attempts    int
	Successes   int
	SuccessRate float64
	AvgLatency  time.Duration
}

// Config tunes the demotion heuristic
type Config struct {
	WindowSize  int     // samples kept per (profile, strategy) pair
	MinAttempts int     // attempts required before demotion may trigger
	DemoteBelow float64 // success rate under which demotion triggers
}

// DefaultConfig returns the standard demotion thresholds
func DefaultConfig() Config {
	return Config{
		WindowSize:  32,
		MinAttempts: 5,
		DemoteBelow: 0.5,
	}
}

type key struct {
	profileID string
	kind      strategy.Kind
}

// Monitor keeps a bounded ring of samples per (profile, strategy) pair.
// Oldest samples fall off as new ones arrive, so a strategy that starts
// working again earns its position back.
type Monitor struct {
	mu      sync.Mutex
	config  Config
	windows map[key]*ring
}

// New creates a monitor with the given thresholds
func New(config Config) *Monitor {
	if config.WindowSize <= 0 {
		config = DefaultConfig()
	}
	return &Monitor{
		config:  config,
		windows: make(map[key]*ring),
	}
}

// Record appends one attempt outcome for a (profile, strategy) pair
func (m *Monitor) Record(profileID string, kind strategy.Kind, success bool, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{profileID: profileID, kind: kind}
	r, ok := m.windows[k]
	if !ok {
		r = newRing(m.config.WindowSize)
		m.windows[k] = r
	}
	r.push(Sample{At: time.Now(), Duration: duration, Success: success})
}

// Stats returns the rolling aggregates for a pair
func (m *Monitor) Stats(profileID string, kind strategy.Kind) Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.windows[key{profileID: profileID, kind: kind}]
	if !ok {
		return Stats{}
	}

	var s Stats
	var total time.Duration
	for _, sample := range r.samples() {
		s.Attempts++
		total += sample.Duration
		if sample.Success {
			s.Successes++
		}
	}
	if s.Attempts > 0 {
		s.SuccessRate = float64(s.Successes) / float64(s.Attempts)
		s.AvgLatency = total / time.Duration(s.Attempts)
	}
	return s
}

// ShouldDemote reports whether a strategy's rolling success rate for a
// profile has fallen under the threshold. Demotion itself is the
// registry's job; this is only the signal.
func (m *Monitor) ShouldDemote(profileID string, kind strategy.Kind) bool {
	s := m.Stats(profileID, kind)
	return s.Attempts >= m.config.MinAttempts && s.SuccessRate < m.config.DemoteBelow
}

// ring is a fixed-capacity sample buffer
type ring struct {
	buf  []Sample
	next int
	full bool
}

func newRing(size int) *ring {
	return &ring{buf: make([]Sample, size)}
}

func (r *ring) push(s Sample) {
	r.buf[r.next] = s
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
}

// samples returns the window contents, oldest first
func (r *ring) samples() []Sample {
	if !r.full {
		return r.buf[:r.next]
	}
	out := make([]Sample, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}
