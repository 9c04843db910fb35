package engine

import (
	"time"

	"github.com/voxtype/voxtype/internal/strategy"
	"github.com/voxtype/voxtype/internal/target"
)

// Phase is the coordinator's position in the injection state machine
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseResolving   Phase = "resolving"
	PhaseSelecting   Phase = "selecting"
	PhaseAttempting  Phase = "attempting"
	PhaseFallingBack Phase = "falling_back"
	PhaseSucceeded   Phase = "succeeded"
	PhaseExhausted   Phase = "exhausted"
)

// Options carries the caller's per-request preferences
type Options struct {
	// Preferred moves a strategy to the front of the profile's order.
	Preferred strategy.Kind
	// AttemptTimeout bounds each strategy attempt. Zero means the
	// engine default.
	AttemptTimeout time.Duration
	// DisableClipboard keeps the clipboard strategy out of the order
	// entirely, including as fallback.
	DisableClipboard bool
}

// Outcome is the result of one injection request. Success means the
// delivery mechanism completed without error; there is no channel below
// the OS to confirm the target accepted the text, so callers must treat
// this as the weaker guarantee it is.
type Outcome struct {
	CorrelationID string
	Success       bool
	Strategy      strategy.Kind
	ProfileID     string
	Target        *target.Identity
	Duration      time.Duration
	Fallbacks     int
	FailureKind   strategy.FailureKind
}
