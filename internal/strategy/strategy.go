package strategy

import (
	"context"
	"fmt"
	"time"
)

// Kind identifies a delivery strategy
type Kind string

const (
	SyntheticInput Kind = "synthetic"
	ClipboardPaste Kind = "clipboard"
)

// ParseKind converts a config string into a strategy kind
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case SyntheticInput, ClipboardPaste:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown strategy %q (must be synthetic or clipboard)", s)
	}
}

// CharPolicy decides what happens to characters no key event can carry
type CharPolicy string

const (
	CharSkip    CharPolicy = "skip"
	CharReplace CharPolicy = "replace"
)

// PasteChord is the key combination used to trigger a paste in the target
type PasteChord string

const (
	ChordCtrlV       PasteChord = "ctrl+v"
	ChordCtrlShiftV  PasteChord = "ctrl+shift+v"
	ChordShiftInsert PasteChord = "shift+insert"
)

// Tuning carries the per-application knobs a strategy honors during one
// attempt. Profiles embed it; strategies never look past it, so new
// application support never grows new code paths here.
type Tuning struct {
	InterKeyDelay    time.Duration // pause between consecutive key dispatches
	SettleDelay      time.Duration // wait after paste before clipboard restore
	PasteChord       PasteChord
	RestoreClipboard bool
	CharPolicy       CharPolicy
}

// DefaultTuning returns the generic-profile knobs
func DefaultTuning() Tuning {
	return Tuning{
		InterKeyDelay:    0,
		SettleDelay:      150 * time.Millisecond,
		PasteChord:       ChordCtrlV,
		RestoreClipboard: true,
		CharPolicy:       CharSkip,
	}
}

// Strategy is one text delivery mechanism. Execute returns nil when the
// mechanism completed without error; that is a weaker guarantee than the
// target having accepted the text, and there is no channel to verify the
// latter. Failures are *Failure values so the coordinator can decide
// whether to fall back.
type Strategy interface {
	Kind() Kind
	Execute(ctx context.Context, text string, tune Tuning) error
}
