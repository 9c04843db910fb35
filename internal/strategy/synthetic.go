package strategy

import (
	"context"
	"log"
)

// Synthetic types the text as OS-level key events through a Dispatcher.
// It is the mechanism of last resort: every profile keeps it somewhere
// in its order unless explicitly disabled.
type Synthetic struct {
	dispatcher Dispatcher
}

// NewSynthetic creates the synthetic-input strategy on top of the given
// dispatcher
func NewSynthetic(d Dispatcher) *Synthetic {
	return &Synthetic{dispatcher: d}
}

func (s *Synthetic) Kind() Kind {
	return SyntheticInput
}

func (s *Synthetic) Execute(ctx context.Context, text string, tune Tuning) error {
	events, skipped := EncodeText(text, tune.CharPolicy)
	if skipped > 0 {
		// Recovered in place: dropped characters never abort the attempt.
		log.Printf("Synthetic: skipped %d unsupported character(s)", skipped)
	}
	if len(events) == 0 {
		return nil
	}

	return s.dispatcher.Dispatch(ctx, events, tune.InterKeyDelay)
}
