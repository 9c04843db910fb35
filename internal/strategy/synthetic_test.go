package strategy

import (
	"context"
	"testing"
)

func TestSynthetic_DispatchesEncodedEvents(t *testing.T) {
	disp := &fakeDispatcher{}
	s := NewSynthetic(disp)

	if err := s.Execute(context.Background(), "hi 😀", DefaultTuning()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want, _ := EncodeText("hi 😀", CharSkip)
	if len(disp.events) != len(want) {
		t.Fatalf("dispatched %d events, want %d", len(disp.events), len(want))
	}
	if got := DecodeEvents(disp.events); got != "hi 😀" {
		t.Errorf("dispatched events decode to %q, want %q", got, "hi 😀")
	}
}

func TestSynthetic_EmptyAfterPolicyIsNoop(t *testing.T) {
	disp := &fakeDispatcher{}
	s := NewSynthetic(disp)

	// Only unsupported control characters: nothing to dispatch.
	if err := s.Execute(context.Background(), "\x07\x1b", DefaultTuning()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(disp.events) != 0 {
		t.Errorf("dispatched %d events, want 0", len(disp.events))
	}
}

func TestSynthetic_PropagatesRejection(t *testing.T) {
	disp := &fakeDispatcher{err: Failf(FailureRejected, "synthetic events refused")}
	s := NewSynthetic(disp)

	err := s.Execute(context.Background(), "text", DefaultTuning())
	if KindOf(err) != FailureRejected {
		t.Errorf("Execute() failure kind = %v, want %v", KindOf(err), FailureRejected)
	}
	if !Recoverable(err) {
		t.Errorf("rejection must be recoverable so the coordinator can fall back")
	}
}

func TestSynthetic_Kind(t *testing.T) {
	if got := NewSynthetic(&fakeDispatcher{}).Kind(); got != SyntheticInput {
		t.Errorf("Kind() = %v, want %v", got, SyntheticInput)
	}
}
