package strategy

import (
	"context"
	"log"
	"time"
)

const (
	clipboardOpenRetries = 3
	clipboardRetryDelay  = 50 * time.Millisecond
	restoreTimeout       = 2 * time.Second
)

// ClipboardPaster delivers text by placing it on the clipboard and
// dispatching a paste chord. The previous clipboard contents are
// snapshotted first and restored afterwards on every exit path,
// including cancellation: clobbering the user's clipboard silently is
// not an acceptable side effect.
type ClipboardPaster struct {
	clip       Clipboard
	dispatcher Dispatcher
}

// NewClipboardPaster creates the clipboard-paste strategy
func NewClipboardPaster(clip Clipboard, d Dispatcher) *ClipboardPaster {
	return &ClipboardPaster{clip: clip, dispatcher: d}
}

func (p *ClipboardPaster) Kind() Kind {
	return ClipboardPaste
}

func (p *ClipboardPaster) Execute(ctx context.Context, text string, tune Tuning) error {
	if err := p.clip.Available(); err != nil {
		return &Failure{Kind: FailureRejected, Err: err}
	}

	// Snapshot is best effort: a non-text clipboard reads back as an
	// error from most tools and there is nothing trustworthy to put
	// back then. A successful read of an empty clipboard is still a
	// snapshot, and the empty string is restored like any other.
	snapshot, err := p.clip.Read(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return classify(ctx, err)
		}
		log.Printf("Clipboard: could not snapshot previous contents: %v", err)
	}
	restorable := err == nil

	wrote := false
	if tune.RestoreClipboard {
		defer func() {
			if !wrote || !restorable {
				return
			}
			// Restore runs on success, failure and cancellation alike,
			// so it gets its own context.
			rctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
			defer cancel()
			if err := p.clip.Write(rctx, snapshot); err != nil {
				log.Printf("Clipboard: restore failed: %v", err)
			}
		}()
	}

	if err := p.writeWithRetry(ctx, text); err != nil {
		return err
	}
	wrote = true

	if err := p.dispatcher.Chord(ctx, tune.PasteChord); err != nil {
		return err
	}

	// Give the target a moment to consume the paste before the snapshot
	// goes back on the clipboard.
	return settle(ctx, tune.SettleDelay)
}

// writeWithRetry retries a clipboard write for a short window before
// declaring the clipboard busy.
func (p *ClipboardPaster) writeWithRetry(ctx context.Context, text string) error {
	var last error
	for attempt := 0; attempt < clipboardOpenRetries; attempt++ {
		if attempt > 0 {
			if err := pause(ctx, clipboardRetryDelay); err != nil {
				return err
			}
		}
		if last = p.clip.Write(ctx, text); last == nil {
			return nil
		}
		if ctx.Err() != nil {
			return classify(ctx, last)
		}
	}
	return &Failure{Kind: FailureResourceBusy, Err: last}
}
