package strategy

import (
	"testing"
	"unicode/utf16"
)

func TestEncodeText_BMPOnePairPerChar(t *testing.T) {
	text := "Hello, world! 123 äöü éñ 你好"

	events, skipped := EncodeText(text, CharSkip)
	if skipped != 0 {
		t.Errorf("EncodeText() skipped = %d, want 0", skipped)
	}

	runes := []rune(text)
	if len(events) != 2*len(runes) {
		t.Fatalf("EncodeText() produced %d events, want %d (one down/up pair per character)", len(events), 2*len(runes))
	}

	for i, r := range runes {
		down, up := events[2*i], events[2*i+1]
		if !down.Down || up.Down {
			t.Fatalf("event pair %d: got down=%v up=%v", i, down.Down, up.Down)
		}
		if down.Unit != uint16(r) || up.Unit != uint16(r) {
			t.Errorf("event pair %d: unit = %#x, want %#x", i, down.Unit, uint16(r))
		}
	}
}

func TestEncodeText_SurrogatePairs(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "grinning face", text: "😀"},
		{name: "rocket", text: "🚀"},
		{name: "gothic letter", text: "𐌰"},
		{name: "mixed", text: "a😀b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, skipped := EncodeText(tt.text, CharSkip)
			if skipped != 0 {
				t.Errorf("EncodeText() skipped = %d, want 0", skipped)
			}

			// Each event pair must carry a single UTF-16 unit; non-BMP
			// characters therefore need exactly two pairs.
			wantUnits := len(utf16.Encode([]rune(tt.text)))
			if len(events) != 2*wantUnits {
				t.Errorf("EncodeText() produced %d events, want %d", len(events), 2*wantUnits)
			}

			for _, r := range tt.text {
				if r <= 0xFFFF {
					continue
				}
				hi, lo := utf16.EncodeRune(r)
				if !containsUnitPair(events, uint16(hi)) || !containsUnitPair(events, uint16(lo)) {
					t.Errorf("surrogate halves %#x/%#x not both dispatched for %q", hi, lo, r)
				}
			}

			if got := DecodeEvents(events); got != tt.text {
				t.Errorf("round trip = %q, want %q", got, tt.text)
			}
		})
	}
}

func containsUnitPair(events []KeyEvent, unit uint16) bool {
	var down, up bool
	for _, ev := range events {
		if ev.Key == "" && ev.Unit == unit {
			if ev.Down {
				down = true
			} else {
				up = true
			}
		}
	}
	return down && up
}

func TestEncodeText_TabAndNewlineBecomeNamedKeys(t *testing.T) {
	events, skipped := EncodeText("Hello\tWorld\n", CharSkip)
	if skipped != 0 {
		t.Fatalf("EncodeText() skipped = %d, want 0", skipped)
	}

	// Expected dispatch: H,e,l,l,o,<TAB>,W,o,r,l,d,<ENTER> with no
	// literal tab or newline characters.
	var got []string
	for _, ev := range events {
		if !ev.Down {
			continue
		}
		if ev.Key != "" {
			got = append(got, "<"+string(ev.Key)+">")
		} else {
			got = append(got, string(rune(ev.Unit)))
		}
	}
	want := []string{"H", "e", "l", "l", "o", "<Tab>", "W", "o", "r", "l", "d", "<Return>"}
	if len(got) != len(want) {
		t.Fatalf("dispatched %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dispatched %v, want %v", got, want)
		}
	}

	for _, ev := range events {
		if ev.Key == "" && (ev.Unit == '\t' || ev.Unit == '\n') {
			t.Errorf("literal control character %#x dispatched as a character unit", ev.Unit)
		}
	}

	if got := DecodeEvents(events); got != "Hello\tWorld\n" {
		t.Errorf("round trip = %q, want %q", got, "Hello\tWorld\n")
	}
}

func TestEncodeText_CRLFNormalized(t *testing.T) {
	events, _ := EncodeText("a\r\nb", CharSkip)
	returns := 0
	for _, ev := range events {
		if ev.Key == KeyReturn && ev.Down {
			returns++
		}
	}
	if returns != 1 {
		t.Errorf("CRLF produced %d Return presses, want 1", returns)
	}
}

func TestEncodeText_UnsupportedCharacters(t *testing.T) {
	// Bell and escape have no key-event representation.
	text := "a\x07b\x1bc"

	events, skipped := EncodeText(text, CharSkip)
	if skipped != 2 {
		t.Errorf("CharSkip: skipped = %d, want 2", skipped)
	}
	if got := DecodeEvents(events); got != "abc" {
		t.Errorf("CharSkip: decoded = %q, want %q", got, "abc")
	}

	events, skipped = EncodeText(text, CharReplace)
	if skipped != 0 {
		t.Errorf("CharReplace: skipped = %d, want 0", skipped)
	}
	if got := DecodeEvents(events); got != "a�b�c" {
		t.Errorf("CharReplace: decoded = %q, want %q", got, "a�b�c")
	}
}

func TestDecodeEvents_RoundTrip(t *testing.T) {
	tests := []string{
		"",
		"plain ascii",
		"tabs\tand\nnewlines\n",
		"emoji 😀🚀 and text",
		"𐌰𐌱𐌲 gothic",
	}

	for _, text := range tests {
		events, _ := EncodeText(text, CharSkip)
		want := text
		if got := DecodeEvents(events); got != want {
			t.Errorf("DecodeEvents(EncodeText(%q)) = %q", text, got)
		}
	}
}

func TestSegment_SplitsTextRunsAndNamedKeys(t *testing.T) {
	events, _ := EncodeText("ab\tc\nd", CharSkip)
	segs := segment(events)

	want := []eventSegment{
		{text: "ab"},
		{key: KeyTab},
		{text: "c"},
		{key: KeyReturn},
		{text: "d"},
	}
	if len(segs) != len(want) {
		t.Fatalf("segment() produced %d segments, want %d: %+v", len(segs), len(want), segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, segs[i], want[i])
		}
	}
}
