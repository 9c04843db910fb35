package strategy

import (
	"strings"
	"unicode/utf16"
)

// NamedKey is a key dispatched by its virtual key name instead of a
// character code. Some controls only recognize Return and Tab in this
// form, so they never travel as literal characters.
type NamedKey string

const (
	KeyReturn NamedKey = "Return"
	KeyTab    NamedKey = "Tab"
)

// KeyEvent is one synthetic key transition. Text characters carry a
// UTF-16 code unit because the OS input pipeline operates on 16-bit
// units; code points above U+FFFF therefore occupy two events per
// transition, one per surrogate half.
type KeyEvent struct {
	Unit uint16
	Key  NamedKey
	Down bool
}

const replacement = 0xFFFD

// EncodeText converts text into the key-event sequence the synthetic
// strategy dispatches. Every printable BMP character yields exactly one
// down/up pair; characters above U+FFFF yield two pairs (high then low
// surrogate); newline and tab become Return and Tab named-key pairs.
// Control characters neither key can carry are skipped or replaced per
// policy; the count of skipped characters is returned.
func EncodeText(text string, policy CharPolicy) ([]KeyEvent, int) {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	events := make([]KeyEvent, 0, 2*len(text))
	skipped := 0
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r':
			events = appendNamed(events, KeyReturn)
		case r == '\t':
			events = appendNamed(events, KeyTab)
		case r < 0x20 || r == 0x7f:
			if policy == CharReplace {
				events = appendUnit(events, replacement)
			} else {
				skipped++
			}
		case r <= 0xFFFF:
			events = appendUnit(events, uint16(r))
		default:
			hi, lo := utf16.EncodeRune(r)
			events = appendUnit(events, uint16(hi))
			events = appendUnit(events, uint16(lo))
		}
	}
	return events, skipped
}

func appendUnit(events []KeyEvent, unit uint16) []KeyEvent {
	return append(events,
		KeyEvent{Unit: unit, Down: true},
		KeyEvent{Unit: unit, Down: false},
	)
}

func appendNamed(events []KeyEvent, key NamedKey) []KeyEvent {
	return append(events,
		KeyEvent{Key: key, Down: true},
		KeyEvent{Key: key, Down: false},
	)
}

// DecodeEvents reassembles the text a key-event sequence represents.
// Surrogate halves pair back into their original code points, Return
// and Tab come back as newline and tab.
func DecodeEvents(events []KeyEvent) string {
	var b strings.Builder
	units := make([]uint16, 0, len(events)/2)

	flush := func() {
		if len(units) > 0 {
			b.WriteString(string(utf16.Decode(units)))
			units = units[:0]
		}
	}

	for _, ev := range events {
		if !ev.Down {
			continue
		}
		switch ev.Key {
		case KeyReturn:
			flush()
			b.WriteByte('\n')
		case KeyTab:
			flush()
			b.WriteByte('\t')
		default:
			units = append(units, ev.Unit)
		}
	}
	flush()
	return b.String()
}
