package terminal

import (
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

var sequences = map[string]tea.KeyType{
	"\x1b[A":  tea.KeyUp,
	"\x1b[B":  tea.KeyDown,
	"\x1b[C":  tea.KeyRight,
	"\x1b[D":  tea.KeyLeft,
	"\x1bOA":  tea.KeyUp,
	"\x1bOB":  tea.KeyDown,
	"\x1bOC":  tea.KeyRight,
	"\x1bOD":  tea.KeyLeft,
	"\x1b[H":  tea.KeyHome,
	"\x1b[F":  tea.KeyEnd,
	"\x1bOH":  tea.KeyHome,
	"\x1bOF":  tea.KeyEnd,
	"\x1b[1~": tea.KeyHome,
	"\x1b[4~": tea.KeyEnd,
	"\x1b[3~": tea.KeyDelete,
	"\x1b[5~": tea.KeyPgUp,
	"\x1b[6~": tea.KeyPgDown,
	"\x1b[Z":  tea.KeyShiftTab,
}

// ParseKeys decodes one read from a raw-mode terminal into key messages.
// A lone ESC byte is the Escape key; unknown escape sequences are dropped.
func ParseKeys(b []byte) []tea.KeyMsg {
	var keys []tea.KeyMsg
	var runes []rune

	flush := func() {
		if len(runes) == 0 {
			return
		}
		if len(runes) == 1 && runes[0] == ' ' {
			keys = append(keys, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
		} else {
			keys = append(keys, tea.KeyMsg{Type: tea.KeyRunes, Runes: runes})
		}
		runes = nil
	}

	for len(b) > 0 {
		c := b[0]
		switch {
		case c == 0x1b:
			flush()
			n, key := parseEscape(b)
			if key != nil {
				keys = append(keys, *key)
			}
			b = b[n:]
		case c == '\r' || c == '\n':
			flush()
			keys = append(keys, tea.KeyMsg{Type: tea.KeyEnter})
			b = b[1:]
		case c == 0x08 || c == 0x7f:
			flush()
			keys = append(keys, tea.KeyMsg{Type: tea.KeyBackspace})
			b = b[1:]
		case c < 0x20:
			flush()
			// Control key types share their byte values.
			keys = append(keys, tea.KeyMsg{Type: tea.KeyType(c)})
			b = b[1:]
		default:
			r, size := utf8.DecodeRune(b)
			b = b[size:]
			if r == utf8.RuneError || !unicode.IsPrint(r) {
				continue
			}
			runes = append(runes, r)
		}
	}
	flush()
	return keys
}

func parseEscape(b []byte) (int, *tea.KeyMsg) {
	if len(b) == 1 {
		return 1, &tea.KeyMsg{Type: tea.KeyEsc}
	}
	for _, n := range []int{4, 3} {
		if len(b) >= n {
			if typ, ok := sequences[string(b[:n])]; ok {
				return n, &tea.KeyMsg{Type: typ}
			}
		}
	}
	if b[1] == '[' || b[1] == 'O' {
		// Skip an unknown CSI/SS3 sequence up to its final byte.
		for i := 2; i < len(b); i++ {
			if b[i] >= 0x40 && b[i] <= 0x7e {
				return i + 1, nil
			}
		}
		return len(b), nil
	}
	if b[1] == 0x1b {
		return 1, &tea.KeyMsg{Type: tea.KeyEsc}
	}
	r, size := utf8.DecodeRune(b[1:])
	if r == utf8.RuneError || !unicode.IsPrint(r) {
		return 1, &tea.KeyMsg{Type: tea.KeyEsc}
	}
	return 1 + size, &tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}
