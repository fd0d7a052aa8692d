package views

import (
	"strings"
	"unicode/utf8"
)

// sanitizeForTerminal cleans a string for rendering inside a tview cell.
// Export payloads are raw device dumps: SMS bodies carry CR and NUL
// padding and stray control bytes, names arrive with multi-codepoint
// emoji whose joiners and modifiers tear cell widths, and truncated rows
// can leave invalid UTF-8 behind. All of those are dropped; newlines and
// tabs pass through for the thread pane.
func sanitizeForTerminal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		if !isProblematicRune(r) {
			b.WriteRune(r)
		}
		i += size
	}
	return b.String()
}

func isProblematicRune(r rune) bool {
	switch {
	case r == '\n' || r == '\t':
		return false
	case r < 0x20, r >= 0x7F && r <= 0x9F:
		// C0/C1 control bytes, CR and NUL padding included.
		return true
	case r >= 0x1F3FB && r <= 0x1F3FF:
		// Emoji skin tone modifiers.
		return true
	case r == 0x200D:
		// Zero width joiner.
		return true
	case r >= 0xFE00 && r <= 0xFE0F, r >= 0xE0100 && r <= 0xE01EF:
		// Variation selectors.
		return true
	default:
		return false
	}
}
