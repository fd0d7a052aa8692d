package phone

import "strings"

// Normalizer canonicalizes raw phone strings into comparable dialing keys.
// The rules are tuned for exports from a single-country handset: local
// numbers are LocalLen digits and international numbers carry Prefix.
type Normalizer struct {
	prefix   string
	localLen int
}

// New creates a normalizer for the given country dial prefix and
// local number length.
func New(prefix string, localLen int) *Normalizer {
	return &Normalizer{prefix: prefix, localLen: localLen}
}

// Normalize strips formatting from a raw phone string and returns a
// canonical digit string, or "" if nothing usable remains. Normalizing
// an already-normalized number returns it unchanged.
func (n *Normalizer) Normalize(raw string) string {
	cleaned := digits(raw)
	if cleaned == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(cleaned, n.prefix):
		return cleaned
	case len(cleaned) == n.localLen:
		return n.prefix + cleaned
	case strings.HasPrefix(cleaned, "0"):
		// Trunk prefix form: 0XXXXXXX dialed locally.
		return n.prefix + cleaned[1:]
	case len(cleaned) >= 10:
		// Long enough to already be international.
		return cleaned
	}
	return cleaned
}

func digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
