package index

import (
	"strings"
	"unicode/utf8"
)

// Match is one matching contact, with the message to jump to.
type Match struct {
	ContactID string
	// MessageID is the first chronological message containing the query,
	// or the most recent message when the contact matched on name/phone
	// only. Zero when the contact has no messages.
	MessageID int64
	Snippet   string
}

// Filter answers a substring query against the corpus. The query is
// trimmed and lowercased; matching is unanchored and case-insensitive.
// An empty or whitespace-only query is the distinguished "no filter"
// signal: Filter returns (nil, false) and the caller shows everything.
func Filter(entries []Entry, query string, snippetContext int) ([]Match, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, false
	}

	var matches []Match
	for _, e := range entries {
		if !strings.Contains(e.Text, q) {
			continue
		}
		matches = append(matches, locate(e, q, snippetContext))
	}
	return matches, true
}

func locate(e Entry, q string, context int) Match {
	for _, m := range e.Messages {
		lower := strings.ToLower(m.Body)
		idx := strings.Index(lower, q)
		if idx < 0 {
			continue
		}
		// idx is an offset into the folded text. Case folding can change
		// byte length ("İ" folds to "i̇"), so the original body is only
		// safe to slice when the lengths agree.
		body := m.Body
		if len(lower) != len(body) {
			body = lower
		}
		return Match{
			ContactID: e.ContactID,
			MessageID: m.ID,
			Snippet:   Snippet(body, idx, len(q), context),
		}
	}
	// Matched on name/phone only: fall back to the most recent message.
	match := Match{ContactID: e.ContactID}
	if n := len(e.Messages); n > 0 {
		match.MessageID = e.Messages[n-1].ID
	}
	return match
}

// Snippet returns a bounded window of body around the match at idx, with
// ellipsis markers on the sides that were truncated. The window widens to
// the nearest rune boundaries so a multi-byte rune is never split.
func Snippet(body string, idx, matchLen, context int) string {
	start := idx - context
	if start < 0 {
		start = 0
	}
	end := idx + matchLen + context
	if end > len(body) {
		end = len(body)
	}
	for start > 0 && !utf8.RuneStart(body[start]) {
		start--
	}
	for end < len(body) && !utf8.RuneStart(body[end]) {
		end++
	}

	out := body[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(body) {
		out += "..."
	}
	return out
}
