// Package index builds the per-contact search corpus and answers
// substring queries against it.
package index

import (
	"strings"

	"github.com/ifaasih/mvx/internal/ingest"
)

// MessageRef is the slice of a message the search side needs: enough to
// locate a match and jump the viewer to it.
type MessageRef struct {
	ID   int64
	Body string
}

// Entry is one contact's corpus entry: a lowercased blob of everything
// searchable about the contact, plus its messages in chronological order.
type Entry struct {
	ContactID string
	Text      string
	Messages  []MessageRef
}

// Build flattens a snapshot into the corpus, one entry per contact. The
// blob joins name, raw phone, normalized phone, last message, every
// message body (chronological) and the extra terms, newline-delimited so
// substrings cannot bridge unrelated fields.
func Build(s *ingest.Snapshot) []Entry {
	entries := make([]Entry, 0, len(s.Contacts))
	for _, c := range s.Contacts {
		msgs := s.Messages[c.Key]

		fields := make([]string, 0, 4+len(msgs)+len(s.Terms[c.Key]))
		fields = append(fields, c.Name, c.Phone, c.NormalizedPhone, c.LastMessage)

		refs := make([]MessageRef, 0, len(msgs))
		for _, m := range msgs {
			fields = append(fields, m.Text)
			refs = append(refs, MessageRef{ID: m.ID, Body: m.Text})
		}
		fields = append(fields, s.Terms[c.Key]...)

		entries = append(entries, Entry{
			ContactID: c.Key,
			Text:      strings.ToLower(strings.Join(fields, "\n")),
			Messages:  refs,
		})
	}
	return entries
}
