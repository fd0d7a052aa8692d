package ingest

import "time"

// Contact is one conversation partner derived from the export. The key is
// the normalized phone number when normalization succeeds, else the raw
// phone string; it is stable for the whole session.
type Contact struct {
	Key             string
	Phone           string // first-seen raw phone
	Name            string // first-seen display name
	NormalizedPhone string
	LastMessage     string
	LastMessageTime time.Time
	MessageCount    int
	IsRead          bool
}

// Status is the derived delivery status of a message.
type Status string

const (
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
	StatusFailed    Status = "failed"
)

// Message is one normalized message owned by exactly one contact.
type Message struct {
	ID      int64
	Text    string
	Time    time.Time
	FromMe  bool
	Read    bool
	Status  Status
	CallLog bool
}

// Snapshot is the result of folding one export: the contact registry,
// per-contact chronological message lists, and per-contact searchable
// term bags.
type Snapshot struct {
	LoadID   string
	Contacts []*Contact           // descending by LastMessageTime
	Messages map[string][]Message // ContactKey → ascending by Time
	Terms    map[string][]string

	Records int // rows consumed from the export
	Skipped int // rows rejected as unusable
}

// MessageTotal returns the number of messages across all contacts.
func (s *Snapshot) MessageTotal() int {
	n := 0
	for _, msgs := range s.Messages {
		n += len(msgs)
	}
	return n
}
