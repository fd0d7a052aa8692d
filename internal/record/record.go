package record

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record type labels used by the unified export schema. Only these three
// are ingested; everything else (Calendar, etc.) is discarded.
const (
	TypeSMS     = "SMS Messages"
	TypeInstant = "Instant Messages"
	TypeCallLog = "Call Log"
)

// Raw is one row of a phone export. Exports mix two schema generations in
// a single array, so Raw carries the fields of both and the schema is
// detected structurally, not from a stored tag.
type Raw struct {
	// Unified schema fields.
	ID          string `json:"ID"`
	Type        string `json:"Type"`
	Direction   string `json:"Direction"`
	Timestamp   string `json:"Timestamp"`
	Party       string `json:"Party"`
	Description string `json:"Description"`

	// Legacy schema fields.
	LegacyID    int64        `json:"id"`
	LegacyParty *LegacyParty `json:"party"`
	LegacyTime  *LegacyTime  `json:"time"`
	Status      string       `json:"status"`
	Message     string       `json:"message"`
}

// LegacyParty is the nested party object of the legacy schema.
type LegacyParty struct {
	Direction string `json:"direction"`
	Phone     string `json:"phone"`
	Name      string `json:"name"`
}

// LegacyTime is the nested time object of the legacy schema.
type LegacyTime struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// Schema identifies which export generation a row belongs to.
type Schema int

const (
	SchemaUnknown Schema = iota
	SchemaLegacy
	SchemaUnified
)

// Schema detects the row's schema by structural field presence: legacy rows
// carry a nested party object, unified rows carry a Type label.
func (r *Raw) Schema() Schema {
	switch {
	case r.LegacyParty != nil:
		return SchemaLegacy
	case r.Type != "":
		return SchemaUnified
	default:
		return SchemaUnknown
	}
}

// Decode parses a whole export blob: a single JSON array that may mix rows
// of both schemas.
func Decode(data []byte) ([]Raw, error) {
	var records []Raw
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	return records, nil
}

// Fields is the uniform tuple extracted from a row of either schema,
// ready for aggregation.
type Fields struct {
	ID      int64
	Phone   string
	Name    string
	Text    string
	Time    time.Time
	FromMe  bool
	Read    bool
	CallLog bool

	// RawStatus is the source status string (legacy rows only), kept for
	// delivery-status derivation.
	RawStatus string

	// Terms are extra searchable strings pulled from the row, beyond the
	// message body itself.
	Terms []string
}
