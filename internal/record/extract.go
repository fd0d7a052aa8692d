package record

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	directionRe = regexp.MustCompile(`^(From|To):\s*(.*)$`)
	phoneNameRe = regexp.MustCompile(`^(\+?\d+)\s+(.+)$`)
	phoneOnlyRe = regexp.MustCompile(`^\+?\d+$`)
	embeddedRe  = regexp.MustCompile(`\d{7,15}`)
)

// attribution remembers the party of the last successfully extracted row.
// Multi-part messages appear in exports as follow-up rows with an empty
// "From:"/"To:" party and must be attributed to that party.
type attribution struct {
	phone string
	name  string
}

// Extractor turns raw export rows into uniform Fields tuples. It is
// stateful: the carry-over for continuation rows lives here, so one
// Extractor must be used for a whole pass and rows must be fed in
// export order.
type Extractor struct {
	last *attribution
}

// NewExtractor creates an extractor with no prior attribution.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the uniform field tuple for a row, or ok=false when the
// row carries no usable contact/message information and must be skipped.
func (x *Extractor) Extract(r *Raw) (Fields, bool) {
	switch r.Schema() {
	case SchemaLegacy:
		return x.extractLegacy(r)
	case SchemaUnified:
		return x.extractUnified(r)
	default:
		return Fields{}, false
	}
}

func (x *Extractor) extractLegacy(r *Raw) (Fields, bool) {
	if r.LegacyParty.Phone == "" || r.Message == "" {
		return Fields{}, false
	}

	f := Fields{
		ID:        r.LegacyID,
		Phone:     r.LegacyParty.Phone,
		Name:      r.LegacyParty.Name,
		Text:      r.Message,
		Time:      ParseLegacyTime(r.LegacyTime),
		FromMe:    strings.EqualFold(r.LegacyParty.Direction, "to"),
		Read:      r.Status == "Read",
		RawStatus: r.Status,
	}
	if f.Name != "" {
		f.Terms = append(f.Terms, f.Name)
	}
	x.last = &attribution{phone: f.Phone, name: f.Name}
	return f, true
}

func (x *Extractor) extractUnified(r *Raw) (Fields, bool) {
	switch r.Type {
	case TypeSMS, TypeInstant, TypeCallLog:
	default:
		return Fields{}, false
	}

	isCall := r.Type == TypeCallLog
	if !isCall && r.Description == "" {
		return Fields{}, false
	}

	party := strings.TrimSpace(r.Party)
	var phone, name string
	contFrom := false

	if m := directionRe.FindStringSubmatch(party); m != nil {
		rest := strings.TrimSpace(m[2])
		switch {
		case rest == "":
			// Continuation row: attribute to the previous party.
			if x.last == nil {
				return Fields{}, false
			}
			phone, name = x.last.phone, x.last.name
			contFrom = m[1] == "From"
		case phoneNameRe.MatchString(rest):
			pm := phoneNameRe.FindStringSubmatch(rest)
			phone, name = pm[1], strings.TrimSpace(pm[2])
		case phoneOnlyRe.MatchString(rest):
			phone = rest
		default:
			run := embeddedRe.FindString(rest)
			if run == "" {
				return Fields{}, false
			}
			phone = run
			name = strings.TrimSpace(strings.Replace(rest, run, "", 1))
		}
	} else if isCall && phoneOnlyRe.MatchString(party) {
		// Call logs sometimes carry a bare number with no direction prefix.
		phone = party
	} else {
		return Fields{}, false
	}

	id, _ := strconv.ParseInt(strings.TrimSpace(r.ID), 10, 64)

	f := Fields{
		ID:      id,
		Phone:   phone,
		Name:    name,
		Text:    r.Description,
		Time:    ParseUnifiedTime(r.Timestamp),
		FromMe:  r.Direction == "To" || contFrom,
		Read:    true, // the unified schema carries no read/unread signal
		CallLog: isCall,
	}
	if f.Name != "" {
		f.Terms = append(f.Terms, f.Name)
	}
	x.last = &attribution{phone: phone, name: name}
	return f, true
}
