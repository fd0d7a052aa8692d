package ingest

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ifaasih/mvx/internal/bus"
	"github.com/ifaasih/mvx/internal/phone"
	"github.com/ifaasih/mvx/internal/record"
	"go.uber.org/zap"
)

// Aggregator folds raw export rows into the contact-centric model.
type Aggregator struct {
	norm   *phone.Normalizer
	bus    *bus.Bus
	logger *zap.Logger
}

// New creates an aggregator.
func New(norm *phone.Normalizer, b *bus.Bus, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{norm: norm, bus: b, logger: logger}
}

// Fold runs a single pass over the rows in export order and returns the
// resulting snapshot. Unusable rows are skipped, never fatal: exports are
// dirty and one bad row must not take down the whole view.
func (a *Aggregator) Fold(records []record.Raw) *Snapshot {
	s := &Snapshot{
		LoadID:   uuid.New().String(),
		Messages: make(map[string][]Message),
		Terms:    make(map[string][]string),
	}
	byKey := make(map[string]*Contact)

	x := record.NewExtractor()
	for i := range records {
		f, ok := x.Extract(&records[i])
		if !ok {
			s.Skipped++
			continue
		}
		s.Records++

		normalized := a.norm.Normalize(f.Phone)
		key := normalized
		if key == "" {
			key = f.Phone
		}

		msg := Message{
			ID:      f.ID,
			Text:    f.Text,
			Time:    f.Time,
			FromMe:  f.FromMe,
			Read:    f.Read,
			Status:  deriveStatus(f.FromMe, f.RawStatus, f.Read),
			CallLog: f.CallLog,
		}
		s.Messages[key] = append(s.Messages[key], msg)
		s.Terms[key] = append(s.Terms[key], f.Terms...)

		c := byKey[key]
		if c == nil {
			name := f.Name
			if name == "" {
				name = "Unknown"
			}
			c = &Contact{
				Key:             key,
				Phone:           f.Phone,
				Name:            name,
				NormalizedPhone: normalized,
				IsRead:          true,
			}
			byKey[key] = c
			s.Contacts = append(s.Contacts, c)
		}
		c.MessageCount++
		// Replace only if strictly newer, so ties and out-of-order input
		// resolve by encounter order.
		if f.Time.After(c.LastMessageTime) {
			c.LastMessage = f.Text
			c.LastMessageTime = f.Time
		}
		// Unread is monotonic: one unread incoming message marks the
		// contact forever; outgoing messages never touch it.
		if !f.FromMe && !f.Read {
			c.IsRead = false
		}
	}

	for key := range s.Messages {
		msgs := s.Messages[key]
		sort.SliceStable(msgs, func(i, j int) bool {
			return msgs[i].Time.Before(msgs[j].Time)
		})
	}
	sort.SliceStable(s.Contacts, func(i, j int) bool {
		return s.Contacts[i].LastMessageTime.After(s.Contacts[j].LastMessageTime)
	})

	a.logger.Info("export folded",
		zap.String("load_id", s.LoadID),
		zap.Int("records", s.Records),
		zap.Int("skipped", s.Skipped),
		zap.Int("contacts", len(s.Contacts)),
	)
	if a.bus != nil {
		a.bus.Publish(bus.Event{
			Kind:      bus.KindLoadFolded,
			Timestamp: time.Now(),
			Payload: bus.LoadStats{
				LoadID:   s.LoadID,
				Records:  s.Records,
				Skipped:  s.Skipped,
				Contacts: len(s.Contacts),
				Messages: s.Records,
			},
		})
	}
	return s
}

// deriveStatus maps a row's direction, source status and read state onto
// the viewer's delivery status.
func deriveStatus(fromMe bool, rawStatus string, read bool) Status {
	if !fromMe {
		if read {
			return StatusRead
		}
		return StatusDelivered
	}
	switch strings.ToLower(rawStatus) {
	case "sent":
		return StatusDelivered
	case "read":
		return StatusRead
	case "unsent", "failed", "error":
		return StatusFailed
	default:
		return StatusSent
	}
}
