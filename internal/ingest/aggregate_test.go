package ingest

import (
	"testing"
	"time"

	"github.com/ifaasih/mvx/internal/bus"
	"github.com/ifaasih/mvx/internal/phone"
	"github.com/ifaasih/mvx/internal/record"
)

func testAggregator() *Aggregator {
	return New(phone.New("960", 7), nil, nil)
}

func unifiedSMS(id, direction, party, ts, body string) record.Raw {
	return record.Raw{
		ID: id, Type: record.TypeSMS, Direction: direction,
		Party: party, Timestamp: ts, Description: body,
	}
}

func TestFoldEndToEnd(t *testing.T) {
	records := []record.Raw{
		unifiedSMS("1", "From", "From: +9601234567 Amy", "01/01/2020 10:00:00(UTC+0)", "hi"),
		unifiedSMS("2", "To", "To: +9601234567 Amy", "01/01/2020 10:05:00(UTC+0)", "hello"),
	}

	s := testAggregator().Fold(records)

	if len(s.Contacts) != 1 {
		t.Fatalf("got %d contacts, want 1", len(s.Contacts))
	}
	c := s.Contacts[0]
	if c.Phone != "+9601234567" {
		t.Errorf("phone = %q, want +9601234567", c.Phone)
	}
	if c.Name != "Amy" {
		t.Errorf("name = %q, want Amy", c.Name)
	}
	if c.MessageCount != 2 {
		t.Errorf("messageCount = %d, want 2", c.MessageCount)
	}
	if c.LastMessage != "hello" {
		t.Errorf("lastMessage = %q, want hello", c.LastMessage)
	}
	if !c.IsRead {
		t.Error("isRead = false, want true (no unread incoming message)")
	}

	msgs := s.Messages[c.Key]
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Text != "hi" || msgs[1].Text != "hello" {
		t.Errorf("messages out of order: %q then %q", msgs[0].Text, msgs[1].Text)
	}
	if msgs[0].FromMe || !msgs[1].FromMe {
		t.Error("direction flags wrong")
	}
}

func TestFoldCollapsesEquivalentPhones(t *testing.T) {
	records := []record.Raw{
		unifiedSMS("1", "From", "From: +9607712345 Amy", "01/01/2020 10:00:00(UTC+0)", "a"),
		unifiedSMS("2", "From", "From: 7712345 Amy", "01/01/2020 10:01:00(UTC+0)", "b"),
		unifiedSMS("3", "From", "From: 07712345 Amy", "01/01/2020 10:02:00(UTC+0)", "c"),
	}

	s := testAggregator().Fold(records)
	if len(s.Contacts) != 1 {
		t.Fatalf("got %d contacts, want 1 (all forms normalize alike)", len(s.Contacts))
	}
	if s.Contacts[0].MessageCount != 3 {
		t.Errorf("messageCount = %d, want 3", s.Contacts[0].MessageCount)
	}
	if s.Contacts[0].Phone != "+9607712345" {
		t.Errorf("phone = %q, want first-seen raw form", s.Contacts[0].Phone)
	}
}

func TestFoldOutOfOrderTimestamps(t *testing.T) {
	records := []record.Raw{
		unifiedSMS("1", "From", "From: 7712345 Amy", "01/01/2020 10:00:00(UTC+0)", "t1"),
		unifiedSMS("2", "From", "From: 7712345 Amy", "01/01/2020 12:00:00(UTC+0)", "t3"),
		unifiedSMS("3", "From", "From: 7712345 Amy", "01/01/2020 11:00:00(UTC+0)", "t2"),
	}

	s := testAggregator().Fold(records)
	c := s.Contacts[0]
	if c.LastMessage != "t3" {
		t.Errorf("lastMessage = %q, want t3 (the maximum timestamp)", c.LastMessage)
	}

	msgs := s.Messages[c.Key]
	want := []string{"t1", "t2", "t3"}
	for i, w := range want {
		if msgs[i].Text != w {
			t.Errorf("msgs[%d] = %q, want %q", i, msgs[i].Text, w)
		}
	}
}

func TestFoldEqualTimestampsKeepInputOrder(t *testing.T) {
	ts := "01/01/2020 10:00:00(UTC+0)"
	records := []record.Raw{
		unifiedSMS("1", "From", "From: 7712345 Amy", ts, "first"),
		unifiedSMS("2", "From", "From: 7712345 Amy", ts, "second"),
	}

	s := testAggregator().Fold(records)
	c := s.Contacts[0]
	// Replace-only-if-strictly-newer: the tie keeps the first message.
	if c.LastMessage != "first" {
		t.Errorf("lastMessage = %q, want first (tie resolved by encounter order)", c.LastMessage)
	}
	msgs := s.Messages[c.Key]
	if msgs[0].Text != "first" || msgs[1].Text != "second" {
		t.Errorf("stable sort broke input order: %q, %q", msgs[0].Text, msgs[1].Text)
	}
}

func TestFoldUnreadMonotonic(t *testing.T) {
	records := []record.Raw{
		{
			LegacyID:    1,
			LegacyParty: &record.LegacyParty{Direction: "from", Phone: "7712345", Name: "Amy"},
			LegacyTime:  &record.LegacyTime{Date: "01/01/2020", Time: "10:00:00(UTC+0)"},
			Status:      "Unread",
			Message:     "unread one",
		},
		{
			LegacyID:    2,
			LegacyParty: &record.LegacyParty{Direction: "from", Phone: "7712345", Name: "Amy"},
			LegacyTime:  &record.LegacyTime{Date: "01/01/2020", Time: "10:01:00(UTC+0)"},
			Status:      "Read",
			Message:     "read one",
		},
		{
			LegacyID:    3,
			LegacyParty: &record.LegacyParty{Direction: "to", Phone: "7712345", Name: "Amy"},
			LegacyTime:  &record.LegacyTime{Date: "01/01/2020", Time: "10:02:00(UTC+0)"},
			Status:      "Sent",
			Message:     "reply",
		},
	}

	s := testAggregator().Fold(records)
	if s.Contacts[0].IsRead {
		t.Error("isRead reverted to true after later read/outgoing messages")
	}
}

func TestFoldSkipsCalendar(t *testing.T) {
	records := []record.Raw{
		{ID: "1", Type: "Calendar", Party: "From: 7712345", Timestamp: "01/01/2020 10:00:00(UTC+0)", Description: "meeting"},
	}
	s := testAggregator().Fold(records)
	if len(s.Contacts) != 0 {
		t.Errorf("got %d contacts, want 0", len(s.Contacts))
	}
	if s.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", s.Skipped)
	}
}

func TestFoldContinuationAttribution(t *testing.T) {
	records := []record.Raw{
		unifiedSMS("1", "From", "From: 7712345 Amy", "01/01/2020 10:00:00(UTC+0)", "part one"),
		unifiedSMS("2", "From", "From: ", "01/01/2020 10:00:01(UTC+0)", "part two"),
	}

	s := testAggregator().Fold(records)
	if len(s.Contacts) != 1 {
		t.Fatalf("got %d contacts, want 1", len(s.Contacts))
	}
	msgs := s.Messages[s.Contacts[0].Key]
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if !msgs[1].FromMe {
		t.Error("continuation message should have FromMe=true")
	}
}

func TestFoldUnknownName(t *testing.T) {
	records := []record.Raw{
		unifiedSMS("1", "From", "From: 7712345", "01/01/2020 10:00:00(UTC+0)", "hi"),
	}
	s := testAggregator().Fold(records)
	if s.Contacts[0].Name != "Unknown" {
		t.Errorf("name = %q, want Unknown", s.Contacts[0].Name)
	}
}

func TestFoldContactOrder(t *testing.T) {
	records := []record.Raw{
		unifiedSMS("1", "From", "From: 7712345 Old", "01/01/2020 10:00:00(UTC+0)", "old"),
		unifiedSMS("2", "From", "From: 7754321 New", "02/01/2020 10:00:00(UTC+0)", "new"),
	}
	s := testAggregator().Fold(records)
	if len(s.Contacts) != 2 {
		t.Fatalf("got %d contacts, want 2", len(s.Contacts))
	}
	if s.Contacts[0].Name != "New" {
		t.Errorf("contacts[0] = %q, want newest-first ordering", s.Contacts[0].Name)
	}
}

func TestFoldCallLogWithoutBody(t *testing.T) {
	records := []record.Raw{
		{ID: "9", Type: record.TypeCallLog, Party: "+9607712345", Timestamp: "01/01/2020 10:00:00(UTC+0)"},
	}
	s := testAggregator().Fold(records)
	if len(s.Contacts) != 1 {
		t.Fatalf("got %d contacts, want 1", len(s.Contacts))
	}
	msgs := s.Messages[s.Contacts[0].Key]
	if len(msgs) != 1 || !msgs[0].CallLog {
		t.Error("call log row should fold into one call-log message")
	}
	if !s.Contacts[0].IsRead {
		t.Error("call logs are always folded as read")
	}
}

func TestFoldPublishesEvent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("load.", 10)
	defer unsub()

	agg := New(phone.New("960", 7), b, nil)
	agg.Fold([]record.Raw{unifiedSMS("1", "From", "From: 7712345 Amy", "01/01/2020 10:00:00(UTC+0)", "hi")})

	select {
	case evt := <-ch:
		stats, ok := evt.Payload.(bus.LoadStats)
		if !ok {
			t.Fatalf("payload type = %T, want LoadStats", evt.Payload)
		}
		if stats.Contacts != 1 || stats.Records != 1 {
			t.Errorf("stats = %+v", stats)
		}
		if stats.LoadID == "" {
			t.Error("load id missing")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for load.folded event")
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name      string
		fromMe    bool
		rawStatus string
		read      bool
		want      Status
	}{
		{"incoming read", false, "Read", true, StatusRead},
		{"incoming unread", false, "Unread", false, StatusDelivered},
		{"outgoing sent", true, "Sent", false, StatusDelivered},
		{"outgoing read", true, "Read", false, StatusRead},
		{"outgoing unsent", true, "Unsent", false, StatusFailed},
		{"outgoing failed", true, "failed", false, StatusFailed},
		{"outgoing error", true, "ERROR", false, StatusFailed},
		{"outgoing missing", true, "", false, StatusSent},
		{"outgoing unrecognized", true, "Queued", false, StatusSent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveStatus(tt.fromMe, tt.rawStatus, tt.read); got != tt.want {
				t.Errorf("deriveStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
