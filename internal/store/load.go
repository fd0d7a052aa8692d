package store

import (
	"fmt"
	"time"

	"github.com/ifaasih/mvx/internal/ingest"
)

// ReplaceSnapshot swaps the store's contents for a freshly folded
// snapshot in one transaction. The viewer reloads wholesale; there is no
// incremental patching.
func (db *DB) ReplaceSnapshot(s *ingest.Snapshot) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM messages`); err != nil {
		return fmt.Errorf("clear messages: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM contacts`); err != nil {
		return fmt.Errorf("clear contacts: %w", err)
	}

	now := time.Now().UnixMilli()
	for _, c := range s.Contacts {
		if _, err := tx.Exec(`
			INSERT INTO contacts (key, phone, name, normalized_phone, last_message, last_message_at, message_count, is_read, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.Key, c.Phone, c.Name, c.NormalizedPhone, c.LastMessage, c.LastMessageTime.UnixMilli(), c.MessageCount, c.IsRead, now); err != nil {
			return fmt.Errorf("insert contact %q: %w", c.Key, err)
		}

		// Snapshot lists are already chronological; insertion order keeps
		// equal timestamps stable via the rowid tie-break.
		for _, m := range s.Messages[c.Key] {
			if _, err := tx.Exec(`
				INSERT INTO messages (contact_key, msg_id, body, timestamp, from_me, is_read, status, is_call_log, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				c.Key, m.ID, m.Text, m.Time.UnixMilli(), m.FromMe, m.Read, string(m.Status), m.CallLog, now); err != nil {
				return fmt.Errorf("insert message %d for %q: %w", m.ID, c.Key, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}
