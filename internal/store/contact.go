package store

import "database/sql"

// ListContacts returns contacts sorted by last message timestamp
// descending.
func (db *DB) ListContacts(limit, offset int) ([]Contact, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := db.Query(`
		SELECT key, phone, name, normalized_phone, last_message, last_message_at, message_count, is_read
		FROM contacts
		ORDER BY last_message_at DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var contacts []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.Key, &c.Phone, &c.Name, &c.NormalizedPhone, &c.LastMessage, &c.LastMessageAt, &c.MessageCount, &c.IsRead); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// GetContact returns a single contact by key, or nil if absent.
func (db *DB) GetContact(key string) (*Contact, error) {
	var c Contact
	err := db.QueryRow(`
		SELECT key, phone, name, normalized_phone, last_message, last_message_at, message_count, is_read
		FROM contacts WHERE key = ?`, key).
		Scan(&c.Key, &c.Phone, &c.Name, &c.NormalizedPhone, &c.LastMessage, &c.LastMessageAt, &c.MessageCount, &c.IsRead)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ContactCount returns the total number of contacts.
func (db *DB) ContactCount() (int64, error) {
	var count int64
	err := db.QueryRow(`SELECT COUNT(*) FROM contacts`).Scan(&count)
	return count, err
}

// UnreadCount returns the number of contacts with unread messages.
func (db *DB) UnreadCount() (int64, error) {
	var count int64
	err := db.QueryRow(`SELECT COUNT(*) FROM contacts WHERE is_read = 0`).Scan(&count)
	return count, err
}
