package store

// ListMessages returns messages for a contact using keyset pagination by
// timestamp, oldest first.
func (db *DB) ListMessages(contactKey string, afterTs int64, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := db.Query(`
		SELECT id, contact_key, msg_id, body, timestamp, from_me, is_read, status, is_call_log
		FROM messages
		WHERE contact_key = ? AND timestamp > ?
		ORDER BY timestamp ASC, id ASC
		LIMIT ?`, contactKey, afterTs, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ContactKey, &m.MsgID, &m.Body, &m.Timestamp, &m.FromMe, &m.IsRead, &m.Status, &m.IsCallLog); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// MessageCount returns the total number of messages.
func (db *DB) MessageCount() (int64, error) {
	var count int64
	err := db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&count)
	return count, err
}
