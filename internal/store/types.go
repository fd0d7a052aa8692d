package store

// Contact is one conversation row as served to the viewer.
type Contact struct {
	Key             string
	Phone           string
	Name            string
	NormalizedPhone string
	LastMessage     string
	LastMessageAt   int64 // unix millis
	MessageCount    int
	IsRead          bool
}

// Message is one message row as served to the viewer.
type Message struct {
	ID         int64 // store rowid
	ContactKey string
	MsgID      int64 // id carried by the export
	Body       string
	Timestamp  int64 // unix millis
	FromMe     bool
	IsRead     bool
	Status     string
	IsCallLog  bool
}
