package bus

import "time"

// Event kinds published by the viewer. Subscribers filter by namespace
// prefix, e.g. "load." receives every load lifecycle event.
const (
	KindLoadStarted   = "load.started"
	KindLoadFolded    = "load.folded"
	KindLoadStored    = "load.stored"
	KindLoadIndexed   = "load.indexed"
	KindStatusChanged = "viewer.status_changed"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// LoadStats is the payload of load.folded events.
type LoadStats struct {
	LoadID   string
	Records  int
	Skipped  int
	Contacts int
	Messages int
}
