package bus

import "time"

// Change kinds carried by row events.
const (
	KindInsert = "INSERT"
	KindUpdate = "UPDATE"
	KindDelete = "DELETE"
)

// Event is a change published on a topic.
type Event struct {
	Topic     string
	Kind      string
	Timestamp time.Time
	Payload   any
}
