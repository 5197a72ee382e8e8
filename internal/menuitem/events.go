package menuitem

import "time"

const (
	EventItemCreated = "ItemCreated"
	EventItemUpdated = "ItemUpdated"
	EventItemDeleted = "ItemDeleted"
)

// Event is published on every item write so other instances can drop their
// cached item list.
type Event struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ItemID    string    `json:"item_id"`
	Origin    string    `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
}
