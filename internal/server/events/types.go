// Package events fans catalog change events out to the real-time
// transports (WebSocket and SSE) through one broker.
package events

import "time"

// EventType names a catalog event.
type EventType string

const (
	ItemCreated   EventType = "item.created"
	ItemUpdated   EventType = "item.updated"
	ItemDeleted   EventType = "item.deleted"
	ItemsImported EventType = "items.imported"

	// Counter changes are published so live listings can re-sort by
	// popularity without polling.
	ItemViewed  EventType = "item.viewed"
	ItemClicked EventType = "item.clicked"

	ClientConnected EventType = "client.connected"
)

// Event is one published change.
type Event struct {
	Type       EventType `json:"type"`
	Collection string    `json:"collection,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Data       any       `json:"data"`
}
