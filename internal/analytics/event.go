// Package analytics records page-view events and rolls them up into daily
// and per-page summaries. A cron scheduler runs the nightly rollup and
// prunes raw events past the retention window.
package analytics

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/toolhub/pkg/errors"
)

// EventType classifies a tracked event.
type EventType string

const (
	EventPageView     EventType = "page_view"
	EventSessionStart EventType = "session_start"
	EventSessionEnd   EventType = "session_end"
	EventScroll       EventType = "scroll"
	EventClick        EventType = "click"
	EventCustom       EventType = "custom"
)

func (t EventType) valid() bool {
	switch t {
	case EventPageView, EventSessionStart, EventSessionEnd, EventScroll, EventClick, EventCustom:
		return true
	}
	return false
}

// Device is the coarse device class of a visitor.
type Device string

const (
	DeviceMobile  Device = "mobile"
	DeviceDesktop Device = "desktop"
	DeviceTablet  Device = "tablet"
)

// Event is one tracked interaction.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Page      string    `json:"page"`
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
	Device    Device    `json:"device,omitempty"`
	Country   string    `json:"country,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Prepare fills defaults and checks required fields. The type defaults to
// page_view, the timestamp to now and the ID to a fresh UUID.
func (e *Event) Prepare(now time.Time) error {
	if strings.TrimSpace(e.SessionID) == "" {
		return errors.NewValidationError("sessionId", e.SessionID, "is required")
	}
	if strings.TrimSpace(e.Page) == "" {
		return errors.NewValidationError("page", e.Page, "is required")
	}
	if e.Type == "" {
		e.Type = EventPageView
	}
	if !e.Type.valid() {
		return errors.NewValidationError("type", e.Type, "unknown event type")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = now
	}
	e.Timestamp = e.Timestamp.UTC()
	e.Country = strings.ToUpper(strings.TrimSpace(e.Country))
	return nil
}

// DetectDevice classifies a User-Agent header. Tablets are checked before
// phones because many tablet agents also say "Mobile".
func DetectDevice(userAgent string) Device {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "ipad"), strings.Contains(ua, "tablet"),
		strings.Contains(ua, "android") && !strings.Contains(ua, "mobile"):
		return DeviceTablet
	case strings.Contains(ua, "mobi"), strings.Contains(ua, "iphone"), strings.Contains(ua, "ipod"):
		return DeviceMobile
	}
	return DeviceDesktop
}
