package events

// Subscriber receives every published event. Send must not block.
type Subscriber interface {
	Send(Event) error
	Close() error
}
