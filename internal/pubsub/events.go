// Package pubsub provides a generic publish/subscribe event system.
package pubsub

import (
	"context"
	"time"
)

// EventType labels the stream an event belongs to.
type EventType string

const (
	// TouchEvent carries interaction results from the label widget.
	TouchEvent EventType = "touch"
	// DocumentEvent signals that the annotated document was rebuilt.
	DocumentEvent EventType = "document"
	// LogEvent carries formatted log entries.
	LogEvent EventType = "log"
	// ConfigEvent signals a configuration reload.
	ConfigEvent EventType = "config"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
