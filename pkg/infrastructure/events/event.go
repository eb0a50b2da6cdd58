package events

import (
	"time"
)

type Event interface {
	Type() string
	StreamID() string
	Data() interface{}
	Timestamp() time.Time
	Version() int
}

type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// HandlerFunc adapts a function to EventHandler for every event type
type HandlerFunc func(event Event) error

func (f HandlerFunc) Handle(event Event) error { return f(event) }
func (f HandlerFunc) CanHandle(eventType string) bool { return true }

// Publisher is the write side used by services to record audit events
type Publisher interface {
	Publish(events ...Event) error
}

type EventStore interface {
	Publisher
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
}

type BaseEvent struct {
	EventType    string      `json:"type"`
	Stream       string      `json:"stream_id"`
	EventData    interface{} `json:"data"`
	EventTime    time.Time   `json:"timestamp"`
	EventVersion int         `json:"version"`
}

func (e BaseEvent) Type() string {
	return e.EventType
}

func (e BaseEvent) StreamID() string {
	return e.Stream
}

func (e BaseEvent) Data() interface{} {
	return e.EventData
}

func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

func (e BaseEvent) Version() int {
	return e.EventVersion
}

func NewEvent(eventType, streamID string, data interface{}) Event {
	return BaseEvent{
		EventType: eventType,
		Stream:    streamID,
		EventData: data,
		EventTime: time.Now(),
	}
}
