package events

import (
	"sync"

	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
)

// InMemoryEventStore keeps per-stream ordered events and fans them out to subscribers
type InMemoryEventStore struct {
	streams     map[string][]Event
	subscribers map[string][]EventHandler
	allEvents   []Event
	mutex       sync.RWMutex
	log         *logger.Logger
	wg          sync.WaitGroup
}

var _ EventStore = (*InMemoryEventStore)(nil)

func NewInMemoryEventStore(log *logger.Logger) *InMemoryEventStore {
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]EventHandler),
		allEvents:   make([]Event, 0),
		log:         logger.OrNop(log).With("component", "events"),
	}
}

// Publish appends each event to its own stream
func (s *InMemoryEventStore) Publish(events ...Event) error {
	for _, e := range events {
		if err := s.AppendEvent(e.StreamID(), e); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()
	versioned := BaseEvent{
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: len(s.streams[streamID]) + 1,
	}
	s.streams[streamID] = append(s.streams[streamID], versioned)
	s.allEvents = append(s.allEvents, versioned)
	handlers := append([]EventHandler(nil), s.subscribers[versioned.EventType]...)
	s.mutex.Unlock()

	for _, h := range handlers {
		if !h.CanHandle(versioned.EventType) {
			continue
		}
		s.wg.Add(1)
		go func(h EventHandler, e Event) {
			defer s.wg.Done()
			if err := h.Handle(e); err != nil {
				s.log.Warn("event handler failed", "event_type", e.Type(), "stream_id", e.StreamID(), "error", err)
			}
		}(h, versioned)
	}
	return nil
}

func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events := s.streams[streamID]
	if fromVersion < 1 {
		fromVersion = 1
	}
	if fromVersion > len(events) {
		return []Event{}, nil
	}
	return append([]Event(nil), events[fromVersion-1:]...), nil
}

func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}
	if fromPosition >= len(s.allEvents) {
		return []Event{}, nil
	}
	return append([]Event(nil), s.allEvents[fromPosition:]...), nil
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}
	return nil
}

// Wait blocks until in-flight subscriber notifications finish
func (s *InMemoryEventStore) Wait() {
	s.wg.Wait()
}
