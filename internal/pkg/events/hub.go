package events

import (
	"sync"
	"time"
)

// Topics emitted by the attendance engine after each committed state
// transition.
const (
	TopicSessionPunchedIn    = "session.punched-in"
	TopicSessionBreakStarted = "session.break-started"
	TopicSessionBreakEnded   = "session.break-ended"
	TopicSessionPunchedOut   = "session.punched-out"
	TopicExceptionResolved   = "exception.resolved"
	TopicLeaveRequestDecided = "leave.request-decided"
)

// Event is a domain event delivered to dashboard subscribers.
type Event struct {
	ID        string      `json:"id"`
	CompanyID string      `json:"-"`
	Topic     string      `json:"topic"`
	Data      interface{} `json:"data"`
	EmittedAt time.Time   `json:"emitted_at"`
}

// Hub fans domain events out to per-company subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a new subscriber for a company and returns the event
// channel and a cleanup function.
func (h *Hub) Subscribe(companyID string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 16)

	if h.subscribers[companyID] == nil {
		h.subscribers[companyID] = make(map[chan Event]struct{})
	}
	h.subscribers[companyID][ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers[companyID], ch)
		close(ch)
		if len(h.subscribers[companyID]) == 0 {
			delete(h.subscribers, companyID)
		}
	}

	return ch, cleanup
}

// Publish sends an event to all subscribers of a company. It returns false
// when at least one subscriber channel was full and the event was dropped
// for that subscriber.
func (h *Hub) Publish(event Event) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := true
	if subs, ok := h.subscribers[event.CompanyID]; ok {
		for ch := range subs {
			select {
			case ch <- event:
			default:
				// Non-blocking to prevent a slow subscriber stalling the caller.
				delivered = false
			}
		}
	}
	return delivered
}

// SubscriberCount returns the number of active subscribers for a company.
func (h *Hub) SubscriberCount(companyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if subs, ok := h.subscribers[companyID]; ok {
		return len(subs)
	}
	return 0
}
