package events

import (
	"sync"
	"time"
)

type Entity string

const (
	EntitySpace    Entity = "space"
	EntityNote     Entity = "note"
	EntityTodoList Entity = "todo_list"
	EntityTodoItem Entity = "todo_item"
	EntityList     Entity = "list"
	EntityListItem Entity = "list_item"
)

type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionDeleted   Action = "deleted"
	ActionReordered Action = "reordered"
	ActionToggled   Action = "toggled"
)

// Event describes one committed row mutation. Repositories publish one per
// write; subscribers include the change feed handler and anything else that
// wants to follow along.
type Event struct {
	Entity   Entity    `json:"entity"`
	Action   Action    `json:"action"`
	ID       string    `json:"id,omitempty"`
	ParentID string    `json:"parent_id,omitempty"`
	SpaceID  string    `json:"space_id,omitempty"`
	At       time.Time `json:"at"`
}

type Hub struct {
	subscribers map[chan Event]bool
	broadcast   chan Event
	register    chan chan Event
	unregister  chan chan Event
	mu          sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan Event]bool),
		broadcast:   make(chan Event, 256),
		register:    make(chan chan Event),
		unregister:  make(chan chan Event),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case ch := <-h.register:
			h.mu.Lock()
			h.subscribers[ch] = true
			h.mu.Unlock()

		case ch := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.subscribers[ch]; ok {
				delete(h.subscribers, ch)
				close(ch)
			}
			h.mu.Unlock()

		case evt := <-h.broadcast:
			h.mu.RLock()
			for ch := range h.subscribers {
				select {
				case ch <- evt:
				default:
					// A subscriber that stopped draining loses events rather
					// than stalling everyone else.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish never blocks a writer: when the hub is saturated the event is
// dropped. The feed is advisory; the store stays the source of truth.
func (h *Hub) Publish(evt Event) {
	if evt.At.IsZero() {
		evt.At = time.Now()
	}
	select {
	case h.broadcast <- evt:
	default:
	}
}

func (h *Hub) Subscribe() chan Event {
	ch := make(chan Event, 64)
	h.register <- ch
	return ch
}

func (h *Hub) Unsubscribe(ch chan Event) {
	h.unregister <- ch
}
