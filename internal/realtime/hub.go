package realtime

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub maps authenticated user IDs to their open live connections. State is
// process-scoped and rebuilt from zero on restart; nothing here persists.
//
// Contract:
//   - EmitToUser and Broadcast MUST NOT block on slow clients.
//   - A user with no connections drops the event silently.
//   - Only Attach/Detach mutate the registry.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[*Conn]struct{}

	sendBuffer int
}

// Conn is one live connection of one user. Events are consumed from Events()
// by a single writer pump, so per-user delivery order follows emit order.
type Conn struct {
	UserID string
	send   chan Event
}

func (c *Conn) Events() <-chan Event { return c.send }

func NewHub(sendBuffer int) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 16
	}
	return &Hub{
		conns:      map[string]map[*Conn]struct{}{},
		sendBuffer: sendBuffer,
	}
}

func (h *Hub) Attach(userID string) *Conn {
	c := &Conn{UserID: userID, send: make(chan Event, h.sendBuffer)}

	h.mu.Lock()
	set, ok := h.conns[userID]
	if !ok {
		set = map[*Conn]struct{}{}
		h.conns[userID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()

	log.Debug().Str("user_id", userID).Msg("realtime connection attached")
	return c
}

func (h *Hub) Detach(c *Conn) {
	h.mu.Lock()
	if set, ok := h.conns[c.UserID]; ok {
		if _, present := set[c]; present {
			delete(set, c)
			if len(set) == 0 {
				delete(h.conns, c.UserID)
			}
			// Closing is safe because senders recover from send panics.
			close(c.send)
		}
	}
	h.mu.Unlock()

	log.Debug().Str("user_id", c.UserID).Msg("realtime connection detached")
}

// EmitToUser delivers an event to every open connection of the user, in the
// order EmitToUser calls were issued. No connections means a silent drop.
func (h *Hub) EmitToUser(userID, event string, data interface{}) {
	h.mu.RLock()
	targets := snapshot(h.conns[userID])
	h.mu.RUnlock()

	e := Event{Event: event, Data: data}
	for _, c := range targets {
		deliver(c, e)
	}
}

// Broadcast delivers an event to every connected user regardless of identity.
func (h *Hub) Broadcast(event string, data interface{}) {
	h.mu.RLock()
	var targets []*Conn
	for _, set := range h.conns {
		targets = append(targets, snapshot(set)...)
	}
	h.mu.RUnlock()

	e := Event{Event: event, Data: data}
	for _, c := range targets {
		deliver(c, e)
	}
}

// Connected reports whether the user has at least one open connection.
func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID]) > 0
}

func snapshot(set map[*Conn]struct{}) []*Conn {
	if len(set) == 0 {
		return nil
	}
	out := make([]*Conn, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// deliver is non-blocking: a stalled client loses the event rather than
// stalling the emitting request. A concurrent Detach may close the channel
// mid-send, hence the recover.
func deliver(c *Conn, e Event) {
	defer func() { _ = recover() }()
	select {
	case c.send <- e:
	default:
		log.Debug().Str("user_id", c.UserID).Str("event", e.Event).Msg("realtime event dropped, send buffer full")
	}
}
