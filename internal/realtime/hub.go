package realtime

import (
	"context"
	"encoding/json"

	"delivery-marketplace/internal/domain"
	"delivery-marketplace/internal/logx"
	"delivery-marketplace/internal/metrics"
)

// Hub maintains per-user groups of live connections and routes outbound
// envelopes to every connection belonging to a user. A single owner
// goroutine mutates the group map, so connect/disconnect/push never race.
type Hub struct {
	logger logx.Logger
	m      *metrics.Realtime

	register   chan *Client
	unregister chan *Client
	outbound   chan push
	done       chan struct{}

	// groups is touched only by Run.
	groups map[int64]map[*Client]struct{}
}

type push struct {
	userID int64
	env    Envelope
}

// NewHub creates a Hub. The metrics argument may be nil.
func NewHub(logger logx.Logger, m *metrics.Realtime) *Hub {
	return &Hub{
		logger:     logger,
		m:          m,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan push, 256),
		done:       make(chan struct{}),
		groups:     make(map[int64]map[*Client]struct{}),
	}
}

// Run owns the group registry until ctx is cancelled. On shutdown every
// live connection is closed so the pumps unwind deterministically.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, group := range h.groups {
				for c := range group {
					c.shutdown()
				}
			}
			h.groups = make(map[int64]map[*Client]struct{})
			return

		case c := <-h.register:
			group, ok := h.groups[c.user.ID]
			if !ok {
				group = make(map[*Client]struct{})
				h.groups[c.user.ID] = group
			}
			group[c] = struct{}{}
			if h.m != nil {
				h.m.Connections.Inc()
			}
			h.logger.Info("realtime subscriber connected",
				logx.Int64("user_id", c.user.ID),
				logx.String("role", string(c.user.Role)),
			)

		case c := <-h.unregister:
			h.drop(c)

		case p := <-h.outbound:
			h.deliver(p)
		}
	}
}

// drop removes a client from its group; the group entry goes away with the
// last connection. Safe to call twice for the same client.
func (h *Hub) drop(c *Client) {
	group, ok := h.groups[c.user.ID]
	if !ok {
		return
	}
	if _, ok := group[c]; !ok {
		return
	}
	delete(group, c)
	c.shutdown()
	if len(group) == 0 {
		delete(h.groups, c.user.ID)
	}
	if h.m != nil {
		h.m.Connections.Dec()
	}
}

func (h *Hub) deliver(p push) {
	group, ok := h.groups[p.userID]
	if !ok {
		// offline is a normal state, not an error
		return
	}

	data, err := json.Marshal(p.env)
	if err != nil {
		h.logger.Error("realtime envelope marshal failed", logx.Err(err))
		return
	}

	for c := range group {
		// the viewing user's role gates delivery, independent of what was persisted
		if !domain.TypeAllowed(c.user.Role, p.env.Type) {
			continue
		}
		select {
		case c.send <- data:
			if h.m != nil {
				h.m.Delivered.Inc()
			}
		default:
			// a slow or dead connection must not block the others
			h.logger.Warn("realtime send buffer full, dropping connection",
				logx.Int64("user_id", c.user.ID),
			)
			h.drop(c)
			if h.m != nil {
				h.m.Dropped.Inc()
			}
		}
	}
}

// Push queues an envelope for every live connection of the given user.
// It never blocks: when the hub cannot keep up, the push is dropped and
// counted, the durable notification row remaining the source of truth.
func (h *Hub) Push(userID int64, env Envelope) {
	select {
	case h.outbound <- push{userID: userID, env: env}:
	default:
		h.logger.Warn("realtime outbound queue full, push dropped",
			logx.Int64("user_id", userID),
		)
		if h.m != nil {
			h.m.Dropped.Inc()
		}
	}
}
