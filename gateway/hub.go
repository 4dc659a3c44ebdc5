package gateway

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/auxroom/auxroom-api/protocol"
	"github.com/auxroom/auxroom-api/resolver"
	"github.com/auxroom/auxroom-api/room"
	"github.com/auxroom/auxroom-api/search"
)

// Hub is the session gateway: it owns the websocket connections, the room
// registry, and the single goroutine all room mutations run on. Inbound
// frames, disconnects, and resolver completions are all posted onto the
// events channel and processed one at a time, so room state never sees a
// concurrent writer. Slow collaborator calls (search, track validation,
// stream resolution) run in their own goroutines and re-enter the loop with
// their results.
type Hub struct {
	registry   *room.Registry
	membership *room.Membership
	playback   *room.Controller
	catalog    search.Catalog
	resolver   resolver.Resolver

	conns  map[string]*connection
	events chan func()
}

func NewHub(res resolver.Resolver, catalog search.Catalog) *Hub {
	h := &Hub{
		catalog:  catalog,
		resolver: res,
		conns:    map[string]*connection{},
		events:   make(chan func(), 256),
	}
	h.registry = room.NewRegistry()
	h.membership = room.NewMembership(h.registry, h)
	h.playback = room.NewController(h.registry, h, res, h.do)
	return h
}

// Run processes events one reaction step at a time, in arrival order per
// connection. It runs for the life of the process.
func (h *Hub) Run() {
	for f := range h.events {
		f()
	}
}

func (h *Hub) do(f func()) {
	h.events <- f
}

// Rooms returns a snapshot of every live room, read on the event loop so the
// HTTP surface never races room mutations.
func (h *Hub) Rooms() []room.Summary {
	out := make(chan []room.Summary, 1)
	h.do(func() {
		out <- h.registry.Summaries()
	})
	return <-out
}

// SendTo delivers an addressed message to a single connection.
func (h *Hub) SendTo(connectionID string, msg protocol.Outbound) {
	b, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal %s message: %s", msg.Type, err)
		return
	}
	h.sendBytes(connectionID, b)
}

// BroadcastToRoom delivers a message to every member of a room, minus any
// excluded connections.
func (h *Hub) BroadcastToRoom(code string, msg protocol.Outbound, exclude ...string) {
	rm := h.registry.Get(code)
	if rm == nil {
		return
	}

	b, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal %s message: %s", msg.Type, err)
		return
	}

member:
	for _, m := range rm.Members() {
		for _, ex := range exclude {
			if m.ConnectionID == ex {
				continue member
			}
		}
		h.sendBytes(m.ConnectionID, b)
	}
}

func (h *Hub) sendBytes(connectionID string, b []byte) {
	c, ok := h.conns[connectionID]
	if !ok {
		return
	}
	select {
	case c.send <- b:
	default:
		// writer stalled; drop the frame rather than block the loop
		log.Printf("connection %s send buffer full, dropping message", connectionID)
	}
}

func (h *Hub) register(c *connection) {
	h.conns[c.id] = c
}

func (h *Hub) unregister(c *connection) {
	if _, ok := h.conns[c.id]; !ok {
		return
	}
	delete(h.conns, c.id)
	close(c.send)
	h.membership.Leave(c.id)
}

// handle runs on the event loop with an already-validated message.
func (h *Hub) handle(c *connection, msg protocol.Inbound) {
	switch m := msg.(type) {
	case protocol.JoinRoom:
		h.membership.Join(c.id, m.Code, c.resolveName(m))
	case protocol.Search:
		h.handleSearch(c, m)
	case protocol.RequestTrack:
		h.handleRequestTrack(c, m)
	case protocol.Skip:
		h.playback.Skip(m.Code)
	case protocol.Pause:
		h.playback.Pause(m.Code, c.id, m.Timestamp)
	case protocol.Resume:
		h.playback.Resume(m.Code, c.id, m.Timestamp)
	case protocol.Seek:
		h.playback.Seek(m.Code, m.Timestamp)
	}
}

func (h *Hub) handleSearch(c *connection, m protocol.Search) {
	if !c.searchLimit.Allow() {
		h.SendTo(c.id, protocol.Throttled("too many searches, slow down"))
		return
	}

	connID := c.id
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		results, err := h.catalog.Search(ctx, m.Query)
		if err != nil {
			log.Printf("catalog search %q: %s", m.Query, err)
			results = nil
		}

		entries := make([]protocol.SearchResultEntry, 0, len(results))
		for _, r := range results {
			entries = append(entries, protocol.SearchResultEntry{
				Title:     r.Title,
				ID:        r.ID,
				Locator:   r.Locator,
				Thumbnail: r.Thumbnail,
			})
		}

		h.do(func() {
			h.SendTo(connID, protocol.SearchResults(entries))
		})
	}()
}

func (h *Hub) handleRequestTrack(c *connection, m protocol.RequestTrack) {
	if !c.trackLimit.Allow() {
		h.SendTo(c.id, protocol.Throttled("too many track requests, slow down"))
		return
	}

	connID := c.id
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := h.resolver.Check(ctx, m.Locator)

		h.do(func() {
			if err != nil {
				h.SendTo(connID, protocol.TrackRejected(m.Title, "track source is unreachable"))
				return
			}
			h.playback.Enqueue(m.Code, room.QueuedTrack{
				Title:     m.Title,
				Thumbnail: m.Thumbnail,
				Locator:   m.Locator,
			})
		})
	}()
}
