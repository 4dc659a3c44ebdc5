package room

import (
	"sort"

	"golang.org/x/exp/maps"
)

// Registry owns the room-code -> Room mapping plus a connection -> room-code
// index so disconnects don't scan every room. It is mutated only from the
// single event-processing goroutine.
type Registry struct {
	rooms map[string]*Room
	conns map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: map[string]*Room{},
		conns: map[string]string{},
	}
}

// GetOrCreate returns the room for code, creating an empty idle room if none
// exists. Idempotent.
func (r *Registry) GetOrCreate(code string) *Room {
	if rm, ok := r.rooms[code]; ok {
		return rm
	}
	rm := newRoom(code)
	r.rooms[code] = rm
	return rm
}

// Get looks a room up without creating it; callers that must not create
// rooms implicitly (skip against a nonexistent room, late resolver results)
// go through this.
func (r *Registry) Get(code string) *Room {
	return r.rooms[code]
}

// Remove deletes the room. Called only once its member set is empty.
func (r *Registry) Remove(code string) {
	delete(r.rooms, code)
}

// RoomFor returns the room a connection is currently a member of, or nil.
func (r *Registry) RoomFor(connectionID string) *Room {
	code, ok := r.conns[connectionID]
	if !ok {
		return nil
	}
	return r.rooms[code]
}

func (r *Registry) bind(connectionID string, code string) {
	r.conns[connectionID] = code
}

func (r *Registry) unbind(connectionID string) {
	delete(r.conns, connectionID)
}

// Summary is a read-only view of a room for the listing endpoint.
type Summary struct {
	Code        string `json:"code"`
	Members     int    `json:"members"`
	QueueLength int    `json:"queue_length"`
	IsPlaying   bool   `json:"is_playing"`
}

// Summaries lists every live room, ordered by code.
func (r *Registry) Summaries() []Summary {
	rooms := maps.Values(r.rooms)
	summaries := make([]Summary, 0, len(rooms))
	for _, rm := range rooms {
		summaries = append(summaries, Summary{
			Code:        rm.Code,
			Members:     len(rm.members),
			QueueLength: rm.QueueLength(),
			IsPlaying:   rm.IsPlaying,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Code < summaries[j].Code
	})
	return summaries
}
