package room

import (
	"sync/atomic"
	"time"

	"github.com/auxroom/auxroom-api/util"
)

// generationCounter is process-wide so a room deleted and recreated under
// the same code can never reissue a generation an in-flight resolution
// captured.
var generationCounter atomic.Uint64

// Member is a connected participant in a room, unique by connection identity.
type Member struct {
	ConnectionID string `json:"id"`
	DisplayName  string `json:"display_name"`
}

// QueuedTrack is a pending queue entry. Its locator is opaque until a
// Resolver turns it into a playable stream.
type QueuedTrack struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Locator   string `json:"locator"`
}

// NowPlaying is the resolved current track, replaced wholesale on each
// advance.
type NowPlaying struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail,omitempty"`
	StreamURL string `json:"stream_url"`
	MimeType  string `json:"mime_type,omitempty"`
}

// Room is one collaborative listening session. Position is authoritative
// only as of LastUpdate; use EstimatePosition for the live value.
type Room struct {
	Code       string
	Current    *NowPlaying
	IsPlaying  bool
	Position   float64
	LastUpdate time.Time

	queue   *util.DoublyLinkedList[QueuedTrack]
	members []Member

	// generation tags each advance attempt so that a resolver result
	// arriving after the room moved on (or was deleted and recreated) is
	// discarded instead of clobbering newer state.
	generation uint64
	// resolving is set while an advance is waiting on the resolver.
	resolving bool
}

func newRoom(code string) *Room {
	return &Room{
		Code:       code,
		LastUpdate: time.Now(),
		queue:      &util.DoublyLinkedList[QueuedTrack]{},
		members:    []Member{},
	}
}

// EstimatePosition returns where playback should be at now: the stored
// position plus wall-clock time elapsed since it was set, when playing.
// Snapshot broadcasts must go through this so late joiners don't receive a
// stale literal position.
func EstimatePosition(rm *Room, now time.Time) float64 {
	if !rm.IsPlaying {
		return rm.Position
	}
	return rm.Position + now.Sub(rm.LastUpdate).Seconds()
}

// Enqueue appends a track; insertion order is play order.
func (rm *Room) Enqueue(track QueuedTrack) {
	rm.queue.PushEnd(track)
}

// DequeueFront removes and returns the next track to play, or nil when the
// queue is empty.
func (rm *Room) DequeueFront() *QueuedTrack {
	return rm.queue.PopFirst()
}

func (rm *Room) QueueLength() int {
	return rm.queue.Size()
}

// QueueSnapshot copies the ordered pending queue.
func (rm *Room) QueueSnapshot() []QueuedTrack {
	return rm.queue.ToSlice()
}

func (rm *Room) HasMember(connectionID string) bool {
	for _, m := range rm.members {
		if m.ConnectionID == connectionID {
			return true
		}
	}
	return false
}

func (rm *Room) addMember(m Member) {
	rm.members = append(rm.members, m)
}

func (rm *Room) removeMember(connectionID string) bool {
	for i, m := range rm.members {
		if m.ConnectionID == connectionID {
			rm.members = append(rm.members[:i], rm.members[i+1:]...)
			return true
		}
	}
	return false
}

// Members returns the member list in join order.
func (rm *Room) Members() []Member {
	members := make([]Member, len(rm.members))
	copy(members, rm.members)
	return members
}

func (rm *Room) nextGeneration() uint64 {
	rm.generation = generationCounter.Add(1)
	return rm.generation
}
