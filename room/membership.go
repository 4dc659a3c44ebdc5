package room

import (
	"time"

	"github.com/auxroom/auxroom-api/protocol"
)

// Membership tracks which connections are in which room and keeps the room
// lifecycle tied to occupancy: rooms are created on first join and deleted
// synchronously when the last member leaves.
type Membership struct {
	Registry *Registry
	Sender   Sender
}

func NewMembership(registry *Registry, sender Sender) *Membership {
	return &Membership{
		Registry: registry,
		Sender:   sender,
	}
}

// Join adds the connection to the room, creating it if needed. Re-joining
// the same room is a no-op for the member set but still re-sends the state
// snapshot. A connection is a member of at most one room, so joining a new
// room leaves the previous one first.
func (ms *Membership) Join(connectionID string, code string, displayName string) {
	if prev := ms.Registry.RoomFor(connectionID); prev != nil && prev.Code != code {
		ms.Leave(connectionID)
	}

	rm := ms.Registry.GetOrCreate(code)
	if !rm.HasMember(connectionID) {
		rm.addMember(Member{ConnectionID: connectionID, DisplayName: displayName})
		ms.Registry.bind(connectionID, code)
	}

	ms.Sender.BroadcastToRoom(code, protocol.MembersChanged(memberEntries(rm.Members())))

	// late joiners get a drift-corrected snapshot, addressed only to them
	ms.Sender.SendTo(connectionID, protocol.StateSnapshot(
		nowPlayingEntry(rm.Current),
		EstimatePosition(rm, time.Now()),
		rm.IsPlaying,
		trackEntries(rm.QueueSnapshot()),
	))
}

// Leave removes the connection from its room, if any. Idempotent: leaving
// twice is a silent no-op. The room is deleted as soon as it empties.
func (ms *Membership) Leave(connectionID string) {
	rm := ms.Registry.RoomFor(connectionID)
	ms.Registry.unbind(connectionID)
	if rm == nil {
		return
	}

	if !rm.removeMember(connectionID) {
		return
	}

	if len(rm.members) == 0 {
		ms.Registry.Remove(rm.Code)
		return
	}

	ms.Sender.BroadcastToRoom(rm.Code, protocol.MembersChanged(memberEntries(rm.Members())))
}
