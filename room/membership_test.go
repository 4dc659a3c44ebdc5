package room

import (
	"testing"
	"time"

	"github.com/auxroom/auxroom-api/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinCreatesRoomAndBroadcasts(t *testing.T) {
	registry := NewRegistry()
	recorder := &senderRecorder{}
	ms := NewMembership(registry, recorder)

	ms.Join("conn-x", "ABCD", "Alice")

	rm := registry.Get("ABCD")
	require.NotNil(t, rm)
	assert.Equal(t, []Member{{ConnectionID: "conn-x", DisplayName: "Alice"}}, rm.Members())

	changed := recorder.ofType(protocol.TypeMembersChanged)
	require.Len(t, changed, 1)
	assert.Equal(t, "ABCD", changed[0].room)
	data := changed[0].msg.Data.(protocol.MembersChangedData)
	require.Len(t, data.Members, 1)
	assert.Equal(t, "Alice", data.Members[0].DisplayName)

	snapshots := recorder.ofType(protocol.TypeStateSnapshot)
	require.Len(t, snapshots, 1)
	assert.Equal(t, "conn-x", snapshots[0].to, "snapshot is addressed, not broadcast")
	snap := snapshots[0].msg.Data.(protocol.StateSnapshotData)
	assert.Nil(t, snap.Current)
	assert.False(t, snap.IsPlaying)
	assert.Empty(t, snap.Queue)
}

func TestJoinIsIdempotentPerConnection(t *testing.T) {
	registry := NewRegistry()
	ms := NewMembership(registry, &senderRecorder{})

	ms.Join("conn-x", "ABCD", "Alice")
	ms.Join("conn-x", "ABCD", "Alice")

	assert.Len(t, registry.Get("ABCD").Members(), 1)
}

func TestJoinSecondRoomLeavesFirst(t *testing.T) {
	registry := NewRegistry()
	ms := NewMembership(registry, &senderRecorder{})

	ms.Join("conn-x", "ABCD", "Alice")
	ms.Join("conn-x", "WXYZ", "Alice")

	assert.Nil(t, registry.Get("ABCD"), "first room emptied, so it is gone")
	require.NotNil(t, registry.Get("WXYZ"))
	assert.True(t, registry.Get("WXYZ").HasMember("conn-x"))
}

func TestLeave(t *testing.T) {
	registry := NewRegistry()
	recorder := &senderRecorder{}
	ms := NewMembership(registry, recorder)

	ms.Join("conn-x", "ABCD", "Alice")
	ms.Join("conn-y", "ABCD", "Bob")
	recorder.reset()

	ms.Leave("conn-x")

	rm := registry.Get("ABCD")
	require.NotNil(t, rm)
	assert.Equal(t, []Member{{ConnectionID: "conn-y", DisplayName: "Bob"}}, rm.Members())

	changed := recorder.ofType(protocol.TypeMembersChanged)
	require.Len(t, changed, 1)
	data := changed[0].msg.Data.(protocol.MembersChangedData)
	require.Len(t, data.Members, 1)
	assert.Equal(t, "Bob", data.Members[0].DisplayName)

	// second leave is a silent no-op
	recorder.reset()
	ms.Leave("conn-x")
	assert.Empty(t, recorder.sent)
}

func TestLastLeaveDeletesRoom(t *testing.T) {
	registry := NewRegistry()
	ms := NewMembership(registry, &senderRecorder{})

	ms.Join("conn-x", "ABCD", "Alice")
	ms.Leave("conn-x")

	assert.Nil(t, registry.Get("ABCD"))
	assert.Nil(t, registry.RoomFor("conn-x"))
}

func TestJoinSnapshotIsDriftCorrected(t *testing.T) {
	registry := NewRegistry()
	recorder := &senderRecorder{}
	ms := NewMembership(registry, recorder)

	ms.Join("conn-x", "ABCD", "Alice")
	rm := registry.Get("ABCD")
	rm.Current = &NowPlaying{Title: "T1", StreamURL: "https://streams.test/l1"}
	rm.IsPlaying = true
	rm.Position = 10
	rm.LastUpdate = time.Now().Add(-5 * time.Second)
	recorder.reset()

	ms.Join("conn-y", "ABCD", "Bob")

	snapshots := recorder.ofType(protocol.TypeStateSnapshot)
	require.Len(t, snapshots, 1)
	assert.Equal(t, "conn-y", snapshots[0].to)
	snap := snapshots[0].msg.Data.(protocol.StateSnapshotData)
	require.NotNil(t, snap.Current)
	assert.Equal(t, "T1", snap.Current.Title)
	assert.True(t, snap.IsPlaying)
	assert.InDelta(t, 15, snap.Position, 0.5, "late joiner sees elapsed position, not the stored baseline")
}
