package room

import (
	"testing"

	"github.com/auxroom/auxroom-api/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueStartsPlaybackWhenIdle(t *testing.T) {
	c, registry, recorder, loop, res := newTestController()
	registry.GetOrCreate("ABCD")

	c.Enqueue("ABCD", QueuedTrack{Title: "T1", Locator: "l1"})

	// queue broadcast happens immediately; resolution is still pending
	queueMsgs := recorder.ofType(protocol.TypeQueueChanged)
	require.Len(t, queueMsgs, 1)
	assert.Empty(t, recorder.ofType(protocol.TypeNowPlaying))

	loop.drain()

	assert.Equal(t, []string{"l1"}, res.calls)

	rm := registry.Get("ABCD")
	require.NotNil(t, rm.Current)
	assert.Equal(t, "T1", rm.Current.Title)
	assert.Equal(t, "https://streams.test/l1", rm.Current.StreamURL)
	assert.True(t, rm.IsPlaying)
	assert.Zero(t, rm.Position)

	// now-playing is broadcast before the queue snapshot
	var order []string
	for _, m := range recorder.sent {
		order = append(order, m.msg.Type)
	}
	assert.Equal(t, []string{
		protocol.TypeQueueChanged,
		protocol.TypeNowPlaying,
		protocol.TypeQueueChanged,
	}, order)
}

func TestEnqueueOntoBusyRoomDoesNotAdvance(t *testing.T) {
	c, registry, recorder, loop, res := newTestController()
	registry.GetOrCreate("ABCD")

	c.Enqueue("ABCD", QueuedTrack{Title: "T1", Locator: "l1"})
	loop.drain()
	recorder.reset()

	c.Enqueue("ABCD", QueuedTrack{Title: "T2", Locator: "l2"})
	loop.drain()

	assert.Equal(t, []string{"l1"}, res.calls, "T2 waits its turn")
	assert.Equal(t, "T1", registry.Get("ABCD").Current.Title)
	assert.Len(t, recorder.ofType(protocol.TypeQueueChanged), 1)
}

func TestAdvanceConsumesQueueInOrder(t *testing.T) {
	c, registry, _, loop, _ := newTestController()
	registry.GetOrCreate("ABCD")

	c.Enqueue("ABCD", QueuedTrack{Title: "A", Locator: "la"})
	c.Enqueue("ABCD", QueuedTrack{Title: "B", Locator: "lb"})
	c.Enqueue("ABCD", QueuedTrack{Title: "C", Locator: "lc"})
	loop.drain()

	rm := registry.Get("ABCD")
	assert.Equal(t, "A", rm.Current.Title)

	c.Skip("ABCD")
	loop.drain()
	assert.Equal(t, "B", rm.Current.Title)

	c.Skip("ABCD")
	loop.drain()
	assert.Equal(t, "C", rm.Current.Title)
}

func TestAdvanceAutoSkipsUnresolvableTracks(t *testing.T) {
	c, registry, recorder, loop, res := newTestController()
	registry.GetOrCreate("ABCD")
	res.fail["la"] = true

	c.Enqueue("ABCD", QueuedTrack{Title: "A", Locator: "la"})
	c.Enqueue("ABCD", QueuedTrack{Title: "B", Locator: "lb"})
	loop.drain()

	rm := registry.Get("ABCD")
	require.NotNil(t, rm.Current)
	assert.Equal(t, "B", rm.Current.Title)
	assert.True(t, rm.IsPlaying)
	assert.Zero(t, rm.QueueLength(), "neither A nor B is still queued")

	trackErrors := recorder.ofType(protocol.TypeTrackError)
	require.Len(t, trackErrors, 1)
	data := trackErrors[0].msg.Data.(protocol.TrackErrorData)
	assert.Equal(t, "A", data.Title)
	assert.Contains(t, data.Message, "A")
}

// A track enqueued in the window between a failed resolution and the
// deferred advance that skips past it must still get played: the room is
// mid-advance for that whole window, so the enqueue may not start a
// competing advance of its own.
func TestEnqueueDuringAutoSkipIsNotLost(t *testing.T) {
	c, registry, recorder, loop, res := newTestController()
	registry.GetOrCreate("ABCD")
	res.fail["la"] = true

	c.Enqueue("ABCD", QueuedTrack{Title: "A", Locator: "la"})
	loop.step() // resolver answers: A is unavailable
	loop.step() // failure applies, re-advance is deferred but not yet run

	c.Enqueue("ABCD", QueuedTrack{Title: "B", Locator: "lb"})
	loop.drain()

	rm := registry.Get("ABCD")
	require.NotNil(t, rm.Current, "B dequeued but never played")
	assert.Equal(t, "B", rm.Current.Title)
	assert.True(t, rm.IsPlaying)
	assert.Zero(t, rm.QueueLength())
	assert.Equal(t, []string{"la", "lb"}, res.calls, "B resolved exactly once")
	assert.Len(t, recorder.ofType(protocol.TypeTrackError), 1)
}

func TestAdvanceTerminatesWhenEveryTrackFails(t *testing.T) {
	c, registry, recorder, loop, res := newTestController()
	registry.GetOrCreate("ABCD")
	res.fail["la"] = true
	res.fail["lb"] = true

	c.Enqueue("ABCD", QueuedTrack{Title: "A", Locator: "la"})
	c.Enqueue("ABCD", QueuedTrack{Title: "B", Locator: "lb"})
	loop.drain()

	rm := registry.Get("ABCD")
	assert.Nil(t, rm.Current)
	assert.False(t, rm.IsPlaying)
	assert.Len(t, recorder.ofType(protocol.TypeTrackError), 2)

	// the terminal broadcast is an idle clear
	nowPlaying := recorder.ofType(protocol.TypeNowPlaying)
	require.NotEmpty(t, nowPlaying)
	last := nowPlaying[len(nowPlaying)-1].msg.Data.(protocol.NowPlayingData)
	assert.Nil(t, last.Track)
	assert.False(t, last.IsPlaying)
}

func TestSkipOnEmptyIdleRoomClearsState(t *testing.T) {
	c, registry, recorder, loop, _ := newTestController()
	registry.GetOrCreate("ABCD")

	c.Skip("ABCD")
	loop.drain()

	rm := registry.Get("ABCD")
	assert.Nil(t, rm.Current)
	assert.False(t, rm.IsPlaying)

	nowPlaying := recorder.ofType(protocol.TypeNowPlaying)
	require.Len(t, nowPlaying, 1)
	data := nowPlaying[0].msg.Data.(protocol.NowPlayingData)
	assert.Nil(t, data.Track)
	assert.False(t, data.IsPlaying)
}

func TestSkipOnMissingRoomIsANoOp(t *testing.T) {
	c, _, recorder, loop, _ := newTestController()

	c.Skip("NOPE")
	loop.drain()

	assert.Empty(t, recorder.sent)
}

func TestStaleResolutionIsDiscarded(t *testing.T) {
	c, registry, recorder, loop, _ := newTestController()
	registry.GetOrCreate("ABCD")

	// advance pops the only track and leaves resolution pending
	c.Enqueue("ABCD", QueuedTrack{Title: "A", Locator: "la"})

	// a skip lands before the resolver answers; the queue is now empty so
	// the room goes idle and the generation moves on
	c.Skip("ABCD")
	recorder.reset()
	loop.drain()

	rm := registry.Get("ABCD")
	assert.Nil(t, rm.Current, "superseded resolution must not be applied")
	assert.False(t, rm.IsPlaying)
	assert.Empty(t, recorder.ofType(protocol.TypeNowPlaying), "no broadcast for the stale result")
}

func TestResolutionAfterRoomDeletionIsANoOp(t *testing.T) {
	c, registry, recorder, loop, _ := newTestController()
	registry.GetOrCreate("ABCD")

	c.Enqueue("ABCD", QueuedTrack{Title: "A", Locator: "la"})
	registry.Remove("ABCD")
	recorder.reset()

	loop.drain()

	assert.Nil(t, registry.Get("ABCD"))
	assert.Empty(t, recorder.sent)
}

// Deleting a room and recreating it under the same code must not revive a
// resolution that was in flight for the old room: generations are issued
// from a process-wide counter, so the new room can never re-reach one the
// old room handed out.
func TestResolutionFromPriorRoomLifetimeIsDiscarded(t *testing.T) {
	c, registry, recorder, loop, _ := newTestController()
	registry.GetOrCreate("ABCD")

	c.Enqueue("ABCD", QueuedTrack{Title: "A", Locator: "la"})

	registry.Remove("ABCD")
	registry.GetOrCreate("ABCD")
	c.Skip("ABCD")
	recorder.reset()

	loop.drain()

	rm := registry.Get("ABCD")
	assert.Nil(t, rm.Current, "resolution from the old room's lifetime applied")
	assert.False(t, rm.IsPlaying)
	assert.Empty(t, recorder.ofType(protocol.TypeNowPlaying))
}

func TestPauseResumeSeek(t *testing.T) {
	c, registry, recorder, loop, _ := newTestController()
	registry.GetOrCreate("ABCD")
	c.Enqueue("ABCD", QueuedTrack{Title: "T1", Locator: "l1"})
	loop.drain()
	rm := registry.Get("ABCD")

	t.Run("pause relays without echoing the sender", func(t *testing.T) {
		recorder.reset()
		c.Pause("ABCD", "conn-x", 12.5)

		assert.False(t, rm.IsPlaying)
		assert.InDelta(t, 12.5, rm.Position, 1e-9)

		relays := recorder.ofType(protocol.TypePauseRelay)
		require.Len(t, relays, 1)
		assert.Equal(t, []string{"conn-x"}, relays[0].exclude)
		assert.InDelta(t, 12.5, relays[0].msg.Data.(protocol.TransportData).Timestamp, 1e-9)
	})

	t.Run("resume relays without echoing the sender", func(t *testing.T) {
		recorder.reset()
		c.Resume("ABCD", "conn-x", 13)

		assert.True(t, rm.IsPlaying)
		assert.InDelta(t, 13, rm.Position, 1e-9)

		relays := recorder.ofType(protocol.TypePlayRelay)
		require.Len(t, relays, 1)
		assert.Equal(t, []string{"conn-x"}, relays[0].exclude)
	})

	t.Run("seek broadcasts to everyone including the sender", func(t *testing.T) {
		recorder.reset()
		c.Seek("ABCD", 99)

		assert.True(t, rm.IsPlaying, "seek leaves the transport flag alone")
		assert.InDelta(t, 99, rm.Position, 1e-9)

		relays := recorder.ofType(protocol.TypeSeekRelay)
		require.Len(t, relays, 1)
		assert.Empty(t, relays[0].exclude)
	})

	t.Run("transport controls are no-ops without a current track", func(t *testing.T) {
		idle := registry.GetOrCreate("WXYZ")
		recorder.reset()

		c.Pause("WXYZ", "conn-x", 1)
		c.Resume("WXYZ", "conn-x", 1)
		c.Seek("WXYZ", 1)
		c.Pause("GONE", "conn-x", 1)

		assert.Empty(t, recorder.sent)
		assert.False(t, idle.IsPlaying)
	})
}

// The end-to-end flow from the join handshake through playback: Alice joins,
// requests a track, it resolves and starts playing; Bob's later join
// snapshot shows the running track.
func TestRoomScenario(t *testing.T) {
	c, registry, recorder, loop, _ := newTestController()
	ms := NewMembership(registry, recorder)

	ms.Join("conn-x", "ABCD", "Alice")
	c.Enqueue("ABCD", QueuedTrack{Title: "T1", Locator: "l1"})
	loop.drain()

	nowPlaying := recorder.ofType(protocol.TypeNowPlaying)
	require.Len(t, nowPlaying, 1)
	data := nowPlaying[0].msg.Data.(protocol.NowPlayingData)
	require.NotNil(t, data.Track)
	assert.Equal(t, "T1", data.Track.Title)
	assert.True(t, data.IsPlaying)

	recorder.reset()
	ms.Join("conn-y", "ABCD", "Bob")

	snapshots := recorder.ofType(protocol.TypeStateSnapshot)
	require.Len(t, snapshots, 1)
	assert.Equal(t, "conn-y", snapshots[0].to)
	snap := snapshots[0].msg.Data.(protocol.StateSnapshotData)
	require.NotNil(t, snap.Current)
	assert.Equal(t, "T1", snap.Current.Title)
	assert.True(t, snap.IsPlaying)
	assert.GreaterOrEqual(t, snap.Position, 0.0)
}
