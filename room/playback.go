package room

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/auxroom/auxroom-api/protocol"
	"github.com/auxroom/auxroom-api/resolver"
)

// Controller is the playback state machine for all rooms: it consumes the
// queue, drives play/pause/seek, and advances past tracks the resolver can't
// serve.
//
// Every method must be called from the event-processing goroutine. The only
// suspension point is the resolver call inside Advance, which runs in its own
// goroutine and re-enters the loop through schedule; room existence and the
// advance generation are re-checked on completion.
type Controller struct {
	Registry *Registry
	Sender   Sender
	Resolver resolver.Resolver

	// schedule defers a closure back onto the event loop.
	schedule func(func())
	// spawn runs the blocking resolver call; swapped out in tests.
	spawn func(func())
}

func NewController(registry *Registry, sender Sender, res resolver.Resolver, schedule func(func())) *Controller {
	return &Controller{
		Registry: registry,
		Sender:   sender,
		Resolver: res,
		schedule: schedule,
		spawn:    func(f func()) { go f() },
	}
}

// Enqueue validates nothing itself (the gateway already has); it appends the
// track, broadcasts the new queue, and starts playback if the room is idle.
func (c *Controller) Enqueue(code string, track QueuedTrack) {
	rm := c.Registry.Get(code)
	if rm == nil {
		return
	}

	rm.Enqueue(track)
	c.Sender.BroadcastToRoom(code, protocol.QueueChanged(trackEntries(rm.QueueSnapshot())))

	if rm.Current == nil && !rm.resolving {
		c.Advance(code)
	}
}

// Advance pops the front of the queue and tries to make it the current
// track. An empty queue clears the room to idle. Otherwise resolution runs
// asynchronously; the result is applied only if the room still exists and no
// newer advance superseded this one.
func (c *Controller) Advance(code string) {
	rm := c.Registry.Get(code)
	if rm == nil {
		return
	}

	gen := rm.nextGeneration()

	next := rm.DequeueFront()
	if next == nil {
		rm.Current = nil
		rm.IsPlaying = false
		rm.Position = 0
		rm.LastUpdate = time.Now()
		rm.resolving = false
		c.Sender.BroadcastToRoom(code, protocol.NowPlaying(nil, false))
		return
	}

	rm.resolving = true
	track := *next
	c.spawn(func() {
		resolved, err := c.Resolver.Resolve(context.Background(), track.Locator)
		c.schedule(func() {
			c.completeAdvance(code, gen, track, resolved, err)
		})
	})
}

func (c *Controller) completeAdvance(code string, gen uint64, track QueuedTrack, resolved resolver.Resolved, err error) {
	rm := c.Registry.Get(code)
	if rm == nil || rm.generation != gen {
		// room deleted or a newer advance won; drop the result
		return
	}

	if err != nil {
		log.Printf("resolve %q in room %s: %s", track.Title, code, err)
		c.Sender.BroadcastToRoom(code, protocol.TrackError(
			track.Title,
			fmt.Sprintf("could not play %q, skipping", track.Title),
		))
		// re-enter through the loop rather than recursing; terminates once
		// the queue drains into the idle branch. resolving stays set until
		// the re-entry runs, so an enqueue landing in between cannot start
		// a competing advance
		c.schedule(func() {
			c.Advance(code)
		})
		return
	}

	rm.resolving = false

	rm.Current = &NowPlaying{
		Title:     track.Title,
		Thumbnail: track.Thumbnail,
		StreamURL: resolved.URL,
		MimeType:  resolved.MimeType,
	}
	rm.IsPlaying = true
	rm.Position = 0
	rm.LastUpdate = time.Now()

	// now-playing before the queue snapshot: clients clear their loading
	// state off the now-playing message
	c.Sender.BroadcastToRoom(code, protocol.NowPlaying(nowPlayingEntry(rm.Current), true))
	c.Sender.BroadcastToRoom(code, protocol.QueueChanged(trackEntries(rm.QueueSnapshot())))
}

// Skip advances unconditionally, whatever the current transport state. With
// an empty queue it degrades to the idle-clear path.
func (c *Controller) Skip(code string) {
	if c.Registry.Get(code) == nil {
		return
	}
	c.Advance(code)
}

// Pause stops the transport at the client-reported timestamp and relays to
// the rest of the room. The sender already applied the action locally, so it
// is excluded.
func (c *Controller) Pause(code string, senderID string, timestamp float64) {
	rm := c.Registry.Get(code)
	if rm == nil || rm.Current == nil {
		return
	}

	rm.IsPlaying = false
	rm.Position = timestamp
	rm.LastUpdate = time.Now()
	c.Sender.BroadcastToRoom(code, protocol.PauseRelay(timestamp), senderID)
}

// Resume restarts the transport at the client-reported timestamp, relayed
// with the same sender exclusion as Pause.
func (c *Controller) Resume(code string, senderID string, timestamp float64) {
	rm := c.Registry.Get(code)
	if rm == nil || rm.Current == nil {
		return
	}

	rm.IsPlaying = true
	rm.Position = timestamp
	rm.LastUpdate = time.Now()
	c.Sender.BroadcastToRoom(code, protocol.PlayRelay(timestamp), senderID)
}

// Seek is an authoritative position correction: unlike Pause/Resume it is
// broadcast to everyone, sender included, so all clients converge on the
// same offset. The play/pause flag is left alone.
func (c *Controller) Seek(code string, timestamp float64) {
	rm := c.Registry.Get(code)
	if rm == nil || rm.Current == nil {
		return
	}

	rm.Position = timestamp
	rm.LastUpdate = time.Now()
	c.Sender.BroadcastToRoom(code, protocol.SeekRelay(timestamp))
}
