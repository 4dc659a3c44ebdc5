package room

import (
	"github.com/auxroom/auxroom-api/protocol"
	"github.com/samber/lo"
)

// Sender is the delivery primitive the session gateway provides: addressed
// sends to one connection and room-scoped broadcasts, optionally excluding
// the originating connection.
type Sender interface {
	SendTo(connectionID string, msg protocol.Outbound)
	BroadcastToRoom(code string, msg protocol.Outbound, exclude ...string)
}

func memberEntries(members []Member) []protocol.MemberEntry {
	return lo.Map(members, func(m Member, _ int) protocol.MemberEntry {
		return protocol.MemberEntry{
			ID:          m.ConnectionID,
			DisplayName: m.DisplayName,
		}
	})
}

func trackEntries(tracks []QueuedTrack) []protocol.TrackEntry {
	return lo.Map(tracks, func(t QueuedTrack, _ int) protocol.TrackEntry {
		return protocol.TrackEntry{
			Title:     t.Title,
			Thumbnail: t.Thumbnail,
			Locator:   t.Locator,
		}
	})
}

func nowPlayingEntry(np *NowPlaying) *protocol.NowPlayingEntry {
	if np == nil {
		return nil
	}
	return &protocol.NowPlayingEntry{
		Title:     np.Title,
		Thumbnail: np.Thumbnail,
		StreamURL: np.StreamURL,
		MimeType:  np.MimeType,
	}
}
