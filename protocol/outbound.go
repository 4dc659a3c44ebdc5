package protocol

// Outbound message types.
const (
	TypeMembersChanged = "members_changed"
	TypeQueueChanged   = "queue_changed"
	TypeNowPlaying     = "now_playing"
	TypeTrackError     = "track_error"
	TypePauseRelay     = "pause"
	TypePlayRelay      = "play"
	TypeSeekRelay      = "seek"
	TypeStateSnapshot  = "state_snapshot"
	TypeSearchResults  = "search_results"
	TypeTrackRejected  = "track_rejected"
	TypeThrottled      = "throttled"
)

// Outbound is the envelope for every server-to-client message.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type MemberEntry struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type TrackEntry struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Locator   string `json:"locator"`
}

type NowPlayingEntry struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail,omitempty"`
	StreamURL string `json:"stream_url"`
	MimeType  string `json:"mime_type,omitempty"`
}

type MembersChangedData struct {
	Members []MemberEntry `json:"members"`
}

type QueueChangedData struct {
	Queue []TrackEntry `json:"queue"`
}

// NowPlayingData carries the current track, or a nil Track with
// IsPlaying=false when the queue drained and the room went idle.
type NowPlayingData struct {
	Track     *NowPlayingEntry `json:"track"`
	IsPlaying bool             `json:"is_playing"`
}

type TrackErrorData struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type TransportData struct {
	Timestamp float64 `json:"timestamp"`
}

type StateSnapshotData struct {
	Current   *NowPlayingEntry `json:"current"`
	Position  float64          `json:"position"`
	IsPlaying bool             `json:"is_playing"`
	Queue     []TrackEntry     `json:"queue"`
}

type SearchResultEntry struct {
	Title     string `json:"title"`
	ID        string `json:"id"`
	Locator   string `json:"locator"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

type SearchResultsData struct {
	Results []SearchResultEntry `json:"results"`
}

type NoticeData struct {
	Message string `json:"message"`
}

type TrackRejectedData struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func MembersChanged(members []MemberEntry) Outbound {
	return Outbound{Type: TypeMembersChanged, Data: MembersChangedData{Members: members}}
}

func QueueChanged(queue []TrackEntry) Outbound {
	return Outbound{Type: TypeQueueChanged, Data: QueueChangedData{Queue: queue}}
}

func NowPlaying(track *NowPlayingEntry, isPlaying bool) Outbound {
	return Outbound{Type: TypeNowPlaying, Data: NowPlayingData{Track: track, IsPlaying: isPlaying}}
}

func TrackError(title string, message string) Outbound {
	return Outbound{Type: TypeTrackError, Data: TrackErrorData{Title: title, Message: message}}
}

func PauseRelay(timestamp float64) Outbound {
	return Outbound{Type: TypePauseRelay, Data: TransportData{Timestamp: timestamp}}
}

func PlayRelay(timestamp float64) Outbound {
	return Outbound{Type: TypePlayRelay, Data: TransportData{Timestamp: timestamp}}
}

func SeekRelay(timestamp float64) Outbound {
	return Outbound{Type: TypeSeekRelay, Data: TransportData{Timestamp: timestamp}}
}

func StateSnapshot(current *NowPlayingEntry, position float64, isPlaying bool, queue []TrackEntry) Outbound {
	return Outbound{Type: TypeStateSnapshot, Data: StateSnapshotData{
		Current:   current,
		Position:  position,
		IsPlaying: isPlaying,
		Queue:     queue,
	}}
}

func SearchResults(results []SearchResultEntry) Outbound {
	return Outbound{Type: TypeSearchResults, Data: SearchResultsData{Results: results}}
}

func TrackRejected(title string, message string) Outbound {
	return Outbound{Type: TypeTrackRejected, Data: TrackRejectedData{Title: title, Message: message}}
}

func Throttled(message string) Outbound {
	return Outbound{Type: TypeThrottled, Data: NoticeData{Message: message}}
}
