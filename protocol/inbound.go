package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Inbound message types.
const (
	TypeJoinRoom     = "join_room"
	TypeSearch       = "search"
	TypeRequestTrack = "request_track"
	TypeSkip         = "skip"
	TypePause        = "pause"
	TypeResume       = "resume"
	TypeSeek         = "seek"
)

var (
	ErrUnknownType = errors.New("unknown message type")
	ErrMalformed   = errors.New("malformed message")
)

// Inbound is one of the client message variants below. Every variant has a
// fixed field set and is validated before it reaches room logic.
type Inbound interface {
	inbound()
}

type JoinRoom struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	Token       string `json:"token,omitempty"`
}

type Search struct {
	Query string `json:"query"`
}

type RequestTrack struct {
	Code      string `json:"code"`
	Locator   string `json:"locator"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

type Skip struct {
	Code string `json:"code"`
}

type Pause struct {
	Code      string  `json:"code"`
	Timestamp float64 `json:"timestamp"`
}

type Resume struct {
	Code      string  `json:"code"`
	Timestamp float64 `json:"timestamp"`
}

type Seek struct {
	Code      string  `json:"code"`
	Timestamp float64 `json:"timestamp"`
}

func (JoinRoom) inbound()     {}
func (Search) inbound()       {}
func (RequestTrack) inbound() {}
func (Skip) inbound()         {}
func (Pause) inbound()        {}
func (Resume) inbound()       {}
func (Seek) inbound()         {}

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// DecodeInbound parses a raw client frame into one of the Inbound variants,
// rejecting unknown types and messages missing required fields.
func DecodeInbound(raw []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, err)
	}

	switch env.Type {
	case TypeJoinRoom:
		var m JoinRoom
		if err := unmarshalData(env.Data, &m); err != nil {
			return nil, err
		}
		if m.Code == "" {
			return nil, fmt.Errorf("%w: join_room requires code", ErrMalformed)
		}
		return m, nil
	case TypeSearch:
		var m Search
		if err := unmarshalData(env.Data, &m); err != nil {
			return nil, err
		}
		if m.Query == "" {
			return nil, fmt.Errorf("%w: search requires query", ErrMalformed)
		}
		return m, nil
	case TypeRequestTrack:
		var m RequestTrack
		if err := unmarshalData(env.Data, &m); err != nil {
			return nil, err
		}
		if m.Code == "" || m.Locator == "" || m.Title == "" {
			return nil, fmt.Errorf("%w: request_track requires code, locator, title", ErrMalformed)
		}
		return m, nil
	case TypeSkip:
		var m Skip
		if err := unmarshalData(env.Data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case TypePause:
		var m Pause
		if err := unmarshalData(env.Data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case TypeResume:
		var m Resume
		if err := unmarshalData(env.Data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case TypeSeek:
		var m Seek
		if err := unmarshalData(env.Data, &m); err != nil {
			return nil, err
		}
		return m, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
}

func unmarshalData(data json.RawMessage, dst any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing data", ErrMalformed)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	return nil
}
