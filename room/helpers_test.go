package room

import (
	"context"

	"github.com/auxroom/auxroom-api/protocol"
	"github.com/auxroom/auxroom-api/resolver"
)

type sentMessage struct {
	to      string
	room    string
	exclude []string
	msg     protocol.Outbound
}

// senderRecorder captures every delivery so tests can assert on broadcast
// ordering and sender exclusion.
type senderRecorder struct {
	sent []sentMessage
}

func (s *senderRecorder) SendTo(connectionID string, msg protocol.Outbound) {
	s.sent = append(s.sent, sentMessage{to: connectionID, msg: msg})
}

func (s *senderRecorder) BroadcastToRoom(code string, msg protocol.Outbound, exclude ...string) {
	s.sent = append(s.sent, sentMessage{room: code, exclude: exclude, msg: msg})
}

func (s *senderRecorder) ofType(msgType string) []sentMessage {
	matches := []sentMessage{}
	for _, m := range s.sent {
		if m.msg.Type == msgType {
			matches = append(matches, m)
		}
	}
	return matches
}

func (s *senderRecorder) reset() {
	s.sent = nil
}

// manualLoop stands in for the hub's event loop: scheduled work runs only
// when the test drains it, which keeps resolver completions deterministic.
type manualLoop struct {
	tasks []func()
}

func (l *manualLoop) do(f func()) {
	l.tasks = append(l.tasks, f)
}

func (l *manualLoop) step() {
	f := l.tasks[0]
	l.tasks = l.tasks[1:]
	f()
}

func (l *manualLoop) drain() {
	for len(l.tasks) > 0 {
		f := l.tasks[0]
		l.tasks = l.tasks[1:]
		f()
	}
}

type fakeResolver struct {
	fail  map[string]bool
	calls []string
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{fail: map[string]bool{}}
}

func (r *fakeResolver) Resolve(_ context.Context, locator string) (resolver.Resolved, error) {
	r.calls = append(r.calls, locator)
	if r.fail[locator] {
		return resolver.Resolved{}, resolver.ErrUnavailable
	}
	return resolver.Resolved{
		URL:      "https://streams.test/" + locator,
		MimeType: "audio/mpeg",
	}, nil
}

func (r *fakeResolver) Check(_ context.Context, locator string) error {
	if r.fail[locator] {
		return resolver.ErrUnavailable
	}
	return nil
}

func newTestController() (*Controller, *Registry, *senderRecorder, *manualLoop, *fakeResolver) {
	registry := NewRegistry()
	recorder := &senderRecorder{}
	loop := &manualLoop{}
	res := newFakeResolver()

	c := NewController(registry, recorder, res, loop.do)
	c.spawn = loop.do

	return c, registry, recorder, loop, res
}
