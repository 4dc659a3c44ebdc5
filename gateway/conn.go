package gateway

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/auxroom/auxroom-api/auth"
	"github.com/auxroom/auxroom-api/protocol"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	maxFrameBytes  = 4096
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type connection struct {
	id   string
	hub  *Hub
	sock *websocket.Conn
	send chan []byte

	searchLimit *rate.Limiter
	trackLimit  *rate.Limiter
}

// HandleConnect upgrades the request and starts the connection's read and
// write pumps. Each connection gets its own id and its own request limiters.
func (h *Hub) HandleConnect(w http.ResponseWriter, r *http.Request) {
	sock, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %s", err)
		return
	}

	c := &connection{
		id:          uuid.NewString(),
		hub:         h,
		sock:        sock,
		send:        make(chan []byte, sendBufferSize),
		searchLimit: rate.NewLimiter(rate.Every(2*time.Second), 3),
		trackLimit:  rate.NewLimiter(rate.Every(time.Second), 5),
	}

	h.do(func() {
		h.register(c)
	})

	go c.writePump()
	go c.readPump()
}

func (c *connection) readPump() {
	defer func() {
		c.hub.do(func() {
			c.hub.unregister(c)
		})
		c.sock.Close()
	}()

	c.sock.SetReadLimit(maxFrameBytes)

	for {
		_, raw, err := c.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("connection %s read: %s", c.id, err)
			}
			return
		}

		msg, err := protocol.DecodeInbound(raw)
		if err != nil {
			log.Printf("connection %s sent bad frame: %s", c.id, err)
			continue
		}

		c.hub.do(func() {
			c.hub.handle(c, msg)
		})
	}
}

func (c *connection) writePump() {
	defer c.sock.Close()

	for b := range c.send {
		if err := c.sock.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}
	}

	_ = c.sock.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// resolveName picks the display name for a join: a valid session token wins,
// then the client-supplied name, then a generated default.
func (c *connection) resolveName(m protocol.JoinRoom) string {
	if m.Token != "" {
		if guest, err := auth.ParseGuestToken(m.Token); err == nil && guest.DisplayName != "" {
			return guest.DisplayName
		}
	}
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return fmt.Sprintf("guest-%s", c.id[:8])
}
