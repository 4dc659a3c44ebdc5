package controller

import (
	"encoding/json"
	"net/http"

	"github.com/auxroom/auxroom-api/requests"
)

// ListRooms reports every live room: code, occupancy, queue length, and
// whether it is playing.
func (c *Controller) ListRooms(w http.ResponseWriter, r *http.Request) {
	summaries := c.Hub.Rooms()

	responseBytes, err := json.MarshalIndent(summaries, "", " ")
	if err != nil {
		requests.RespondInternalError(w)
		return
	}
	_, _ = w.Write(responseBytes)
}
