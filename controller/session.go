package controller

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/auxroom/auxroom-api/auth"
	"github.com/auxroom/auxroom-api/requests"
	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	DisplayName string `json:"display_name"`
}

type CreateSessionResponse struct {
	GuestID     string    `json:"guest_id"`
	DisplayName string    `json:"display_name"`
	Token       string    `json:"token"`
	Expiry      time.Time `json:"expiry"`
}

// CreateSession issues a guest session token that lets a client keep its
// display name across websocket reconnects.
func (c *Controller) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DisplayName == "" {
		requests.RespondBadRequest(w)
		return
	}

	guest := auth.Guest{
		ID:          uuid.NewString(),
		DisplayName: req.DisplayName,
	}

	token, expiry, err := guest.GetJWT()
	if err != nil {
		log.Printf("sign session token: %s", err)
		requests.RespondInternalError(w)
		return
	}

	responseBytes, err := json.MarshalIndent(CreateSessionResponse{
		GuestID:     guest.ID,
		DisplayName: guest.DisplayName,
		Token:       token,
		Expiry:      expiry,
	}, "", " ")
	if err != nil {
		requests.RespondInternalError(w)
		return
	}
	_, _ = w.Write(responseBytes)
}
