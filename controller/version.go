package controller

import (
	"encoding/json"
	"net/http"

	"github.com/auxroom/auxroom-api/requests"
	"github.com/auxroom/auxroom-api/version"
)

func (c *Controller) GetVersion(w http.ResponseWriter, r *http.Request) {
	responseBytes, err := json.MarshalIndent(version.Get(), "", " ")
	if err != nil {
		requests.RespondInternalError(w)
		return
	}
	_, _ = w.Write(responseBytes)
}
