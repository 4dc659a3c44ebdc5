package controller

import (
	"github.com/auxroom/auxroom-api/gateway"
)

type Controller struct {
	Hub *gateway.Hub
}

func New(hub *gateway.Hub) *Controller {
	return &Controller{
		Hub: hub,
	}
}
