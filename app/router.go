package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/auxroom/auxroom-api/requests"
)

func (a *App) initRouter() {
	a.Router = mux.NewRouter()
	a.Router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.RespondNotFound(w)
	})

	// health
	a.Router.HandleFunc("/health", a.Controller.Health).Methods("GET", "OPTIONS")
	a.Router.HandleFunc("/version", a.Controller.GetVersion).Methods("GET", "OPTIONS")

	a.Router.HandleFunc("/session", a.Controller.CreateSession).Methods("POST", "OPTIONS")
	a.Router.HandleFunc("/rooms", a.Controller.ListRooms).Methods("GET", "OPTIONS")

	a.Router.Handle("/stream/{locator}", a.Stream).Methods("GET")

	a.Router.HandleFunc("/ws", a.Hub.HandleConnect)
}
