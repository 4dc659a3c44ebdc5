package app

import (
	"context"
	"log"
	"net/http"

	"github.com/auxroom/auxroom-api/config"
	"github.com/auxroom/auxroom-api/controller"
	"github.com/auxroom/auxroom-api/gateway"
	"github.com/auxroom/auxroom-api/resolver"
	"github.com/auxroom/auxroom-api/search"
	"github.com/auxroom/auxroom-api/stream"
	"github.com/gorilla/mux"
)

type App struct {
	Router     *mux.Router
	Controller *controller.Controller
	Hub        *gateway.Hub
	Stream     *stream.Handler
}

func (a *App) Initialize() {
	res := resolver.NewHTTPResolver(config.GetResolverURL())

	var catalog search.Catalog = search.Disabled{}
	if spotifyCatalog, err := search.NewSpotifyCatalog(context.Background()); err != nil {
		log.Printf("catalog search disabled: %s", err)
	} else {
		catalog = spotifyCatalog
	}

	a.Hub = gateway.NewHub(res, catalog)
	a.Controller = controller.New(a.Hub)
	a.Stream = stream.NewHandler(res)
	a.initRouter()
}

func (a *App) Run(addr string) {
	go a.Hub.Run()

	log.Printf("serving on %s...", addr)
	log.Fatalf("server error: %s", http.ListenAndServe(addr, withMiddleware(a.Router)))
}
