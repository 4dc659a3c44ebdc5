package stream

import (
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/auxroom/auxroom-api/constants"
	"github.com/auxroom/auxroom-api/requests"
	"github.com/auxroom/auxroom-api/resolver"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// Handler relays stream bytes for a resolved locator. It is a thin adapter
// over the resolver; all it adds is per-IP rate limiting and MIME passthrough.
type Handler struct {
	Resolver resolver.Resolver

	client *http.Client

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewHandler(res resolver.Resolver) *Handler {
	return &Handler{
		Resolver: res,
		client: &http.Client{
			Timeout: 5 * time.Minute,
		},
		limiters: map[string]*rate.Limiter{},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	locator := mux.Vars(r)["locator"]
	if locator == "" {
		requests.RespondBadRequest(w)
		return
	}

	if !h.allow(clientIP(r)) {
		requests.RespondRateLimited(w)
		return
	}

	resolved, err := h.Resolver.Resolve(r.Context(), locator)
	if errors.Is(err, resolver.ErrUnavailable) {
		requests.RespondWithError(w, http.StatusNotFound, constants.ErrorUnavailable)
		return
	}
	if err != nil {
		log.Printf("resolve stream %s: %s", locator, err)
		requests.RespondInternalError(w)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, resolved.URL, nil)
	if err != nil {
		requests.RespondInternalError(w)
		return
	}
	if rangeHeader := r.Header.Get("Range"); rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}

	upstream, err := h.client.Do(req)
	if err != nil {
		log.Printf("fetch stream %s: %s", locator, err)
		requests.RespondInternalError(w)
		return
	}
	defer upstream.Body.Close()

	if resolved.MimeType != "" {
		w.Header().Set("Content-Type", resolved.MimeType)
	} else if ct := upstream.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if cl := upstream.Header.Get("Content-Length"); cl != "" {
		w.Header().Set("Content-Length", cl)
	}
	if cr := upstream.Header.Get("Content-Range"); cr != "" {
		w.Header().Set("Content-Range", cr)
	}
	w.Header().Set("Accept-Ranges", "bytes")
	w.WriteHeader(upstream.StatusCode)

	if _, err := io.Copy(w, upstream.Body); err != nil {
		// client went away mid-stream, nothing to answer
		log.Printf("relay stream %s: %s", locator, err)
	}
}

func (h *Handler) allow(ip string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	limiter, ok := h.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Second), 10)
		h.limiters[ip] = limiter
	}
	return limiter.Allow()
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
