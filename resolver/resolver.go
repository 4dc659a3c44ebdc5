package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrUnavailable is returned when a locator cannot be resolved to a playable
// stream, transiently or otherwise.
var ErrUnavailable = errors.New("track source unavailable")

type Resolved struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
}

// Resolver turns an opaque track locator into a playable stream descriptor.
// Resolution may be slow and may fail transiently.
type Resolver interface {
	Resolve(ctx context.Context, locator string) (Resolved, error)
	Check(ctx context.Context, locator string) error
}

// HTTPResolver delegates to an external extraction service.
type HTTPResolver struct {
	base   string
	client *http.Client
}

func NewHTTPResolver(base string) *HTTPResolver {
	return &HTTPResolver{
		base: base,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (r *HTTPResolver) Resolve(ctx context.Context, locator string) (Resolved, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint("/resolve", locator), nil)
	if err != nil {
		return Resolved{}, fmt.Errorf("build resolve request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Resolved{}, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Resolved{}, fmt.Errorf("%w: resolver returned %d", ErrUnavailable, resp.StatusCode)
	}

	var resolved Resolved
	if err := json.NewDecoder(resp.Body).Decode(&resolved); err != nil {
		return Resolved{}, fmt.Errorf("%w: decode resolver response: %s", ErrUnavailable, err)
	}
	if resolved.URL == "" {
		return Resolved{}, fmt.Errorf("%w: resolver returned no stream url", ErrUnavailable)
	}

	return resolved, nil
}

// Check probes the extraction service for locator reachability without
// performing a full resolution.
func (r *HTTPResolver) Check(ctx context.Context, locator string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint("/check", locator), nil)
	if err != nil {
		return fmt.Errorf("build check request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: resolver returned %d", ErrUnavailable, resp.StatusCode)
	}

	return nil
}

func (r *HTTPResolver) endpoint(path string, locator string) string {
	return fmt.Sprintf("%s%s?locator=%s", r.base, path, url.QueryEscape(locator))
}
