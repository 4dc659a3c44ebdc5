package search

import (
	"context"
	"fmt"

	"github.com/auxroom/auxroom-api/config"
	"github.com/samber/lo"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// MaxResults bounds how many catalog hits a single search reply carries.
const MaxResults = 5

type Result struct {
	Title     string
	ID        string
	Locator   string
	Thumbnail string
}

// Catalog is the external search collaborator. Failures should degrade to an
// empty result set at the call site, never to a room error.
type Catalog interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// SpotifyCatalog searches the Spotify catalog with app-level
// (client-credentials) auth. Result locators are spotify track URIs, resolved
// to playable streams later by the resolver service.
type SpotifyCatalog struct {
	client *spotify.Client
}

func NewSpotifyCatalog(ctx context.Context) (*SpotifyCatalog, error) {
	creds := &clientcredentials.Config{
		ClientID:     config.GetSpotifyID(),
		ClientSecret: config.GetSpotifySecret(),
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := creds.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("get catalog token: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return &SpotifyCatalog{
		client: spotify.New(httpClient),
	}, nil
}

func (c *SpotifyCatalog) Search(ctx context.Context, query string) ([]Result, error) {
	results, err := c.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(MaxResults))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if results.Tracks == nil {
		return []Result{}, nil
	}

	tracks := results.Tracks.Tracks
	if len(tracks) > MaxResults {
		tracks = tracks[:MaxResults]
	}

	return lo.Map(tracks, func(t spotify.FullTrack, _ int) Result {
		return Result{
			Title:     trackTitle(t),
			ID:        t.ID.String(),
			Locator:   string(t.URI),
			Thumbnail: thumbnail(t.Album),
		}
	}), nil
}

func trackTitle(t spotify.FullTrack) string {
	if len(t.Artists) == 0 {
		return t.Name
	}
	return fmt.Sprintf("%s - %s", t.Artists[0].Name, t.Name)
}

func thumbnail(album spotify.SimpleAlbum) string {
	for i := range album.Images {
		if album.Images[i].Height == 64 {
			return album.Images[i].URL
		}
	}
	if len(album.Images) > 0 {
		return album.Images[len(album.Images)-1].URL
	}
	return ""
}

// Disabled is the catalog used when no credentials are configured; every
// search returns no results.
type Disabled struct{}

func (Disabled) Search(context.Context, string) ([]Result, error) {
	return []Result{}, nil
}
