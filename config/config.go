package config

import (
	"crypto/rand"
	"encoding/base64"
	"os"
)

type Config struct {
	addr        string
	resolverURL string

	spotifyClientID     string
	spotifyClientSecret string

	signingSecret []byte
	env           string
}

var (
	config Config
)

func init() {
	signingSecret, err := base64.StdEncoding.DecodeString(os.Getenv("SIGNING_SECRET"))
	if err != nil || len(signingSecret) == 0 {
		// no secret configured; session tokens won't survive a restart
		signingSecret = make([]byte, 32)
		_, _ = rand.Read(signingSecret)
	}
	config = Config{
		addr:        os.Getenv("ADDR"),
		resolverURL: os.Getenv("RESOLVER_URL"),

		spotifyClientID:     os.Getenv("SPOTIFY_ID"),
		spotifyClientSecret: os.Getenv("SPOTIFY_SECRET"),

		signingSecret: signingSecret,
		env:           os.Getenv("ENV"),
	}
	if config.addr == "" {
		config.addr = "0.0.0.0:8080"
	}
	if config.resolverURL == "" {
		config.resolverURL = "http://localhost:9090"
	}
	if config.env == "" {
		config.env = "LOCAL"
	}
}

func GetAddr() string {
	return config.addr
}

func GetResolverURL() string {
	return config.resolverURL
}

func GetSpotifyID() string {
	return config.spotifyClientID
}

func GetSpotifySecret() string {
	return config.spotifyClientSecret
}

func GetSigningSecret() []byte {
	return config.signingSecret
}

func GetEnv() string {
	return config.env
}
