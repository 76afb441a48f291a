// Package ai selects and drives game content generation providers.
package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/taletrail/trailgen/internal/game"
)

// Request describes the game the caller wants generated.
type Request struct {
	Theme         string `json:"theme"`
	City          string `json:"city"`
	Difficulty    string `json:"difficulty"`
	LocationCount int    `json:"locationCount"`
}

// Content is a generated game body plus a suggested title and cast.
type Content struct {
	Title      string          `json:"title"`
	Story      string          `json:"story"`
	Locations  []game.Location `json:"locations"`
	Characters []string        `json:"characters"`
}

// Provider generates game content. Implementations must be safe for
// concurrent use.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (Content, error)
}

// ErrUnknownProvider is returned by New for a provider name that is not
// registered.
var ErrUnknownProvider = errors.New("unknown provider")

// Options carries the credentials and endpoints providers may need.
type Options struct {
	BaseURL string
	APIKey  string
	Model   string
}

// New returns the provider registered under name. An empty name selects
// the static provider.
func New(name string, opts Options) (Provider, error) {
	switch name {
	case "", "static":
		return &StaticProvider{}, nil
	case "http", "openai":
		if opts.BaseURL == "" {
			return nil, fmt.Errorf("provider %q: base URL is required", name)
		}
		return NewHTTPProvider(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}
