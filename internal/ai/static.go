package ai

import (
	"context"
	"fmt"
	"unicode"

	"github.com/taletrail/trailgen/internal/game"
)

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// StaticProvider produces deterministic placeholder content with no
// network access. It is the default provider and the one tests use.
type StaticProvider struct{}

func (p *StaticProvider) Name() string { return "static" }

var staticStops = []string{
	"The Crooked Lantern", "The Gilded Stag", "The Penny Farthing",
	"The Raven & Rose", "The Old Bellfounder", "The Hound's Tooth",
	"The Copper Kettle", "The Drowned Sailor",
}

var staticCharacters = []string{
	"the landlord with a secret", "a retired detective",
	"the mysterious stranger", "a local historian",
}

func (p *StaticProvider) Generate(_ context.Context, req Request) (Content, error) {
	n := req.LocationCount
	if n <= 0 {
		n = 4
	}
	if n > len(staticStops) {
		n = len(staticStops)
	}

	city := req.City
	if city == "" {
		city = "the city"
	}
	theme := req.Theme
	if theme == "" {
		theme = "mystery"
	}

	locs := make([]game.Location, n)
	for i := 0; i < n; i++ {
		locs[i] = game.Location{
			Name:    staticStops[i],
			Address: fmt.Sprintf("%d High Street, %s", 10+i*7, city),
			Clue:    fmt.Sprintf("Clue %d: ask the bartender about the %s.", i+1, theme),
		}
	}

	return Content{
		Title: fmt.Sprintf("The %s of %s", capitalize(theme), city),
		Story: fmt.Sprintf(
			"A %s has gripped %s. The trail begins at %s and winds through %d stops; "+
				"only those who follow every clue will uncover the truth.",
			theme, city, locs[0].Name, n),
		Locations:  locs,
		Characters: staticCharacters,
	}, nil
}
