package game

import (
	"fmt"
	"math"
)

// Per-stop constants for the linear walking heuristic.
const (
	milesPerStop   = 0.3
	minutesPerStop = 5
)

// EstimateRoute computes an approximate walking distance and time for an
// ordered sequence of locations. It is a placeholder linear heuristic,
// not a geodesic calculation: the result depends only on the number of
// stops, so reordering the list does not change it. Fewer than two
// locations is not a walkable route and yields an invalid RouteInfo.
//
// The function is pure and never fails.
func EstimateRoute(locs []Location) RouteInfo {
	if len(locs) < 2 {
		return RouteInfo{
			TotalDistance: "0 miles",
			TotalTime:     "0 minutes",
			IsValid:       false,
		}
	}

	n := float64(len(locs))
	distance := math.Round(n*milesPerStop*10) / 10
	minutes := int(math.Round(n * minutesPerStop))

	return RouteInfo{
		TotalDistance: fmt.Sprintf("%.1f miles", distance),
		TotalTime:     fmt.Sprintf("%d min", minutes),
		IsValid:       true,
	}
}

// RecalculateRoutes returns a copy of games where every element carries a
// RouteInfo freshly derived from its locations. Inputs are not mutated
// and all other fields are preserved.
func RecalculateRoutes(games []Game) []Game {
	out := make([]Game, len(games))
	for i, g := range games {
		g.RouteInfo = EstimateRoute(g.Content.Locations)
		out[i] = g
	}
	return out
}
