package game

// Location is a single stop on a trail. Name and Address are the minimum
// a stop needs; coordinates and the clue text are optional.
type Location struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
	Clue    string  `json:"clue,omitempty"`
}

// Content is the playable body of a game: the story and the ordered
// sequence of locations the players walk.
type Content struct {
	Story     string     `json:"story,omitempty"`
	Locations []Location `json:"locations"`
}

// RouteInfo is the derived distance/time summary for a game's location
// sequence. It is never authoritative on its own: it can always be
// recomputed from Content.Locations.
type RouteInfo struct {
	TotalDistance string `json:"totalDistance"`
	TotalTime     string `json:"totalTime"`
	IsValid       bool   `json:"isValid"`
}

// Game is a user-owned pub-crawl mystery. UserID is set at creation and
// immutable afterwards.
type Game struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   Content   `json:"content"`
	RouteInfo RouteInfo `json:"routeInfo"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

// Profile is the per-user record in the external system of record. Role
// is the sole authorization signal; a missing profile means non-admin.
type Profile struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

const RoleAdmin = "admin"

// Template is an admin-authored starting point for new games.
type Template struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Theme          string   `json:"theme"`
	Description    string   `json:"description"`
	StoryFramework string   `json:"storyFramework"`
	CharacterTypes []string `json:"characterTypes"`
	PuzzleTypes    []string `json:"puzzleTypes"`
	Difficulty     string   `json:"difficulty"`
	CreatedAt      string   `json:"createdAt"`
}
