package players

import (
	"database/sql"
	"errors"
	"sync"
)

// store handles all database operations for player ratings.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// ErrNotFound is returned when a player is absent from the store. Callers
// must not confuse an absent player with a lowest-ranked one.
var ErrNotFound = errors.New("player not found")

// RatingEvent is one row of the rating audit trail: a single applied delta
// with the inputs that produced it.
type RatingEvent struct {
	ID           string  `json:"id"`
	MatchID      string  `json:"match_id"`
	PlayerID     string  `json:"player_id"`
	Context      string  `json:"context"`
	RatingBefore float64 `json:"rating_before"`
	RatingAfter  float64 `json:"rating_after"`
	Delta        float64 `json:"delta"`
	KFactor      float64 `json:"k_factor"`
	CreatedAt    int64   `json:"created_at"`
}

// Event context values. ContextClubScoped marks deltas in the independent
// club-rating universe, as opposed to club-context updates of the global
// rating.
const (
	EventContextGlobal     = "GLOBAL"
	EventContextClub       = "CLUB"
	EventContextClubScoped = "CLUB_SCOPED"
)
