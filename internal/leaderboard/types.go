package leaderboard

import "github.com/rallyrank/rating-engine/internal/rating"

// Key selects which score a leaderboard ranks by.
type Key string

const (
	KeyGlobal  Key = "global"  // the unified rating
	KeySingles Key = "singles" // per-discipline buckets
	KeyDoubles Key = "doubles"
	KeyMixed   Key = "mixed"
	KeyOverall Key = "overall" // mean of the three discipline buckets
	KeyClub    Key = "club"    // club-scoped rating, requires a club filter
)

// Window restricts which players are eligible by recency of activity.
type Window string

const (
	WindowAllTime Window = "all"
	WindowMonth   Window = "month"
	WindowQuarter Window = "quarter"
)

// Entry is a scored player going into the ranker.
type Entry struct {
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name,omitempty"`
	Score    float64 `json:"score"`
}

// RankedEntry is one row of a computed leaderboard. Rank is 1-based and
// shared between entries with equal scores.
type RankedEntry struct {
	Rank     int         `json:"rank"`
	PlayerID string      `json:"player_id"`
	Name     string      `json:"name,omitempty"`
	Score    float64     `json:"score"`
	Tier     rating.Tier `json:"tier"`
	IsTied   bool        `json:"is_tied"`
}

// Filter describes a leaderboard query. Zero values mean "no restriction"
// except Window, which defaults to all-time.
type Filter struct {
	Key    Key    `json:"key"`
	Window Window `json:"window"`
	Gender string `json:"gender,omitempty"`
	ClubID string `json:"club_id,omitempty"`
	Now    int64  `json:"-"` // unix seconds; 0 means time.Now at evaluation
}
