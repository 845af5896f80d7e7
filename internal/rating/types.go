package rating

// Rating domain constants. Every rating in the system lives in
// [MinRating, MaxRating]; anything outside is treated as corrupt and reset
// to DefaultRating when read.
const (
	MinRating     = 800.0
	MaxRating     = 3000.0
	DefaultRating = 1200.0
)

// MatchContext distinguishes public matches from club-scoped ones.
type MatchContext string

const (
	ContextGlobal MatchContext = "GLOBAL"
	ContextClub   MatchContext = "CLUB"
)

// MatchType represents the discipline a match was played in.
type MatchType string

const (
	MatchTypeSingles MatchType = "SINGLES"
	MatchTypeDoubles MatchType = "DOUBLES"
	MatchTypeMixed   MatchType = "MIXED"
)

// MatchResult identifies the winner of a two-player outcome. Draws do not
// exist in this domain.
type MatchResult string

const (
	ResultAWins MatchResult = "A_WINS"
	ResultBWins MatchResult = "B_WINS"
)

// MatchOutcome is the ephemeral input to a rating update. It is produced by
// the surrounding application after a match is scored and is never persisted
// by this subsystem.
type MatchOutcome struct {
	MatchID    string       `json:"match_id"`
	Context    MatchContext `json:"context"`
	ClubID     string       `json:"club_id,omitempty"`
	MatchType  MatchType    `json:"match_type"`
	PlayerA    string       `json:"player_a"`
	PlayerB    string       `json:"player_b"`
	Result     MatchResult  `json:"result"`
	Importance float64      `json:"importance,omitempty"` // optional multiplier, 0 means unweighted
	PlayedAt   int64        `json:"played_at"`            // unix seconds
}

// RatingRecord is the single source of truth for a player's skill. The tier
// field is always derivable from the rating; a stored mismatch is a data
// integrity bug.
type RatingRecord struct {
	PlayerID      string  `json:"player_id"`
	Name          string  `json:"name"`
	Gender        string  `json:"gender,omitempty"`
	Rating        float64 `json:"rating"`
	Tier          Tier    `json:"tier"`
	MatchesPlayed int     `json:"matches_played"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinRate       float64 `json:"win_rate"`
	CurrentStreak int     `json:"current_streak"` // positive = win streak, negative = loss streak
	LongestStreak int     `json:"longest_streak"`
	GlobalMatches int     `json:"global_matches"`
	ClubMatches   int     `json:"club_matches"`
	SinglesRating float64 `json:"singles_rating"`
	DoublesRating float64 `json:"doubles_rating"`
	MixedRating   float64 `json:"mixed_rating"`
	LastMatchAt   int64   `json:"last_match_at"` // unix seconds, 0 = never played
	MigratedAt    int64   `json:"migrated_at,omitempty"`
	LegacyJSON    string  `json:"-"`
}

// OverallRating is the arithmetic mean of the three per-discipline ratings.
func (r RatingRecord) OverallRating() float64 {
	return (Sanitize(r.SinglesRating) + Sanitize(r.DoublesRating) + Sanitize(r.MixedRating)) / 3
}

// TypeRating returns the per-discipline rating bucket for the given type.
func (r RatingRecord) TypeRating(t MatchType) float64 {
	switch t {
	case MatchTypeSingles:
		return r.SinglesRating
	case MatchTypeDoubles:
		return r.DoublesRating
	case MatchTypeMixed:
		return r.MixedRating
	}
	return r.Rating
}

// SetTypeRating writes the per-discipline rating bucket for the given type.
func (r *RatingRecord) SetTypeRating(t MatchType, v float64) {
	switch t {
	case MatchTypeSingles:
		r.SinglesRating = v
	case MatchTypeDoubles:
		r.DoublesRating = v
	case MatchTypeMixed:
		r.MixedRating = v
	}
}

// ClubStatRecord tracks a player's standing inside a single club. The club
// rating is its own universe: same domain and default as the global rating
// but it never shares K-factor inputs with it.
type ClubStatRecord struct {
	PlayerID      string  `json:"player_id"`
	ClubID        string  `json:"club_id"`
	ClubRating    float64 `json:"club_rating"`
	MatchesPlayed int     `json:"matches_played"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinRate       float64 `json:"win_rate"`
}

// NewRatingRecord returns a record for a player who has completed onboarding
// but not yet played. New players are rankable at the default rating.
func NewRatingRecord(playerID, name string) RatingRecord {
	return RatingRecord{
		PlayerID:      playerID,
		Name:          name,
		Rating:        DefaultRating,
		Tier:          TierFromRating(DefaultRating),
		SinglesRating: DefaultRating,
		DoublesRating: DefaultRating,
		MixedRating:   DefaultRating,
	}
}

// NewClubStatRecord returns the record created on a player's first match in
// a club's context.
func NewClubStatRecord(playerID, clubID string) ClubStatRecord {
	return ClubStatRecord{
		PlayerID:   playerID,
		ClubID:     clubID,
		ClubRating: DefaultRating,
	}
}
