package engine

import "github.com/rallyrank/rating-engine/internal/rating"

// PlayerUpdate pairs a player's post-match record with the audit data for
// the delta that produced it.
type PlayerUpdate struct {
	Record       rating.RatingRecord `json:"record"`
	RatingBefore float64             `json:"rating_before"`
	Delta        float64             `json:"delta"`
	KFactor      float64             `json:"k_factor"`
	Expected     float64             `json:"expected"`
	Won          bool                `json:"won"`
	TierBefore   rating.Tier         `json:"tier_before"`
}

// ClubUpdate carries the club-scoped side of a club-context match: both
// players' updated club records plus their deltas.
type ClubUpdate struct {
	ClubID string              `json:"club_id"`
	A      rating.ClubStatRecord `json:"a"`
	B      rating.ClubStatRecord `json:"b"`
	DeltaA float64             `json:"delta_a"`
	DeltaB float64             `json:"delta_b"`
}

// Update is the complete result of applying one match outcome. It is
// returned whole or not at all; the engine never mutates one side and skips
// the other.
type Update struct {
	MatchID string        `json:"match_id"`
	A       PlayerUpdate  `json:"a"`
	B       PlayerUpdate  `json:"b"`
	Club    *ClubUpdate   `json:"club,omitempty"`
}

// Promoted reports whether the player's tier changed upward with this
// update.
func (p PlayerUpdate) Promoted() bool {
	return p.Won && p.Record.Tier != p.TierBefore
}
