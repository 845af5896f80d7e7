package rating

// K-factor policy constants. The base K shrinks as a player gains
// experience so new players converge fast and veterans stay stable.
const (
	kNovice       = 32.0 // fewer than 10 matches
	kIntermediate = 24.0 // fewer than 30 matches
	kEstablished  = 16.0 // fewer than 100 matches
	kVeteran      = 8.0  // 100+ matches, or already rated 2000+

	// ClubDampening scales the global-rating impact of a club-context
	// match. Club matches move the global rating half as much as public
	// matches of equal outcome.
	ClubDampening = 0.5

	// MaxKFactor is a hard ceiling on the final K no matter how many
	// multipliers stack, so a single match can never blow a rating up.
	MaxKFactor = 40.0
)

// KFactor returns the volatility constant for one rating update.
// matchesPlayed below zero is treated as zero; this is a convenience
// function, not a validator. rating selects the veteran bracket early for
// highly rated players regardless of match count.
func KFactor(matchesPlayed int, playerRating float64, isClubContext bool) float64 {
	if matchesPlayed < 0 {
		matchesPlayed = 0
	}

	var k float64
	switch {
	case Sanitize(playerRating) >= 2000:
		k = kVeteran
	case matchesPlayed < 10:
		k = kNovice
	case matchesPlayed < 30:
		k = kIntermediate
	case matchesPlayed < 100:
		k = kEstablished
	default:
		k = kVeteran
	}

	if isClubContext {
		k *= ClubDampening
	}
	return k
}

// WeightedKFactor applies an optional importance multiplier (tournament or
// final weighting) on top of KFactor. A multiplier <= 0 means unweighted.
// The result never exceeds MaxKFactor.
func WeightedKFactor(matchesPlayed int, playerRating float64, isClubContext bool, importance float64) float64 {
	k := KFactor(matchesPlayed, playerRating, isClubContext)
	if importance > 0 {
		k *= importance
	}
	if k > MaxKFactor {
		k = MaxKFactor
	}
	return k
}
