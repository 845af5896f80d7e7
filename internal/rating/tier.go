package rating

// Tier is a discrete skill label derived purely from the current rating.
// It is display metadata, never an independent source of truth.
type Tier string

const (
	TierBronze      Tier = "BRONZE"
	TierSilver      Tier = "SILVER"
	TierGold        Tier = "GOLD"
	TierPlatinum    Tier = "PLATINUM"
	TierDiamond     Tier = "DIAMOND"
	TierMaster      Tier = "MASTER"
	TierGrandmaster Tier = "GRANDMASTER"
)

// tierThresholds is the single canonical threshold table, ordered by lower
// bound ascending. Evaluated top-down in TierFromRating; the last entry
// whose lower bound is <= the rating wins.
var tierThresholds = []struct {
	lowerBound float64
	label      Tier
}{
	{MinRating, TierBronze},
	{1000, TierSilver},
	{1200, TierGold},
	{1400, TierPlatinum},
	{1600, TierDiamond},
	{1800, TierMaster},
	{2000, TierGrandmaster},
}

// TierFromRating maps a rating to its tier label. The input is sanitized
// first, so corrupt ratings map to the default rating's tier.
func TierFromRating(r float64) Tier {
	r = Sanitize(r)
	tier := tierThresholds[0].label
	for _, t := range tierThresholds {
		if r >= t.lowerBound {
			tier = t.label
		}
	}
	return tier
}
