package rating_test

import (
	"math"
	"testing"

	"github.com/rallyrank/rating-engine/internal/rating"
	"github.com/stretchr/testify/assert"
)

func TestTierFromRating(t *testing.T) {
	cases := []struct {
		name   string
		rating float64
		want   rating.Tier
	}{
		{"floor is bronze", 800, rating.TierBronze},
		{"just below silver", 999, rating.TierBronze},
		{"silver lower bound", 1000, rating.TierSilver},
		{"default rating is gold", 1200, rating.TierGold},
		{"platinum lower bound", 1400, rating.TierPlatinum},
		{"diamond lower bound", 1600, rating.TierDiamond},
		{"master lower bound", 1800, rating.TierMaster},
		{"grandmaster lower bound", 2000, rating.TierGrandmaster},
		{"ceiling is grandmaster", 3000, rating.TierGrandmaster},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, rating.TierFromRating(tc.rating))
		})
	}

	t.Run("corrupt ratings map through the default", func(t *testing.T) {
		assert.Equal(t, rating.TierGold, rating.TierFromRating(math.NaN()))
		assert.Equal(t, rating.TierGold, rating.TierFromRating(-50))
	})
}
