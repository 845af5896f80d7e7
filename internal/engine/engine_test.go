package engine_test

import (
	"testing"

	"github.com/rallyrank/rating-engine/internal/engine"
	"github.com/rallyrank/rating-engine/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOutcome(result rating.MatchResult) rating.MatchOutcome {
	return rating.MatchOutcome{
		MatchID:   "m1",
		Context:   rating.ContextGlobal,
		MatchType: rating.MatchTypeSingles,
		PlayerA:   "p1",
		PlayerB:   "p2",
		Result:    result,
		PlayedAt:  1700000000,
	}
}

func TestApplyMatch(t *testing.T) {
	t.Run("two new players swing 16 points each", func(t *testing.T) {
		a := rating.NewRatingRecord("p1", "Alice")
		b := rating.NewRatingRecord("p2", "Bob")

		update, err := engine.ApplyMatch(newOutcome(rating.ResultAWins), a, b, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, 1216.0, update.A.Record.Rating)
		assert.Equal(t, 1184.0, update.B.Record.Rating)
		assert.Equal(t, 16.0, update.A.Delta)
		assert.Equal(t, -16.0, update.B.Delta)
		assert.Equal(t, 32.0, update.A.KFactor)
		assert.InDelta(t, 0.5, update.A.Expected, 1e-9)
		assert.True(t, update.A.Won)
		assert.False(t, update.B.Won)
		assert.Nil(t, update.Club)
	})

	t.Run("a veteran upset costs little and pays a lot", func(t *testing.T) {
		a := rating.NewRatingRecord("p1", "Veteran")
		a.Rating = 2200
		a.MatchesPlayed = 150
		b := rating.NewRatingRecord("p2", "Newcomer")

		update, err := engine.ApplyMatch(newOutcome(rating.ResultBWins), a, b, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, 2192.0, update.A.Record.Rating)
		assert.Equal(t, 1232.0, update.B.Record.Rating)
		assert.Equal(t, 8.0, update.A.KFactor)
		assert.Equal(t, 32.0, update.B.KFactor)
	})

	t.Run("a real result never rounds away to zero", func(t *testing.T) {
		a := rating.NewRatingRecord("p1", "Top")
		a.Rating = 2400
		a.MatchesPlayed = 150
		b := rating.NewRatingRecord("p2", "Bottom")
		b.Rating = 850
		b.MatchesPlayed = 150

		update, err := engine.ApplyMatch(newOutcome(rating.ResultAWins), a, b, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, 1.0, update.A.Delta)
		assert.Equal(t, -1.0, update.B.Delta)
		assert.Equal(t, 2401.0, update.A.Record.Rating)
		assert.Equal(t, 849.0, update.B.Record.Rating)
	})

	t.Run("a loss at the floor stays at the floor", func(t *testing.T) {
		a := rating.NewRatingRecord("p1", "Alice")
		b := rating.NewRatingRecord("p2", "Bob")
		b.Rating = rating.MinRating
		b.MatchesPlayed = 150

		update, err := engine.ApplyMatch(newOutcome(rating.ResultAWins), a, b, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, rating.MinRating, update.B.Record.Rating)
		assert.Equal(t, 1, update.B.Record.Losses)
	})

	t.Run("corrupt stored ratings are sanitized, not rejected", func(t *testing.T) {
		a := rating.NewRatingRecord("p1", "Alice")
		a.Rating = 99999
		b := rating.NewRatingRecord("p2", "Bob")

		update, err := engine.ApplyMatch(newOutcome(rating.ResultAWins), a, b, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, rating.DefaultRating, update.A.RatingBefore)
		assert.Equal(t, 1216.0, update.A.Record.Rating)
	})

	t.Run("importance multiplier is capped", func(t *testing.T) {
		a := rating.NewRatingRecord("p1", "Alice")
		b := rating.NewRatingRecord("p2", "Bob")
		outcome := newOutcome(rating.ResultAWins)
		outcome.Importance = 2.0

		update, err := engine.ApplyMatch(outcome, a, b, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, rating.MaxKFactor, update.A.KFactor)
		assert.Equal(t, 20.0, update.A.Delta)
	})

	t.Run("only the played discipline bucket moves", func(t *testing.T) {
		a := rating.NewRatingRecord("p1", "Alice")
		b := rating.NewRatingRecord("p2", "Bob")

		update, err := engine.ApplyMatch(newOutcome(rating.ResultAWins), a, b, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, 1216.0, update.A.Record.SinglesRating)
		assert.Equal(t, rating.DefaultRating, update.A.Record.DoublesRating)
		assert.Equal(t, rating.DefaultRating, update.A.Record.MixedRating)
	})

	t.Run("streaks extend and reset", func(t *testing.T) {
		a := rating.NewRatingRecord("p1", "Alice")
		b := rating.NewRatingRecord("p2", "Bob")

		update, err := engine.ApplyMatch(newOutcome(rating.ResultAWins), a, b, nil, nil)
		require.NoError(t, err)
		update, err = engine.ApplyMatch(newOutcome(rating.ResultAWins), update.A.Record, update.B.Record, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, 2, update.A.Record.CurrentStreak)
		assert.Equal(t, 2, update.A.Record.LongestStreak)
		assert.Equal(t, -2, update.B.Record.CurrentStreak)

		update, err = engine.ApplyMatch(newOutcome(rating.ResultBWins), update.A.Record, update.B.Record, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, -1, update.A.Record.CurrentStreak)
		assert.Equal(t, 2, update.A.Record.LongestStreak)
		assert.Equal(t, 1, update.B.Record.CurrentStreak)
	})

	t.Run("crossing a tier boundary reports a promotion", func(t *testing.T) {
		a := rating.NewRatingRecord("p1", "Alice")
		a.Rating = 1395
		a.MatchesPlayed = 50
		b := rating.NewRatingRecord("p2", "Bob")
		b.Rating = 1395
		b.MatchesPlayed = 50

		update, err := engine.ApplyMatch(newOutcome(rating.ResultAWins), a, b, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, rating.TierGold, update.A.TierBefore)
		assert.Equal(t, rating.TierPlatinum, update.A.Record.Tier)
		assert.True(t, update.A.Promoted())
		assert.False(t, update.B.Promoted())
	})
}

func TestApplyMatchClubContext(t *testing.T) {
	clubOutcome := func(result rating.MatchResult) rating.MatchOutcome {
		outcome := newOutcome(result)
		outcome.Context = rating.ContextClub
		outcome.ClubID = "club-1"
		return outcome
	}

	t.Run("club matches dampen the global rating", func(t *testing.T) {
		a := rating.NewRatingRecord("p1", "Alice")
		b := rating.NewRatingRecord("p2", "Bob")

		update, err := engine.ApplyMatch(clubOutcome(rating.ResultAWins), a, b, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, 1208.0, update.A.Record.Rating)
		assert.Equal(t, 1192.0, update.B.Record.Rating)
		assert.Equal(t, 16.0, update.A.KFactor)
		assert.Equal(t, 1, update.A.Record.ClubMatches)
		assert.Equal(t, 0, update.A.Record.GlobalMatches)
	})

	t.Run("the club rating is its own undampened universe", func(t *testing.T) {
		a := rating.NewRatingRecord("p1", "Alice")
		b := rating.NewRatingRecord("p2", "Bob")

		update, err := engine.ApplyMatch(clubOutcome(rating.ResultAWins), a, b, nil, nil)
		require.NoError(t, err)

		require.NotNil(t, update.Club)
		assert.Equal(t, "club-1", update.Club.ClubID)
		assert.Equal(t, 1216.0, update.Club.A.ClubRating)
		assert.Equal(t, 1184.0, update.Club.B.ClubRating)
		assert.Equal(t, 16.0, update.Club.DeltaA)
		assert.Equal(t, 1, update.Club.A.MatchesPlayed)
		assert.Equal(t, 1, update.Club.A.Wins)
	})

	t.Run("club K derives from the club record, not the global one", func(t *testing.T) {
		a := rating.NewRatingRecord("p1", "Alice")
		a.MatchesPlayed = 150 // global veteran
		b := rating.NewRatingRecord("p2", "Bob")
		b.MatchesPlayed = 150

		clubA := rating.NewClubStatRecord("p1", "club-1")
		clubB := rating.NewClubStatRecord("p2", "club-1")

		update, err := engine.ApplyMatch(clubOutcome(rating.ResultAWins), a, b, &clubA, &clubB)
		require.NoError(t, err)

		// First club match, so the club universe uses the novice K.
		assert.Equal(t, 1216.0, update.Club.A.ClubRating)
		// The global side uses the dampened veteran K.
		assert.Equal(t, 4.0, update.A.KFactor)
	})

	t.Run("club records for the wrong club are rejected", func(t *testing.T) {
		a := rating.NewRatingRecord("p1", "Alice")
		b := rating.NewRatingRecord("p2", "Bob")
		clubA := rating.NewClubStatRecord("p1", "other-club")

		_, err := engine.ApplyMatch(clubOutcome(rating.ResultAWins), a, b, &clubA, nil)
		assert.ErrorIs(t, err, engine.ErrInvalidOutcome)
	})
}

func TestApplyMatchValidation(t *testing.T) {
	a := rating.NewRatingRecord("p1", "Alice")
	b := rating.NewRatingRecord("p2", "Bob")

	t.Run("a result that names no winner is rejected", func(t *testing.T) {
		outcome := newOutcome("DRAW")
		_, err := engine.ApplyMatch(outcome, a, b, nil, nil)
		assert.ErrorIs(t, err, engine.ErrInvalidOutcome)
	})

	t.Run("a player cannot play themselves", func(t *testing.T) {
		outcome := newOutcome(rating.ResultAWins)
		outcome.PlayerB = outcome.PlayerA
		_, err := engine.ApplyMatch(outcome, a, b, nil, nil)
		assert.ErrorIs(t, err, engine.ErrInvalidOutcome)
	})

	t.Run("a club outcome needs a club ID", func(t *testing.T) {
		outcome := newOutcome(rating.ResultAWins)
		outcome.Context = rating.ContextClub
		_, err := engine.ApplyMatch(outcome, a, b, nil, nil)
		assert.ErrorIs(t, err, engine.ErrMissingClub)
	})
}
