// Package engine applies a scored match outcome to the two players
// involved. It is a pure transform: records go in, updated records come
// out, and persistence stays the caller's problem.
package engine

import (
	"fmt"

	"github.com/rallyrank/rating-engine/internal/rating"
)

// ApplyMatch computes the full rating update for one match outcome. Both
// input records are taken by value and never mutated; the returned Update
// contains fresh records for both players plus the club-scoped update when
// the outcome was played in a club context.
//
// The only error cases are the invalid-input ones: an outcome that names no
// winner (or the same player twice) and a club-context outcome without a
// club ID. Corrupt stored ratings are sanitized, not rejected.
func ApplyMatch(outcome rating.MatchOutcome, a, b rating.RatingRecord, clubA, clubB *rating.ClubStatRecord) (Update, error) {
	if err := validate(outcome); err != nil {
		return Update{}, err
	}

	a.Rating = rating.Sanitize(a.Rating)
	b.Rating = rating.Sanitize(b.Rating)

	expA := rating.ExpectedScore(a.Rating, b.Rating)
	expB := 1 - expA

	aWon := outcome.Result == rating.ResultAWins
	actualA, actualB := 0.0, 1.0
	if aWon {
		actualA, actualB = 1.0, 0.0
	}

	isClub := outcome.Context == rating.ContextClub
	kA := rating.WeightedKFactor(a.MatchesPlayed, a.Rating, isClub, outcome.Importance)
	kB := rating.WeightedKFactor(b.MatchesPlayed, b.Rating, isClub, outcome.Importance)

	deltaA := minMagnitude(rating.Delta(kA, actualA, expA), aWon)
	deltaB := minMagnitude(rating.Delta(kB, actualB, expB), !aWon)

	upA := applyToRecord(a, outcome, deltaA, aWon)
	upB := applyToRecord(b, outcome, deltaB, !aWon)
	upA.KFactor, upA.Expected = kA, expA
	upB.KFactor, upB.Expected = kB, expB

	update := Update{MatchID: outcome.MatchID, A: upA, B: upB}

	if isClub {
		club, err := applyClub(outcome, a.PlayerID, b.PlayerID, clubA, clubB, aWon)
		if err != nil {
			return Update{}, err
		}
		update.Club = &club
	}

	return update, nil
}

func validate(outcome rating.MatchOutcome) error {
	if outcome.Result != rating.ResultAWins && outcome.Result != rating.ResultBWins {
		return fmt.Errorf("%w: result %q names no winner", ErrInvalidOutcome, outcome.Result)
	}
	if outcome.PlayerA == "" || outcome.PlayerB == "" || outcome.PlayerA == outcome.PlayerB {
		return fmt.Errorf("%w: players %q vs %q", ErrInvalidOutcome, outcome.PlayerA, outcome.PlayerB)
	}
	if outcome.Context == rating.ContextClub && outcome.ClubID == "" {
		return ErrMissingClub
	}
	return nil
}

// minMagnitude enforces that a real outcome never rounds away to a zero
// rating change: a win always moves the rating up by at least one point, a
// loss down by at least one.
func minMagnitude(delta float64, won bool) float64 {
	if won && delta < 1 {
		return 1
	}
	if !won && delta > -1 {
		return -1
	}
	return delta
}

func applyToRecord(rec rating.RatingRecord, outcome rating.MatchOutcome, delta float64, won bool) PlayerUpdate {
	up := PlayerUpdate{
		RatingBefore: rec.Rating,
		TierBefore:   rating.TierFromRating(rec.Rating),
		Delta:        delta,
		Won:          won,
	}

	rec.Rating = rating.ApplyDelta(rec.Rating, delta)
	rec.SetTypeRating(outcome.MatchType, rating.ApplyDelta(rec.TypeRating(outcome.MatchType), delta))

	rec.MatchesPlayed++
	if won {
		rec.Wins++
		if rec.CurrentStreak > 0 {
			rec.CurrentStreak++
		} else {
			rec.CurrentStreak = 1
		}
		if rec.CurrentStreak > rec.LongestStreak {
			rec.LongestStreak = rec.CurrentStreak
		}
	} else {
		rec.Losses++
		if rec.CurrentStreak < 0 {
			rec.CurrentStreak--
		} else {
			rec.CurrentStreak = -1
		}
	}
	rec.WinRate = float64(rec.Wins) / float64(rec.MatchesPlayed)

	if outcome.Context == rating.ContextClub {
		rec.ClubMatches++
	} else {
		rec.GlobalMatches++
	}
	if outcome.PlayedAt > rec.LastMatchAt {
		rec.LastMatchAt = outcome.PlayedAt
	}

	rec.Tier = rating.TierFromRating(rec.Rating)
	up.Record = rec
	return up
}

// applyClub runs the independent club-rating universe. K derivation here is
// sourced exclusively from the club records; the global match counts never
// leak in, and the club dampening does not apply since it exists to protect
// the global rating, not this one.
func applyClub(outcome rating.MatchOutcome, playerA, playerB string, clubA, clubB *rating.ClubStatRecord, aWon bool) (ClubUpdate, error) {
	ca := rating.NewClubStatRecord(playerA, outcome.ClubID)
	if clubA != nil {
		ca = *clubA
	}
	cb := rating.NewClubStatRecord(playerB, outcome.ClubID)
	if clubB != nil {
		cb = *clubB
	}
	if ca.ClubID != outcome.ClubID || cb.ClubID != outcome.ClubID {
		return ClubUpdate{}, fmt.Errorf("%w: club records %q/%q do not match outcome club %q",
			ErrInvalidOutcome, ca.ClubID, cb.ClubID, outcome.ClubID)
	}

	ca.ClubRating = rating.Sanitize(ca.ClubRating)
	cb.ClubRating = rating.Sanitize(cb.ClubRating)

	expA := rating.ExpectedScore(ca.ClubRating, cb.ClubRating)
	actualA, actualB := 0.0, 1.0
	if aWon {
		actualA, actualB = 1.0, 0.0
	}

	kA := rating.WeightedKFactor(ca.MatchesPlayed, ca.ClubRating, false, outcome.Importance)
	kB := rating.WeightedKFactor(cb.MatchesPlayed, cb.ClubRating, false, outcome.Importance)

	deltaA := minMagnitude(rating.Delta(kA, actualA, expA), aWon)
	deltaB := minMagnitude(rating.Delta(kB, actualB, 1-expA), !aWon)

	ca.ClubRating = rating.ApplyDelta(ca.ClubRating, deltaA)
	cb.ClubRating = rating.ApplyDelta(cb.ClubRating, deltaB)

	applyClubBookkeeping(&ca, aWon)
	applyClubBookkeeping(&cb, !aWon)

	return ClubUpdate{ClubID: outcome.ClubID, A: ca, B: cb, DeltaA: deltaA, DeltaB: deltaB}, nil
}

func applyClubBookkeeping(rec *rating.ClubStatRecord, won bool) {
	rec.MatchesPlayed++
	if won {
		rec.Wins++
	} else {
		rec.Losses++
	}
	rec.WinRate = float64(rec.Wins) / float64(rec.MatchesPlayed)
}
