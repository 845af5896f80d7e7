// Package rating holds the pure skill-rating math: the expected-score
// formula, delta computation, domain clamping and the canonical tier table.
// Nothing in here does I/O or keeps state.
package rating

import "math"

// Sanitize guards against corrupt ratings loaded from storage. Non-finite
// values and values outside the rating domain are replaced with the default
// rather than propagated; historical data is known to contain such rows and
// blocking every update on them would be worse than a one-time reset.
func Sanitize(r float64) float64 {
	if math.IsNaN(r) || math.IsInf(r, 0) || r < MinRating || r > MaxRating {
		return DefaultRating
	}
	return r
}

// ExpectedScore returns the probability that a player rated ratingA beats a
// player rated ratingB, using the standard logistic curve. Both inputs are
// sanitized first. ExpectedScore(a, b) + ExpectedScore(b, a) == 1.
func ExpectedScore(ratingA, ratingB float64) float64 {
	a := Sanitize(ratingA)
	b := Sanitize(ratingB)
	return 1.0 / (1.0 + math.Pow(10, (b-a)/400.0))
}

// Delta returns the rating change for a single result, rounded to the
// nearest integer-valued float so ratings stay human-legible. actual is 1
// for a win and 0 for a loss.
func Delta(kFactor, actual, expected float64) float64 {
	return math.Round(kFactor * (actual - expected))
}

// ApplyDelta adds a delta to a rating and clamps the result to the rating
// domain. The clamp is a hard boundary regardless of input magnitude.
func ApplyDelta(oldRating, delta float64) float64 {
	r := Sanitize(oldRating) + delta
	if r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}
