// Package migration converts legacy single-rating player documents into the
// unified rating representation. The transform is one-directional,
// idempotent and non-destructive: the raw legacy payload rides along on the
// normalized record so a rollback can reconstruct the original.
package migration

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/rallyrank/rating-engine/internal/rating"
)

// ntrpThresholds maps the legacy NTRP-like scalar onto the rating scale.
// Fixed piecewise table, evaluated top-down; the last entry whose bound is
// <= the scalar wins.
var ntrpThresholds = []struct {
	ntrp   float64
	rating float64
}{
	{0.0, 900},
	{2.0, 1000},
	{2.5, 1100},
	{3.0, 1200},
	{3.5, 1350},
	{4.0, 1500},
	{4.5, 1650},
	{5.0, 1800},
	{5.5, 2000},
	{6.0, 2200},
}

// Normalize transforms a legacy blob into a unified RatingRecord. It is
// total: a blob with no usable skill signal falls back to the default
// rating, which is an expected occurrence for never-active accounts, not an
// error. Calling Normalize on an already-migrated blob returns the stored
// unified record unchanged.
func Normalize(blob LegacyBlob, now int64) rating.RatingRecord {
	if kind := blob.Resolve(); kind == KindMigrated {
		log.Debug("Skipping already-migrated record", "playerID", blob.PlayerID)
		return *blob.Unified
	}

	rec := rating.NewRatingRecord(blob.PlayerID, blob.Name)
	rec.Gender = blob.Gender
	rec.Wins = blob.Wins
	rec.Losses = blob.Losses
	rec.MatchesPlayed = blob.Wins + blob.Losses
	if rec.MatchesPlayed > 0 {
		rec.WinRate = float64(rec.Wins) / float64(rec.MatchesPlayed)
	}
	// Legacy matches predate the club split, so they all count as global.
	rec.GlobalMatches = rec.MatchesPlayed

	switch blob.Resolve() {
	case KindExplicit:
		rec.Rating = rating.Sanitize(*blob.Rating)
	case KindNTRP:
		rec.Rating = ratingFromNTRP(*blob.NTRP)
	case KindRange:
		if r, ok := ratingFromRange(*blob.LevelRange); ok {
			rec.Rating = r
		} else {
			log.Debug("Unparseable legacy level range, using default", "playerID", blob.PlayerID, "range", *blob.LevelRange)
		}
	case KindEmpty:
		log.Debug("No usable legacy skill signal, using default", "playerID", blob.PlayerID)
	}

	// The legacy era had one rating for everything; seed all buckets with it.
	rec.SinglesRating = rec.Rating
	rec.DoublesRating = rec.Rating
	rec.MixedRating = rec.Rating
	rec.Tier = rating.TierFromRating(rec.Rating)
	rec.MigratedAt = now
	rec.LegacyJSON = rawPayload(blob)
	return rec
}

func ratingFromNTRP(ntrp float64) float64 {
	r := ntrpThresholds[0].rating
	for _, t := range ntrpThresholds {
		if ntrp >= t.ntrp {
			r = t.rating
		}
	}
	return r
}

// ratingFromRange parses a textual range like "3.5-4.0" and maps its
// midpoint through the NTRP table.
func ratingFromRange(s string) (float64, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return 0, false
	}
	lo, errLo := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	hi, errHi := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLo != nil || errHi != nil {
		return 0, false
	}
	return ratingFromNTRP((lo + hi) / 2), true
}

// rawPayload preserves the original document. When the blob was decoded
// from storage its verbatim bytes win; otherwise the blob itself is
// serialized as the best available reconstruction.
func rawPayload(blob LegacyBlob) string {
	if len(blob.Raw) > 0 {
		return string(blob.Raw)
	}
	data, err := json.Marshal(blob)
	if err != nil {
		log.Error("Failed to serialize legacy payload", "playerID", blob.PlayerID, "error", err)
		return ""
	}
	return string(data)
}
