package migration

import (
	"encoding/json"

	"github.com/rallyrank/rating-engine/internal/rating"
)

// LegacyBlob is the loosely-typed pre-unification player document. The old
// app stored skill in whichever of these fields happened to be set; the
// normalizer resolves them as an explicit tagged union instead of
// optional-chaining guesses.
type LegacyBlob struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name,omitempty"`
	Gender   string `json:"gender,omitempty"`

	// Unified is present once a record has already been migrated; its
	// MigratedAt marker makes normalization idempotent.
	Unified *rating.RatingRecord `json:"unified,omitempty"`

	// Exactly one of these carried the legacy skill signal, when any did.
	Rating     *float64 `json:"rating,omitempty"`      // explicit numeric rating
	NTRP       *float64 `json:"ntrp,omitempty"`        // single NTRP-like scalar
	LevelRange *string  `json:"level_range,omitempty"` // textual range, e.g. "3.5-4.0"

	Wins   int `json:"wins,omitempty"`
	Losses int `json:"losses,omitempty"`

	// Raw is the verbatim stored payload, preserved through migration so a
	// rollback can reconstruct the pre-migration state exactly.
	Raw json.RawMessage `json:"-"`
}

// Kind identifies which legacy shape a blob resolves to.
type Kind string

const (
	KindMigrated Kind = "MIGRATED" // already carries the unified representation
	KindExplicit Kind = "EXPLICIT" // explicit numeric rating
	KindNTRP     Kind = "NTRP"     // single NTRP scalar
	KindRange    Kind = "RANGE"    // textual NTRP range
	KindEmpty    Kind = "EMPTY"    // no usable signal, falls back to default
)

// Resolve classifies the blob. Each branch is an explicit, testable case;
// order matters: an already-migrated record wins over any legacy field.
func (b LegacyBlob) Resolve() Kind {
	switch {
	case b.Unified != nil && b.Unified.MigratedAt != 0:
		return KindMigrated
	case b.Rating != nil:
		return KindExplicit
	case b.NTRP != nil:
		return KindNTRP
	case b.LevelRange != nil && *b.LevelRange != "":
		return KindRange
	default:
		return KindEmpty
	}
}
