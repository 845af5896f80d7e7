package migration_test

import (
	"encoding/json"
	"testing"

	"github.com/rallyrank/rating-engine/internal/migration"
	"github.com/rallyrank/rating-engine/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrationTime = int64(1700000000)

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func TestResolve(t *testing.T) {
	unified := rating.NewRatingRecord("p1", "Alice")
	unified.MigratedAt = migrationTime

	cases := []struct {
		name string
		blob migration.LegacyBlob
		want migration.Kind
	}{
		{"already migrated wins over everything", migration.LegacyBlob{Unified: &unified, Rating: floatPtr(1500)}, migration.KindMigrated},
		{"explicit rating", migration.LegacyBlob{Rating: floatPtr(1500)}, migration.KindExplicit},
		{"ntrp scalar", migration.LegacyBlob{NTRP: floatPtr(3.5)}, migration.KindNTRP},
		{"level range", migration.LegacyBlob{LevelRange: strPtr("3.5-4.0")}, migration.KindRange},
		{"empty range string is not a signal", migration.LegacyBlob{LevelRange: strPtr("")}, migration.KindEmpty},
		{"nothing at all", migration.LegacyBlob{}, migration.KindEmpty},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.blob.Resolve())
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Run("explicit rating carries over sanitized", func(t *testing.T) {
		rec := migration.Normalize(migration.LegacyBlob{PlayerID: "p1", Name: "Alice", Rating: floatPtr(1500)}, migrationTime)
		assert.Equal(t, 1500.0, rec.Rating)
		assert.Equal(t, rating.TierPlatinum, rec.Tier)
		assert.Equal(t, migrationTime, rec.MigratedAt)
	})

	t.Run("out of domain explicit rating falls back to default", func(t *testing.T) {
		rec := migration.Normalize(migration.LegacyBlob{PlayerID: "p1", Rating: floatPtr(12000)}, migrationTime)
		assert.Equal(t, rating.DefaultRating, rec.Rating)
	})

	t.Run("ntrp maps through the piecewise table", func(t *testing.T) {
		cases := map[float64]float64{
			1.0: 900,
			2.0: 1000,
			3.0: 1200,
			3.5: 1350,
			4.2: 1500,
			5.5: 2000,
			7.0: 2200,
		}
		for ntrp, want := range cases {
			rec := migration.Normalize(migration.LegacyBlob{PlayerID: "p1", NTRP: floatPtr(ntrp)}, migrationTime)
			assert.Equal(t, want, rec.Rating, "ntrp %.1f", ntrp)
		}
	})

	t.Run("a level range maps its midpoint", func(t *testing.T) {
		rec := migration.Normalize(migration.LegacyBlob{PlayerID: "p1", LevelRange: strPtr("3.5-4.0")}, migrationTime)
		// Midpoint 3.75 lands in the 3.5 bracket.
		assert.Equal(t, 1350.0, rec.Rating)
	})

	t.Run("an unparseable range falls back to default", func(t *testing.T) {
		rec := migration.Normalize(migration.LegacyBlob{PlayerID: "p1", LevelRange: strPtr("strong-ish")}, migrationTime)
		assert.Equal(t, rating.DefaultRating, rec.Rating)
	})

	t.Run("no signal at all is the default, not an error", func(t *testing.T) {
		rec := migration.Normalize(migration.LegacyBlob{PlayerID: "p1"}, migrationTime)
		assert.Equal(t, rating.DefaultRating, rec.Rating)
		assert.Equal(t, rating.TierGold, rec.Tier)
	})

	t.Run("all discipline buckets seed from the legacy rating", func(t *testing.T) {
		rec := migration.Normalize(migration.LegacyBlob{PlayerID: "p1", Rating: floatPtr(1500)}, migrationTime)
		assert.Equal(t, 1500.0, rec.SinglesRating)
		assert.Equal(t, 1500.0, rec.DoublesRating)
		assert.Equal(t, 1500.0, rec.MixedRating)
	})

	t.Run("legacy win loss history counts as global matches", func(t *testing.T) {
		rec := migration.Normalize(migration.LegacyBlob{PlayerID: "p1", Wins: 6, Losses: 4}, migrationTime)
		assert.Equal(t, 10, rec.MatchesPlayed)
		assert.Equal(t, 10, rec.GlobalMatches)
		assert.Equal(t, 0, rec.ClubMatches)
		assert.InDelta(t, 0.6, rec.WinRate, 1e-9)
	})

	t.Run("the verbatim raw payload rides along", func(t *testing.T) {
		raw := json.RawMessage(`{"player_id":"p1","ntrp":3.5,"unknown_field":true}`)
		var blob migration.LegacyBlob
		require.NoError(t, json.Unmarshal(raw, &blob))
		blob.Raw = raw

		rec := migration.Normalize(blob, migrationTime)
		assert.JSONEq(t, string(raw), rec.LegacyJSON)
	})

	t.Run("normalizing an already-migrated blob is a no-op", func(t *testing.T) {
		first := migration.Normalize(migration.LegacyBlob{PlayerID: "p1", NTRP: floatPtr(4.0)}, migrationTime)

		again := migration.Normalize(migration.LegacyBlob{PlayerID: "p1", Unified: &first, NTRP: floatPtr(5.0)}, migrationTime+100)
		assert.Equal(t, first, again)
	})
}
