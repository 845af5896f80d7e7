package processor

import (
	"testing"

	"github.com/rallyrank/rating-engine/internal/metrics"
	"github.com/rallyrank/rating-engine/internal/migration"
	"github.com/rallyrank/rating-engine/internal/notifier"
	"github.com/rallyrank/rating-engine/internal/players"
	"github.com/rallyrank/rating-engine/internal/pubsub"
	"github.com/rallyrank/rating-engine/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOutcome() rating.MatchOutcome {
	return rating.MatchOutcome{
		MatchID:   "m1",
		Context:   rating.ContextGlobal,
		MatchType: rating.MatchTypeSingles,
		PlayerA:   "p1",
		PlayerB:   "p2",
		Result:    rating.ResultAWins,
		PlayedAt:  1700000000,
	}
}

func TestProcessor_ApplyOutcome(t *testing.T) {
	t.Run("applies and persists a valid outcome", func(t *testing.T) {
		// Setup
		store := players.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock()
		p := New(store, notif, metr, ps)

		// Execute
		update, err := p.ApplyOutcome(newOutcome(), false)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1216.0, update.A.Record.Rating)
		require.Len(t, store.ApplyMatchUpdateCalls, 1, "The update should be persisted exactly once")
		assert.Equal(t, "m1", store.ApplyMatchUpdateCalls[0].MatchID)
		assert.Equal(t, 1, metr.RatingUpdates())
		require.Len(t, ps.SendMessageCalls, 1, "A rating-updated event should be published")
		assert.Equal(t, pubsub.EventRatingUpdated, ps.SendMessageCalls[0].Topic)
	})

	t.Run("onboards unknown players at the default rating", func(t *testing.T) {
		// Setup
		store := players.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock()
		p := New(store, notif, metr, ps)

		seen := map[string]bool{}
		store.GetPlayerFunc = func(playerID string) (*rating.RatingRecord, error) {
			if !seen[playerID] {
				return nil, players.ErrNotFound
			}
			rec := rating.NewRatingRecord(playerID, playerID)
			return &rec, nil
		}
		store.EnsurePlayerFunc = func(playerID, name, gender string) error {
			seen[playerID] = true
			return nil
		}

		// Execute
		_, err := p.ApplyOutcome(newOutcome(), false)

		// Assert
		require.NoError(t, err)
		require.Len(t, store.EnsurePlayerCalls, 2, "Both unknown players should be onboarded")
		assert.Equal(t, "p1", store.EnsurePlayerCalls[0].PlayerID)
		assert.Equal(t, "p2", store.EnsurePlayerCalls[1].PlayerID)
	})

	t.Run("rejects an invalid outcome and counts it", func(t *testing.T) {
		// Setup
		store := players.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock()
		p := New(store, notif, metr, ps)

		outcome := newOutcome()
		outcome.Result = "DRAW"

		// Execute
		_, err := p.ApplyOutcome(outcome, false)

		// Assert
		require.Error(t, err)
		assert.Equal(t, 1, metr.OutcomesRejected())
		assert.Empty(t, store.ApplyMatchUpdateCalls, "Nothing should be persisted")
		assert.Empty(t, ps.SendMessageCalls, "Nothing should be published")
	})

	t.Run("dry run computes but persists nothing", func(t *testing.T) {
		// Setup
		store := players.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock()
		p := New(store, notif, metr, ps)

		// Execute
		update, err := p.ApplyOutcome(newOutcome(), true)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 16.0, update.A.Delta)
		assert.Empty(t, store.ApplyMatchUpdateCalls)
		assert.Empty(t, ps.SendMessageCalls)
		assert.Equal(t, 0, metr.RatingUpdates())
	})

	t.Run("a tier promotion is announced", func(t *testing.T) {
		// Setup
		store := players.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock()
		p := New(store, notif, metr, ps)

		store.GetPlayerFunc = func(playerID string) (*rating.RatingRecord, error) {
			rec := rating.NewRatingRecord(playerID, playerID)
			rec.Rating = 1395
			rec.MatchesPlayed = 50
			return &rec, nil
		}

		// Execute
		_, err := p.ApplyOutcome(newOutcome(), false)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, metr.TierPromotions())
		require.Len(t, notif.TierPromotionCalls, 1)
		assert.Equal(t, rating.TierGold, notif.TierPromotionCalls[0].Previous)
		assert.Equal(t, rating.TierPlatinum, notif.TierPromotionCalls[0].Record.Tier)

		var promotedTopics int
		for _, call := range ps.SendMessageCalls {
			if call.Topic == pubsub.EventTierPromoted {
				promotedTopics++
			}
		}
		assert.Equal(t, 1, promotedTopics, "Only the winner's promotion should be published")
	})

	t.Run("club outcomes load both club records", func(t *testing.T) {
		// Setup
		store := players.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock()
		p := New(store, notif, metr, ps)

		var clubLookups []string
		store.GetClubStatFunc = func(playerID, clubID string) (*rating.ClubStatRecord, error) {
			clubLookups = append(clubLookups, playerID+"/"+clubID)
			return nil, nil
		}

		outcome := newOutcome()
		outcome.Context = rating.ContextClub
		outcome.ClubID = "club-1"

		// Execute
		update, err := p.ApplyOutcome(outcome, false)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"p1/club-1", "p2/club-1"}, clubLookups)
		require.NotNil(t, update.Club)
	})
}

func TestProcessor_MigrateLegacy(t *testing.T) {
	ntrp := 4.0

	t.Run("migrates a batch and counts results", func(t *testing.T) {
		// Setup
		store := players.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock()
		p := New(store, notif, metr, ps)

		blobs := []migration.LegacyBlob{
			{PlayerID: "p1", Name: "Alice", NTRP: &ntrp},
			{PlayerID: "p2", Name: "Bob"},
		}

		// Execute
		summary := p.MigrateLegacy(blobs, false)

		// Assert
		assert.Equal(t, MigrationSummary{Total: 2, Migrated: 2, Skipped: 0}, summary)
		require.Len(t, store.SaveMigratedCalls, 2)
		assert.Equal(t, 1500.0, store.SaveMigratedCalls[0].Rating)
		assert.Equal(t, rating.DefaultRating, store.SaveMigratedCalls[1].Rating)
		assert.Equal(t, 2, metr.LegacyMigrations())
	})

	t.Run("already-migrated players count as skipped", func(t *testing.T) {
		// Setup
		store := players.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock()
		p := New(store, notif, metr, ps)

		store.SaveMigratedFunc = func(rec rating.RatingRecord) (bool, error) {
			return rec.PlayerID != "p2", nil
		}

		blobs := []migration.LegacyBlob{
			{PlayerID: "p1", NTRP: &ntrp},
			{PlayerID: "p2", NTRP: &ntrp},
		}

		// Execute
		summary := p.MigrateLegacy(blobs, false)

		// Assert
		assert.Equal(t, MigrationSummary{Total: 2, Migrated: 1, Skipped: 1}, summary)
		assert.Equal(t, 1, metr.LegacyMigrations())
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		// Setup
		store := players.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock()
		p := New(store, notif, metr, ps)

		// Execute
		summary := p.MigrateLegacy([]migration.LegacyBlob{{PlayerID: "p1", NTRP: &ntrp}}, true)

		// Assert
		assert.Equal(t, 1, summary.Migrated)
		assert.Empty(t, store.SaveMigratedCalls)
		assert.Equal(t, 0, metr.LegacyMigrations())
	})
}
