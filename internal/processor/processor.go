package processor

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rallyrank/rating-engine/internal/engine"
	"github.com/rallyrank/rating-engine/internal/metrics"
	"github.com/rallyrank/rating-engine/internal/migration"
	"github.com/rallyrank/rating-engine/internal/players"
	"github.com/rallyrank/rating-engine/internal/pubsub"
	"github.com/rallyrank/rating-engine/internal/rating"
)

// New creates a new Processor.
func New(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		store:    store,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
	}
}

// ApplyOutcome runs one match outcome through the rating engine and persists
// the result. Unknown players are onboarded at the default rating before the
// update runs, so the very first reported match for a player just works.
func (p *Processor) ApplyOutcome(outcome rating.MatchOutcome, dryRun bool) (*engine.Update, error) {
	startTime := time.Now()
	log.Info("Applying match outcome", "matchID", outcome.MatchID, "playerA", outcome.PlayerA, "playerB", outcome.PlayerB, "context", outcome.Context)

	recA, err := p.loadPlayer(outcome.PlayerA)
	if err != nil {
		p.metrics.IncOutcomesRejected()
		return nil, err
	}
	recB, err := p.loadPlayer(outcome.PlayerB)
	if err != nil {
		p.metrics.IncOutcomesRejected()
		return nil, err
	}

	var clubA, clubB *rating.ClubStatRecord
	if outcome.Context == rating.ContextClub {
		clubA, err = p.store.GetClubStat(outcome.PlayerA, outcome.ClubID)
		if err != nil {
			p.metrics.IncOutcomesRejected()
			return nil, err
		}
		clubB, err = p.store.GetClubStat(outcome.PlayerB, outcome.ClubID)
		if err != nil {
			p.metrics.IncOutcomesRejected()
			return nil, err
		}
	}

	update, err := engine.ApplyMatch(outcome, *recA, *recB, clubA, clubB)
	if err != nil {
		p.metrics.IncOutcomesRejected()
		log.Error("Rejected match outcome", "error", err, "matchID", outcome.MatchID)
		return nil, err
	}

	if dryRun {
		log.Info("[Dry Run] Would apply match update", "matchID", update.MatchID,
			"deltaA", update.A.Delta, "deltaB", update.B.Delta)
		return &update, nil
	}

	if err := p.store.ApplyMatchUpdate(update); err != nil {
		return nil, fmt.Errorf("failed to persist match update: %w", err)
	}

	p.metrics.IncRatingUpdates()
	duration := time.Since(startTime).Milliseconds()
	p.metrics.ObserveUpdateDuration(float64(duration))

	if err := p.pubsub.SendMessage(pubsub.EventRatingUpdated, &update); err != nil {
		log.Error("Failed to publish rating update", "error", err, "matchID", update.MatchID)
	}

	p.announcePromotion(update.A, dryRun)
	p.announcePromotion(update.B, dryRun)

	return &update, nil
}

// loadPlayer fetches a rating record, onboarding the player at the default
// rating when they are unknown. The player ID doubles as a placeholder name
// until a proper one is supplied via the player endpoints.
func (p *Processor) loadPlayer(playerID string) (*rating.RatingRecord, error) {
	rec, err := p.store.GetPlayer(playerID)
	if errors.Is(err, players.ErrNotFound) {
		log.Info("Onboarding unknown player at default rating", "playerID", playerID)
		if err := p.store.EnsurePlayer(playerID, playerID, ""); err != nil {
			return nil, err
		}
		return p.store.GetPlayer(playerID)
	}
	return rec, err
}

func (p *Processor) announcePromotion(up engine.PlayerUpdate, dryRun bool) {
	if !up.Promoted() {
		return
	}

	p.metrics.IncTierPromotions()
	log.Info("Player promoted", "playerID", up.Record.PlayerID, "from", up.TierBefore, "to", up.Record.Tier)

	if !dryRun {
		if err := p.pubsub.SendMessage(pubsub.EventTierPromoted, &up); err != nil {
			log.Error("Failed to publish tier promotion", "error", err, "playerID", up.Record.PlayerID)
		}
	}
	if err := p.notifier.SendTierPromotion(up.Record, up.TierBefore, dryRun); err != nil {
		log.Error("Failed to send tier promotion notification", "error", err, "playerID", up.Record.PlayerID)
	}
}

// MigrateLegacy normalizes a batch of legacy skill blobs into unified rating
// records and persists them. Already-migrated players are skipped by the
// store, which makes re-running a batch safe.
func (p *Processor) MigrateLegacy(blobs []migration.LegacyBlob, dryRun bool) MigrationSummary {
	log.Info("Starting legacy migration", "count", len(blobs), "dryRun", dryRun)
	now := time.Now().Unix()
	summary := MigrationSummary{Total: len(blobs)}

	for _, blob := range blobs {
		rec := migration.Normalize(blob, now)

		if dryRun {
			log.Info("[Dry Run] Would migrate legacy record", "playerID", rec.PlayerID, "rating", rec.Rating, "tier", rec.Tier)
			summary.Migrated++
			continue
		}

		written, err := p.store.SaveMigrated(rec)
		if err != nil {
			log.Error("Failed to save migrated record", "error", err, "playerID", rec.PlayerID)
			summary.Skipped++
			continue
		}
		if !written {
			log.Debug("Skipping already-migrated player", "playerID", rec.PlayerID)
			summary.Skipped++
			continue
		}

		p.metrics.IncLegacyMigrations()
		summary.Migrated++
	}

	log.Info("Legacy migration finished", "total", summary.Total, "migrated", summary.Migrated, "skipped", summary.Skipped)
	return summary
}
