package notifier

import (
	"github.com/rallyrank/rating-engine/internal/leaderboard"
	"github.com/rallyrank/rating-engine/internal/rating"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For completed rating updates
	SendTierPromotion(rec rating.RatingRecord, previous rating.Tier, dryRun bool) error

	// For slash commands
	SendLeaderboard(entries []leaderboard.RankedEntry, title string, dryRun bool) error
	SendPlayerRating(rec *rating.RatingRecord, query string, dryRun bool) error
	SendPlayerNotFound(query string, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(entries []leaderboard.RankedEntry, title string) (any, error)
	FormatPlayerRatingResponse(rec *rating.RatingRecord, query string) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
