package processor

import (
	"github.com/rallyrank/rating-engine/internal/engine"
	"github.com/rallyrank/rating-engine/internal/notifier"
	"github.com/rallyrank/rating-engine/internal/rating"
)

// Store defines the database operations required by the processor.
type Store interface {
	EnsurePlayer(playerID, name, gender string) error
	GetPlayer(playerID string) (*rating.RatingRecord, error)
	GetClubStat(playerID, clubID string) (*rating.ClubStatRecord, error)
	ApplyMatchUpdate(update engine.Update) error
	SaveMigrated(rec rating.RatingRecord) (bool, error)
}

// Notifier defines the notification operations required by the processor.
// This is now an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
