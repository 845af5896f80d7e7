package players

import (
	"github.com/rallyrank/rating-engine/internal/engine"
	"github.com/rallyrank/rating-engine/internal/rating"
)

// Store defines the persistence contract for rating records. Implementations
// must make ApplyMatchUpdate a single serializing transaction: both players'
// rows, the club rows when present and the audit events land atomically, and
// no concurrent update can interleave between the read and the write.
type Store interface {
	EnsurePlayer(playerID, name, gender string) error
	GetPlayer(playerID string) (*rating.RatingRecord, error)
	GetPlayerByName(name string) (*rating.RatingRecord, error)
	GetAllPlayers() ([]rating.RatingRecord, error)
	GetPlayers(playerIDs []string) ([]rating.RatingRecord, error)

	GetClubStat(playerID, clubID string) (*rating.ClubStatRecord, error)
	ListClubStats(clubID string) ([]rating.ClubStatRecord, error)

	ApplyMatchUpdate(update engine.Update) error
	ListRatingEvents(playerID string, limit int) ([]RatingEvent, error)

	SaveMigrated(rec rating.RatingRecord) (bool, error)

	Clear()
}
