package notifier

import (
	"sync"

	"github.com/rallyrank/rating-engine/internal/leaderboard"
	"github.com/rallyrank/rating-engine/internal/rating"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendTierPromotionFunc            func(rec rating.RatingRecord, previous rating.Tier, dryRun bool) error
	SendLeaderboardFunc              func(entries []leaderboard.RankedEntry, title string, dryRun bool) error
	SendPlayerRatingFunc             func(rec *rating.RatingRecord, query string, dryRun bool) error
	SendPlayerNotFoundFunc           func(query string, dryRun bool) error
	FormatLeaderboardResponseFunc    func(entries []leaderboard.RankedEntry, title string) (any, error)
	FormatPlayerRatingResponseFunc   func(rec *rating.RatingRecord, query string) (any, error)
	FormatPlayerNotFoundResponseFunc func(query string) (any, error)

	// Call records
	TierPromotionCalls []TierPromotionCall
	LeaderboardCalls   int
}

// TierPromotionCall holds the arguments for a call to SendTierPromotion.
type TierPromotionCall struct {
	Record   rating.RatingRecord
	Previous rating.Tier
	DryRun   bool
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendTierPromotion(rec rating.RatingRecord, previous rating.Tier, dryRun bool) error {
	m.mu.Lock()
	m.TierPromotionCalls = append(m.TierPromotionCalls, TierPromotionCall{rec, previous, dryRun})
	m.mu.Unlock()
	if m.SendTierPromotionFunc != nil {
		return m.SendTierPromotionFunc(rec, previous, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(entries []leaderboard.RankedEntry, title string, dryRun bool) error {
	m.mu.Lock()
	m.LeaderboardCalls++
	m.mu.Unlock()
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(entries, title, dryRun)
	}
	return nil
}

func (m *Mock) SendPlayerRating(rec *rating.RatingRecord, query string, dryRun bool) error {
	if m.SendPlayerRatingFunc != nil {
		return m.SendPlayerRatingFunc(rec, query, dryRun)
	}
	return nil
}

func (m *Mock) SendPlayerNotFound(query string, dryRun bool) error {
	if m.SendPlayerNotFoundFunc != nil {
		return m.SendPlayerNotFoundFunc(query, dryRun)
	}
	return nil
}

func (m *Mock) FormatLeaderboardResponse(entries []leaderboard.RankedEntry, title string) (any, error) {
	if m.FormatLeaderboardResponseFunc != nil {
		return m.FormatLeaderboardResponseFunc(entries, title)
	}
	return nil, nil
}

func (m *Mock) FormatPlayerRatingResponse(rec *rating.RatingRecord, query string) (any, error) {
	if m.FormatPlayerRatingResponseFunc != nil {
		return m.FormatPlayerRatingResponseFunc(rec, query)
	}
	return nil, nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	if m.FormatPlayerNotFoundResponseFunc != nil {
		return m.FormatPlayerNotFoundResponseFunc(query)
	}
	return nil, nil
}
