package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                   sync.Mutex
	ratingUpdates        int
	outcomesRejected     int
	tierPromotions       int
	legacyMigrations     int
	updateDurations      []float64
	leaderboardDurations []float64
	slackNotifSent       int
	slackNotifFailed     int
	startupTime          float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		updateDurations:      make([]float64, 0),
		leaderboardDurations: make([]float64, 0),
	}
}

func (m *Mock) IncRatingUpdates() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratingUpdates++
}

func (m *Mock) IncOutcomesRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomesRejected++
}

func (m *Mock) IncTierPromotions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tierPromotions++
}

func (m *Mock) IncLegacyMigrations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.legacyMigrations++
}

func (m *Mock) ObserveUpdateDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateDurations = append(m.updateDurations, duration)
}

func (m *Mock) ObserveLeaderboardDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaderboardDurations = append(m.leaderboardDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// RatingUpdates returns the number of times IncRatingUpdates was called.
func (m *Mock) RatingUpdates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ratingUpdates
}

// OutcomesRejected returns the number of times IncOutcomesRejected was called.
func (m *Mock) OutcomesRejected() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomesRejected
}

// TierPromotions returns the number of times IncTierPromotions was called.
func (m *Mock) TierPromotions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tierPromotions
}

// LegacyMigrations returns the number of times IncLegacyMigrations was called.
func (m *Mock) LegacyMigrations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.legacyMigrations
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
