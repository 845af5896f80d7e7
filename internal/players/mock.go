package players

import (
	"sync"

	"github.com/rallyrank/rating-engine/internal/engine"
	"github.com/rallyrank/rating-engine/internal/rating"
)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	EnsurePlayerFunc     func(playerID, name, gender string) error
	GetPlayerFunc        func(playerID string) (*rating.RatingRecord, error)
	GetPlayerByNameFunc  func(name string) (*rating.RatingRecord, error)
	GetAllPlayersFunc    func() ([]rating.RatingRecord, error)
	GetPlayersFunc       func(playerIDs []string) ([]rating.RatingRecord, error)
	GetClubStatFunc      func(playerID, clubID string) (*rating.ClubStatRecord, error)
	ListClubStatsFunc    func(clubID string) ([]rating.ClubStatRecord, error)
	ApplyMatchUpdateFunc func(update engine.Update) error
	ListRatingEventsFunc func(playerID string, limit int) ([]RatingEvent, error)
	SaveMigratedFunc     func(rec rating.RatingRecord) (bool, error)

	// Call records
	EnsurePlayerCalls []struct {
		PlayerID, Name, Gender string
	}
	ApplyMatchUpdateCalls []engine.Update
	SaveMigratedCalls     []rating.RatingRecord
	ClearCalls            int
}

var _ Store = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) EnsurePlayer(playerID, name, gender string) error {
	m.mu.Lock()
	m.EnsurePlayerCalls = append(m.EnsurePlayerCalls, struct {
		PlayerID, Name, Gender string
	}{playerID, name, gender})
	m.mu.Unlock()
	if m.EnsurePlayerFunc != nil {
		return m.EnsurePlayerFunc(playerID, name, gender)
	}
	return nil
}

func (m *MockStore) GetPlayer(playerID string) (*rating.RatingRecord, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	rec := rating.NewRatingRecord(playerID, playerID)
	return &rec, nil
}

func (m *MockStore) GetPlayerByName(name string) (*rating.RatingRecord, error) {
	if m.GetPlayerByNameFunc != nil {
		return m.GetPlayerByNameFunc(name)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetAllPlayers() ([]rating.RatingRecord, error) {
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) GetPlayers(playerIDs []string) ([]rating.RatingRecord, error) {
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(playerIDs)
	}
	return nil, nil
}

func (m *MockStore) GetClubStat(playerID, clubID string) (*rating.ClubStatRecord, error) {
	if m.GetClubStatFunc != nil {
		return m.GetClubStatFunc(playerID, clubID)
	}
	return nil, nil
}

func (m *MockStore) ListClubStats(clubID string) ([]rating.ClubStatRecord, error) {
	if m.ListClubStatsFunc != nil {
		return m.ListClubStatsFunc(clubID)
	}
	return nil, nil
}

func (m *MockStore) ApplyMatchUpdate(update engine.Update) error {
	m.mu.Lock()
	m.ApplyMatchUpdateCalls = append(m.ApplyMatchUpdateCalls, update)
	m.mu.Unlock()
	if m.ApplyMatchUpdateFunc != nil {
		return m.ApplyMatchUpdateFunc(update)
	}
	return nil
}

func (m *MockStore) ListRatingEvents(playerID string, limit int) ([]RatingEvent, error) {
	if m.ListRatingEventsFunc != nil {
		return m.ListRatingEventsFunc(playerID, limit)
	}
	return nil, nil
}

func (m *MockStore) SaveMigrated(rec rating.RatingRecord) (bool, error) {
	m.mu.Lock()
	m.SaveMigratedCalls = append(m.SaveMigratedCalls, rec)
	m.mu.Unlock()
	if m.SaveMigratedFunc != nil {
		return m.SaveMigratedFunc(rec)
	}
	return true, nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	m.ClearCalls++
	m.mu.Unlock()
}
