package players

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/rallyrank/rating-engine/internal/engine"
	"github.com/rallyrank/rating-engine/internal/rating"
)

// New creates a new Store backed by the given database.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

const playerColumns = `id, name, gender, rating, tier, matches_played, wins, losses,
	current_streak, longest_streak, global_matches, club_matches,
	singles_rating, doubles_rating, mixed_rating, last_match_at, migrated_at, legacy_json`

// EnsurePlayer inserts a player at the default rating if they are unknown.
// An existing row only has its name and gender refreshed; rating fields are
// never touched here, the engine is the only writer of those.
func (s *store) EnsurePlayer(playerID, name, gender string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := rating.NewRatingRecord(playerID, name)
	_, err := s.db.Exec(`
		INSERT INTO players (id, name, gender, rating, tier, singles_rating, doubles_rating, mixed_rating)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			gender = excluded.gender;
	`, playerID, name, gender, rec.Rating, string(rec.Tier), rec.SinglesRating, rec.DoublesRating, rec.MixedRating)
	if err != nil {
		return fmt.Errorf("failed to ensure player %s: %w", playerID, err)
	}
	return nil
}

func (s *store) GetPlayer(playerID string) (*rating.RatingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT "+playerColumns+" FROM players WHERE id = ?", playerID)
	rec, err := scanPlayer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, playerID)
		}
		return nil, fmt.Errorf("failed to get player %s: %w", playerID, err)
	}
	return rec, nil
}

// GetPlayerByName performs a case-insensitive fuzzy lookup, so "morten"
// matches "Morten Voss".
func (s *store) GetPlayerByName(name string) (*rating.RatingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := "%" + name + "%"
	row := s.db.QueryRow("SELECT "+playerColumns+" FROM players WHERE name LIKE ? COLLATE NOCASE LIMIT 1", pattern)
	rec, err := scanPlayer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: no player matching %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to get player by name: %w", err)
	}
	return rec, nil
}

func (s *store) GetAllPlayers() ([]rating.RatingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT " + playerColumns + " FROM players ORDER BY rating DESC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()
	return collectPlayers(rows)
}

func (s *store) GetPlayers(playerIDs []string) ([]rating.RatingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(playerIDs) == 0 {
		return []rating.RatingRecord{}, nil
	}

	placeholders := strings.Repeat("?,", len(playerIDs)-1) + "?"
	args := make([]any, len(playerIDs))
	for i, id := range playerIDs {
		args[i] = id
	}

	rows, err := s.db.Query("SELECT "+playerColumns+" FROM players WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()
	return collectPlayers(rows)
}

func (s *store) GetClubStat(playerID, clubID string) (*rating.ClubStatRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT player_id, club_id, club_rating, matches_played, wins, losses
		FROM club_stats WHERE player_id = ? AND club_id = ?
	`, playerID, clubID)

	st, err := scanClubStat(row)
	if err != nil {
		if err == sql.ErrNoRows {
			// First club match for this pair; the engine creates the record.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get club stat: %w", err)
	}
	return st, nil
}

func (s *store) ListClubStats(clubID string) ([]rating.ClubStatRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT player_id, club_id, club_rating, matches_played, wins, losses
		FROM club_stats WHERE club_id = ? ORDER BY club_rating DESC, player_id ASC
	`, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to query club stats: %w", err)
	}
	defer rows.Close()

	var stats []rating.ClubStatRecord
	for rows.Next() {
		st, err := scanClubStat(rows)
		if err != nil {
			log.Error("Failed to scan club stat row", "error", err)
			continue
		}
		stats = append(stats, *st)
	}
	return stats, rows.Err()
}

// ApplyMatchUpdate persists the whole result of one engine run in a single
// transaction: both rating rows, both club rows when present and the audit
// events. Either everything lands or nothing does.
func (s *store) ApplyMatchUpdate(update engine.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin match update transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	matchContext := EventContextGlobal
	if update.Club != nil {
		matchContext = EventContextClub
	}

	for _, up := range []engine.PlayerUpdate{update.A, update.B} {
		if err := writePlayer(tx, up.Record); err != nil {
			return err
		}
		if err := writeEvent(tx, RatingEvent{
			ID:           uuid.NewString(),
			MatchID:      update.MatchID,
			PlayerID:     up.Record.PlayerID,
			Context:      matchContext,
			RatingBefore: up.RatingBefore,
			RatingAfter:  up.Record.Rating,
			Delta:        up.Delta,
			KFactor:      up.KFactor,
			CreatedAt:    now,
		}); err != nil {
			return err
		}
	}

	if update.Club != nil {
		for _, side := range []struct {
			rec    rating.ClubStatRecord
			delta  float64
			before float64
		}{
			{update.Club.A, update.Club.DeltaA, update.Club.A.ClubRating - update.Club.DeltaA},
			{update.Club.B, update.Club.DeltaB, update.Club.B.ClubRating - update.Club.DeltaB},
		} {
			if err := writeClubStat(tx, side.rec); err != nil {
				return err
			}
			if err := writeEvent(tx, RatingEvent{
				ID:           uuid.NewString(),
				MatchID:      update.MatchID,
				PlayerID:     side.rec.PlayerID,
				Context:      EventContextClubScoped,
				RatingBefore: side.before,
				RatingAfter:  side.rec.ClubRating,
				Delta:        side.delta,
				KFactor:      0,
				CreatedAt:    now,
			}); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match update: %w", err)
	}
	log.Info("Applied match update", "matchID", update.MatchID,
		"playerA", update.A.Record.PlayerID, "deltaA", update.A.Delta,
		"playerB", update.B.Record.PlayerID, "deltaB", update.B.Delta,
		"club", update.Club != nil)
	return nil
}

func (s *store) ListRatingEvents(playerID string, limit int) ([]RatingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, match_id, player_id, context, rating_before, rating_after, delta, k_factor, created_at
		FROM rating_events WHERE player_id = ? ORDER BY created_at DESC, id ASC LIMIT ?
	`, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating events: %w", err)
	}
	defer rows.Close()

	var events []RatingEvent
	for rows.Next() {
		var e RatingEvent
		if err := rows.Scan(&e.ID, &e.MatchID, &e.PlayerID, &e.Context, &e.RatingBefore, &e.RatingAfter, &e.Delta, &e.KFactor, &e.CreatedAt); err != nil {
			log.Error("Failed to scan rating event row", "error", err)
			continue
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// SaveMigrated writes a normalized legacy record, but only when the stored
// row has not been migrated yet. Returns whether a write happened, which
// keeps the migration idempotent at the storage layer too.
func (s *store) SaveMigrated(rec rating.RatingRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		INSERT INTO players (`+playerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			gender = excluded.gender,
			rating = excluded.rating,
			tier = excluded.tier,
			matches_played = excluded.matches_played,
			wins = excluded.wins,
			losses = excluded.losses,
			global_matches = excluded.global_matches,
			singles_rating = excluded.singles_rating,
			doubles_rating = excluded.doubles_rating,
			mixed_rating = excluded.mixed_rating,
			migrated_at = excluded.migrated_at,
			legacy_json = excluded.legacy_json
		WHERE players.migrated_at = 0;
	`, rec.PlayerID, rec.Name, rec.Gender, rec.Rating, string(rec.Tier),
		rec.MatchesPlayed, rec.Wins, rec.Losses,
		rec.CurrentStreak, rec.LongestStreak, rec.GlobalMatches, rec.ClubMatches,
		rec.SinglesRating, rec.DoublesRating, rec.MixedRating,
		rec.LastMatchAt, rec.MigratedAt, rec.LegacyJSON)
	if err != nil {
		return false, fmt.Errorf("failed to save migrated record %s: %w", rec.PlayerID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}

	for _, table := range []string{"rating_events", "club_stats", "players"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

func writePlayer(tx *sql.Tx, rec rating.RatingRecord) error {
	_, err := tx.Exec(`
		UPDATE players SET
			rating = ?, tier = ?, matches_played = ?, wins = ?, losses = ?,
			current_streak = ?, longest_streak = ?, global_matches = ?, club_matches = ?,
			singles_rating = ?, doubles_rating = ?, mixed_rating = ?, last_match_at = ?
		WHERE id = ?
	`, rec.Rating, string(rec.Tier), rec.MatchesPlayed, rec.Wins, rec.Losses,
		rec.CurrentStreak, rec.LongestStreak, rec.GlobalMatches, rec.ClubMatches,
		rec.SinglesRating, rec.DoublesRating, rec.MixedRating, rec.LastMatchAt,
		rec.PlayerID)
	if err != nil {
		return fmt.Errorf("failed to write player %s: %w", rec.PlayerID, err)
	}
	return nil
}

func writeClubStat(tx *sql.Tx, st rating.ClubStatRecord) error {
	_, err := tx.Exec(`
		INSERT INTO club_stats (player_id, club_id, club_rating, matches_played, wins, losses)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id, club_id) DO UPDATE SET
			club_rating = excluded.club_rating,
			matches_played = excluded.matches_played,
			wins = excluded.wins,
			losses = excluded.losses;
	`, st.PlayerID, st.ClubID, st.ClubRating, st.MatchesPlayed, st.Wins, st.Losses)
	if err != nil {
		return fmt.Errorf("failed to write club stat %s/%s: %w", st.PlayerID, st.ClubID, err)
	}
	return nil
}

func writeEvent(tx *sql.Tx, e RatingEvent) error {
	_, err := tx.Exec(`
		INSERT INTO rating_events (id, match_id, player_id, context, rating_before, rating_after, delta, k_factor, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.MatchID, e.PlayerID, e.Context, e.RatingBefore, e.RatingAfter, e.Delta, e.KFactor, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to write rating event: %w", err)
	}
	return nil
}

func scanPlayer(scanner interface{ Scan(...any) error }) (*rating.RatingRecord, error) {
	var rec rating.RatingRecord
	var name sql.NullString
	var tier string

	err := scanner.Scan(
		&rec.PlayerID, &name, &rec.Gender, &rec.Rating, &tier,
		&rec.MatchesPlayed, &rec.Wins, &rec.Losses,
		&rec.CurrentStreak, &rec.LongestStreak, &rec.GlobalMatches, &rec.ClubMatches,
		&rec.SinglesRating, &rec.DoublesRating, &rec.MixedRating,
		&rec.LastMatchAt, &rec.MigratedAt, &rec.LegacyJSON,
	)
	if err != nil {
		return nil, err
	}

	rec.Name = name.String
	// Storage is untrusted: sanitize ratings and rederive the tier so a
	// corrupt row can never surface an inconsistent record.
	rec.Rating = rating.Sanitize(rec.Rating)
	rec.SinglesRating = rating.Sanitize(rec.SinglesRating)
	rec.DoublesRating = rating.Sanitize(rec.DoublesRating)
	rec.MixedRating = rating.Sanitize(rec.MixedRating)
	rec.Tier = rating.TierFromRating(rec.Rating)
	if rec.MatchesPlayed > 0 {
		rec.WinRate = float64(rec.Wins) / float64(rec.MatchesPlayed)
	}
	return &rec, nil
}

func scanClubStat(scanner interface{ Scan(...any) error }) (*rating.ClubStatRecord, error) {
	var st rating.ClubStatRecord
	err := scanner.Scan(&st.PlayerID, &st.ClubID, &st.ClubRating, &st.MatchesPlayed, &st.Wins, &st.Losses)
	if err != nil {
		return nil, err
	}
	st.ClubRating = rating.Sanitize(st.ClubRating)
	if st.MatchesPlayed > 0 {
		st.WinRate = float64(st.Wins) / float64(st.MatchesPlayed)
	}
	return &st, nil
}

func collectPlayers(rows *sql.Rows) ([]rating.RatingRecord, error) {
	var records []rating.RatingRecord
	for rows.Next() {
		rec, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}
