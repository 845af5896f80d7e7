package leaderboard

import (
	"time"

	"github.com/rallyrank/rating-engine/internal/rating"
)

// windowStart returns the unix second a window opens at. Monthly and
// quarterly windows are calendar-aligned, not rolling.
func windowStart(w Window, now int64) int64 {
	if w == WindowAllTime || w == "" {
		return 0
	}
	t := time.Unix(now, 0).UTC()
	switch w {
	case WindowMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Unix()
	case WindowQuarter:
		quarterMonth := time.Month(((int(t.Month())-1)/3)*3 + 1)
		return time.Date(t.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC).Unix()
	}
	return 0
}

// eligible applies the pre-ranking filters: gender equality and the time
// window. A player who has never played at all is still rankable at their
// default rating; a player with history but no activity inside the window
// is not.
func eligible(rec rating.RatingRecord, f Filter, start int64) bool {
	if f.Gender != "" && rec.Gender != f.Gender {
		return false
	}
	if start > 0 && rec.MatchesPlayed > 0 && rec.LastMatchAt < start {
		return false
	}
	return true
}

// score extracts the ranking key's value from a record. Every stored rating
// is sanitized on the way out, since the snapshot comes from untrusted
// storage.
func score(rec rating.RatingRecord, key Key) float64 {
	switch key {
	case KeySingles:
		return rating.Sanitize(rec.SinglesRating)
	case KeyDoubles:
		return rating.Sanitize(rec.DoublesRating)
	case KeyMixed:
		return rating.Sanitize(rec.MixedRating)
	case KeyOverall:
		return rec.OverallRating()
	default:
		return rating.Sanitize(rec.Rating)
	}
}

// BuildEntries converts a snapshot of rating records into ranker input for
// any non-club key, applying the filter first so rank numbers are dense
// within the filtered set.
func BuildEntries(records []rating.RatingRecord, f Filter) []Entry {
	now := f.Now
	if now == 0 {
		now = time.Now().Unix()
	}
	start := windowStart(f.Window, now)

	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		if !eligible(rec, f, start) {
			continue
		}
		entries = append(entries, Entry{
			PlayerID: rec.PlayerID,
			Name:     rec.Name,
			Score:    score(rec, f.Key),
		})
	}
	return entries
}

// BuildClubEntries converts club-scoped stat records into ranker input. The
// players' global records supply the gender and recency data for filtering;
// a club stat without a matching record is skipped rather than guessed at.
func BuildClubEntries(stats []rating.ClubStatRecord, records map[string]rating.RatingRecord, f Filter) []Entry {
	now := f.Now
	if now == 0 {
		now = time.Now().Unix()
	}
	start := windowStart(f.Window, now)

	entries := make([]Entry, 0, len(stats))
	for _, st := range stats {
		rec, ok := records[st.PlayerID]
		if !ok {
			continue
		}
		if !eligible(rec, f, start) {
			continue
		}
		entries = append(entries, Entry{
			PlayerID: st.PlayerID,
			Name:     rec.Name,
			Score:    rating.Sanitize(st.ClubRating),
		})
	}
	return entries
}
