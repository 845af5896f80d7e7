// Package leaderboard turns rating snapshots into ranked standings. Ranking
// operates on a read-only snapshot; it is eventually consistent with respect
// to in-flight rating updates and that staleness window is accepted.
package leaderboard

import (
	"sort"

	"github.com/rallyrank/rating-engine/internal/rating"
)

// Rank orders entries by score descending and assigns sports-style ranks:
// an entry's rank is one plus the number of entries with a strictly greater
// score, so equal scores share a rank and the next distinct score skips the
// tied positions ([50, 50, 40] ranks as [1, 1, 3]). Ties are additionally
// flagged. The secondary sort on player ID exists only to make iteration
// order deterministic across runs; it never breaks a tie for ranking.
func Rank(entries []Entry) []RankedEntry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].PlayerID < sorted[j].PlayerID
	})

	scoreCounts := make(map[float64]int, len(sorted))
	for _, e := range sorted {
		scoreCounts[e.Score]++
	}

	ranked := make([]RankedEntry, len(sorted))
	rank := 1
	for i, e := range sorted {
		if i > 0 && sorted[i-1].Score != e.Score {
			rank = i + 1
		}
		ranked[i] = RankedEntry{
			Rank:     rank,
			PlayerID: e.PlayerID,
			Name:     e.Name,
			Score:    e.Score,
			Tier:     rating.TierFromRating(e.Score),
			IsTied:   scoreCounts[e.Score] > 1,
		}
	}
	return ranked
}

// RankOf looks a player up in a ranked leaderboard. The second return value
// distinguishes "unranked" (player absent from the snapshot) from any
// numeric rank; callers must not conflate the two.
func RankOf(ranked []RankedEntry, playerID string) (int, bool) {
	for _, e := range ranked {
		if e.PlayerID == playerID {
			return e.Rank, true
		}
	}
	return 0, false
}
