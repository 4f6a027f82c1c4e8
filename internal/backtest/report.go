package backtest

import (
	"sort"

	"WaveCast/internal/domain/models"
)

// Leaderboard ranks per-symbol reports by directional accuracy, breaking
// ties on lower MAPE then symbol name for deterministic output.
func Leaderboard(reports []*models.BacktestReport) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(reports))
	for _, r := range reports {
		if r == nil || r.Evaluated == 0 {
			continue
		}
		entries = append(entries, models.LeaderboardEntry{
			Symbol:              r.Symbol,
			DirectionalAccuracy: r.DirectionalAccuracy,
			TargetHitRate:       r.TargetHitRate,
			MAPE:                r.MAPE,
			Evaluated:           r.Evaluated,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.DirectionalAccuracy != b.DirectionalAccuracy {
			return a.DirectionalAccuracy > b.DirectionalAccuracy
		}
		if a.MAPE != b.MAPE {
			return a.MAPE < b.MAPE
		}
		return a.Symbol < b.Symbol
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
