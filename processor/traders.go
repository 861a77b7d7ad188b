package processor

import (
	"sort"

	"hyperflow/internal/models"
)

// RankTraders extracts each trader's pnl for the requested window, sorts by
// pnl descending with accountId ascending as the deterministic tiebreak,
// truncates to topN and assigns 1-based ranks.
func RankTraders(rows []models.LeaderboardRow, window string, topN int) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(rows))

	for _, row := range rows {
		if row.EthAddress == "" {
			continue
		}
		entry := models.LeaderboardEntry{
			AccountID:    row.EthAddress,
			AccountValue: parseDecimalOr(row.AccountValue, 0),
			Pnl:          windowPnl(row, window),
		}
		if row.DisplayName != nil {
			entry.DisplayName = *row.DisplayName
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Pnl != entries[j].Pnl {
			return entries[i].Pnl > entries[j].Pnl
		}
		return entries[i].AccountID < entries[j].AccountID
	})

	if topN < len(entries) {
		entries = entries[:topN]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func windowPnl(row models.LeaderboardRow, window string) float64 {
	for _, perf := range row.WindowPerformances {
		if perf.Window == window {
			return parseDecimalOr(perf.Performance.Pnl, 0)
		}
	}
	return 0
}

// TopAccounts returns the account ids of the K highest-ranked traders, the
// subset whose positions are polled.
func TopAccounts(entries []models.LeaderboardEntry, k int) []string {
	if k > len(entries) {
		k = len(entries)
	}
	accounts := make([]string, 0, k)
	for _, e := range entries[:k] {
		accounts = append(accounts, e.AccountID)
	}
	return accounts
}
