package processor

import (
	"fmt"
	"testing"

	"hyperflow/internal/models"
)

func leaderboardRow(address, pnl string) models.LeaderboardRow {
	return models.LeaderboardRow{
		EthAddress:   address,
		AccountValue: "1000",
		WindowPerformances: []models.WindowPerformance{
			{Window: "day", Performance: models.Performance{Pnl: pnl}},
			{Window: "week", Performance: models.Performance{Pnl: "0"}},
		},
	}
}

func TestRankTraders(t *testing.T) {
	rows := []models.LeaderboardRow{
		leaderboardRow("0xccc", "100.5"),
		leaderboardRow("0xaaa", "-50"),
		leaderboardRow("0xbbb", "9000"),
	}

	entries := RankTraders(rows, "day", 200)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].AccountID != "0xbbb" || entries[1].AccountID != "0xccc" || entries[2].AccountID != "0xaaa" {
		t.Errorf("unexpected order: %s, %s, %s", entries[0].AccountID, entries[1].AccountID, entries[2].AccountID)
	}
	for i, e := range entries {
		if e.Rank != i+1 {
			t.Errorf("entry %d rank = %d, want %d", i, e.Rank, i+1)
		}
	}
	// strictly non-increasing pnl
	for i := 1; i < len(entries); i++ {
		if entries[i].Pnl > entries[i-1].Pnl {
			t.Errorf("pnl not descending at %d", i)
		}
	}
}

func TestRankTradersTiebreak(t *testing.T) {
	rows := []models.LeaderboardRow{
		leaderboardRow("0xbbb", "100"),
		leaderboardRow("0xaaa", "100"),
		leaderboardRow("0xccc", "100"),
	}

	entries := RankTraders(rows, "day", 200)
	if entries[0].AccountID != "0xaaa" || entries[1].AccountID != "0xbbb" || entries[2].AccountID != "0xccc" {
		t.Errorf("ties must break by accountId ascending: %s, %s, %s",
			entries[0].AccountID, entries[1].AccountID, entries[2].AccountID)
	}
}

func TestRankTradersTruncates(t *testing.T) {
	rows := make([]models.LeaderboardRow, 500)
	for i := range rows {
		rows[i] = leaderboardRow(fmt.Sprintf("0x%04d", i), fmt.Sprintf("%d", i))
	}

	entries := RankTraders(rows, "day", 200)
	if len(entries) != 200 {
		t.Fatalf("expected 200 entries, got %d", len(entries))
	}
	if entries[0].Pnl != 499 {
		t.Errorf("top pnl = %v, want 499", entries[0].Pnl)
	}
}

func TestRankTradersMissingWindow(t *testing.T) {
	rows := []models.LeaderboardRow{leaderboardRow("0xaaa", "123")}
	entries := RankTraders(rows, "month", 10)
	if len(entries) != 1 || entries[0].Pnl != 0 {
		t.Errorf("missing window should yield zero pnl: %+v", entries)
	}
}

func TestTopAccounts(t *testing.T) {
	rows := []models.LeaderboardRow{
		leaderboardRow("0xccc", "3"),
		leaderboardRow("0xbbb", "2"),
		leaderboardRow("0xaaa", "1"),
	}
	entries := RankTraders(rows, "day", 200)

	accounts := TopAccounts(entries, 2)
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	if accounts[0] != "0xccc" || accounts[1] != "0xbbb" {
		t.Errorf("unexpected accounts: %v", accounts)
	}

	if got := TopAccounts(entries, 50); len(got) != 3 {
		t.Errorf("k larger than list should return all: %d", len(got))
	}
}
