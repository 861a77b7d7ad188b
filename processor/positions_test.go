package processor

import (
	"encoding/json"
	"math"
	"testing"

	"hyperflow/internal/models"
)

func strPtr(s string) *string { return &s }

func testIndex() MarketIndex {
	return NewMarketIndex([]models.MarketSnapshot{
		{Symbol: "BTC", MarkPrice: 50000},
		{Symbol: "ETH", MarkPrice: 3000},
	})
}

func rawPosition(coin, szi, liqPx string) models.RawPosition {
	p := models.RawPosition{
		Coin:          coin,
		Szi:           szi,
		EntryPx:       "1000",
		PositionValue: "10000",
		UnrealizedPnl: "50",
		Leverage:      models.Leverage{Type: "cross", Value: json.Number("10")},
	}
	if liqPx != "" {
		p.LiquidationPx = strPtr(liqPx)
	}
	return p
}

func TestLiquidationDistancePct(t *testing.T) {
	cases := []struct {
		mark, liq, want float64
	}{
		{100, 95, 5},
		{100, 105, 5},
		{50000, 40000, 20},
		{100, 100, 0},
	}
	for _, tc := range cases {
		got := LiquidationDistancePct(tc.mark, tc.liq)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("LiquidationDistancePct(%v, %v) = %v, want %v", tc.mark, tc.liq, got, tc.want)
		}
		if got < 0 {
			t.Errorf("distance must be non-negative, got %v", got)
		}
	}
}

func TestNormalizePositions(t *testing.T) {
	accounts := []models.AccountPositions{
		{AccountID: "0xaaa", Positions: []models.RawPosition{
			rawPosition("BTC", "1.5", "48000"),   // distance 4% -> at risk at 5%
			rawPosition("ETH", "-10", "3500"),    // short, distance ~16.7%
			rawPosition("BTC", "2", ""),          // no liquidation price
			rawPosition("UNKNOWN", "1", "100"),   // market not in index
			rawPosition("BTC", "garbage", "100"), // unparseable size
		}},
	}

	positions := NormalizePositions(accounts, testIndex(), 5.0)
	if len(positions) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(positions))
	}

	btc := positions[0]
	if !btc.AtRisk {
		t.Error("BTC long 4% from liquidation should be at risk")
	}
	if math.Abs(btc.LiquidationDistancePct-4.0) > 1e-9 {
		t.Errorf("BTC distance = %v, want 4", btc.LiquidationDistancePct)
	}
	if btc.MarkPrice != 50000 {
		t.Errorf("mark price not looked up: %v", btc.MarkPrice)
	}
	if btc.Leverage != 10 {
		t.Errorf("leverage = %v, want 10", btc.Leverage)
	}

	eth := positions[1]
	if eth.AtRisk {
		t.Error("ETH short 16.7% away should not be at risk")
	}
	if eth.Size != -10 {
		t.Errorf("size must keep its sign: %v", eth.Size)
	}

	noLiq := positions[2]
	if noLiq.LiquidationPrice != nil || noLiq.AtRisk {
		t.Error("position without liquidation price can never be at risk")
	}
}

func TestNormalizePositionsThresholdBoundary(t *testing.T) {
	accounts := []models.AccountPositions{
		{AccountID: "0xaaa", Positions: []models.RawPosition{
			rawPosition("BTC", "1", "47500"), // distance exactly 5%
			rawPosition("BTC", "1", "47501"), // just under 5%
		}},
	}

	positions := NormalizePositions(accounts, testIndex(), 5.0)
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}
	if positions[0].AtRisk {
		t.Error("distance equal to the threshold must not be flagged")
	}
	if !positions[1].AtRisk {
		t.Error("distance strictly under the threshold must be flagged")
	}
}

func TestRiskyPositions(t *testing.T) {
	liq1, liq2 := 49000.0, 48000.0
	positions := []models.Position{
		{AccountID: "0xbbb", Symbol: "BTC", LiquidationPrice: &liq2, LiquidationDistancePct: 4, AtRisk: true},
		{AccountID: "0xaaa", Symbol: "BTC", LiquidationPrice: &liq1, LiquidationDistancePct: 2, AtRisk: true},
		{AccountID: "0xccc", Symbol: "ETH", LiquidationDistancePct: 0, AtRisk: false}, // nil liq price
		{AccountID: "0xddd", Symbol: "ETH", LiquidationPrice: &liq1, LiquidationDistancePct: 30, AtRisk: false},
	}

	risky := RiskyPositions(positions, 200)
	if len(risky) != 2 {
		t.Fatalf("expected 2 risky positions, got %d", len(risky))
	}
	if risky[0].AccountID != "0xaaa" || risky[1].AccountID != "0xbbb" {
		t.Errorf("not sorted by distance ascending: %s, %s", risky[0].AccountID, risky[1].AccountID)
	}
	for _, p := range risky {
		if p.LiquidationPrice == nil {
			t.Error("risky positions must all carry a liquidation price")
		}
	}
}

func TestBiggestPositions(t *testing.T) {
	positions := []models.Position{
		{AccountID: "0xaaa", Symbol: "BTC", PositionValue: 50000},
		{AccountID: "0xbbb", Symbol: "ETH", PositionValue: 90000},
		{AccountID: "0xbbb", Symbol: "BTC", PositionValue: 50000},
		{AccountID: "0xccc", Symbol: "SOL", PositionValue: 10000},
	}
	leaderboard := []models.LeaderboardEntry{
		{AccountID: "0xbbb", DisplayName: "whale", AccountValue: 2000000, Rank: 1},
		{AccountID: "0xaaa", AccountValue: 800000, Rank: 2},
	}

	biggest := BiggestPositions(positions, leaderboard, 3)
	if len(biggest) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(biggest))
	}
	if biggest[0].Symbol != "ETH" || biggest[0].PositionValue != 90000 {
		t.Errorf("not sorted by value descending: %+v", biggest[0])
	}
	// equal values resolve by accountId
	if biggest[1].AccountID != "0xaaa" || biggest[2].AccountID != "0xbbb" {
		t.Errorf("tiebreak not by accountId: %s, %s", biggest[1].AccountID, biggest[2].AccountID)
	}

	if biggest[0].TraderName != "whale" || biggest[0].TraderAccountValue != 2000000 {
		t.Errorf("trader annotation missing: %+v", biggest[0])
	}
	if biggest[1].TraderName != "" || biggest[1].TraderAccountValue != 800000 {
		t.Errorf("unexpected annotation for unnamed trader: %+v", biggest[1])
	}
}

func TestBiggestPositionsUnknownTrader(t *testing.T) {
	positions := []models.Position{
		{AccountID: "0xzzz", Symbol: "BTC", PositionValue: 100},
	}
	biggest := BiggestPositions(positions, nil, 10)
	if len(biggest) != 1 {
		t.Fatalf("expected 1 position, got %d", len(biggest))
	}
	if biggest[0].TraderName != "" || biggest[0].TraderAccountValue != 0 {
		t.Errorf("unknown trader must carry zero annotation: %+v", biggest[0])
	}
}

func TestRiskyPositionsCap(t *testing.T) {
	liq := 1.0
	positions := make([]models.Position, 300)
	for i := range positions {
		positions[i] = models.Position{
			AccountID:              "0xaaa",
			Symbol:                 "BTC",
			LiquidationPrice:       &liq,
			LiquidationDistancePct: float64(i),
			AtRisk:                 true,
		}
	}
	risky := RiskyPositions(positions, 200)
	if len(risky) != 200 {
		t.Fatalf("expected cap at 200, got %d", len(risky))
	}
}
