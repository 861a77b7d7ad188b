package processor

import (
	"sort"

	"hyperflow/internal/models"
)

// FundingAPY annualizes a per-interval funding rate as a percentage.
// The rate is always recomputed here; upstream annualized values are
// never trusted.
func FundingAPY(rate float64, periodsPerYear int) float64 {
	return finiteOr(rate*float64(periodsPerYear)*100, 0)
}

// NormalizeMarkets zips the asset universe with its contexts into market
// snapshots and computes the exchange-wide dashboard totals. Records with a
// missing or non-positive mark price are skipped. Output is ordered by open
// interest descending with the symbol as tiebreak.
func NormalizeMarkets(meta *models.MetaAndAssetCtxs, periodsPerYear int) ([]models.MarketSnapshot, models.DashboardStats) {
	universe := meta.Meta.Universe
	ctxs := meta.AssetCtxs

	markets := make([]models.MarketSnapshot, 0, len(universe))
	var totalOI, totalVolume float64

	for i, asset := range universe {
		if i >= len(ctxs) {
			break
		}
		if asset.Name == "" || asset.IsDelisted {
			continue
		}
		ctx := ctxs[i]

		mark, ok := parseDecimal(ctx.MarkPx)
		if !ok || mark <= 0 {
			continue
		}

		volume := parseDecimalOr(ctx.DayNtlVlm, 0)
		oiCoins := parseDecimalOr(ctx.OpenInterest, 0)
		funding := parseDecimalOr(ctx.Funding, 0)
		prev := parseDecimalOr(ctx.PrevDayPx, 0)

		change := 0.0
		if prev > 0 {
			change = finiteOr((mark-prev)/prev*100, 0)
		}

		oiNotional := oiCoins * mark
		totalOI += oiNotional
		totalVolume += volume

		markets = append(markets, models.MarketSnapshot{
			Symbol:       asset.Name,
			MarkPrice:    mark,
			Change24hPct: change,
			Volume24h:    volume,
			OpenInterest: oiNotional,
			FundingRate:  funding,
			FundingAPY:   FundingAPY(funding, periodsPerYear),
			MaxLeverage:  asset.MaxLeverage,
		})
	}

	sort.Slice(markets, func(i, j int) bool {
		if markets[i].OpenInterest != markets[j].OpenInterest {
			return markets[i].OpenInterest > markets[j].OpenInterest
		}
		return markets[i].Symbol < markets[j].Symbol
	})

	stats := models.DashboardStats{
		TotalOpenInterest: totalOI,
		Volume24h:         totalVolume,
		ActiveMarkets:     len(markets),
	}

	return markets, stats
}

// FundingBoard selects the markets with the largest absolute funding rate.
// Ties resolve by symbol so identical inputs always order the same way.
func FundingBoard(markets []models.MarketSnapshot, size int) []models.FundingBoardEntry {
	sorted := make([]models.MarketSnapshot, len(markets))
	copy(sorted, markets)

	sort.Slice(sorted, func(i, j int) bool {
		ai, aj := abs(sorted[i].FundingRate), abs(sorted[j].FundingRate)
		if ai != aj {
			return ai > aj
		}
		return sorted[i].Symbol < sorted[j].Symbol
	})

	if size > len(sorted) {
		size = len(sorted)
	}
	board := make([]models.FundingBoardEntry, 0, size)
	for _, m := range sorted[:size] {
		board = append(board, models.FundingBoardEntry{
			Symbol:       m.Symbol,
			FundingRate:  m.FundingRate,
			FundingAPY:   m.FundingAPY,
			MarkPrice:    m.MarkPrice,
			OpenInterest: m.OpenInterest,
		})
	}
	return board
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
