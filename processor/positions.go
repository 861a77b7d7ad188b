package processor

import (
	"sort"

	"hyperflow/internal/models"
)

// MarketIndex maps symbols to their normalized market snapshot for mark
// price lookups.
type MarketIndex map[string]models.MarketSnapshot

// NewMarketIndex builds the symbol lookup used when normalizing positions.
func NewMarketIndex(markets []models.MarketSnapshot) MarketIndex {
	index := make(MarketIndex, len(markets))
	for _, m := range markets {
		index[m.Symbol] = m
	}
	return index
}

// NormalizePositions flattens per-account raw positions into the artifact
// shape, looking up the mark price by symbol and deriving the liquidation
// distance. Positions whose market is unknown are skipped; positions
// without a usable liquidation price are kept but can never be flagged at
// risk.
func NormalizePositions(accounts []models.AccountPositions, index MarketIndex, riskThresholdPct float64) []models.Position {
	var positions []models.Position

	for _, account := range accounts {
		for _, raw := range account.Positions {
			market, ok := index[raw.Coin]
			if !ok || market.MarkPrice <= 0 {
				continue
			}

			size, ok := parseDecimal(raw.Szi)
			if !ok || size == 0 {
				continue
			}

			position := models.Position{
				AccountID:     account.AccountID,
				Symbol:        raw.Coin,
				Size:          size,
				EntryPrice:    parseDecimalOr(raw.EntryPx, 0),
				PositionValue: parseDecimalOr(raw.PositionValue, 0),
				UnrealizedPnl: parseDecimalOr(raw.UnrealizedPnl, 0),
				MarkPrice:     market.MarkPrice,
			}
			if lev, err := raw.Leverage.Value.Float64(); err == nil {
				position.Leverage = lev
			}

			if raw.LiquidationPx != nil {
				if liq, ok := parseDecimal(*raw.LiquidationPx); ok && liq > 0 {
					position.LiquidationPrice = &liq
					position.LiquidationDistancePct = LiquidationDistancePct(market.MarkPrice, liq)
					position.AtRisk = position.LiquidationDistancePct < riskThresholdPct
				}
			}

			positions = append(positions, position)
		}
	}

	return positions
}

// LiquidationDistancePct is how far the mark price sits from the
// liquidation price, as a percentage of mark. Always non-negative.
func LiquidationDistancePct(mark, liquidation float64) float64 {
	diff := mark - liquidation
	if diff < 0 {
		diff = -diff
	}
	return finiteOr(diff/mark*100, 0)
}

// BiggestPositions ranks all normalized positions by notional value
// descending, capped at limit, annotating each with the trader's display
// name and account value from the leaderboard. Ties resolve by accountId
// then symbol for a stable artifact.
func BiggestPositions(positions []models.Position, leaderboard []models.LeaderboardEntry, limit int) []models.BiggestPosition {
	traders := make(map[string]models.LeaderboardEntry, len(leaderboard))
	for _, entry := range leaderboard {
		traders[entry.AccountID] = entry
	}

	biggest := make([]models.BiggestPosition, 0, len(positions))
	for _, p := range positions {
		bp := models.BiggestPosition{Position: p}
		if trader, ok := traders[p.AccountID]; ok {
			bp.TraderName = trader.DisplayName
			bp.TraderAccountValue = trader.AccountValue
		}
		biggest = append(biggest, bp)
	}

	sort.Slice(biggest, func(i, j int) bool {
		if biggest[i].PositionValue != biggest[j].PositionValue {
			return biggest[i].PositionValue > biggest[j].PositionValue
		}
		if biggest[i].AccountID != biggest[j].AccountID {
			return biggest[i].AccountID < biggest[j].AccountID
		}
		return biggest[i].Symbol < biggest[j].Symbol
	})

	if limit > 0 && len(biggest) > limit {
		biggest = biggest[:limit]
	}
	return biggest
}

// RiskyPositions filters flagged positions and orders them by liquidation
// distance ascending, capped at limit. Positions lacking a liquidation
// price are excluded by construction; ties resolve by accountId then
// symbol for a stable artifact.
func RiskyPositions(positions []models.Position, limit int) []models.Position {
	risky := make([]models.Position, 0)
	for _, p := range positions {
		if p.LiquidationPrice != nil && p.AtRisk {
			risky = append(risky, p)
		}
	}

	sort.Slice(risky, func(i, j int) bool {
		if risky[i].LiquidationDistancePct != risky[j].LiquidationDistancePct {
			return risky[i].LiquidationDistancePct < risky[j].LiquidationDistancePct
		}
		if risky[i].AccountID != risky[j].AccountID {
			return risky[i].AccountID < risky[j].AccountID
		}
		return risky[i].Symbol < risky[j].Symbol
	})

	if limit > 0 && len(risky) > limit {
		risky = risky[:limit]
	}
	return risky
}
