package processor

import (
	"sort"

	"hyperflow/internal/models"
)

// AggregatePositions sums long and short exposure per symbol across all
// normalized positions, returning the top maxCoins by total notional.
// Long/short is determined by the sign of the position size.
func AggregatePositions(positions []models.Position, maxCoins int) []models.PositionAggregate {
	bySymbol := make(map[string]*models.PositionAggregate)

	for _, p := range positions {
		agg, ok := bySymbol[p.Symbol]
		if !ok {
			agg = &models.PositionAggregate{Symbol: p.Symbol}
			bySymbol[p.Symbol] = agg
		}
		if p.Size > 0 {
			agg.LongNotional += p.PositionValue
			agg.LongSize += p.Size
		} else {
			agg.ShortNotional += p.PositionValue
			agg.ShortSize += -p.Size
		}
	}

	aggregates := make([]models.PositionAggregate, 0, len(bySymbol))
	for _, agg := range bySymbol {
		agg.TotalNotional = agg.LongNotional + agg.ShortNotional
		aggregates = append(aggregates, *agg)
	}

	sort.Slice(aggregates, func(i, j int) bool {
		if aggregates[i].TotalNotional != aggregates[j].TotalNotional {
			return aggregates[i].TotalNotional > aggregates[j].TotalNotional
		}
		return aggregates[i].Symbol < aggregates[j].Symbol
	})

	if maxCoins > 0 && len(aggregates) > maxCoins {
		aggregates = aggregates[:maxCoins]
	}
	return aggregates
}
