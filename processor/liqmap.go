package processor

import (
	"math"
	"sort"

	"hyperflow/internal/models"
)

// Fixed bucket widths for the most liquid coins; everything else is bucketed
// by price magnitude.
var bucketOverrides = map[string]float64{
	"BTC": 1000,
	"ETH": 50,
	"SOL": 5,
	"BNB": 10,
}

func bucketSize(symbol string, price float64) float64 {
	if size, ok := bucketOverrides[symbol]; ok {
		return size
	}
	switch {
	case price >= 10000:
		return 500
	case price >= 1000:
		return 100
	case price >= 100:
		return 10
	case price >= 10:
		return 1
	case price >= 1:
		return 0.1
	default:
		return 0.01
	}
}

func leverageTier(leverage float64) int {
	switch {
	case leverage >= 100:
		return 100
	case leverage >= 50:
		return 50
	case leverage >= 25:
		return 25
	default:
		return 10
	}
}

// BuildLiquidationMap groups liquidation prices into per-symbol buckets
// around the current mark price, split by side and leverage tier. Only
// liquidation prices within windowPct of mark are mapped; symbols with
// fewer than minPositions qualifying positions are skipped.
func BuildLiquidationMap(positions []models.Position, index MarketIndex, windowPct float64, minPositions int) map[string]models.LiquidationMap {
	bySymbol := make(map[string][]models.Position)
	for _, p := range positions {
		if p.LiquidationPrice == nil {
			continue
		}
		bySymbol[p.Symbol] = append(bySymbol[p.Symbol], p)
	}

	result := make(map[string]models.LiquidationMap)

	for symbol, symbolPositions := range bySymbol {
		if len(symbolPositions) < minPositions {
			continue
		}
		market, ok := index[symbol]
		if !ok || market.MarkPrice <= 0 {
			continue
		}

		size := bucketSize(symbol, market.MarkPrice)
		minPrice := market.MarkPrice * (1 - windowPct/100)
		maxPrice := market.MarkPrice * (1 + windowPct/100)

		longBuckets := make(map[float64]*models.LiqBucket)
		shortBuckets := make(map[float64]*models.LiqBucket)

		for _, p := range symbolPositions {
			liq := *p.LiquidationPrice
			if liq < minPrice || liq > maxPrice {
				continue
			}
			key := roundBucket(math.Floor(liq/size) * size)

			buckets := shortBuckets
			if p.Size > 0 {
				buckets = longBuckets
			}
			bucket, ok := buckets[key]
			if !ok {
				bucket = &models.LiqBucket{Price: key}
				buckets[key] = bucket
			}
			switch leverageTier(p.Leverage) {
			case 100:
				bucket.L100x += p.PositionValue
			case 50:
				bucket.L50x += p.PositionValue
			case 25:
				bucket.L25x += p.PositionValue
			default:
				bucket.L10x += p.PositionValue
			}
		}

		longList := sortedBuckets(longBuckets)
		shortList := sortedBuckets(shortBuckets)
		if len(longList) == 0 && len(shortList) == 0 {
			continue
		}

		result[symbol] = models.LiquidationMap{
			CurrentPrice:      market.MarkPrice,
			LongLiquidations:  longList,
			ShortLiquidations: shortList,
		}
	}

	return result
}

func sortedBuckets(buckets map[float64]*models.LiqBucket) []models.LiqBucket {
	list := make([]models.LiqBucket, 0, len(buckets))
	for _, b := range buckets {
		if b.L10x+b.L25x+b.L50x+b.L100x > 0 {
			list = append(list, *b)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Price < list[j].Price })
	return list
}

// roundBucket trims float noise from the bucket key so equal buckets
// compare equal across runs.
func roundBucket(price float64) float64 {
	return math.Round(price*100) / 100
}
