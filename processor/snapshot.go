package processor

import (
	"time"

	appconfig "hyperflow/config"
	"hyperflow/internal/models"
)

// RawInputs carries everything the fetch stages produced for one run.
type RawInputs struct {
	Meta        *models.MetaAndAssetCtxs
	Leaderboard []models.LeaderboardRow
	Positions   []models.AccountPositions
}

// BuildSnapshot assembles the full artifact from raw inputs. It is a pure
// function of its arguments: identical inputs and generatedAt produce a
// byte-identical artifact after encoding.
func BuildSnapshot(raw RawInputs, cfg *appconfig.Config, generatedAt time.Time) *models.Snapshot {
	markets, stats := NormalizeMarkets(raw.Meta, cfg.Snapshot.FundingPeriodsPerYear)
	stats.TotalTraders = len(raw.Leaderboard)

	index := NewMarketIndex(markets)
	leaderboard := RankTraders(raw.Leaderboard, cfg.Snapshot.PnlWindow, cfg.Snapshot.TopTraders)
	positions := NormalizePositions(raw.Positions, index, cfg.Snapshot.RiskThresholdPct)

	return &models.Snapshot{
		GeneratedAt:        generatedAt,
		Dashboard:          stats,
		Markets:            markets,
		FundingBoard:       FundingBoard(markets, cfg.Writer.FundingBoardSize),
		Leaderboard:        leaderboard,
		RiskyPositions:     RiskyPositions(positions, cfg.Writer.RiskyPositions),
		BiggestPositions:   BiggestPositions(positions, leaderboard, cfg.Writer.BiggestPositions),
		PositionAggregates: AggregatePositions(positions, cfg.Writer.AggregateCoins),
		LiquidationMap:     BuildLiquidationMap(positions, index, cfg.Writer.LiqMap.WindowPct, cfg.Writer.LiqMap.MinPositions),
	}
}
