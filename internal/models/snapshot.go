package models

import "time"

// Snapshot is the artifact consumed by the static viewer. It is rebuilt from
// scratch every run; field order is fixed so identical inputs produce a
// byte-identical document.
type Snapshot struct {
	GeneratedAt        time.Time                 `json:"generatedAt"`
	Dashboard          DashboardStats            `json:"dashboard"`
	Markets            []MarketSnapshot          `json:"markets"`
	FundingBoard       []FundingBoardEntry       `json:"fundingBoard"`
	Leaderboard        []LeaderboardEntry        `json:"leaderboard"`
	RiskyPositions     []Position                `json:"riskyPositions"`
	BiggestPositions   []BiggestPosition         `json:"biggestPositions"`
	PositionAggregates []PositionAggregate       `json:"positionAggregates"`
	LiquidationMap     map[string]LiquidationMap `json:"liquidationMap"`
}

// DashboardStats summarises the whole exchange for the header widgets.
type DashboardStats struct {
	TotalOpenInterest float64 `json:"totalOpenInterest"`
	Volume24h         float64 `json:"volume24h"`
	ActiveMarkets     int     `json:"activeMarkets"`
	TotalTraders      int     `json:"totalTraders"`
}

// MarketSnapshot is one normalized perpetual market. FundingAPY is always
// recomputed from FundingRate, never taken from upstream.
type MarketSnapshot struct {
	Symbol       string  `json:"symbol"`
	MarkPrice    float64 `json:"markPrice"`
	Change24hPct float64 `json:"change24hPct"`
	Volume24h    float64 `json:"volume24h"`
	OpenInterest float64 `json:"openInterest"`
	FundingRate  float64 `json:"fundingRate"`
	FundingAPY   float64 `json:"fundingAPY"`
	MaxLeverage  int     `json:"maxLeverage"`
}

// FundingBoardEntry highlights the markets with the largest absolute
// funding rates.
type FundingBoardEntry struct {
	Symbol       string  `json:"symbol"`
	FundingRate  float64 `json:"fundingRate"`
	FundingAPY   float64 `json:"fundingAPY"`
	MarkPrice    float64 `json:"markPrice"`
	OpenInterest float64 `json:"openInterest"`
}

// LeaderboardEntry is a ranked trader. Rank is 1-based, assigned after
// sorting by pnl descending with accountId as the tiebreak.
type LeaderboardEntry struct {
	AccountID    string  `json:"accountId"`
	DisplayName  string  `json:"displayName,omitempty"`
	AccountValue float64 `json:"accountValue"`
	Pnl          float64 `json:"pnl"`
	Rank         int     `json:"rank"`
}

// Position is a normalized open position cross-referenced against the
// market mark price. LiquidationPrice is nil when the exchange does not
// report one; such positions never appear in riskyPositions.
type Position struct {
	AccountID              string   `json:"accountId"`
	Symbol                 string   `json:"symbol"`
	Size                   float64  `json:"size"`
	EntryPrice             float64  `json:"entryPrice"`
	PositionValue          float64  `json:"positionValue"`
	UnrealizedPnl          float64  `json:"unrealizedPnl"`
	Leverage               float64  `json:"leverage"`
	MarkPrice              float64  `json:"markPrice"`
	LiquidationPrice       *float64 `json:"liquidationPrice,omitempty"`
	LiquidationDistancePct float64  `json:"liquidationDistancePct"`
	AtRisk                 bool     `json:"atRisk"`
}

// BiggestPosition is a position ranked by notional value, annotated with
// the owning trader's leaderboard identity.
type BiggestPosition struct {
	Position
	TraderName         string  `json:"traderName,omitempty"`
	TraderAccountValue float64 `json:"traderAccountValue"`
}

// PositionAggregate sums long/short exposure per coin across the polled
// accounts.
type PositionAggregate struct {
	Symbol        string  `json:"symbol"`
	LongNotional  float64 `json:"longNotional"`
	ShortNotional float64 `json:"shortNotional"`
	LongSize      float64 `json:"longSize"`
	ShortSize     float64 `json:"shortSize"`
	TotalNotional float64 `json:"totalNotional"`
}

// LiquidationMap groups liquidation prices into buckets around the current
// mark price, split by side and leverage tier.
type LiquidationMap struct {
	CurrentPrice      float64     `json:"currentPrice"`
	LongLiquidations  []LiqBucket `json:"longLiquidations"`
	ShortLiquidations []LiqBucket `json:"shortLiquidations"`
}

// LiqBucket is the notional at risk in one price bucket, broken down by
// leverage tier.
type LiqBucket struct {
	Price float64 `json:"price"`
	L10x  float64 `json:"10x"`
	L25x  float64 `json:"25x"`
	L50x  float64 `json:"50x"`
	L100x float64 `json:"100x"`
}
