package models

import (
	"encoding/json"
	"fmt"
)

// Raw response schemas for the Hyperliquid public API. Every numeric field
// arrives as a decimal string; parsing happens in the processor so malformed
// records can be skipped instead of failing the whole response.

// MetaAndAssetCtxs is the POST /info {"type":"metaAndAssetCtxs"} response, a
// two-element array of market metadata and per-asset contexts.
type MetaAndAssetCtxs struct {
	Meta      Meta
	AssetCtxs []AssetCtx
}

// UnmarshalJSON decodes the positional [meta, contexts] tuple.
func (m *MetaAndAssetCtxs) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) < 2 {
		return fmt.Errorf("metaAndAssetCtxs: expected 2 elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[0], &m.Meta); err != nil {
		return fmt.Errorf("metaAndAssetCtxs meta: %w", err)
	}
	if err := json.Unmarshal(parts[1], &m.AssetCtxs); err != nil {
		return fmt.Errorf("metaAndAssetCtxs contexts: %w", err)
	}
	return nil
}

type Meta struct {
	Universe []Asset `json:"universe"`
}

type Asset struct {
	Name        string `json:"name"`
	SzDecimals  int    `json:"szDecimals"`
	MaxLeverage int    `json:"maxLeverage"`
	IsDelisted  bool   `json:"isDelisted,omitempty"`
}

type AssetCtx struct {
	MarkPx       string `json:"markPx"`
	PrevDayPx    string `json:"prevDayPx"`
	OraclePx     string `json:"oraclePx"`
	DayNtlVlm    string `json:"dayNtlVlm"`
	OpenInterest string `json:"openInterest"`
	Funding      string `json:"funding"`
}

// LeaderboardResponse is the stats leaderboard payload.
type LeaderboardResponse struct {
	LeaderboardRows []LeaderboardRow `json:"leaderboardRows"`
}

type LeaderboardRow struct {
	EthAddress         string              `json:"ethAddress"`
	DisplayName        *string             `json:"displayName"`
	AccountValue       string              `json:"accountValue"`
	WindowPerformances []WindowPerformance `json:"windowPerformances"`
}

// WindowPerformance is a ["day", {pnl, roi, vlm}] pair.
type WindowPerformance struct {
	Window      string
	Performance Performance
}

type Performance struct {
	Pnl string `json:"pnl"`
	Roi string `json:"roi"`
	Vlm string `json:"vlm"`
}

func (w *WindowPerformance) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("windowPerformance: expected 2 elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[0], &w.Window); err != nil {
		return fmt.Errorf("windowPerformance window: %w", err)
	}
	if err := json.Unmarshal(parts[1], &w.Performance); err != nil {
		return fmt.Errorf("windowPerformance values: %w", err)
	}
	return nil
}

// ClearinghouseState is the per-account position response.
type ClearinghouseState struct {
	AssetPositions []AssetPosition `json:"assetPositions"`
}

type AssetPosition struct {
	Type     string      `json:"type"`
	Position RawPosition `json:"position"`
}

type RawPosition struct {
	Coin           string    `json:"coin"`
	Szi            string    `json:"szi"`
	EntryPx        string    `json:"entryPx"`
	PositionValue  string    `json:"positionValue"`
	UnrealizedPnl  string    `json:"unrealizedPnl"`
	LiquidationPx  *string   `json:"liquidationPx"`
	Leverage       Leverage  `json:"leverage"`
	MaxLeverage    int       `json:"maxLeverage,omitempty"`
	ReturnOnEquity string    `json:"returnOnEquity,omitempty"`
	CumFunding     AnyObject `json:"cumFunding,omitempty"`
}

type Leverage struct {
	Type  string      `json:"type"`
	Value json.Number `json:"value"`
}

// AnyObject keeps unmodelled sub-objects opaque without failing the decode.
type AnyObject = json.RawMessage

// AccountPositions pairs an account with its raw open positions, the unit
// returned by the position fetcher.
type AccountPositions struct {
	AccountID string
	Positions []RawPosition
}
