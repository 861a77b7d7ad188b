package models

import (
	"encoding/json"
	"testing"
)

func TestMetaAndAssetCtxsUnmarshal(t *testing.T) {
	body := `[
		{"universe": [{"name": "BTC", "szDecimals": 5, "maxLeverage": 50}]},
		[{"markPx": "50000", "prevDayPx": "49000", "funding": "0.0000125"}]
	]`

	var m MetaAndAssetCtxs
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(m.Meta.Universe) != 1 || m.Meta.Universe[0].Name != "BTC" {
		t.Errorf("unexpected universe: %+v", m.Meta.Universe)
	}
	if len(m.AssetCtxs) != 1 || m.AssetCtxs[0].MarkPx != "50000" {
		t.Errorf("unexpected contexts: %+v", m.AssetCtxs)
	}
}

func TestMetaAndAssetCtxsRejectsShortTuple(t *testing.T) {
	var m MetaAndAssetCtxs
	if err := json.Unmarshal([]byte(`[{"universe": []}]`), &m); err == nil {
		t.Fatal("expected error for single-element tuple")
	}
}

func TestMetaAndAssetCtxsRejectsObject(t *testing.T) {
	var m MetaAndAssetCtxs
	if err := json.Unmarshal([]byte(`{"universe": []}`), &m); err == nil {
		t.Fatal("expected error for non-array payload")
	}
}

func TestWindowPerformanceUnmarshal(t *testing.T) {
	body := `["day", {"pnl": "12345.6", "roi": "0.21", "vlm": "999"}]`

	var w WindowPerformance
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if w.Window != "day" {
		t.Errorf("window = %q, want day", w.Window)
	}
	if w.Performance.Pnl != "12345.6" {
		t.Errorf("pnl = %q, want 12345.6", w.Performance.Pnl)
	}
}

func TestWindowPerformanceRejectsBadShapes(t *testing.T) {
	cases := []string{
		`["day"]`,
		`["day", {"pnl": "1"}, "extra"]`,
		`{"window": "day"}`,
	}
	for _, body := range cases {
		var w WindowPerformance
		if err := json.Unmarshal([]byte(body), &w); err == nil {
			t.Errorf("expected error for %s", body)
		}
	}
}

func TestRawPositionNullableLiquidation(t *testing.T) {
	body := `{"coin": "ETH", "szi": "-2.5", "entryPx": "3000",
		"positionValue": "7500", "unrealizedPnl": "-10",
		"liquidationPx": null, "leverage": {"type": "cross", "value": 20}}`

	var p RawPosition
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if p.LiquidationPx != nil {
		t.Errorf("liquidationPx = %v, want nil", *p.LiquidationPx)
	}
	if v, err := p.Leverage.Value.Int64(); err != nil || v != 20 {
		t.Errorf("leverage value = %v (%v), want 20", p.Leverage.Value, err)
	}
}
