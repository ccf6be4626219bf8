package types

import (
	"encoding/json"
	"testing"
)

func TestStatsPatchApplyPresentFieldsOnly(t *testing.T) {
	stats := TradingStats{
		PortfolioValue: 25430.50,
		TodaysPnL:      1245.30,
		TotalTrades:    156,
		WinRate:        73.4,
		Currency:       "USD",
	}

	patch := StatsPatch{TodaysPnL: Float64(1300.00)}
	patch.Apply(&stats)

	if stats.TodaysPnL != 1300.00 {
		t.Errorf("TodaysPnL = %v, want 1300.00", stats.TodaysPnL)
	}
	if stats.PortfolioValue != 25430.50 {
		t.Errorf("PortfolioValue changed to %v, should keep prior value", stats.PortfolioValue)
	}
	if stats.TotalTrades != 156 || stats.WinRate != 73.4 || stats.Currency != "USD" {
		t.Errorf("absent fields were modified: %+v", stats)
	}
}

func TestStatsPatchApplyOrderIsLastWriteWins(t *testing.T) {
	var stats TradingStats
	patches := []StatsPatch{
		{TodaysPnL: Float64(10), WinRate: Float64(50)},
		{TodaysPnL: Float64(20)},
		{PortfolioValue: Float64(1000)},
	}
	for _, p := range patches {
		p.Apply(&stats)
	}

	if stats.TodaysPnL != 20 {
		t.Errorf("TodaysPnL = %v, want last written value 20", stats.TodaysPnL)
	}
	if stats.WinRate != 50 {
		t.Errorf("WinRate = %v, want 50", stats.WinRate)
	}
	if stats.PortfolioValue != 1000 {
		t.Errorf("PortfolioValue = %v, want 1000", stats.PortfolioValue)
	}
}

func TestDecodePushEvent(t *testing.T) {
	raw := []byte(`{"type":"stats_update","stats":{"todaysPnL":1300}}`)
	ev, err := DecodePushEvent(raw)
	if err != nil {
		t.Fatalf("DecodePushEvent: %v", err)
	}
	if ev.Type != EventStatsUpdate {
		t.Errorf("Type = %q, want stats_update", ev.Type)
	}
	if ev.Stats == nil || ev.Stats.TodaysPnL == nil || *ev.Stats.TodaysPnL != 1300 {
		t.Errorf("stats payload not decoded: %+v", ev.Stats)
	}
}

func TestDecodePushEventRejectsUnknownTag(t *testing.T) {
	if _, err := DecodePushEvent([]byte(`{"type":"price_update"}`)); err == nil {
		t.Fatal("expected error for unknown event type")
	}
}

func TestDecodePushEventRejectsMissingPayload(t *testing.T) {
	cases := []string{
		`{"type":"stats_update"}`,
		`{"type":"trade_update"}`,
		`{"type":"news_update"}`,
		`{"type":"notification"}`,
	}
	for _, c := range cases {
		if _, err := DecodePushEvent([]byte(c)); err == nil {
			t.Errorf("expected error for %s", c)
		}
	}
}

func TestDecodePushEventRejectsMalformedJSON(t *testing.T) {
	if _, err := DecodePushEvent([]byte(`{"type":`)); err == nil {
		t.Fatal("expected error for malformed frame")
	}
}

func TestPushEventRoundTrip(t *testing.T) {
	ev := NewNewsUpdate(NewsItem{
		ID:       "N100",
		Title:    "Market Update",
		Category: "market",
		Impact:   ImpactMedium,
		Source:   "PiTrade",
	})
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodePushEvent(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.News.ID != "N100" || got.News.Impact != ImpactMedium {
		t.Errorf("round trip mismatch: %+v", got.News)
	}
}
