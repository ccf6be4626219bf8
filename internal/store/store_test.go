package store

import (
	"errors"
	"math"
	"testing"
)

func TestTradingStatsKnownUser(t *testing.T) {
	s := New()
	defer s.Close()

	stats, err := s.TradingStats("1", "7d")
	if err != nil {
		t.Fatalf("TradingStats: %v", err)
	}
	if stats.PortfolioValue != 25430.50 || stats.TodaysPnL != 1245.30 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.TotalTrades != 156 || stats.WinRate != 73.4 || stats.Currency != "USD" {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestTradingStatsUnknownUser(t *testing.T) {
	s := New()
	defer s.Close()

	_, err := s.TradingStats("999", "7d")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestTradesLimit(t *testing.T) {
	s := New()
	defer s.Close()

	trades, err := s.Trades("1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 2 {
		t.Fatalf("len = %d, want 2", len(trades))
	}
	if trades[0].ID != "T001" {
		t.Errorf("trades[0] = %s, want newest first", trades[0].ID)
	}

	trades, err = s.Trades("1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 0 {
		t.Errorf("limit 0 returned %d trades, want none", len(trades))
	}

	trades, err = s.Trades("1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 1 {
		t.Errorf("limit 1 returned %d trades", len(trades))
	}
}

func TestTradesUnknownUser(t *testing.T) {
	s := New()
	defer s.Close()

	if _, err := s.Trades("ghost", 10); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestTradesUserWithoutHistory(t *testing.T) {
	s := New()
	defer s.Close()

	trades, err := s.Trades("2", 10)
	if err != nil {
		t.Fatalf("known user without trades must not error: %v", err)
	}
	if len(trades) != 0 {
		t.Errorf("len = %d, want 0", len(trades))
	}
}

func TestNewsLimit(t *testing.T) {
	s := New()
	defer s.Close()

	news := s.News(10)
	if len(news) != 2 {
		t.Fatalf("len = %d, want 2", len(news))
	}
	if news[0].ID != "N001" {
		t.Errorf("news[0] = %s", news[0].ID)
	}
	if len(s.News(1)) != 1 {
		t.Error("limit 1 not honored")
	}
}

func TestUsersPerformanceDerivation(t *testing.T) {
	s := New()
	defer s.Close()

	perf := s.UsersPerformance("7d")
	if len(perf) != 3 {
		t.Fatalf("len = %d, want 3", len(perf))
	}
	if perf[0].UserName != "John Smith" || perf[0].PortfolioValue != 25430.50 {
		t.Errorf("perf[0] = %+v", perf[0])
	}
	if perf[0].TotalPnL != 1245.30 {
		t.Errorf("TotalPnL = %v", perf[0].TotalPnL)
	}
	if perf[2].AccountType != "Expert" {
		t.Errorf("AccountType = %s", perf[2].AccountType)
	}
}

func TestAnalyticsAggregation(t *testing.T) {
	s := New()
	defer s.Close()

	a := s.Analytics("7d")
	if a.ActiveUsers != 3 {
		t.Errorf("ActiveUsers = %d", a.ActiveUsers)
	}
	if a.TotalTrades != 156+23+298 {
		t.Errorf("TotalTrades = %d", a.TotalTrades)
	}
	wantVolume := 25430.50 + 5250.00 + 89750.25
	if math.Abs(a.TotalVolume-wantVolume) > 1e-9 {
		t.Errorf("TotalVolume = %v, want %v", a.TotalVolume, wantVolume)
	}
	wantPnL := 1245.30 + 125.50 + 2890.75
	if math.Abs(a.TotalPnL-wantPnL) > 1e-9 {
		t.Errorf("TotalPnL = %v, want %v", a.TotalPnL, wantPnL)
	}
	// (73.4 + 65.2 + 82.1) / 3, rounded to two decimals.
	if a.AverageWinRate != 73.57 {
		t.Errorf("AverageWinRate = %v, want 73.57", a.AverageWinRate)
	}
}

func TestAnalyticsCached(t *testing.T) {
	s := New()
	defer s.Close()

	first := s.Analytics("7d")
	second := s.Analytics("7d")
	if first != second {
		t.Error("repeated call returned a different value")
	}
}
