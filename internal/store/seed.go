package store

import (
	"time"

	"github.com/pitrade/tradesync/pkg/types"
)

// seed loads the demo dataset: three managed accounts, trades for the
// first one, and two market headlines.
func (s *Store) seed() {
	now := time.Now().UTC()

	s.users = []types.User{
		{ID: "1", Name: "John Smith", Email: "john.smith@example.com", AccountType: "Corporate", TradingPlatformID: "TP001"},
		{ID: "2", Name: "Sarah Johnson", Email: "sarah.johnson@example.com", AccountType: "Beginner", TradingPlatformID: "TP002"},
		{ID: "3", Name: "Michael Brown", Email: "michael.brown@example.com", AccountType: "Expert", TradingPlatformID: "TP003"},
	}

	s.stats = map[string]types.TradingStats{
		"1": {PortfolioValue: 25430.50, TodaysPnL: 1245.30, TotalTrades: 156, WinRate: 73.4, Currency: "USD"},
		"2": {PortfolioValue: 5250.00, TodaysPnL: 125.50, TotalTrades: 23, WinRate: 65.2, Currency: "USD"},
		"3": {PortfolioValue: 89750.25, TodaysPnL: 2890.75, TotalTrades: 298, WinRate: 82.1, Currency: "USD"},
	}

	s.trades = map[string][]types.Trade{
		"1": {
			{
				ID:        "T001",
				Pair:      "EUR/USD",
				Type:      types.TradeBuy,
				Size:      "10,000",
				Profit:    245.30,
				Timestamp: now.Add(-2 * time.Hour),
				Status:    types.TradeClosed,
			},
			{
				ID:        "T002",
				Pair:      "GBP/USD",
				Type:      types.TradeSell,
				Size:      "15,000",
				Profit:    189.50,
				Timestamp: now.Add(-4 * time.Hour),
				Status:    types.TradeClosed,
			},
		},
	}

	s.news = []types.NewsItem{
		{
			ID:        "N001",
			Title:     "Federal Reserve Announces Interest Rate Decision",
			Summary:   "The Fed maintains current rates amid economic uncertainty",
			Timestamp: now.Add(-30 * time.Minute),
			Category:  "economic",
			Impact:    types.ImpactHigh,
			Source:    "Reuters",
		},
		{
			ID:        "N002",
			Title:     "EUR/USD Reaches New Monthly High",
			Summary:   "European currency strengthens against dollar following ECB statements",
			Timestamp: now.Add(-time.Hour),
			Category:  "market",
			Impact:    types.ImpactMedium,
			Source:    "Bloomberg",
		},
	}
}
