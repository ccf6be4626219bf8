// Package store is the in-memory backing data for the tradesync server.
// It stands in for the real trading-platform integration: the shapes and
// lookup semantics are the contract, the data itself is fixture data.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pitrade/tradesync/pkg/cache"
	"github.com/pitrade/tradesync/pkg/types"
)

// ErrUserNotFound is returned for lookups against an unknown identity.
var ErrUserNotFound = errors.New("user not found")

const analyticsTTL = 10 * time.Second

// Store holds users, per-user stats and trades, and market news.
// All reads take the lock; the dataset is mutable only through seed
// helpers in tests, so contention is negligible.
type Store struct {
	mu     sync.RWMutex
	users  []types.User
	stats  map[string]types.TradingStats
	trades map[string][]types.Trade
	news   []types.NewsItem

	analytics *cache.TTLCache[string, types.TradingAnalytics]
}

// New returns a store seeded with the demo dataset.
func New() *Store {
	s := &Store{
		stats:     make(map[string]types.TradingStats),
		trades:    make(map[string][]types.Trade),
		analytics: cache.New[string, types.TradingAnalytics](analyticsTTL),
	}
	s.seed()
	return s
}

// Close releases background resources.
func (s *Store) Close() {
	s.analytics.Close()
}

// Users lists the account directory.
func (s *Store) Users() []types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.User(nil), s.users...)
}

// User looks up one directory entry.
func (s *Store) User(id string) (types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return types.User{}, ErrUserNotFound
}

// TradingStats returns the account snapshot for one user. The period is
// accepted for interface parity with a real platform API; the fixture
// data has a single window.
func (s *Store) TradingStats(userID, period string) (types.TradingStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.stats[userID]
	if !ok {
		return types.TradingStats{}, ErrUserNotFound
	}
	return stats, nil
}

// Trades returns up to limit most recent trades for one user, newest
// first. A limit of zero yields an empty slice.
func (s *Store) Trades(userID string, limit int) ([]types.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, err := s.userLocked(userID); err != nil {
		return nil, err
	}
	trades := s.trades[userID]
	if limit < 0 || limit > len(trades) {
		limit = len(trades)
	}
	return append([]types.Trade(nil), trades[:limit]...), nil
}

// News returns up to limit market news items, newest first.
func (s *Store) News(limit int) []types.NewsItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit < 0 || limit > len(s.news) {
		limit = len(s.news)
	}
	return append([]types.NewsItem(nil), s.news[:limit]...)
}

// UsersPerformance derives the aggregate-view row for every user.
func (s *Store) UsersPerformance(period string) []types.UserPerformance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now().UTC()
	out := make([]types.UserPerformance, 0, len(s.users))
	for _, u := range s.users {
		stats := s.stats[u.ID]
		out = append(out, types.UserPerformance{
			UserID:         u.ID,
			UserName:       u.Name,
			Email:          u.Email,
			PortfolioValue: stats.PortfolioValue,
			TotalPnL:       stats.TodaysPnL,
			TotalTrades:    stats.TotalTrades,
			WinRate:        stats.WinRate,
			LastActive:     now,
			AccountType:    u.AccountType,
		})
	}
	return out
}

// Analytics aggregates across all users with decimal arithmetic so the
// money sums stay exact. Results are cached per period for a few
// seconds; every admin dashboard poll would otherwise recompute them.
func (s *Store) Analytics(period string) types.TradingAnalytics {
	if cached, ok := s.analytics.Get(period); ok {
		return cached
	}

	s.mu.RLock()
	var (
		totalVolume = decimal.Zero
		totalPnL    = decimal.Zero
		winRateSum  = decimal.Zero
		totalTrades int
	)
	for _, u := range s.users {
		stats := s.stats[u.ID]
		totalVolume = totalVolume.Add(decimal.NewFromFloat(stats.PortfolioValue))
		totalPnL = totalPnL.Add(decimal.NewFromFloat(stats.TodaysPnL))
		winRateSum = winRateSum.Add(decimal.NewFromFloat(stats.WinRate))
		totalTrades += stats.TotalTrades
	}
	userCount := len(s.users)
	s.mu.RUnlock()

	result := types.TradingAnalytics{
		TotalTrades: totalTrades,
		ActiveUsers: userCount,
	}
	result.TotalVolume = totalVolume.InexactFloat64()
	result.TotalPnL = totalPnL.InexactFloat64()
	if userCount > 0 {
		result.AverageWinRate = winRateSum.
			Div(decimal.NewFromInt(int64(userCount))).
			Round(2).
			InexactFloat64()
	}

	s.analytics.Set(period, result, 0)
	return result
}

func (s *Store) userLocked(id string) (types.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return types.User{}, ErrUserNotFound
}
