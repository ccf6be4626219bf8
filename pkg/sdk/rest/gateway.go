package rest

import (
	"context"
	"strconv"

	"github.com/pitrade/tradesync/pkg/types"
)

// Resource defaults. Applied when the caller passes the zero value.
const (
	DefaultPeriod = "7d"
	DefaultLimit  = 10
)

func normalizePeriod(period string) string {
	if period == "" {
		return DefaultPeriod
	}
	return period
}

func normalizeLimit(limit int) int {
	// limit 0 is meaningful (an empty slice); only negatives fall back.
	if limit < 0 {
		return DefaultLimit
	}
	return limit
}

// GetTradingStats fetches the account snapshot for one user.
func (c *Client) GetTradingStats(ctx context.Context, userID, period string) (types.TradingStats, error) {
	var stats types.TradingStats
	err := c.send(ctx, "GET", "/trading/stats/"+userID,
		map[string]string{"period": normalizePeriod(period)}, nil, &stats)
	return stats, err
}

// GetTrades fetches the most recent trades for one user, newest first.
func (c *Client) GetTrades(ctx context.Context, userID string, limit int) ([]types.Trade, error) {
	var trades []types.Trade
	err := c.send(ctx, "GET", "/trading/trades/"+userID,
		map[string]string{"limit": strconv.Itoa(normalizeLimit(limit))}, nil, &trades)
	return trades, err
}

// GetMarketNews fetches market news headlines. This endpoint does not
// require authentication.
func (c *Client) GetMarketNews(ctx context.Context, limit int) ([]types.NewsItem, error) {
	var news []types.NewsItem
	err := c.send(ctx, "GET", "/news/market",
		map[string]string{"limit": strconv.Itoa(normalizeLimit(limit))}, nil, &news)
	return news, err
}

// GetAllUsersPerformance fetches the aggregate view of every managed
// account.
func (c *Client) GetAllUsersPerformance(ctx context.Context, period string) ([]types.UserPerformance, error) {
	var perf []types.UserPerformance
	err := c.send(ctx, "GET", "/admin/users/performance",
		map[string]string{"period": normalizePeriod(period)}, nil, &perf)
	return perf, err
}

// GetTradingAnalytics fetches platform-wide trading aggregates.
func (c *Client) GetTradingAnalytics(ctx context.Context, period string) (types.TradingAnalytics, error) {
	var analytics types.TradingAnalytics
	err := c.send(ctx, "GET", "/admin/analytics/trading",
		map[string]string{"period": normalizePeriod(period)}, nil, &analytics)
	return analytics, err
}

// GetUsers fetches the account directory.
func (c *Client) GetUsers(ctx context.Context) ([]types.User, error) {
	var users []types.User
	err := c.send(ctx, "GET", "/users", nil, nil, &users)
	return users, err
}

// GetUser fetches one directory entry.
func (c *Client) GetUser(ctx context.Context, userID string) (types.User, error) {
	var user types.User
	err := c.send(ctx, "GET", "/users/"+userID, nil, nil, &user)
	return user, err
}
