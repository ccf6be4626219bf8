// Package types holds the wire-level entities shared by the tradesync
// server and the client SDK.
package types

import "time"

// TradingStats is the per-user account snapshot. A bulk fetch replaces it
// wholesale; live updates patch individual fields (see StatsPatch).
type TradingStats struct {
	PortfolioValue float64 `json:"portfolioValue"`
	TodaysPnL      float64 `json:"todaysPnL"`
	TotalTrades    int     `json:"totalTrades"`
	WinRate        float64 `json:"winRate"`
	Currency       string  `json:"currency"`
}

// TradeSide is the direction of a trade.
type TradeSide string

const (
	TradeBuy  TradeSide = "BUY"
	TradeSell TradeSide = "SELL"
)

// TradeStatus marks whether a position is still open.
type TradeStatus string

const (
	TradeOpen   TradeStatus = "open"
	TradeClosed TradeStatus = "closed"
)

// Trade is immutable once created.
type Trade struct {
	ID        string      `json:"id"`
	Pair      string      `json:"pair"`
	Type      TradeSide   `json:"type"`
	Size      string      `json:"size"`
	Profit    float64     `json:"profit"`
	Timestamp time.Time   `json:"timestamp"`
	Status    TradeStatus `json:"status"`
}

// NewsImpact grades how market-moving a news item is.
type NewsImpact string

const (
	ImpactHigh   NewsImpact = "high"
	ImpactMedium NewsImpact = "medium"
	ImpactLow    NewsImpact = "low"
)

// NewsItem is a market news headline.
type NewsItem struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary"`
	Timestamp time.Time  `json:"timestamp"`
	Category  string     `json:"category"`
	Impact    NewsImpact `json:"impact"`
	Source    string     `json:"source"`
}

// Notification is an out-of-band message pushed to a user.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// User is a directory entry for a managed account.
type User struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	AccountType       string `json:"accountType"`
	TradingPlatformID string `json:"tradingPlatformId"`
}

// UserPerformance is the aggregate-view row for one managed account.
// Fetched in bulk only; it has no live update variant.
type UserPerformance struct {
	UserID         string    `json:"userId"`
	UserName       string    `json:"userName"`
	Email          string    `json:"email"`
	PortfolioValue float64   `json:"portfolioValue"`
	TotalPnL       float64   `json:"totalPnL"`
	TotalTrades    int       `json:"totalTrades"`
	WinRate        float64   `json:"winRate"`
	LastActive     time.Time `json:"lastActive"`
	AccountType    string    `json:"accountType"`
}

// TradingAnalytics aggregates activity across all managed accounts.
type TradingAnalytics struct {
	TotalVolume    float64 `json:"totalVolume"`
	TotalPnL       float64 `json:"totalPnL"`
	TotalTrades    int     `json:"totalTrades"`
	AverageWinRate float64 `json:"averageWinRate"`
	ActiveUsers    int     `json:"activeUsers"`
}

// Envelope wraps every REST response. Non-2xx responses carry the same
// shape with Message or Error set to the human-readable cause.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
