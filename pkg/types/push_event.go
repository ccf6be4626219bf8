package types

import (
	"encoding/json"
	"fmt"
)

// PushEventType discriminates the live update variants carried over a
// push channel.
type PushEventType string

const (
	EventStatsUpdate  PushEventType = "stats_update"
	EventTradeUpdate  PushEventType = "trade_update"
	EventNewsUpdate   PushEventType = "news_update"
	EventNotification PushEventType = "notification"
)

// StatsPatch is a partial TradingStats update. Only non-nil fields are
// applied; everything else keeps its prior value.
type StatsPatch struct {
	PortfolioValue *float64 `json:"portfolioValue,omitempty"`
	TodaysPnL      *float64 `json:"todaysPnL,omitempty"`
	TotalTrades    *int     `json:"totalTrades,omitempty"`
	WinRate        *float64 `json:"winRate,omitempty"`
	Currency       *string  `json:"currency,omitempty"`
}

// Apply merges the present fields of the patch into s.
func (p StatsPatch) Apply(s *TradingStats) {
	if p.PortfolioValue != nil {
		s.PortfolioValue = *p.PortfolioValue
	}
	if p.TodaysPnL != nil {
		s.TodaysPnL = *p.TodaysPnL
	}
	if p.TotalTrades != nil {
		s.TotalTrades = *p.TotalTrades
	}
	if p.WinRate != nil {
		s.WinRate = *p.WinRate
	}
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
}

// PushEvent is a closed tagged variant: exactly one payload field is set,
// and which one is determined by Type. Consumers switch on Type so adding
// a new variant is a compile-visible change at every merge site.
type PushEvent struct {
	Type         PushEventType `json:"type"`
	Stats        *StatsPatch   `json:"stats,omitempty"`
	Trade        *Trade        `json:"trade,omitempty"`
	News         *NewsItem     `json:"news,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
}

// Validate checks that the tag is known and the matching payload is present.
func (e PushEvent) Validate() error {
	switch e.Type {
	case EventStatsUpdate:
		if e.Stats == nil {
			return fmt.Errorf("push event %s: missing stats payload", e.Type)
		}
	case EventTradeUpdate:
		if e.Trade == nil {
			return fmt.Errorf("push event %s: missing trade payload", e.Type)
		}
	case EventNewsUpdate:
		if e.News == nil {
			return fmt.Errorf("push event %s: missing news payload", e.Type)
		}
	case EventNotification:
		if e.Notification == nil {
			return fmt.Errorf("push event %s: missing notification payload", e.Type)
		}
	default:
		return fmt.Errorf("unknown push event type %q", string(e.Type))
	}
	return nil
}

// DecodePushEvent parses and validates a raw push frame.
func DecodePushEvent(data []byte) (PushEvent, error) {
	var ev PushEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return PushEvent{}, fmt.Errorf("decode push event: %w", err)
	}
	if err := ev.Validate(); err != nil {
		return PushEvent{}, err
	}
	return ev, nil
}

// NewStatsUpdate builds a stats_update event.
func NewStatsUpdate(patch StatsPatch) PushEvent {
	return PushEvent{Type: EventStatsUpdate, Stats: &patch}
}

// NewTradeUpdate builds a trade_update event.
func NewTradeUpdate(trade Trade) PushEvent {
	return PushEvent{Type: EventTradeUpdate, Trade: &trade}
}

// NewNewsUpdate builds a news_update event.
func NewNewsUpdate(item NewsItem) PushEvent {
	return PushEvent{Type: EventNewsUpdate, News: &item}
}

// NewNotification builds a notification event.
func NewNotification(n Notification) PushEvent {
	return PushEvent{Type: EventNotification, Notification: &n}
}

// Float64 returns a pointer to v, for building StatsPatch literals.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v, for building StatsPatch literals.
func Int(v int) *int { return &v }

// String returns a pointer to v, for building StatsPatch literals.
func String(v string) *string { return &v }
