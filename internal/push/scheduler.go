package push

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pitrade/tradesync/internal/store"
	"github.com/pitrade/tradesync/pkg/types"
)

// Scheduler generates synthetic live updates for open channels. It
// stands in for a real market data / trade execution feed; the contract
// consumers rely on is only that discriminated events arrive in
// emission order on an open channel.
type Scheduler struct {
	store    *store.Store
	interval time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewScheduler creates a scheduler emitting one event per interval on
// each channel it runs.
func NewScheduler(st *store.Store, interval time.Duration) *Scheduler {
	return &Scheduler{
		store:    st,
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run ticks until the channel closes. The ticker's lifetime is tied 1:1
// to the channel: it starts here and stops exactly once, when Done fires.
func (s *Scheduler) Run(ch *Channel) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ch.Done():
			return
		case <-ticker.C:
			ch.Send(s.synthesize(ch.Identity()))
		}
	}
}

// synthesize fabricates the next event: an even split between a PnL
// drift and a market headline.
func (s *Scheduler) synthesize(identity string) types.PushEvent {
	s.mu.Lock()
	statsUpdate := s.rng.Float64() > 0.5
	drift := (s.rng.Float64() - 0.5) * 100
	s.mu.Unlock()

	if statsUpdate {
		last := decimal.Zero
		if stats, err := s.store.TradingStats(identity, ""); err == nil {
			last = decimal.NewFromFloat(stats.TodaysPnL)
		}
		pnl := last.Add(decimal.NewFromFloat(drift)).Round(2).InexactFloat64()
		return types.NewStatsUpdate(types.StatsPatch{TodaysPnL: types.Float64(pnl)})
	}

	return types.NewNewsUpdate(types.NewsItem{
		ID:        "N" + uuid.NewString(),
		Title:     "Market Update",
		Summary:   "Real-time market movement detected",
		Timestamp: time.Now().UTC(),
		Category:  "market",
		Impact:    types.ImpactMedium,
		Source:    "PiTrade",
	})
}
