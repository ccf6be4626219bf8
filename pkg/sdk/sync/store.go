// Package sync keeps a consumer's view of trading data fresh: one bulk
// fetch on construction, then live partial updates merged in from a push
// subscription until the store is closed.
package sync

import (
	"context"
	"sync"

	"github.com/pitrade/tradesync/pkg/logger"
	"github.com/pitrade/tradesync/pkg/sdk/push"
	"github.com/pitrade/tradesync/pkg/sdk/rest"
	"github.com/pitrade/tradesync/pkg/types"
)

// maxItems bounds the trade, news and notification sequences. Insertion
// is prepend, eviction trims from the tail.
const maxItems = 10

// State is a point-in-time snapshot of the store.
type State struct {
	Stats         *types.TradingStats
	Trades        []types.Trade
	News          []types.NewsItem
	Notifications []types.Notification
	Loading       bool
	Err           string // human-readable bulk fetch failure, empty when healthy
}

// Store synchronizes the trading view for one (identity, period) pair.
type Store struct {
	api  *rest.Client
	push *push.Client

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	identity   string
	period     string
	generation int // bumped on every parameter change / refetch
	state      State
	sub        *push.Subscription
	closed     bool
}

// New constructs the store and immediately starts the initial bulk
// fetch. The push subscription opens once that fetch succeeds.
func New(api *rest.Client, pushClient *push.Client, identity, period string) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		api:      api,
		push:     pushClient,
		ctx:      ctx,
		cancel:   cancel,
		identity: identity,
		period:   period,
		state:    State{Loading: true},
	}
	s.wg.Add(1)
	go s.fetch(s.generation, identity, period)
	return s
}

// Snapshot returns a copy of the current state. Slices are copied so the
// caller can iterate without racing the merge loop.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.state
	if s.state.Stats != nil {
		stats := *s.state.Stats
		out.Stats = &stats
	}
	out.Trades = append([]types.Trade(nil), s.state.Trades...)
	out.News = append([]types.NewsItem(nil), s.state.News...)
	out.Notifications = append([]types.Notification(nil), s.state.Notifications...)
	return out
}

// SetParams switches the store to a new identity/period pair. The change
// invalidates any fetch still in flight (last-write-wins: its result is
// discarded) and, when the identity changed, moves the push subscription.
func (s *Store) SetParams(identity, period string) {
	s.mu.Lock()
	if s.closed || (identity == s.identity && period == s.period) {
		s.mu.Unlock()
		return
	}
	identityChanged := identity != s.identity
	s.identity = identity
	s.period = period
	s.generation++
	gen := s.generation
	s.state.Loading = true
	s.state.Err = ""

	var oldSub *push.Subscription
	if identityChanged {
		oldSub = s.sub
		s.sub = nil
	}
	s.mu.Unlock()

	if oldSub != nil {
		_ = oldSub.Close()
	}

	s.wg.Add(1)
	go s.fetch(gen, identity, period)
}

// Refetch re-runs the bulk fetch with the current parameters. This is
// the retry affordance behind the consumer's error state.
func (s *Store) Refetch() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.generation++
	gen := s.generation
	identity, period := s.identity, s.period
	s.state.Loading = true
	s.state.Err = ""
	s.mu.Unlock()

	s.wg.Add(1)
	go s.fetch(gen, identity, period)
}

// Close ends the store's lifetime: in-flight fetches stop affecting
// visible state first, then the push channel closes. Merges racing the
// teardown are silently dropped. Closing twice is a no-op.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()

	s.cancel()
	if sub != nil {
		_ = sub.Close()
	}
	s.wg.Wait()
}

// fetch fans out the bulk calls, waits for all of them, and applies the
// batch atomically. The first failure cancels the rest and becomes the
// consumer-visible error.
func (s *Store) fetch(gen int, identity, period string) {
	defer s.wg.Done()

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	var (
		stats  types.TradingStats
		trades []types.Trade
		news   []types.NewsItem
	)
	errc := make(chan error, 3)
	go func() {
		var err error
		stats, err = s.api.GetTradingStats(ctx, identity, period)
		errc <- err
	}()
	go func() {
		var err error
		trades, err = s.api.GetTrades(ctx, identity, maxItems)
		errc <- err
	}()
	go func() {
		var err error
		news, err = s.api.GetMarketNews(ctx, maxItems)
		errc <- err
	}()

	var firstErr error
	for i := 0; i < 3; i++ {
		if err := <-errc; err != nil && firstErr == nil {
			firstErr = err
			cancel() // short-circuit the remaining calls
		}
	}

	s.mu.Lock()
	if s.closed || gen != s.generation {
		// Parameters moved on (or the store closed) while this batch
		// was in flight; its result must not become visible.
		s.mu.Unlock()
		return
	}
	if firstErr != nil {
		s.state.Loading = false
		s.state.Err = rest.UserMessage(firstErr)
		s.mu.Unlock()
		return
	}
	s.state.Stats = &stats
	s.state.Trades = capTrades(trades)
	s.state.News = capNews(news)
	s.state.Loading = false
	s.state.Err = ""
	needSub := s.sub == nil
	s.mu.Unlock()

	if needSub {
		s.subscribe(gen, identity)
	}
}

// subscribe opens the push channel and starts the merge loop. Push is an
// enhancement: failures here are logged and the store stays on bulk
// data only.
func (s *Store) subscribe(gen int, identity string) {
	sub, err := s.push.Subscribe(s.ctx, identity)
	if err != nil {
		logger.Warnf("sync[%s]: subscribe failed, live updates disabled: %v", identity, err)
		return
	}

	s.mu.Lock()
	if s.closed || gen != s.generation || s.sub != nil {
		s.mu.Unlock()
		_ = sub.Close()
		return
	}
	s.sub = sub
	s.mu.Unlock()

	s.wg.Add(1)
	go s.mergeLoop(sub)
}

func (s *Store) mergeLoop(sub *push.Subscription) {
	defer s.wg.Done()
	for ev := range sub.Events() {
		s.merge(sub, ev)
	}
}

// merge applies one push event. The switch over the closed variant set
// is exhaustive; Validate has already rejected unknown tags upstream.
func (s *Store) merge(sub *push.Subscription, ev types.PushEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// An event racing teardown or an identity switch is dropped.
	if s.closed || s.sub != sub {
		return
	}

	switch ev.Type {
	case types.EventStatsUpdate:
		if s.state.Stats == nil {
			s.state.Stats = &types.TradingStats{}
		}
		ev.Stats.Apply(s.state.Stats)
	case types.EventTradeUpdate:
		s.state.Trades = capTrades(append([]types.Trade{*ev.Trade}, s.state.Trades...))
	case types.EventNewsUpdate:
		s.state.News = capNews(append([]types.NewsItem{*ev.News}, s.state.News...))
	case types.EventNotification:
		s.state.Notifications = capNotifications(append([]types.Notification{*ev.Notification}, s.state.Notifications...))
	}
}

func capTrades(v []types.Trade) []types.Trade {
	if len(v) > maxItems {
		return v[:maxItems]
	}
	return v
}

func capNews(v []types.NewsItem) []types.NewsItem {
	if len(v) > maxItems {
		return v[:maxItems]
	}
	return v
}

func capNotifications(v []types.Notification) []types.Notification {
	if len(v) > maxItems {
		return v[:maxItems]
	}
	return v
}
