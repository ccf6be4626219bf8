package sync

import (
	"context"
	"sync"

	"github.com/pitrade/tradesync/pkg/sdk/rest"
	"github.com/pitrade/tradesync/pkg/types"
)

// AdminState is a snapshot of the aggregate operator view.
type AdminState struct {
	Performance []types.UserPerformance
	Analytics   *types.TradingAnalytics
	Loading     bool
	Err         string
}

// AdminStore synchronizes the aggregate view for one period. It is bulk
// fetch only: per-user performance has no live update variant.
type AdminStore struct {
	api *rest.Client

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	period     string
	generation int
	state      AdminState
	closed     bool
}

// NewAdmin constructs the store and starts the initial bulk fetch.
func NewAdmin(api *rest.Client, period string) *AdminStore {
	ctx, cancel := context.WithCancel(context.Background())
	s := &AdminStore{
		api:    api,
		ctx:    ctx,
		cancel: cancel,
		period: period,
		state:  AdminState{Loading: true},
	}
	s.wg.Add(1)
	go s.fetch(s.generation, period)
	return s
}

// Snapshot returns a copy of the current state.
func (s *AdminStore) Snapshot() AdminState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.state
	if s.state.Analytics != nil {
		a := *s.state.Analytics
		out.Analytics = &a
	}
	out.Performance = append([]types.UserPerformance(nil), s.state.Performance...)
	return out
}

// SetPeriod switches the aggregation window, discarding any in-flight
// fetch for the old one.
func (s *AdminStore) SetPeriod(period string) {
	s.mu.Lock()
	if s.closed || period == s.period {
		s.mu.Unlock()
		return
	}
	s.period = period
	s.generation++
	gen := s.generation
	s.state.Loading = true
	s.state.Err = ""
	s.mu.Unlock()

	s.wg.Add(1)
	go s.fetch(gen, period)
}

// Refetch re-runs the bulk fetch with the current period.
func (s *AdminStore) Refetch() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.generation++
	gen := s.generation
	period := s.period
	s.state.Loading = true
	s.state.Err = ""
	s.mu.Unlock()

	s.wg.Add(1)
	go s.fetch(gen, period)
}

// Close ends the store's lifetime. Closing twice is a no-op.
func (s *AdminStore) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func (s *AdminStore) fetch(gen int, period string) {
	defer s.wg.Done()

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	var (
		perf      []types.UserPerformance
		analytics types.TradingAnalytics
	)
	errc := make(chan error, 2)
	go func() {
		var err error
		perf, err = s.api.GetAllUsersPerformance(ctx, period)
		errc <- err
	}()
	go func() {
		var err error
		analytics, err = s.api.GetTradingAnalytics(ctx, period)
		errc <- err
	}()

	var firstErr error
	for i := 0; i < 2; i++ {
		if err := <-errc; err != nil && firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.generation {
		return
	}
	if firstErr != nil {
		s.state.Loading = false
		s.state.Err = rest.UserMessage(firstErr)
		return
	}
	s.state.Performance = perf
	s.state.Analytics = &analytics
	s.state.Loading = false
	s.state.Err = ""
}
