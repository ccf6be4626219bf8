package push

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pitrade/tradesync/pkg/logger"
	"github.com/pitrade/tradesync/pkg/types"
)

// Subscription is one open push channel. It is owned by the consumer
// that created it: closing the subscription closes the channel, and the
// channel dropping (past the reconnect budget) closes the subscription.
type Subscription struct {
	url      string
	identity string
	config   *Config

	connMu sync.Mutex
	conn   *websocket.Conn

	events chan types.PushEvent

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	done      chan struct{}
}

// Identity returns the identity this subscription is keyed by.
func (s *Subscription) Identity() string { return s.identity }

// Events returns the ordered stream of push events. The channel is
// closed when the subscription ends, whether by Close or by exhausting
// the reconnect budget.
func (s *Subscription) Events() <-chan types.PushEvent { return s.events }

// Close tears the channel down. Idempotent: closing an already-closed
// subscription is a no-op.
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()

		s.connMu.Lock()
		if s.conn != nil {
			_ = s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			_ = s.conn.Close()
			s.conn = nil
		}
		s.connMu.Unlock()

		select {
		case <-s.done:
		case <-time.After(5 * time.Second):
			logger.Warnf("push[%s]: close timed out waiting for read loop", s.identity)
		}
	})
	return nil
}

// Done is closed when the read loop has exited.
func (s *Subscription) Done() <-chan struct{} { return s.done }

func (s *Subscription) connect() error {
	dialer := websocket.Dialer{HandshakeTimeout: s.config.HandshakeTimeout}
	conn, _, err := dialer.DialContext(s.ctx, s.url, nil)
	if err != nil {
		return err
	}

	s.connMu.Lock()
	if s.conn != nil {
		_ = s.conn.Close()
	}
	s.conn = conn
	s.connMu.Unlock()
	return nil
}

// readLoop receives frames until the subscription is closed or the
// reconnect budget runs out. Per-channel FIFO order is preserved: a
// single goroutine reads and delivers.
func (s *Subscription) readLoop() {
	defer close(s.done)
	defer close(s.events)

	for {
		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()
		if conn == nil {
			return
		}

		_, frame, err := conn.ReadMessage()
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			logger.Warnf("push[%s]: %v", s.identity, &ChannelError{Err: err})
			if !s.reconnect() {
				return
			}
			continue
		}

		ev, err := types.DecodePushEvent(frame)
		if err != nil {
			// Malformed frames are dropped; the stream keeps going.
			logger.Warnf("push[%s]: %v", s.identity, &ChannelError{Err: err})
			continue
		}

		select {
		case s.events <- ev:
		case <-s.ctx.Done():
			return
		}
	}
}

// reconnect re-dials with bounded exponential backoff. Reaching the
// same identity-scoped path is the resubscription step: the server
// derives the subscription from the URL alone.
func (s *Subscription) reconnect() bool {
	delay := s.config.ReconnectDelay
	for attempt := 1; attempt <= s.config.MaxReconnectAttempts; attempt++ {
		select {
		case <-s.ctx.Done():
			return false
		case <-time.After(delay):
		}

		if err := s.connect(); err == nil {
			logger.Infof("push[%s]: reconnected after %d attempt(s)", s.identity, attempt)
			return true
		} else {
			logger.Warnf("push[%s]: reconnect %d/%d failed: %v",
				s.identity, attempt, s.config.MaxReconnectAttempts, err)
		}

		delay *= 2
		if delay > s.config.MaxReconnectDelay {
			delay = s.config.MaxReconnectDelay
		}
	}
	logger.Errorf("push[%s]: giving up after %d reconnect attempts",
		s.identity, s.config.MaxReconnectAttempts)
	return false
}
