// Package push implements the server side of the live update channel:
// one WebSocket per subscribing identity, fed by a per-channel broadcast
// scheduler.
package push

import (
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/pitrade/tradesync/pkg/logger"
	"github.com/pitrade/tradesync/pkg/types"
)

// Channel states. A channel is created open (the HTTP upgrade already
// succeeded) and transitions to closed exactly once.
const (
	stateOpen int32 = iota
	stateClosed
)

// Channel is one open push connection. The channel owns its scheduler
// ticker: closing the channel is the single way the ticker stops.
type Channel struct {
	identity string
	conn     *websocket.Conn
	log      *logrus.Entry

	state   atomic.Int32
	writeMu sync.Mutex

	closeOnce sync.Once
	done      chan struct{}
}

func newChannel(identity string, conn *websocket.Conn) *Channel {
	c := &Channel{
		identity: identity,
		conn:     conn,
		log:      logger.WithField("channel", identity),
		done:     make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Identity returns the identity this channel serves.
func (c *Channel) Identity() string { return c.identity }

// Open reports whether the channel still accepts sends.
func (c *Channel) Open() bool { return c.state.Load() == stateOpen }

// Done is closed when the channel transitions to closed.
func (c *Channel) Done() <-chan struct{} { return c.done }

// Send serializes one event onto the wire. Sending on a closed channel
// is a no-op; a failed write closes the channel.
func (c *Channel) Send(ev types.PushEvent) {
	if !c.Open() {
		return
	}
	c.writeMu.Lock()
	err := c.conn.WriteJSON(ev)
	c.writeMu.Unlock()
	if err != nil {
		c.log.Warnf("write failed, closing channel: %v", err)
		c.Close()
	}
}

// Close transitions to closed, at most once.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		c.state.Store(stateClosed)
		close(c.done)
		_ = c.conn.Close()
		c.log.Debugf("channel closed")
	})
}

// readLoop exists to detect the peer going away. The channel is
// push-only: any readable payload is discarded.
func (c *Channel) readLoop() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.Close()
			return
		}
	}
}
