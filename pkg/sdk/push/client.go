// Package push is the client side of the tradesync live update channel.
//
// A Subscription is one long-lived WebSocket keyed by identity. The
// server never expects client-to-server traffic; the subscription reads
// discriminated push events and delivers them in arrival order. Lost
// connections are re-dialed with bounded exponential backoff.
package push

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pitrade/tradesync/pkg/types"
)

// ChannelError is a push transport failure or malformed push frame.
// Channel errors are best-effort territory: they are logged and the
// subscription degrades, they never surface to the consumer as fetch
// errors.
type ChannelError struct {
	Err error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("channel error: %v", e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }

// Config tunes the subscription lifecycle.
type Config struct {
	ReconnectDelay       time.Duration
	MaxReconnectDelay    time.Duration
	MaxReconnectAttempts int
	HandshakeTimeout     time.Duration
	EventBufferSize      int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		ReconnectDelay:       2 * time.Second,
		MaxReconnectDelay:    30 * time.Second,
		MaxReconnectAttempts: 10,
		HandshakeTimeout:     10 * time.Second,
		EventBufferSize:      64,
	}
}

// Client dials subscriptions against one push endpoint.
type Client struct {
	baseURL string
	config  *Config
}

// NewClient creates a push client for the endpoint at baseURL
// (e.g. "ws://localhost:3001/ws").
func NewClient(baseURL string, cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		config:  cfg,
	}
}

// Subscribe opens the channel for identity. The initial dial is
// synchronous so the caller learns immediately whether the endpoint is
// reachable; later drops are handled by the subscription itself.
func (c *Client) Subscribe(ctx context.Context, identity string) (*Subscription, error) {
	if identity == "" {
		return nil, fmt.Errorf("push: identity is required")
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		url:      c.baseURL + "/" + identity,
		identity: identity,
		config:   c.config,
		events:   make(chan types.PushEvent, c.config.EventBufferSize),
		ctx:      subCtx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	if err := sub.connect(); err != nil {
		cancel()
		return nil, fmt.Errorf("push: dial %s: %w", sub.url, err)
	}

	go sub.readLoop()
	return sub, nil
}
