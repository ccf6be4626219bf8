package push

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/pitrade/tradesync/internal/store"
	"github.com/pitrade/tradesync/pkg/config"
	"github.com/pitrade/tradesync/pkg/logger"
	"github.com/pitrade/tradesync/pkg/types"
)

// Hub upgrades incoming subscriptions and tracks open channels per
// identity. What happens when a second channel arrives for an identity
// that already has one is a deployment decision, not something the hub
// guesses: DuplicateFanout schedules both, DuplicateSupersede closes
// the older one.
type Hub struct {
	sched  *Scheduler
	policy config.DuplicatePolicy

	upgrader websocket.Upgrader

	mu       sync.Mutex
	channels map[string][]*Channel
}

// NewHub wires a hub over the data store.
func NewHub(st *store.Store, cfg config.ServerConfig) *Hub {
	return &Hub{
		sched:  NewScheduler(st, cfg.BroadcastInterval),
		policy: cfg.DuplicatePolicy,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		channels: make(map[string][]*Channel),
	}
}

// Handle upgrades the request into a push channel for identity and
// blocks until that channel closes.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request, identity string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("push upgrade failed for %q: %v", identity, err)
		return
	}

	ch := newChannel(identity, conn)
	h.register(ch)
	logger.Infof("push channel open for %q", identity)

	go func() {
		<-ch.Done()
		h.deregister(ch)
		logger.Infof("push channel closed for %q", identity)
	}()

	h.sched.Run(ch)
}

// Broadcast delivers an event to every open channel of identity.
func (h *Hub) Broadcast(identity string, ev types.PushEvent) {
	h.mu.Lock()
	chans := append([]*Channel(nil), h.channels[identity]...)
	h.mu.Unlock()
	for _, ch := range chans {
		ch.Send(ev)
	}
}

// ChannelCount returns the number of open channels for identity.
func (h *Hub) ChannelCount(identity string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.channels[identity])
}

// CloseAll closes every channel.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	var all []*Channel
	for _, chans := range h.channels {
		all = append(all, chans...)
	}
	h.mu.Unlock()
	for _, ch := range all {
		ch.Close()
	}
}

func (h *Hub) register(ch *Channel) {
	var toClose []*Channel
	h.mu.Lock()
	if h.policy == config.DuplicateSupersede {
		toClose = h.channels[ch.identity]
		h.channels[ch.identity] = []*Channel{ch}
	} else {
		h.channels[ch.identity] = append(h.channels[ch.identity], ch)
	}
	h.mu.Unlock()

	for _, old := range toClose {
		old.Close()
	}
}

func (h *Hub) deregister(ch *Channel) {
	h.mu.Lock()
	defer h.mu.Unlock()
	chans := h.channels[ch.identity]
	for i, c := range chans {
		if c == ch {
			h.channels[ch.identity] = append(chans[:i:i], chans[i+1:]...)
			break
		}
	}
	if len(h.channels[ch.identity]) == 0 {
		delete(h.channels, ch.identity)
	}
}
