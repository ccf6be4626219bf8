package push

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pitrade/tradesync/internal/store"
	"github.com/pitrade/tradesync/pkg/config"
	"github.com/pitrade/tradesync/pkg/types"
)

func newTestHub(t *testing.T, policy config.DuplicatePolicy, interval time.Duration) (*Hub, string) {
	t.Helper()
	st := store.New()
	t.Cleanup(st.Close)

	hub := NewHub(st, config.ServerConfig{
		BroadcastInterval: interval,
		DuplicatePolicy:   policy,
	})
	t.Cleanup(hub.CloseAll)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := strings.TrimPrefix(r.URL.Path, "/ws/")
		hub.Handle(w, r, identity)
	}))
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, base, identity string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(base+"/"+identity, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) types.PushEvent {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	ev, err := types.DecodePushEvent(frame)
	if err != nil {
		t.Fatalf("server emitted an invalid event: %v", err)
	}
	return ev
}

func waitCount(t *testing.T, hub *Hub, identity string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ChannelCount(identity) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("channel count for %q = %d, want %d", identity, hub.ChannelCount(identity), want)
}

func TestSchedulerEmitsDiscriminatedEvents(t *testing.T) {
	_, base := newTestHub(t, config.DuplicateFanout, 10*time.Millisecond)
	conn := dial(t, base, "1")

	for i := 0; i < 5; i++ {
		ev := readEvent(t, conn)
		switch ev.Type {
		case types.EventStatsUpdate:
			if ev.Stats.TodaysPnL == nil {
				t.Error("stats_update without todaysPnL")
			}
		case types.EventNewsUpdate:
			if ev.News.Category != "market" || ev.News.Impact != types.ImpactMedium {
				t.Errorf("unexpected synthesized news: %+v", ev.News)
			}
			if ev.News.Source != "PiTrade" {
				t.Errorf("news source = %q", ev.News.Source)
			}
		default:
			t.Errorf("scheduler emitted unexpected type %q", ev.Type)
		}
	}
}

func TestStatsUpdateDriftsFromLastKnownValue(t *testing.T) {
	_, base := newTestHub(t, config.DuplicateFanout, 5*time.Millisecond)
	conn := dial(t, base, "1")

	// Collect until we see a stats update; the drift is bounded by ±50
	// around the seeded 1245.30.
	for i := 0; i < 50; i++ {
		ev := readEvent(t, conn)
		if ev.Type != types.EventStatsUpdate {
			continue
		}
		pnl := *ev.Stats.TodaysPnL
		if pnl < 1245.30-50.01 || pnl > 1245.30+50.01 {
			t.Errorf("todaysPnL = %v, outside the drift window", pnl)
		}
		return
	}
	t.Fatal("no stats_update within 50 events")
}

func TestDisconnectStopsScheduling(t *testing.T) {
	hub, base := newTestHub(t, config.DuplicateFanout, 10*time.Millisecond)
	conn := dial(t, base, "1")
	waitCount(t, hub, "1", 1)

	conn.Close()
	waitCount(t, hub, "1", 0)
}

func TestFanoutPolicySchedulesBothChannels(t *testing.T) {
	hub, base := newTestHub(t, config.DuplicateFanout, time.Hour)
	a := dial(t, base, "1")
	b := dial(t, base, "1")
	waitCount(t, hub, "1", 2)

	hub.Broadcast("1", types.NewNotification(types.Notification{ID: "hello"}))

	for _, conn := range []*websocket.Conn{a, b} {
		ev := readEvent(t, conn)
		if ev.Type != types.EventNotification || ev.Notification.ID != "hello" {
			t.Errorf("fanout channel missed the broadcast: %+v", ev)
		}
	}
}

func TestSupersedePolicyClosesOlderChannel(t *testing.T) {
	hub, base := newTestHub(t, config.DuplicateSupersede, time.Hour)
	first := dial(t, base, "1")
	waitCount(t, hub, "1", 1)

	dial(t, base, "1")
	waitCount(t, hub, "1", 1)

	// The superseded connection gets closed by the server.
	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := first.ReadMessage(); err == nil {
		t.Error("superseded channel still readable")
	}
}

func TestChannelCloseIdempotentAndSendAfterCloseIsNoop(t *testing.T) {
	hub, base := newTestHub(t, config.DuplicateFanout, time.Hour)
	dial(t, base, "9")
	waitCount(t, hub, "9", 1)

	hub.mu.Lock()
	ch := hub.channels["9"][0]
	hub.mu.Unlock()

	ch.Close()
	ch.Close() // must not panic

	// Tick on a closed channel is a no-op.
	ch.Send(types.NewNotification(types.Notification{ID: "late"}))
	if ch.Open() {
		t.Error("channel reports open after Close")
	}
}
