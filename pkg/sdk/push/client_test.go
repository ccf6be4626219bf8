package push

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pitrade/tradesync/pkg/types"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// pushServer accepts websocket connections on /ws/{identity} and hands
// each one to accept.
func pushServer(t *testing.T, accept func(identity string, conn *websocket.Conn)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		parts := strings.Split(r.URL.Path, "/")
		accept(parts[len(parts)-1], conn)
	}))
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.ReconnectDelay = 10 * time.Millisecond
	cfg.MaxReconnectDelay = 50 * time.Millisecond
	cfg.MaxReconnectAttempts = 3
	return NewClient("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", cfg)
}

func waitEvent(t *testing.T, sub *Subscription) types.PushEvent {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		if !ok {
			t.Fatal("events channel closed unexpectedly")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for push event")
	}
	return types.PushEvent{}
}

func TestSubscribeExtractsIdentityFromPath(t *testing.T) {
	var mu sync.Mutex
	var gotIdentity string
	client := pushServer(t, func(identity string, conn *websocket.Conn) {
		mu.Lock()
		gotIdentity = identity
		mu.Unlock()
		conn.WriteJSON(types.NewStatsUpdate(types.StatsPatch{TodaysPnL: types.Float64(1)}))
	})

	sub, err := client.Subscribe(context.Background(), "42")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Close()

	waitEvent(t, sub)
	mu.Lock()
	defer mu.Unlock()
	if gotIdentity != "42" {
		t.Errorf("server saw identity %q, want 42", gotIdentity)
	}
}

func TestEventsArriveInEmissionOrder(t *testing.T) {
	client := pushServer(t, func(identity string, conn *websocket.Conn) {
		for i := 0; i < 5; i++ {
			conn.WriteJSON(types.NewStatsUpdate(types.StatsPatch{TodaysPnL: types.Float64(float64(i))}))
		}
	})

	sub, err := client.Subscribe(context.Background(), "1")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Close()

	for i := 0; i < 5; i++ {
		ev := waitEvent(t, sub)
		if *ev.Stats.TodaysPnL != float64(i) {
			t.Fatalf("event %d carried %v, order not preserved", i, *ev.Stats.TodaysPnL)
		}
	}
}

func TestMalformedFramesAreDropped(t *testing.T) {
	client := pushServer(t, func(identity string, conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"mystery"}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`not even json`))
		conn.WriteJSON(types.NewNewsUpdate(types.NewsItem{ID: "N1"}))
	})

	sub, err := client.Subscribe(context.Background(), "1")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Close()

	ev := waitEvent(t, sub)
	if ev.Type != types.EventNewsUpdate || ev.News.ID != "N1" {
		t.Errorf("expected the valid frame to survive, got %+v", ev)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	client := pushServer(t, func(identity string, conn *websocket.Conn) {})

	sub, err := client.Subscribe(context.Background(), "1")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := sub.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := sub.Close(); err != nil {
		t.Fatalf("second Close must be a no-op: %v", err)
	}

	select {
	case _, ok := <-sub.Events():
		if ok {
			t.Error("expected no events after close")
		}
	case <-time.After(time.Second):
		t.Error("events channel not closed after Close")
	}
}

func TestReconnectResumesSameIdentity(t *testing.T) {
	var mu sync.Mutex
	dials := 0
	client := pushServer(t, func(identity string, conn *websocket.Conn) {
		mu.Lock()
		dials++
		n := dials
		mu.Unlock()
		if n == 1 {
			conn.Close() // simulate a dropped connection
			return
		}
		conn.WriteJSON(types.NewNotification(types.Notification{ID: "after-reconnect"}))
	})

	sub, err := client.Subscribe(context.Background(), "7")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Close()

	ev := waitEvent(t, sub)
	if ev.Type != types.EventNotification || ev.Notification.ID != "after-reconnect" {
		t.Errorf("expected event from reconnected channel, got %+v", ev)
	}

	mu.Lock()
	defer mu.Unlock()
	if dials < 2 {
		t.Errorf("expected a re-dial, server saw %d dial(s)", dials)
	}
}

func TestExhaustedReconnectsCloseTheStream(t *testing.T) {
	var mu sync.Mutex
	first := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		f := first
		first = false
		mu.Unlock()
		if !f {
			http.Error(w, "gone", http.StatusGone) // refuse re-dials
			return
		}
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.ReconnectDelay = 5 * time.Millisecond
	cfg.MaxReconnectAttempts = 2
	client := NewClient("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", cfg)

	sub, err := client.Subscribe(context.Background(), "1")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Close()

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not terminate after reconnect budget")
	}
}
