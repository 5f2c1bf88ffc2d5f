package hub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	h := New("test")
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Serve(conn, NewJSONMessage([]byte(`{"hello":true}`)))
	}))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return h, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func read(t *testing.T, conn *websocket.Conn) (int, string) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	typ, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	return typ, string(data)
}

func TestHub_GreetingThenBroadcast(t *testing.T) {
	h, srv := startHub(t)
	conn := dial(t, srv)

	if typ, got := read(t, conn); typ != websocket.TextMessage || got != `{"hello":true}` {
		t.Fatalf("greeting = (%d, %q), want text hello", typ, got)
	}
	waitFor(t, "client registration", func() bool { return h.ClientCount() == 1 })

	if err := h.BroadcastJSON(map[string]int{"track": 3}); err != nil {
		t.Fatalf("BroadcastJSON() error = %v", err)
	}
	if typ, got := read(t, conn); typ != websocket.TextMessage || got != `{"track":3}` {
		t.Errorf("broadcast = (%d, %q), want text {\"track\":3}", typ, got)
	}

	h.BroadcastBinary([]byte{0xff, 0xd8})
	if typ, got := read(t, conn); typ != websocket.BinaryMessage || got != "\xff\xd8" {
		t.Errorf("binary broadcast = (%d, %q)", typ, got)
	}
}

func TestHub_FansOutToAllClients(t *testing.T) {
	h, srv := startHub(t)
	a := dial(t, srv)
	b := dial(t, srv)
	read(t, a)
	read(t, b)
	waitFor(t, "two clients", func() bool { return h.ClientCount() == 2 })

	h.Broadcast(NewJSONMessage([]byte(`"x"`)))
	for _, c := range []*websocket.Conn{a, b} {
		if _, got := read(t, c); got != `"x"` {
			t.Errorf("client got %q, want \"x\"", got)
		}
	}
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	h, srv := startHub(t)
	conn := dial(t, srv)
	read(t, conn)
	waitFor(t, "client registration", func() bool { return h.ClientCount() == 1 })

	_ = conn.Close()
	waitFor(t, "client removal", func() bool { return h.ClientCount() == 0 })
}

func TestHub_StopClosesClients(t *testing.T) {
	h := New("stop")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	waitFor(t, "hub start", h.Running)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if h.Running() {
		t.Error("Running() = true after Run returned")
	}
}

func TestHub_BroadcastDropsWhenQueueFull(t *testing.T) {
	h := New("full")
	for i := 0; i < cap(h.broadcast); i++ {
		if !h.Broadcast(NewJSONMessage(nil)) {
			t.Fatalf("Broadcast(%d) dropped before the queue was full", i)
		}
	}
	if h.Broadcast(NewJSONMessage(nil)) {
		t.Error("Broadcast() on a full queue = true, want false")
	}
	if h.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", h.Dropped())
	}
}
