package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/polyfolio/pnl-data/internal/model"
)

func dialTestHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastDeliversUpdate(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run()

	conn := dialTestHub(t, hub)

	result := &model.ReconciliationResult{
		Address:     "0xabc",
		TotalPnl:    decimal.NewFromFloat(8.25),
		GeneratedAt: time.Now().UTC(),
	}

	// Broadcast until the subscriber is registered and a message lands.
	go func() {
		for i := 0; i < 100; i++ {
			hub.BroadcastResult(result)
			time.Sleep(5 * time.Millisecond)
		}
	}()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var update UpdateMessage
	if err := json.Unmarshal(msg, &update); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if update.Type != "pnl_update" || update.Address != "0xabc" {
		t.Errorf("update = %s/%s, want pnl_update/0xabc", update.Type, update.Address)
	}
	if update.TotalPnl != "8.25" {
		t.Errorf("totalPnl = %q, want 8.25", update.TotalPnl)
	}
}

// Broadcast writes and keepalive pings must share the connection's
// single writer goroutine; interleaving them from two goroutines
// panics inside gorilla/websocket.
func TestHubBroadcastConcurrentWithPings(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	hub.pingPeriod = 2 * time.Millisecond
	go hub.Run()

	conn := dialTestHub(t, hub)

	result := &model.ReconciliationResult{
		Address:     "0xdef",
		GeneratedAt: time.Now().UTC(),
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 300; i++ {
			hub.BroadcastResult(result)
			time.Sleep(time.Millisecond)
		}
	}()

	// Reading also services the ping frames, keeping the server's
	// write path fully exercised on both message types.
	received := 0
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	for received < 100 {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read after %d messages: %v", received, err)
		}
		var update UpdateMessage
		if err := json.Unmarshal(msg, &update); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if update.Address != "0xdef" {
			t.Errorf("address = %q, want 0xdef", update.Address)
		}
		received++
	}
	<-done
}
