package realtime

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, hub *Hub, spreadsheetID string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, spreadsheetID)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitForSubscriber blocks until the hub has registered a subscriber for
// the spreadsheet; registration races the dial returning.
func waitForSubscriber(t *testing.T, hub *Hub, spreadsheetID string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.Lock()
		n := len(hub.subs[spreadsheetID])
		hub.mu.Unlock()
		if n == 1 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubDeliversUpdateEvents(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	conn := dialHub(t, hub, "s1")
	waitForSubscriber(t, hub, "s1")

	hub.SpreadsheetUpdated("s1")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("reading event: %v", err)
	}
	if event.Type != "spreadsheet.updated" || event.SpreadsheetID != "s1" {
		t.Fatalf("event = %+v", event)
	}
	if event.At.IsZero() {
		t.Fatal("event timestamp missing")
	}
}

func TestHubScopesEventsToSpreadsheet(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	conn := dialHub(t, hub, "other")
	waitForSubscriber(t, hub, "other")

	hub.SpreadsheetUpdated("s1")

	conn.SetReadDeadline(time.Now().Add(250 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("subscriber received an event for a different spreadsheet")
	}
}
