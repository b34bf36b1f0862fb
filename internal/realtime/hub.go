// Package realtime pushes spreadsheet change events to connected editors
// over websockets. Clients subscribe to one spreadsheet per connection;
// saves fan out a small notification and clients refetch the document.
package realtime

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 50 * time.Second
	sendBufferSize = 8
)

// Event is the wire payload sent to subscribers.
type Event struct {
	Type          string    `json:"type"`
	SpreadsheetID string    `json:"spreadsheetId"`
	At            time.Time `json:"at"`
}

type subscriber struct {
	conn *websocket.Conn
	send chan Event
}

type Hub struct {
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu   sync.Mutex
	subs map[string]map[*subscriber]bool
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Token auth already ran; origin checks stay with the edge.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subs: make(map[string]map[*subscriber]bool),
	}
}

// SpreadsheetUpdated notifies every subscriber of the spreadsheet. Slow
// subscribers whose buffer is full are dropped rather than blocking the
// save path.
func (h *Hub) SpreadsheetUpdated(spreadsheetID string) {
	event := Event{
		Type:          "spreadsheet.updated",
		SpreadsheetID: spreadsheetID,
		At:            time.Now(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[spreadsheetID] {
		select {
		case sub.send <- event:
		default:
			h.removeLocked(spreadsheetID, sub)
			sub.conn.Close()
		}
	}
}

// ServeWS upgrades the request and subscribes it to a spreadsheet's
// events until the client disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, spreadsheetID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	sub := &subscriber{
		conn: conn,
		send: make(chan Event, sendBufferSize),
	}

	h.mu.Lock()
	if h.subs[spreadsheetID] == nil {
		h.subs[spreadsheetID] = make(map[*subscriber]bool)
	}
	h.subs[spreadsheetID][sub] = true
	h.mu.Unlock()

	go h.writeLoop(sub)
	h.readLoop(spreadsheetID, sub)
}

// readLoop discards client frames; its job is detecting disconnects and
// answering pings.
func (h *Hub) readLoop(spreadsheetID string, sub *subscriber) {
	defer func() {
		h.mu.Lock()
		h.removeLocked(spreadsheetID, sub)
		h.mu.Unlock()
		sub.conn.Close()
	}()

	sub.conn.SetReadLimit(512)
	sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		select {
		case event, ok := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := sub.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) removeLocked(spreadsheetID string, sub *subscriber) {
	if subs := h.subs[spreadsheetID]; subs != nil {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subs, spreadsheetID)
		}
	}
}
