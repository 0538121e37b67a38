// Package telemetry publishes what the walker is doing: a websocket
// event feed, health and diagnostics endpoints, and an optional MQTT
// step publisher. Everything here is outbound; nothing controls the
// device.
package telemetry

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/adafruit/Circuit-Walker-Sneakers/internal/diagnostics"
)

// Frame events above this rate are dropped; steps and faults always go
// out.
const minFrameGap = 50 * time.Millisecond

const writeWait = 200 * time.Millisecond

// Event is one outbound record on the websocket feed.
type Event struct {
	Type      string  `json:"type"` // "step" | "frame" | "fault"
	At        float64 `json:"at"`   // monotonic seconds
	Remaining float64 `json:"remaining,omitempty"`
	RGB       []byte  `json:"rgb,omitempty"`
	Message   string  `json:"message,omitempty"`
}

// Hub fans walker events out to websocket clients and serves the
// health and diagnostics endpoints.
type Hub struct {
	report func() diagnostics.Report

	mu        sync.RWMutex
	clients   map[*websocket.Conn]bool
	steps     uint64
	frames    uint64
	lastFrame time.Time
	start     time.Time
}

// NewHub returns a hub; report supplies the /diag snapshot and may be
// nil.
func NewHub(report func() diagnostics.Report) *Hub {
	return &Hub{
		report:  report,
		clients: map[*websocket.Conn]bool{},
		start:   time.Now(),
	}
}

// OnStep broadcasts a step event.
func (h *Hub) OnStep(at float64) {
	h.mu.Lock()
	h.steps++
	h.mu.Unlock()
	h.broadcast(Event{Type: "step", At: at})
}

// OnFrame broadcasts a rendered frame, rate limited so a 100Hz control
// loop does not flood slow clients.
func (h *Hub) OnFrame(at, remaining float64, rgb []byte) {
	h.mu.Lock()
	h.frames++
	now := time.Now()
	drop := now.Sub(h.lastFrame) < minFrameGap
	if !drop {
		h.lastFrame = now
	}
	h.mu.Unlock()
	if drop {
		return
	}
	h.broadcast(Event{Type: "frame", At: at, Remaining: remaining, RGB: rgb})
}

// OnFault broadcasts a fault message.
func (h *Hub) OnFault(msg string) {
	h.broadcast(Event{Type: "fault", Message: msg})
}

// Clients reports how many websocket clients are connected.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleFrames upgrades the connection and streams events to it.
// Inbound payloads are ignored; the read loop exists only to notice
// the close.
func (h *Hub) HandleFrames(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// HandleHealth answers with uptime and event counters.
func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	resp := map[string]interface{}{
		"uptime_s": time.Since(h.start).Seconds(),
		"steps":    h.steps,
		"frames":   h.frames,
		"clients":  len(h.clients),
	}
	h.mu.RUnlock()
	if h.report != nil {
		rep := h.report()
		resp["driver"] = rep.Driver
		resp["pixels"] = rep.Pixels
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// HandleDiag answers with the startup diagnostics report.
func (h *Hub) HandleDiag(w http.ResponseWriter, r *http.Request) {
	var rep diagnostics.Report
	if h.report != nil {
		rep = h.report()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rep)
}

func (h *Hub) broadcast(ev Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	// Full lock: gorilla connections allow one writer at a time.
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Str("type", ev.Type).Msg("telemetry write")
		}
	}
}
