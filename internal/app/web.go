package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/helmet_sentry/internal/config"
	"github.com/relabs-tech/helmet_sentry/internal/telemetry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const wsWriteWait = 10 * time.Second

// Variable so tests can shorten the dead-peer detection window.
var wsPingPeriod = 30 * time.Second

// statusHub fans the latest snapshot out to websocket subscribers.
type statusHub struct {
	mu         sync.RWMutex
	lastStatus telemetry.Status
	haveStatus bool
	subs       map[*websocket.Conn]chan telemetry.Status
}

func newStatusHub() *statusHub {
	return &statusHub{subs: make(map[*websocket.Conn]chan telemetry.Status)}
}

func (h *statusHub) update(s telemetry.Status) {
	h.mu.Lock()
	h.lastStatus = s
	h.haveStatus = true
	for _, ch := range h.subs {
		select {
		case ch <- s:
		default:
			// Slow subscriber; it will catch up on the next snapshot.
		}
	}
	h.mu.Unlock()
}

func (h *statusHub) last() (telemetry.Status, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastStatus, h.haveStatus
}

func (h *statusHub) subscribe(conn *websocket.Conn) chan telemetry.Status {
	ch := make(chan telemetry.Status, 8)
	h.mu.Lock()
	h.subs[conn] = ch
	h.mu.Unlock()
	return ch
}

func (h *statusHub) unsubscribe(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.subs, conn)
	h.mu.Unlock()
}

func (h *statusHub) subscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// serveWS upgrades the connection and streams snapshots. A ping ticker
// with write deadlines bounds how long a dead peer can hold its hub slot
// when no snapshots are arriving.
func (h *statusHub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ch := h.subscribe(conn)
	defer h.unsubscribe(conn)

	// Drain inbound frames so close and pong frames get processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Replay the latest snapshot so the dashboard is never blank.
	if s, ok := h.last(); ok {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(s); err != nil {
			return
		}
	}

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case s := <-ch:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(s); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("web: websocket error: %v", err)
				}
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// RunWeb subscribes to the status topic and serves the latest snapshot as
// JSON plus a websocket push stream for live dashboards.
func RunWeb() error {
	cfg := config.Get()
	hub := newStatusHub()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicStatus, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s telemetry.Status
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("web: status unmarshal error: %v", err)
			return
		}
		hub.update(s)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to %s", cfg.TopicStatus)

	http.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		s, ok := hub.last()
		if !ok {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	http.HandleFunc("/ws", hub.serveWS)

	// Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
