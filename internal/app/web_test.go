package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/helmet_sentry/internal/telemetry"
)

// A subscriber that vanishes between snapshots must still be detected
// and dropped from the hub within a ping period.
func TestWebsocketDropsDeadPeerBetweenSnapshots(t *testing.T) {
	oldPing := wsPingPeriod
	wsPingPeriod = 20 * time.Millisecond
	defer func() { wsPingPeriod = oldPing }()

	hub := newStatusHub()
	hub.update(telemetry.Status{HelmetWorn: true, StrapFastened: true})

	srv := httptest.NewServer(http.HandlerFunc(hub.serveWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	var s telemetry.Status
	if err := conn.ReadJSON(&s); err != nil {
		t.Fatalf("read replayed snapshot: %v", err)
	}
	if !s.HelmetWorn || !s.StrapFastened {
		t.Errorf("replayed snapshot mismatch: %+v", s)
	}
	if got := hub.subscriberCount(); got != 1 {
		t.Fatalf("want 1 subscriber after dial, got %d", got)
	}

	conn.Close()

	// No snapshots are published; only the ping loop can notice.
	deadline := time.Now().Add(2 * time.Second)
	for hub.subscriberCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("dead peer still subscribed after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
