package notify

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/umakantv/go-utils/logger"
)

func TestMain(m *testing.M) {
	logger.Init(logger.LoggerConfig{CallerKey: "file", TimeKey: "timestamp", CallerSkip: 1})
	os.Exit(m.Run())
}

func dial(t *testing.T, hub *Hub, userID int64) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, userID)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	return ev
}

func waitConnections(t *testing.T, hub *Hub, userID int64, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Connections(userID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("connections = %d, want %d", hub.Connections(userID), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubDeliversToUser(t *testing.T) {
	hub := NewHub(nil)
	conn := dial(t, hub, 7)
	if ev := readEvent(t, conn); ev.Type != EventConnected {
		t.Fatalf("first event = %+v", ev)
	}
	waitConnections(t, hub, 7, 1)

	hub.Publish(8, Event{Type: EventNotification, Data: "not yours"})
	hub.Publish(7, Event{Type: EventNotification, Data: "hello"})

	ev := readEvent(t, conn)
	if ev.Type != EventNotification || ev.Data != "hello" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestHubForgetsClosedConnections(t *testing.T) {
	hub := NewHub(nil)
	conn := dial(t, hub, 3)
	readEvent(t, conn)
	waitConnections(t, hub, 3, 1)

	conn.Close()
	waitConnections(t, hub, 3, 0)

	// Publishing to a user with no connections is a no-op.
	hub.Publish(3, Event{Type: EventMessage})
}

func TestHubRejectsForeignOrigin(t *testing.T) {
	hub := NewHub([]string{"https://hoyspace.example"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, 1)
	}))
	defer srv.Close()

	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("resp = %v", resp)
	}
}
