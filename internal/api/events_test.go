package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/terra-clan/skillsprint/internal/config"
	"github.com/terra-clan/skillsprint/internal/store"
)

func dialFeed(t *testing.T, url, role, user string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(url, "http") + "/api/v1/events/ws?role=" + role + "&user=" + user
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial event feed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	var hello FeedMessage
	readFeed(t, conn, &hello)
	if hello.Type != "connected" || hello.Data != role+":"+user {
		t.Fatalf("unexpected greeting %+v", hello)
	}
	return conn
}

func readFeed(t *testing.T, conn *websocket.Conn, msg *FeedMessage) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(msg); err != nil {
		t.Fatalf("failed to read feed message: %v", err)
	}
}

func TestEventFeed_FiltersByIdentity(t *testing.T) {
	ts := newTestServer(t, nil, config.RateLimitConfig{}, nil)
	httpServer := httptest.NewServer(ts.Router())
	defer httpServer.Close()

	learner := dialFeed(t, httpServer.URL, "learner", "learner-3")
	company := dialFeed(t, httpServer.URL, "company", "gcp")

	// Not for learner-3, and track-1 belongs to aws
	ts.store.StartTrack("learner-4", "track-1")
	// For learner-3 and gcp
	e := ts.store.StartTrack("learner-3", "track-3")

	var msg FeedMessage
	readFeed(t, learner, &msg)
	if msg.Type != "event" || msg.Event == nil {
		t.Fatalf("expected event frame, got %+v", msg)
	}
	if msg.Event.Type != store.EventEnrollmentStarted || msg.Event.EnrollmentID != e.ID {
		t.Errorf("learner got unexpected event %+v", msg.Event)
	}

	readFeed(t, company, &msg)
	if msg.Event == nil || msg.Event.EnrollmentID != e.ID || msg.Event.CompanyID != "gcp" {
		t.Errorf("company got unexpected event %+v", msg.Event)
	}
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	ts := newTestServer(t, nil, config.RateLimitConfig{}, nil)
	httpServer := httptest.NewServer(ts.Router())
	defer httpServer.Close()

	conn := dialFeed(t, httpServer.URL, "learner", "learner-1")
	if n := ts.hub.Clients(); n != 1 {
		t.Fatalf("expected 1 client, got %d", n)
	}

	ts.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected connection to be closed")
	}

	// events after close are not delivered and do not block
	ts.store.StartTrack("learner-1", "track-1")
}
