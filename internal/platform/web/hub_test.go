package web

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/arcade-core/internal/core"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/watch"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("Timed out waiting for condition")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSpectatorReceivesFrames(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()
	defer hub.Close()

	conn := dial(t, srv)
	waitFor(t, func() bool { return hub.Spectators() == 1 })

	frame := core.Frame{
		Game:  "shooter",
		Seq:   42,
		Field: core.NewBounds(80, 40),
		HUD:   core.HUD{Score: 120, Phase: "playing"},
		Entities: []core.EntitySnapshot{
			{ID: 1, Kind: "player", Position: core.V(40, 20), Visual: "ship"},
		},
	}
	if err := hub.Publish(frame); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Errorf("Expected a binary message, got %d", kind)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Seq != 42 || got.HUD.Score != 120 || len(got.Entities) != 1 {
		t.Errorf("Unexpected frame %+v", got)
	}
}

func TestLateSpectatorGetsLastFrame(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()
	defer hub.Close()

	hub.Publish(core.Frame{Game: "kart", Seq: 7})
	conn := dial(t, srv)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	got, _ := Decode(data)
	if got.Seq != 7 {
		t.Errorf("Seq = %d, expected the last published frame", got.Seq)
	}
}

func TestDisconnectedSpectatorIsDropped(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	waitFor(t, func() bool { return hub.Spectators() == 1 })
	conn.Close()
	waitFor(t, func() bool { return hub.Spectators() == 0 })

	// Publishing with nobody listening is fine.
	if err := hub.Publish(core.Frame{Game: "blocks"}); err != nil {
		t.Errorf("Publish: %v", err)
	}
}
