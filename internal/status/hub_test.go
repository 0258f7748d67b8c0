package status

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ytget/ytmp3/internal/model"
)

func dialHub(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) model.StatusEvent {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev model.StatusEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return ev
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(hub.WsHandler))
	defer server.Close()

	conn := dialHub(t, server.URL)
	waitForClients(t, hub, 1)

	hub.Message(model.KindSingle, "Resolving...")
	hub.Prompt(model.KindSingle, "Download Complete", "Audio downloaded successfully!", model.SeverityInfo)
	hub.SetEnabled(model.KindSingle, true)

	ev := readEvent(t, conn)
	if ev.Type != model.EventMessage || ev.Message != "Resolving..." || ev.Kind != model.KindSingle {
		t.Errorf("unexpected message event %+v", ev)
	}
	ev = readEvent(t, conn)
	if ev.Type != model.EventPrompt || ev.Title != "Download Complete" || ev.Severity != model.SeverityInfo {
		t.Errorf("unexpected prompt event %+v", ev)
	}
	ev = readEvent(t, conn)
	if ev.Type != model.EventEnabled || !ev.Enabled {
		t.Errorf("unexpected enabled event %+v", ev)
	}
}

func TestHubReplaysLastMessage(t *testing.T) {
	hub := NewHub(nil)
	hub.Message(model.KindPlaylist, "[1/3] Downloading MP3: A...")
	hub.Message(model.KindPlaylist, "[2/3] Downloading MP3: B...")

	server := httptest.NewServer(http.HandlerFunc(hub.WsHandler))
	defer server.Close()

	conn := dialHub(t, server.URL)

	ev := readEvent(t, conn)
	if ev.Message != "[2/3] Downloading MP3: B..." {
		t.Errorf("expected latest message to be replayed, got %q", ev.Message)
	}
}

func TestHubPublishNeverBlocks(t *testing.T) {
	hub := NewHub(nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < HubBufferSize*2; i++ {
			hub.Message(model.KindSingle, "spam")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked without a running hub")
	}
}

func TestHubSlowClientDoesNotBlockRegistration(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(hub.WsHandler))
	defer server.Close()

	// never reads, so a large frame fills the socket buffers and the write stalls
	dialHub(t, server.URL)
	waitForClients(t, hub, 1)

	hub.Prompt(model.KindSingle, "Large", strings.Repeat("x", 32<<20), model.SeverityInfo)
	time.Sleep(200 * time.Millisecond)

	counted := make(chan int, 1)
	go func() { counted <- hub.ClientCount() }()
	select {
	case <-counted:
	case <-time.After(time.Second):
		t.Fatal("ClientCount blocked behind a slow client")
	}

	dialHub(t, server.URL)
	waitForClients(t, hub, 2)
}
