package notify_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathyb/qa-forum/backend/internal/notify"
)

// wsPair dials a throwaway server and returns both ends of a websocket.
func wsPair(t *testing.T) (server, client *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	serverConns := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-serverConns:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for server connection")
	}
	t.Cleanup(func() { server.Close() })

	return server, client
}

func TestPushWithoutConnection(t *testing.T) {
	hub := notify.NewHub()
	assert.False(t, hub.Push(1, notify.Event{Type: "notification"}))
}

func TestRegisterAndPush(t *testing.T) {
	hub := notify.NewHub()
	server, client := wsPair(t)
	hub.Register(7, server)

	require.True(t, hub.Push(7, notify.Event{Type: "unread_count", Data: map[string]int64{"count": 3}}))

	client.SetReadDeadline(time.Now().Add(5 * time.Second))
	var event notify.Event
	require.NoError(t, client.ReadJSON(&event))
	assert.Equal(t, "unread_count", event.Type)
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := notify.NewHub()
	server, _ := wsPair(t)
	hub.Register(7, server)
	hub.Unregister(7, server)

	assert.False(t, hub.Push(7, notify.Event{Type: "notification"}))
}

func TestRegisterReplacesPrevious(t *testing.T) {
	hub := notify.NewHub()
	oldServer, _ := wsPair(t)
	newServer, newClient := wsPair(t)

	hub.Register(7, oldServer)
	hub.Register(7, newServer)

	// Unregistering the stale connection must not drop the current one.
	hub.Unregister(7, oldServer)

	require.True(t, hub.Push(7, notify.Event{Type: "notification"}))

	newClient.SetReadDeadline(time.Now().Add(5 * time.Second))
	var event notify.Event
	require.NoError(t, newClient.ReadJSON(&event))
	assert.Equal(t, "notification", event.Type)
}
