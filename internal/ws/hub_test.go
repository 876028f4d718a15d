package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	server := httptest.NewServer(hub)
	defer server.Close()

	first := dial(t, server)
	second := dial(t, server)

	// Registration happens in ServeHTTP before the dial returns, but give
	// the server goroutines a moment on slow runners
	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients) == 2
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast(map[string]interface{}{"type": "progress", "job_id": 1})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)

		var event map[string]interface{}
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, "progress", event["type"])
		assert.Equal(t, float64(1), event["job_id"])
	}
}

func TestBroadcastDropsDisconnectedClient(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	server := httptest.NewServer(hub)
	defer server.Close()

	conn := dial(t, server)
	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients) == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	// The reader goroutine notices the disconnect and unregisters
	assert.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients) == 0
	}, time.Second, 10*time.Millisecond)

	// Broadcasting to nobody is a no-op
	hub.Broadcast(map[string]string{"type": "progress"})
}

func TestBroadcastUnmarshalablePayload(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	// Channels cannot be marshaled; the broadcast is dropped without panic
	hub.Broadcast(make(chan int))
}
