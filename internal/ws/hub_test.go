package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialTestHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(hub.Serve))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestConnectAndStats(t *testing.T) {
	hub := NewHub(nil)
	conn := dialTestHub(t, hub)

	waitFor(t, func() bool { return hub.Stats().ActiveConnections == 1 })

	conn.Close()
	waitFor(t, func() bool { return hub.Stats().ActiveConnections == 0 })
}

func TestJoinConversationAndReceiveEvent(t *testing.T) {
	hub := NewHub(nil)
	conn := dialTestHub(t, hub)

	if err := conn.WriteJSON(map[string]string{"type": "join_conversation", "conversation_id": "conv-1"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	waitFor(t, func() bool { return hub.Stats().Rooms == 1 })

	hub.EmitAgentStatus("CodeGenerator", "generating", "conv-1", map[string]any{"language": "go"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var envelope struct {
		Event string     `json:"event"`
		Data  AgentEvent `json:"data"`
	}
	if err := conn.ReadJSON(&envelope); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if envelope.Event != "agent_event" {
		t.Errorf("event = %q, want agent_event", envelope.Event)
	}
	if envelope.Data.AgentName != "CodeGenerator" || envelope.Data.EventType != "status_change" || envelope.Data.Status != "generating" {
		t.Errorf("payload = %+v", envelope.Data)
	}
}

func TestRoomIsolation(t *testing.T) {
	hub := NewHub(nil)
	conn := dialTestHub(t, hub)

	if err := conn.WriteJSON(map[string]string{"type": "join_conversation", "conversation_id": "conv-1"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	waitFor(t, func() bool { return hub.Stats().Rooms == 1 })

	// An event for another conversation must not reach this client.
	hub.EmitAgentMessage("Optimizer", "working", "conv-2")
	hub.EmitAgentMessage("Optimizer", "done", "conv-1")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var envelope struct {
		Event string     `json:"event"`
		Data  AgentEvent `json:"data"`
	}
	if err := conn.ReadJSON(&envelope); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if envelope.Data.Message != "done" {
		t.Errorf("received wrong room's event: %+v", envelope.Data)
	}
}

func TestEmitErrorBroadcastsToAllWithoutRoom(t *testing.T) {
	hub := NewHub(nil)
	conn := dialTestHub(t, hub)
	waitFor(t, func() bool { return hub.Stats().ActiveConnections == 1 })

	hub.EmitError("gateway exhausted", "", "")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var envelope struct {
		Event string     `json:"event"`
		Data  AgentEvent `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.AgentName != "system" || envelope.Data.Error != "gateway exhausted" {
		t.Errorf("payload = %+v", envelope.Data)
	}
}
