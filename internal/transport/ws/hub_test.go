package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/v1/ws/submissions/{submissionId}", NewHandler(hub).SubmissionWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, submissionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws/submissions/" + submissionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_DeliversToSubmissionListeners(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	srv := newTestServer(t, hub)

	a := dial(t, srv, "sub-a")
	b := dial(t, srv, "sub-b")
	require.Eventually(t, func() bool {
		return hub.Listeners("sub-a") == 1 && hub.Listeners("sub-b") == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish("sub-a", "progress", map[string]string{"step": "scoring", "status": "done"})

	a.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := a.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MsgProgress, msg.Type)
	assert.JSONEq(t, `{"step":"scoring","status":"done"}`, string(msg.Payload))

	// the other submission hears nothing
	b.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = b.ReadMessage()
	assert.Error(t, err)
}

func TestHub_PublishWithoutListenersNeverBlocks(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5000; i++ {
			hub.Publish("nobody", "progress", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked")
	}
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	srv := newTestServer(t, hub)

	conn := dial(t, srv, "sub-c")
	require.Eventually(t, func() bool { return hub.Listeners("sub-c") == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Listeners("sub-c") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_CloseDisconnectsListeners(t *testing.T) {
	hub := NewHub()
	srv := newTestServer(t, hub)

	conn := dial(t, srv, "sub-d")
	require.Eventually(t, func() bool { return hub.Listeners("sub-d") == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()
	hub.Close()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Eventually(t, func() bool { return hub.Listeners("sub-d") == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_DeliversErrorMessages(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	srv := newTestServer(t, hub)

	conn := dial(t, srv, "sub-err")
	require.Eventually(t, func() bool {
		return hub.Listeners("sub-err") == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish("sub-err", string(MsgError), map[string]string{"step": "validating", "status": "failed"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MsgError, msg.Type)
	assert.JSONEq(t, `{"step":"validating","status":"failed"}`, string(msg.Payload))
}
