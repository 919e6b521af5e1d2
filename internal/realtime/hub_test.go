package realtime

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/gorilla/websocket"
)

func TestBroadcast(t *testing.T) {
	c := qt.New(t)
	hub := NewHub(nil, nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	c.Assert(err, qt.IsNil)
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	c.Assert(hub.Clients(), qt.Equals, 1)

	hub.Broadcast("order.created", map[string]int{"orderId": 9})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	c.Assert(err, qt.IsNil)

	var ev struct {
		Type    string         `json:"type"`
		Payload map[string]int `json:"payload"`
	}
	c.Assert(json.Unmarshal(data, &ev), qt.IsNil)
	c.Assert(ev.Type, qt.Equals, "order.created")
	c.Assert(ev.Payload["orderId"], qt.Equals, 9)
}

func TestRejectedOrigin(t *testing.T) {
	c := qt.New(t)
	hub := NewHub(func(origin string) bool { return origin == "https://glow.example" }, nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := map[string][]string{"Origin": {"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	c.Assert(err, qt.Not(qt.IsNil))
	c.Assert(resp.StatusCode, qt.Equals, 403)
}
