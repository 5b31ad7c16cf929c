package collab

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/inkboard/inkboard/internal/engine"
)

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		session, err := NewSession("sess_ws", engine.DefaultOptions(), nil)
		if err != nil {
			t.Errorf("NewSession: %v", err)
			return
		}
		go session.Run(ctx)

		client := NewClient(hub, conn, session, "client-1")
		hub.Register(client)
		go client.WritePump(ctx)
		client.ReadPump(ctx)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func readMessage(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string) *Message {
	t.Helper()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if msg.Type == typ {
			return &msg
		}
	}
}

func sendAction(t *testing.T, ctx context.Context, conn *websocket.Conn, a engine.Action) {
	t.Helper()
	payload, err := engine.EncodeAction(a)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := json.Marshal(Message{Type: TypeAction, Payload: payload})
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestHubSessionRoundTrip(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()
	srv := newTestServer(t, hub)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	welcome := readMessage(t, ctx, conn, TypeWelcome)
	var wp WelcomePayload
	if err := json.Unmarshal(welcome.Payload, &wp); err != nil {
		t.Fatal(err)
	}
	if wp.SessionID != "sess_ws" || wp.ClientID != "client-1" {
		t.Errorf("welcome = %+v", wp)
	}
	if hub.Len() != 1 {
		t.Errorf("hub.Len() = %d, want 1", hub.Len())
	}

	sendAction(t, ctx, conn, engine.Resize{Width: 50, Height: 40})
	for {
		msg := readMessage(t, ctx, conn, TypeFrame)
		var f engine.Frame
		if err := json.Unmarshal(msg.Payload, &f); err != nil {
			t.Fatal(err)
		}
		if f.Width == 50 && f.Height == 40 {
			if msg.Seq != f.Seq {
				t.Errorf("message seq %d != frame seq %d", msg.Seq, f.Seq)
			}
			break
		}
	}

	if _, ok := hub.LatestFrame("sess_ws"); !ok {
		t.Error("hub.LatestFrame() found no frame for the live session")
	}

	sendAction(t, ctx, conn, engine.Motion{X: 1, Y: 1})
	errMsg := readMessage(t, ctx, conn, TypeError)
	var ep ErrorPayload
	if err := json.Unmarshal(errMsg.Payload, &ep); err != nil {
		t.Fatal(err)
	}
	if ep.Action != engine.ActionMotion {
		t.Errorf("error action = %q, want %q", ep.Action, engine.ActionMotion)
	}
}

func TestHubUnknownSession(t *testing.T) {
	hub := NewHub()
	if _, ok := hub.LatestFrame("sess_missing"); ok {
		t.Error("LatestFrame(missing) ok = true")
	}
}

func TestHubStopUnblocksUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()

	done := make(chan struct{})
	go func() {
		hub.Unregister(&Client{Session: &Session{ID: "sess_x"}})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Unregister blocked after Stop")
	}
}
