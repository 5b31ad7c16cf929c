package collab

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/coder/websocket"

	"github.com/inkboard/inkboard/internal/engine"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
)

// Client is the websocket side of a session.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	Session  *Session
	ClientID string
}

func NewClient(hub *Hub, conn *websocket.Conn, session *Session, clientID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		Session:  session,
		ClientID: clientID,
	}
}

func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "client", c.ClientID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "client", c.ClientID)
			c.sendError(err, "")
			continue
		}

		if err := c.handleMessage(ctx, &msg); err != nil {
			if errors.Is(err, ErrSessionClosed) || ctx.Err() != nil {
				return
			}
			c.sendError(err, "")
		}
	}
}

func (c *Client) handleMessage(ctx context.Context, msg *Message) error {
	switch msg.Type {
	case TypeAction:
		a, err := engine.DecodeAction(msg.Payload)
		if err != nil {
			slog.Warn("invalid action", "error", err, "client", c.ClientID)
			return err
		}
		return c.Session.Submit(ctx, a)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", c.ClientID)
		return errors.New("unknown message type: " + msg.Type)
	}
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	frames := c.Session.Frames()
	for {
		var message []byte
		select {
		case m, ok := <-c.send:
			if !ok {
				return
			}
			message = m

		case <-frames.Ready():
			f, ok := frames.Next()
			if !ok {
				continue
			}
			msg, err := newMessage(TypeFrame, f)
			if err != nil {
				slog.Error("marshal frame", "error", err)
				continue
			}
			msg.Seq = f.Seq
			msg.SessionID = c.Session.ID
			if message, err = json.Marshal(msg); err != nil {
				slog.Error("marshal message", "error", err)
				continue
			}

		case err := <-c.Session.Errors():
			c.sendError(err, actionName(err))
			continue

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
			continue

		case <-ctx.Done():
			return
		}

		writeCtx, cancel := context.WithTimeout(ctx, writeWait)
		err := c.conn.Write(writeCtx, websocket.MessageText, message)
		cancel()
		if err != nil {
			slog.Debug("write error", "error", err, "client", c.ClientID)
			return
		}
	}
}

func (c *Client) Send(msg *Message) {
	msg.SessionID = c.Session.ID
	msg.ClientID = c.ClientID
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		slog.Warn("client send buffer full, dropping message", "client", c.ClientID)
	}
}

func (c *Client) sendWelcome() {
	w := c.Session.Welcome()
	w.ClientID = c.ClientID
	msg, err := newMessage(TypeWelcome, w)
	if err != nil {
		slog.Error("marshal welcome", "error", err)
		return
	}
	c.Send(msg)
}

func (c *Client) sendError(err error, action string) {
	msg, mErr := newMessage(TypeError, ErrorPayload{Message: err.Error(), Action: action})
	if mErr != nil {
		slog.Error("marshal error", "error", mErr)
		return
	}
	c.Send(msg)
}

func actionName(err error) string {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Action
	}
	return ""
}
