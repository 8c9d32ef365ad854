package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/coder/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
	sendBuffer = 256
)

// Client is one connected host view. Every client drives the same board.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	ClientID  string
	SessionID string
}

func NewClient(hub *Hub, conn *websocket.Conn, clientID, sessionID string) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		ClientID:  clientID,
		SessionID: sessionID,
	}
}

// Serve registers the client and pumps frames both ways until the
// connection drops, ctx ends or the hub stops.
func (c *Client) Serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.hub.Register(c)
	go func() {
		c.writeLoop(ctx)
		// A failed write leaves the reader blocked; closing the conn wakes it.
		cancel()
	}()

	err := c.readLoop(ctx)
	c.hub.Unregister(c)

	switch status := websocket.CloseStatus(err); {
	case errors.Is(err, ErrStopped), errors.Is(err, context.Canceled):
		c.conn.Close(websocket.StatusGoingAway, "board shutting down")
	case status == websocket.StatusNormalClosure, status == websocket.StatusGoingAway:
		c.conn.Close(websocket.StatusNormalClosure, "")
	default:
		slog.Debug("client disconnected", "error", err, "client", c.ClientID)
		c.conn.Close(websocket.StatusInternalError, "")
	}
}

func (c *Client) readLoop(ctx context.Context) error {
	c.conn.SetReadLimit(maxMsgSize)
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return err
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "client", c.ClientID)
			continue
		}
		msg.ClientID = c.ClientID

		if err := c.hub.submit(ctx, c, &msg); err != nil {
			return err
		}
	}
}

// writeLoop drains the send channel, which the hub closes on unregister or
// shutdown, and keeps the connection alive with pings.
func (c *Client) writeLoop(ctx context.Context) {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	write := func(frame []byte) error {
		wctx, cancel := context.WithTimeout(ctx, writeWait)
		defer cancel()
		if frame == nil {
			return c.conn.Ping(wctx)
		}
		return c.conn.Write(wctx, websocket.MessageText, frame)
	}

	for {
		var frame []byte
		select {
		case f, ok := <-c.send:
			if !ok {
				return
			}
			frame = f
		case <-ping.C:
		case <-ctx.Done():
			return
		}
		if err := write(frame); err != nil {
			slog.Debug("write failed", "error", err, "client", c.ClientID)
			return
		}
	}
}

// Send queues msg for the write loop, dropping it when the client has
// fallen behind. Only the hub goroutine calls it.
func (c *Client) Send(msg *Message) {
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
