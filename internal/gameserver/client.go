package gameserver

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Default write queue / timeout constants.
// Overridden by config values when available.
const (
	defaultSendQueueSize = 256
	defaultWriteTimeout  = 5 * time.Second
	defaultReadTimeout   = 120 * time.Second
)

// ErrClientClosed is returned by Send after the client is gone.
var ErrClientClosed = errors.New("client closed")

// Client represents one websocket connection. Each client gets a
// server-assigned id used as its player id for the whole session.
// Writes go through a buffered send queue drained by a single writer
// goroutine; gorilla connections allow only one concurrent writer.
type Client struct {
	id   string
	conn *websocket.Conn

	sendCh    chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once

	writeTimeout time.Duration
	readTimeout  time.Duration
}

// NewClient wraps an accepted websocket connection.
func NewClient(conn *websocket.Conn, sendQueueSize int, writeTimeout, readTimeout time.Duration) *Client {
	if sendQueueSize <= 0 {
		sendQueueSize = defaultSendQueueSize
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	if readTimeout <= 0 {
		readTimeout = defaultReadTimeout
	}
	return &Client{
		id:           uuid.NewString(),
		conn:         conn,
		sendCh:       make(chan []byte, sendQueueSize),
		closeCh:      make(chan struct{}),
		writeTimeout: writeTimeout,
		readTimeout:  readTimeout,
	}
}

// ID returns the connection id.
func (c *Client) ID() string { return c.id }

// Send queues an encoded message for delivery. A full queue drops the
// client: a receiver that slow will recover via roomState anyway, and
// keeping it would stall the room broadcast.
func (c *Client) Send(b []byte) error {
	select {
	case <-c.closeCh:
		return ErrClientClosed
	case c.sendCh <- b:
		return nil
	default:
		c.Close()
		return fmt.Errorf("send queue full for client %s", c.id)
	}
}

// Close shuts the client down. Idempotent; unblocks both pumps.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closeCh)
		_ = c.conn.Close()
	})
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	select {
	case <-c.closeCh:
		return true
	default:
		return false
	}
}

// writePump drains the send queue onto the wire and keeps the
// connection alive with pings. Runs on its own goroutine; exits on
// Close or write failure.
func (c *Client) writePump() {
	pingInterval := c.readTimeout * 9 / 10
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.closeCh:
			return
		case b := <-c.sendCh:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop reads messages and hands them to onMessage until the
// connection dies, then runs onClose. Blocks the caller.
func (c *Client) readLoop(onMessage func(*Client, []byte), onClose func(*Client)) {
	defer func() {
		c.Close()
		onClose(c)
	}()

	c.conn.SetReadLimit(64 << 10)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	})

	for {
		_, b, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
		onMessage(c, b)
	}
}
