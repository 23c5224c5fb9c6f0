package gateway

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"go.uber.org/zap"
)

var (
	ErrClientClosed = errors.New("client closed")
	ErrSlowConsumer = errors.New("client send buffer full")
)

type Options struct {
	SendBuffer int
	WriteWait  time.Duration
	PongWait   time.Duration
	PingPeriod time.Duration
	MaxFrame   int64
}

func DefaultOptions() Options {
	return Options{
		SendBuffer: 256,
		WriteWait:  5 * time.Second,
		PongWait:   60 * time.Second,
		PingPeriod: 50 * time.Second,
		MaxFrame:   512 * 1024,
	}
}

// ClientAdapter is one outbound-only WebSocket connection. Frames queued
// with Send are written by writePump; readPump only watches for the peer
// going away.
type ClientAdapter struct {
	id     string
	conn   net.Conn
	logger *zap.Logger
	opts   Options

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func NewClient(conn net.Conn, id string, logger *zap.Logger, opts Options) *ClientAdapter {
	return &ClientAdapter{
		id:     id,
		conn:   conn,
		logger: logger,
		opts:   opts,
		send:   make(chan []byte, opts.SendBuffer),
	}
}

// Start runs the pumps. onExit runs exactly once when the read side ends,
// whatever the reason.
func (c *ClientAdapter) Start(onExit func()) {
	go c.writePump()
	go c.readPump(onExit)
}

func (c *ClientAdapter) ID() string { return c.id }

// Send queues msg without blocking.
func (c *ClientAdapter) Send(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return ErrSlowConsumer
	}
}

// Close stops accepting frames. writePump flushes what is queued, sends a
// close frame and closes the connection.
func (c *ClientAdapter) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *ClientAdapter) readPump(onExit func()) {
	defer func() {
		onExit()
		c.Close()
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))

	for {
		header, err := ws.ReadHeader(c.conn)
		if err != nil {
			return
		}

		if header.Length > c.opts.MaxFrame {
			c.logger.Warn("Msg too big", zap.Int64("size", header.Length))
			return
		}
		if header.OpCode == ws.OpClose {
			return
		}

		// the streams are outbound-only: inbound payloads are drained, never parsed
		if _, err := io.CopyN(io.Discard, c.conn, header.Length); err != nil {
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	}
}

func (c *ClientAdapter) writePump() {
	ticker := time.NewTicker(c.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if !ok {
				c.conn.Write(ws.CompiledClose)
				return
			}
			if err := wsutil.WriteServerText(c.conn, msg); err != nil {
				c.logger.Debug("Write failed", zap.Error(err))
				c.Close()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := wsutil.WriteServerMessage(c.conn, ws.OpPing, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}
