package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"go.uber.org/zap"

	"github.com/mohitrana7/Stock-Predictor/cmd/server/internal/hub"
	"github.com/mohitrana7/Stock-Predictor/cmd/server/internal/protocol"
)

const (
	maxMessageSize = 64 * 1024
)

// ClientAdapter bridges one websocket connection to the hub. Reads and
// writes run on their own pumps so a slow peer never blocks the hub or the
// accept loop.
type ClientAdapter struct {
	conn   net.Conn
	hub    *hub.Hub
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	logger *zap.Logger

	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration
}

func NewClient(conn net.Conn, h *hub.Hub, logger *zap.Logger) *ClientAdapter {
	return &ClientAdapter{
		conn:       conn,
		hub:        h,
		send:       make(chan []byte, 256),
		done:       make(chan struct{}),
		logger:     logger,
		writeWait:  5 * time.Second,
		pongWait:   60 * time.Second,
		pingPeriod: 50 * time.Second,
	}
}

func (c *ClientAdapter) Start() {
	c.hub.Register(c)
	go c.writePump()
	go c.readPump()
}

func (c *ClientAdapter) ID() string { return c.conn.RemoteAddr().String() }

// Close is idempotent and safe to call with sends still in flight; results
// arriving for a departed client are dropped, not delivered.
func (c *ClientAdapter) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *ClientAdapter) SendJSON(v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case <-c.done:
		// Departed client; drop silently.
	case c.send <- b:
	default:
		// Buffer full; a stale price update isn't worth blocking for.
	}
}

func (c *ClientAdapter) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))

	for {
		header, err := ws.ReadHeader(c.conn)
		if err != nil {
			break
		}

		if header.Length > int64(maxMessageSize) {
			c.logger.Warn("Msg too big", zap.Int64("size", header.Length))
			break
		}

		if !header.Fin {
			c.logger.Warn("Client sent fragmented message (not supported)")
			break
		}

		payload := make([]byte, header.Length)
		if _, err := io.ReadFull(c.conn, payload); err != nil {
			break
		}

		if header.Masked {
			ws.Cipher(payload, header.Mask, 0)
		}

		if header.OpCode == ws.OpClose {
			break
		}
		if header.OpCode == ws.OpPong {
			c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
			continue
		}

		if header.OpCode == ws.OpText {
			var req protocol.WSRequest
			if err := json.Unmarshal(payload, &req); err != nil {
				c.SendJSON(protocol.WSResponse{Event: protocol.EventError, Message: "Invalid JSON"})
				continue
			}

			switch req.Event {
			case protocol.EventSelectStock:
				symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
				if symbol == "" {
					c.SendJSON(protocol.WSResponse{Event: protocol.EventError, Message: "Empty symbol"})
					continue
				}
				// Background context on purpose: a disconnect must not
				// cancel the in-flight fetch, the result is just dropped.
				c.hub.Select(context.Background(), c, symbol)
			default:
				c.SendJSON(protocol.WSResponse{Event: protocol.EventError, Message: "Unknown event: " + req.Event})
			}
		}
	}
}

func (c *ClientAdapter) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			c.conn.Write(ws.CompiledClose)
			return

		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := wsutil.WriteServerText(c.conn, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := wsutil.WriteServerMessage(c.conn, ws.OpPing, nil); err != nil {
				return
			}
		}
	}
}
