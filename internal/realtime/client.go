package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"delivery-tracking-service/internal/platform/logging"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 64 << 10
	sendBuffer     = 16
)

// Client is one websocket connection. Inbound exchanges run concurrently;
// replies are serialized through send by the single writer goroutine.
type Client struct {
	ID         string
	conn       *websocket.Conn
	send       chan []byte
	done       chan struct{}
	closeOnce  sync.Once
	limiter    *rate.Limiter
	slots      *semaphore.Weighted
	dispatcher *Dispatcher
	inflight   sync.WaitGroup
}

func newClient(id string, conn *websocket.Conn, d *Dispatcher, limiter *rate.Limiter, slots *semaphore.Weighted) *Client {
	return &Client{
		ID:         id,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
		limiter:    limiter,
		slots:      slots,
		dispatcher: d,
	}
}

// run blocks until the connection closes and every in-flight exchange has
// finished. Exchanges still running when the peer leaves are cancelled.
func (c *Client) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writePump()
	c.readPump(ctx)

	cancel()
	c.inflight.Wait()
}

func (c *Client) readPump(ctx context.Context) {
	log := logging.WithComponent("realtime")
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("client_id", c.ID).Msg("realtime read failed")
			}
			return
		}

		var in Envelope
		if err := json.Unmarshal(msg, &in); err != nil || in.Event == "" {
			c.enqueue(rejected("", "malformed envelope"))
			continue
		}

		if c.limiter != nil && !c.limiter.Allow() {
			c.enqueue(Throttled(in))
			continue
		}
		if !c.slots.TryAcquire(1) {
			c.enqueue(Throttled(in))
			continue
		}

		c.inflight.Add(1)
		go func() {
			defer c.inflight.Done()
			defer c.slots.Release(1)
			c.enqueue(c.dispatcher.Handle(ctx, in))
		}()
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// enqueue hands a reply to the writer. Replies for a closed connection are dropped.
func (c *Client) enqueue(env Envelope) {
	b, err := json.Marshal(env)
	if err != nil {
		return
	}
	select {
	case c.send <- b:
	case <-c.done:
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait),
		)
		_ = c.conn.Close()
	})
}
