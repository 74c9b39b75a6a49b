package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/netpong/internal/protocol"
)

// ErrClosed is returned by calls on a closed client.
var ErrClosed = errors.New("transport: client closed")

// RemoteError is an error reported by the server for one call.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "transport: remote: " + e.Message
}

// Client calls Join and Tick on a remote server over one websocket.
// Calls are serialized; a Client is safe for concurrent use.
type Client struct {
	mu     sync.Mutex
	ws     *websocket.Conn
	nextID uint64
	closed bool
}

// Dial connects to a server, e.g. "ws://localhost:50051/ws".
func Dial(ctx context.Context, url string) (*Client, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("transport: cannot dial %s: %w", url, err)
	}
	return &Client{ws: ws}, nil
}

// Join registers with the server.
func (c *Client) Join(ctx context.Context, req *protocol.JoinRequest) (*protocol.JoinResponse, error) {
	resp, err := c.call(ctx, &protocol.Request{Join: req})
	if err != nil {
		return nil, err
	}
	if resp.Join == nil {
		return nil, fmt.Errorf("transport: join: %w", protocol.ErrMalformed)
	}
	return resp.Join, nil
}

// Tick sends one frame of input.
func (c *Client) Tick(ctx context.Context, req *protocol.TickRequest) (*protocol.TickResponse, error) {
	resp, err := c.call(ctx, &protocol.Request{Tick: req})
	if err != nil {
		return nil, err
	}
	if resp.Tick == nil {
		return nil, fmt.Errorf("transport: tick: %w", protocol.ErrMalformed)
	}
	return resp.Tick, nil
}

// Close says goodbye and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return c.ws.Close()
}

func (c *Client) call(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.nextID++
	req.ID = c.nextID

	var deadline time.Time
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	_ = c.ws.SetWriteDeadline(deadline)
	_ = c.ws.SetReadDeadline(deadline)

	// Wake a blocked read when ctx is canceled without a deadline
	stop := context.AfterFunc(ctx, func() {
		_ = c.ws.SetReadDeadline(time.Now())
	})
	defer stop()

	if err := c.ws.WriteMessage(websocket.BinaryMessage, req.Marshal()); err != nil {
		return nil, c.wrap(ctx, "write", err)
	}

	for {
		kind, data, err := c.ws.ReadMessage()
		if err != nil {
			return nil, c.wrap(ctx, "read", err)
		}
		if kind != websocket.BinaryMessage {
			continue
		}

		var resp protocol.Response
		if err := resp.Unmarshal(data); err != nil {
			return nil, fmt.Errorf("transport: bad response: %w", err)
		}
		if resp.ID != req.ID {
			continue
		}
		if resp.Error != "" {
			return nil, &RemoteError{Message: resp.Error}
		}
		return &resp, nil
	}
}

// wrap reports a failed call. A websocket cannot be reused after an I/O
// error, so the client is closed.
func (c *Client) wrap(ctx context.Context, op string, err error) error {
	c.closed = true
	_ = c.ws.Close()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("transport: %s: %w", op, err)
}
