package control

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/junsooki/asciicam/internal/input"
)

// CommandError is a failure reported by the remote session.
type CommandError struct {
	Msg    string
	Result *input.Result
}

func (e *CommandError) Error() string {
	return e.Msg
}

// Client is a WebSocket control client.
type Client struct {
	url string

	conn    *websocket.Conn
	mu      sync.Mutex
	pending map[string]chan Message
	done    chan struct{}
	closed  bool
	readErr error
}

// NewClient creates a control client for url.
func NewClient(url string) *Client {
	return &Client{
		url:     url,
		pending: make(map[string]chan Message),
		done:    make(chan struct{}),
	}
}

// Connect dials the control surface and starts reading replies.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("control dial: %w", err)
	}
	c.conn = conn
	go c.readLoop()
	return nil
}

// Close shuts down the connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	if c.conn != nil {
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

// Do sends cmd and waits for its reply.
func (c *Client) Do(ctx context.Context, cmd input.Command) (input.Result, error) {
	reply, err := c.roundTrip(ctx, Message{Type: TypeCommand, Command: &cmd})
	if err != nil {
		return input.Result{}, err
	}
	if reply.Type == TypeError {
		return input.Result{}, &CommandError{Msg: reply.Msg, Result: reply.Result}
	}
	if reply.Result == nil {
		return input.Result{}, errors.New("reply without result")
	}
	return *reply.Result, nil
}

// Ping checks that the server answers.
func (c *Client) Ping(ctx context.Context) error {
	reply, err := c.roundTrip(ctx, Message{Type: TypePing})
	if err != nil {
		return err
	}
	if reply.Type != TypePong {
		return fmt.Errorf("unexpected reply %q to ping", reply.Type)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, msg Message) (Message, error) {
	msg.ID = uuid.NewString()
	ch := make(chan Message, 1)

	c.mu.Lock()
	if c.conn == nil || c.closed {
		c.mu.Unlock()
		return Message{}, fmt.Errorf("not connected")
	}
	c.pending[msg.ID] = ch
	err := c.conn.WriteJSON(msg)
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, msg.ID)
		c.mu.Unlock()
	}()
	if err != nil {
		return Message{}, fmt.Errorf("control send: %w", err)
	}

	select {
	case reply := <-ch:
		return reply, nil
	case <-c.done:
		c.mu.Lock()
		err := c.readErr
		c.mu.Unlock()
		if err == nil {
			err = errors.New("connection closed")
		}
		return Message{}, err
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (c *Client) readLoop() {
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.mu.Lock()
			c.readErr = err
			c.mu.Unlock()
			c.Close()
			return
		}
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg Message) {
	c.mu.Lock()
	ch, ok := c.pending[msg.ID]
	c.mu.Unlock()
	if ok {
		ch <- msg
	}
}
