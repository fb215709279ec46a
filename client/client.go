// Package client is a Go-side canvas participant. It joins one room over
// websocket, hands the caller the authoritative snapshot, and exposes the
// server's event stream on a channel. Useful for bots, exporters and tests.
package client

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/gorilla/websocket"

	"github.com/Devika499/Real-Time-Collaborative-Drawing-Canvas/canvas"
)

type Options struct {
	// DialTimeout bounds the whole connect-retry loop. Zero means 15s.
	DialTimeout time.Duration
}

type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	UserID   string
	Color    string
	Snapshot []canvas.Operation
	Members  []canvas.MemberInfo

	// Events carries decoded server events in arrival order. The caller
	// must drain it; it is closed when the connection dies.
	Events chan any
}

// Dial connects to serverURL (http:// or ws://), joins roomID under the
// given display name and waits for the server's joined event. Failed
// connection attempts are retried with exponential backoff.
func Dial(serverURL, roomID, name string, opts Options) (*Client, error) {
	target := fmt.Sprintf("%s/canvas/join/%s?name=%s",
		wsBase(serverURL), url.PathEscape(roomID), url.QueryEscape(name))

	timeout := opts.DialTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	var conn *websocket.Conn
	dial := func() error {
		c, _, err := websocket.DefaultDialer.Dial(target, nil)
		if err != nil {
			return err
		}
		conn = c
		return nil
	}
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = timeout
	if err := backoff.Retry(dial, policy); err != nil {
		return nil, fmt.Errorf("dialing %s: %w", target, err)
	}

	// The first frame is always the joined event.
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("reading join reply: %w", err)
	}
	conn.SetReadDeadline(time.Time{})

	event, err := canvas.DecodeServerEvent(data)
	if err != nil {
		conn.Close()
		return nil, err
	}
	joined, ok := event.(*canvas.JoinedEvent)
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("expected joined event, got %T", event)
	}

	c := &Client{
		conn:     conn,
		UserID:   joined.UserID,
		Color:    joined.Color,
		Snapshot: joined.Snapshot,
		Members:  joined.Members,
		Events:   make(chan any, 256),
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) BeginStroke(tool canvas.Tool, color string, width int, p canvas.Point) error {
	return c.send(canvas.StrokeBeginEvent{Type: canvas.EventStrokeBegin, Tool: tool, Color: color, Width: width, Point: p})
}

func (c *Client) ExtendStroke(p canvas.Point) error {
	return c.send(canvas.StrokePointEvent{Type: canvas.EventStrokePoint, Point: p})
}

func (c *Client) EndStroke() error {
	return c.send(canvas.StrokeEndEvent{Type: canvas.EventStrokeEnd})
}

func (c *Client) MoveCursor(p canvas.Point) error {
	return c.send(canvas.CursorEvent{Type: canvas.EventCursor, Point: p})
}

func (c *Client) Undo() error {
	return c.send(canvas.UndoEvent{Type: canvas.EventUndo})
}

func (c *Client) Redo() error {
	return c.send(canvas.RedoEvent{Type: canvas.EventRedo})
}

func (c *Client) Clear() error {
	return c.send(canvas.ClearEvent{Type: canvas.EventClear})
}

func (c *Client) Close() error {
	c.writeMu.Lock()
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	return c.conn.Close()
}

// send serializes writes; gorilla allows one concurrent writer.
func (c *Client) send(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *Client) readLoop() {
	defer close(c.Events)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		event, err := canvas.DecodeServerEvent(data)
		if err != nil {
			continue
		}
		c.Events <- event
	}
}

func wsBase(serverURL string) string {
	serverURL = strings.TrimSuffix(serverURL, "/")
	switch {
	case strings.HasPrefix(serverURL, "http://"):
		return "ws://" + strings.TrimPrefix(serverURL, "http://")
	case strings.HasPrefix(serverURL, "https://"):
		return "wss://" + strings.TrimPrefix(serverURL, "https://")
	default:
		return serverURL
	}
}
