package canvas

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Client is one connected websocket participant. The two pumps bridge the
// socket and the room actor; the room only ever touches a client through the
// Member interface.
type Client struct {
	id        string
	username  string
	socket    NetworkSession
	inbox     chan []byte
	pingChan  chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	room      *Room
}

func NewClient(id, username string, socket NetworkSession) *Client {
	return &Client{
		id:       id,
		username: username,
		socket:   socket,
		inbox:    make(chan []byte, 256),
		pingChan: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

func (c *Client) UserID() string {
	return c.id
}

func (c *Client) Username() string {
	return c.username
}

func (c *Client) SetRoom(r *Room) {
	c.room = r
}

// Send queues a frame for the write pump. It never blocks: a full queue
// means the consumer stopped keeping up, and the room kicks it.
func (c *Client) Send(data []byte) error {
	select {
	case c.inbox <- data:
		return nil
	default:
		return ErrSendQueueFull
	}
}

func (c *Client) Ping() error {
	select {
	case c.pingChan <- struct{}{}:
	default:
	}
	return nil
}

// CancelAndRelease makes both pumps unwind and the socket close. Safe to
// call more than once.
func (c *Client) CancelAndRelease() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// ReadPump decodes client frames and forwards them to the room actor. A
// frame outside the closed schema drops this connection, nobody else. Runs
// until the socket dies, then requests removal from the room.
func (c *Client) ReadPump() {
	room := c.room
	defer room.RequestRemove(c)

	for {
		data, err := c.socket.Read()
		if err != nil {
			return
		}

		event, err := DecodeClientEvent(data)
		if err != nil {
			log.Warn().Str("user", c.id).Err(err).Msg("dropping client after undecodable frame")
			return
		}

		room.Submit(ClientEventEnvelope{from: c, event: event})
	}
}

func (c *Client) WritePump() {
	defer c.socket.Close("")

	for {
		select {
		case <-c.done:
			return
		case data, ok := <-c.inbox:
			if !ok {
				return
			}
			if err := c.socket.Write(data); err != nil {
				return
			}
		case <-c.pingChan:
			if err := c.socket.Ping(); err != nil {
				return
			}
		}
	}
}
