package canvas

import "time"

type NetworkSession interface {
	Close(errCode string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

type UniqueIdGenerator interface {
	Generate() string
}

type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) <-chan time.Time
}

// Member is a connected participant as the room actor sees it. *Client
// implements it over a live websocket; tests substitute mocks.
type Member interface {
	UserID() string
	Username() string
	Send(data []byte) error
	Ping() error
	SetRoom(r *Room)
	CancelAndRelease()
}

// HubNotifier is the room's upward link, used to report departures so the
// hub can tear down rooms nobody occupies.
type HubNotifier interface {
	ClientGone(roomID string)
}
