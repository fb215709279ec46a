package canvas

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const keepaliveInterval = time.Second * 30

type RoomInfo struct {
	ID      string `json:"id"`
	Members int    `json:"members"`
	Strokes int    `json:"strokes"`
}

type hubJoinRequest struct {
	roomID string
	jreq   RoomJoinRequest
}

type roomLogRequest struct {
	roomID   string
	respChan chan *RoomLog
}

type hubRoomState struct {
	room *Room
	// count tracks accepted joins minus departures. The hub releases the
	// room when it reaches zero; because joins and departures both pass
	// through the hub actor, an in-flight join can never hit a released
	// room.
	count int
}

type Hub struct {
	registry      *Registry
	idGenerator   UniqueIdGenerator
	tickerCreator PeriodicTickerChannelCreator
	maxWidth      int

	rooms map[string]*hubRoomState

	joinReqs     chan hubJoinRequest
	departures   chan string
	roomInfoReqs chan chan []RoomInfo
	logReqs      chan roomLogRequest
}

func NewHub(registry *Registry, idGenerator UniqueIdGenerator, tickerCreator PeriodicTickerChannelCreator, maxWidth int) *Hub {
	return &Hub{
		registry:      registry,
		idGenerator:   idGenerator,
		tickerCreator: tickerCreator,
		maxWidth:      maxWidth,
		rooms:         make(map[string]*hubRoomState),
		joinReqs:      make(chan hubJoinRequest, 256),
		departures:    make(chan string, 256),
		roomInfoReqs:  make(chan chan []RoomInfo, 256),
		logReqs:       make(chan roomLogRequest, 256),
	}
}

// Join hands the member to roomID's actor, creating the room lazily, and
// waits for the room's answer. A nil error means the member is in and its
// snapshot is queued.
func (h *Hub) Join(ctx context.Context, roomID string, m Member) error {
	jreq := NewRoomJoinRequest(m)
	select {
	case h.joinReqs <- hubJoinRequest{roomID: roomID, jreq: jreq}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-jreq.errChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) ClientGone(roomID string) {
	h.departures <- roomID
}

func (h *Hub) GetRooms(ctx context.Context) []RoomInfo {
	respChan := make(chan []RoomInfo, 1)
	select {
	case h.roomInfoReqs <- respChan:
		select {
		case resp := <-respChan:
			return resp
		case <-ctx.Done():
			return nil
		}
	case <-ctx.Done():
		return nil
	}
}

func (h *Hub) GetRoomLog(ctx context.Context, roomID string) (*RoomLog, error) {
	req := roomLogRequest{roomID: roomID, respChan: make(chan *RoomLog, 1)}
	select {
	case h.logReqs <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case roomLog := <-req.respChan:
		if roomLog == nil {
			return nil, ErrRoomNotFound
		}
		return roomLog, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Hub) HubActor(started chan struct{}) {
	pingTicker := h.tickerCreator.Create(keepaliveInterval)

	close(started)

	for {
		select {
		case <-pingTicker:
			for _, state := range h.rooms {
				state.room.PingMembers()
			}

		case req := <-h.joinReqs:
			h.handleJoinReq(req)

		case roomID := <-h.departures:
			h.handleDeparture(roomID)

		case respChan := <-h.roomInfoReqs:
			h.handleGetRooms(respChan)

		case req := <-h.logReqs:
			h.handleGetRoomLog(req)
		}
	}
}

func (h *Hub) handleJoinReq(req hubJoinRequest) {
	state, ok := h.rooms[req.roomID]
	if !ok {
		room := NewRoom(req.roomID, NewRoomLog(h.idGenerator, h.maxWidth), h.registry, h)
		state = &hubRoomState{room: room}
		h.rooms[req.roomID] = state
		go room.Run()
		log.Info().Str("room", req.roomID).Msg("room created")
	}
	if state.room.RequestJoin(req.jreq) {
		state.count++
	}
}

func (h *Hub) handleDeparture(roomID string) {
	state, ok := h.rooms[roomID]
	if !ok {
		return
	}
	state.count--
	if state.count > 0 {
		return
	}
	delete(h.rooms, roomID)
	state.room.CloseAndRelease()
	log.Info().Str("room", roomID).Msg("room released")
}

func (h *Hub) handleGetRooms(respChan chan []RoomInfo) {
	infos := make([]RoomInfo, 0, len(h.rooms))
	for id, state := range h.rooms {
		infos = append(infos, RoomInfo{
			ID:      id,
			Members: h.registry.Count(id),
			Strokes: state.room.Log().Len(),
		})
	}
	respChan <- infos
}

func (h *Hub) handleGetRoomLog(req roomLogRequest) {
	state, ok := h.rooms[req.roomID]
	if !ok {
		req.respChan <- nil
		return
	}
	req.respChan <- state.room.Log()
}
