package canvas

type RoomJoinRequest struct {
	member  Member
	errChan chan error
}

func NewRoomJoinRequest(member Member) RoomJoinRequest {
	return RoomJoinRequest{member: member, errChan: make(chan error, 1)}
}

type ClientEventEnvelope struct {
	from  Member
	event any
}

type memberState struct {
	member Member
	color  string
}

type Room struct {
	// Identity
	id string

	// Collaboration state
	log      *RoomLog
	registry *Registry
	hub      HubNotifier

	// Members
	memberStates map[string]*memberState

	// Communication
	inbox           chan ClientEventEnvelope
	joinRequests    chan RoomJoinRequest
	removalRequests chan Member
	pings           chan struct{}
	quit            chan struct{}
}

func NewRoom(id string, log *RoomLog, registry *Registry, hub HubNotifier) *Room {
	return &Room{
		id:              id,
		log:             log,
		registry:        registry,
		hub:             hub,
		memberStates:    make(map[string]*memberState),
		inbox:           make(chan ClientEventEnvelope, 1024),
		joinRequests:    make(chan RoomJoinRequest, 16),
		removalRequests: make(chan Member, 64),
		pings:           make(chan struct{}, 1),
		quit:            make(chan struct{}),
	}
}

func (r *Room) ID() string {
	return r.id
}

func (r *Room) Log() *RoomLog {
	return r.log
}

// Submit hands a decoded client event to the actor. The quit case unblocks
// pumps that race with room teardown.
func (r *Room) Submit(env ClientEventEnvelope) {
	select {
	case r.inbox <- env:
	case <-r.quit:
	}
}

// RequestJoin enqueues a join without blocking the hub. Reports whether the
// request was accepted into the queue; when the queue is full the requester
// is answered with ErrRoomFull instead.
func (r *Room) RequestJoin(jreq RoomJoinRequest) bool {
	select {
	case r.joinRequests <- jreq:
		return true
	default:
		jreq.errChan <- ErrRoomFull
		return false
	}
}

func (r *Room) RequestRemove(m Member) {
	select {
	case r.removalRequests <- m:
	case <-r.quit:
	}
}

func (r *Room) PingMembers() {
	select {
	case r.pings <- struct{}{}:
	default:
	}
}

func (r *Room) CloseAndRelease() {
	close(r.quit)
}
