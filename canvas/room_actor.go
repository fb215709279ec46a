package canvas

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
)

var memberPalette = []string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231", "#911eb4",
	"#46f0f0", "#f032e6", "#bcf60c", "#fabebe", "#008080",
}

// Run is the room actor. Every mutation of the room's log and membership
// happens on this goroutine, which is what gives one room's members a single
// authoritative event order.
func (r *Room) Run() {
	log.Debug().Str("room", r.id).Msg("room actor started")
	for {
		select {
		case jreq := <-r.joinRequests:
			r.handleJoin(jreq)

		case m := <-r.removalRequests:
			r.removeMember(m.UserID(), true)

		case env := <-r.inbox:
			r.handleEvent(env)

		case <-r.pings:
			r.pingMembers()

		case <-r.quit:
			for _, state := range r.memberStates {
				state.member.CancelAndRelease()
			}
			log.Debug().Str("room", r.id).Msg("room actor stopped")
			return
		}
	}
}

func (r *Room) handleJoin(jreq RoomJoinRequest) {
	m := jreq.member
	color := r.pickColor()
	r.memberStates[m.UserID()] = &memberState{member: m, color: color}
	r.registry.Join(r.id, m.UserID(), m.Username(), color)
	m.SetRoom(r)

	joined := makeJoinedEvent(m.UserID(), color, r.log.Snapshot(), r.registry.Members(r.id))
	if err := m.Send(encodeEvent(joined)); err != nil {
		jreq.errChan <- err
		r.removeMember(m.UserID(), false)
		return
	}

	info := MemberInfo{UserID: m.UserID(), Name: m.Username(), Color: color}
	r.broadcast(encodeEvent(makeMemberJoinedBroadcast(info)), m.UserID())
	jreq.errChan <- nil
	log.Info().Str("room", r.id).Str("user", m.UserID()).Str("name", m.Username()).Msg("member joined")
}

func (r *Room) handleEvent(env ClientEventEnvelope) {
	userID := env.from.UserID()
	state, ok := r.memberStates[userID]
	if !ok {
		// Raced with removal, drop it.
		return
	}

	switch ev := env.event.(type) {
	case StrokeBeginEvent:
		r.handleStrokeBegin(userID, ev)

	case StrokePointEvent:
		op, err := r.log.Extend(userID, ev.Point)
		if err != nil {
			// No open stroke, benign.
			return
		}
		r.broadcast(encodeEvent(makeStrokePointBroadcast(op, ev.Point)), userID)

	case StrokeEndEvent:
		if op := r.log.End(userID); op != nil {
			r.broadcast(encodeEvent(makeStrokeEndBroadcast(op)), userID)
		}

	case CursorEvent:
		r.broadcast(encodeEvent(makeCursorBroadcast(userID, state.color, ev.Point)), userID)

	case UndoEvent:
		if op := r.log.Undo(); op != nil {
			r.broadcast(encodeEvent(makeUndoBroadcast(op)), "")
		}

	case RedoEvent:
		if op := r.log.Redo(); op != nil {
			r.broadcast(encodeEvent(makeRedoBroadcast(op)), "")
		}

	case ClearEvent:
		r.log.Clear()
		r.broadcast(encodeEvent(makeClearedBroadcast()), "")
		log.Info().Str("room", r.id).Str("user", userID).Msg("canvas cleared")

	default:
		log.Warn().Str("room", r.id).Msg("unhandled event in room inbox")
	}
}

func (r *Room) handleStrokeBegin(userID string, ev StrokeBeginEvent) {
	op, err := r.log.Begin(userID, ev.Tool, ev.Color, ev.Width, ev.Point)
	if errors.Is(err, ErrStrokeInProgress) {
		// The previous strokeEnd never arrived. Commit what we have so the
		// drawing is not lost, then open the new stroke.
		if stale := r.log.End(userID); stale != nil {
			r.broadcast(encodeEvent(makeStrokeEndBroadcast(stale)), userID)
		}
		op, err = r.log.Begin(userID, ev.Tool, ev.Color, ev.Width, ev.Point)
	}
	if err != nil {
		return
	}
	r.broadcast(encodeEvent(makeStrokeBeginBroadcast(op)), userID)
}

// removeMember is the single exit path for a member: discards their
// unfinished stroke, updates the registry, tells the remaining members and
// the hub. announce is false when the member never completed its join.
func (r *Room) removeMember(userID string, announce bool) {
	state, ok := r.memberStates[userID]
	if !ok {
		return
	}
	delete(r.memberStates, userID)

	if op := r.log.Discard(userID); op != nil {
		log.Debug().Str("room", r.id).Str("user", userID).Str("operation", op.ID).Msg("discarded unfinished stroke")
	}
	r.registry.Leave(r.id, userID)
	if announce {
		r.broadcast(encodeEvent(makeMemberLeftBroadcast(userID)), "")
	}
	state.member.CancelAndRelease()
	r.hub.ClientGone(r.id)
	log.Info().Str("room", r.id).Str("user", userID).Msg("member left")
}

func (r *Room) broadcast(data []byte, excludeUserID string) {
	if data == nil {
		return
	}
	var kicked []string
	for id, state := range r.memberStates {
		if id == excludeUserID {
			continue
		}
		if err := state.member.Send(data); err != nil {
			kicked = append(kicked, id)
		}
	}
	for _, id := range kicked {
		log.Warn().Str("room", r.id).Str("user", id).Msg("kicking slow consumer")
		r.removeMember(id, true)
	}
}

func (r *Room) pingMembers() {
	var kicked []string
	for id, state := range r.memberStates {
		if err := state.member.Ping(); err != nil {
			kicked = append(kicked, id)
		}
	}
	for _, id := range kicked {
		r.removeMember(id, true)
	}
}

func (r *Room) pickColor() string {
	used := make(map[string]bool, len(r.memberStates))
	for _, state := range r.memberStates {
		used[state.color] = true
	}
	for _, c := range memberPalette {
		if !used[c] {
			return c
		}
	}
	return memberPalette[len(r.memberStates)%len(memberPalette)]
}

func encodeEvent(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("encoding server event")
		return nil
	}
	return data
}
