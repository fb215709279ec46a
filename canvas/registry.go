package canvas

import "sync"

// Registry tracks which users are present in which room. It is pure
// bookkeeping: rooms own event ordering, the hub owns room lifecycle, the
// registry answers membership queries for join snapshots and the HTTP
// surface.
type Registry struct {
	locker sync.RWMutex
	rooms  map[string]map[string]MemberInfo
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]map[string]MemberInfo)}
}

// Join records the user in roomID. Joining twice is an upsert: the display
// name and color are overwritten, no duplicate entry appears.
func (r *Registry) Join(roomID, userID, name, color string) {
	r.locker.Lock()
	defer r.locker.Unlock()

	members, ok := r.rooms[roomID]
	if !ok {
		members = make(map[string]MemberInfo)
		r.rooms[roomID] = members
	}
	members[userID] = MemberInfo{UserID: userID, Name: name, Color: color}
}

// Leave removes the user and reports whether the room is now empty. Leaving
// a room one is not in is a no-op. Empty rooms are dropped from the map.
func (r *Registry) Leave(roomID, userID string) bool {
	r.locker.Lock()
	defer r.locker.Unlock()

	members, ok := r.rooms[roomID]
	if !ok {
		return true
	}
	delete(members, userID)
	if len(members) == 0 {
		delete(r.rooms, roomID)
		return true
	}
	return false
}

// Members returns a point-in-time copy of the room's membership, in no
// particular order.
func (r *Registry) Members(roomID string) []MemberInfo {
	r.locker.RLock()
	defer r.locker.RUnlock()

	members := r.rooms[roomID]
	out := make([]MemberInfo, 0, len(members))
	for _, m := range members {
		out = append(out, m)
	}
	return out
}

func (r *Registry) Count(roomID string) int {
	r.locker.RLock()
	defer r.locker.RUnlock()
	return len(r.rooms[roomID])
}
