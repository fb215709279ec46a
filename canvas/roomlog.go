package canvas

import (
	"sync"
	"time"
)

// RoomLog holds one room's drawing history: committed strokes in replay
// order, the room-wide undo stack, and each member's in-progress stroke.
// Mutations arrive serialized through the room actor; the mutex exists for
// the read-side consumers (room listing, PDF export) that take snapshots
// without entering the actor.
type RoomLog struct {
	locker     sync.Mutex
	idGen      UniqueIdGenerator
	now        func() time.Time
	maxWidth   int
	committed  []*Operation
	undone     []*Operation
	inProgress map[string]*Operation
	lastStamp  int64
}

func NewRoomLog(idGen UniqueIdGenerator, maxWidth int) *RoomLog {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxStrokeWidth
	}
	return &RoomLog{
		idGen:      idGen,
		now:        time.Now,
		maxWidth:   maxWidth,
		inProgress: make(map[string]*Operation),
	}
}

// Begin opens a stroke for userID. The operation gets its id immediately so
// peers can correlate the point stream; the commit timestamp is assigned at
// End. Eraser strokes are stored with the background color, widths are
// clamped to [1, maxWidth].
func (l *RoomLog) Begin(userID string, tool Tool, color string, width int, first Point) (*Operation, error) {
	l.locker.Lock()
	defer l.locker.Unlock()

	if _, busy := l.inProgress[userID]; busy {
		return nil, ErrStrokeInProgress
	}
	if tool == ToolEraser {
		color = EraserColor
	}
	op := &Operation{
		ID:          l.idGen.Generate(),
		AuthorID:    userID,
		Tool:        tool,
		Color:       color,
		StrokeWidth: clampWidth(width, l.maxWidth),
		Points:      []Point{first},
	}
	l.inProgress[userID] = op
	return op, nil
}

func (l *RoomLog) Extend(userID string, p Point) (*Operation, error) {
	l.locker.Lock()
	defer l.locker.Unlock()

	op, ok := l.inProgress[userID]
	if !ok {
		return nil, ErrNoActiveStroke
	}
	op.Points = append(op.Points, p)
	return op, nil
}

// End commits userID's in-progress stroke and returns it, or nil when there
// is none. Committing invalidates the redo stack.
func (l *RoomLog) End(userID string) *Operation {
	l.locker.Lock()
	defer l.locker.Unlock()

	op, ok := l.inProgress[userID]
	if !ok {
		return nil
	}
	delete(l.inProgress, userID)
	op.Timestamp = l.nextStamp()
	l.committed = append(l.committed, op)
	l.undone = nil
	return op
}

// Discard drops userID's in-progress stroke without committing it. Used when
// a member disconnects mid-stroke.
func (l *RoomLog) Discard(userID string) *Operation {
	l.locker.Lock()
	defer l.locker.Unlock()

	op, ok := l.inProgress[userID]
	if !ok {
		return nil
	}
	delete(l.inProgress, userID)
	return op
}

// Undo removes the most recently committed stroke, whoever drew it, and
// parks it on the redo stack. Returns nil when the history is empty.
func (l *RoomLog) Undo() *Operation {
	l.locker.Lock()
	defer l.locker.Unlock()

	if len(l.committed) == 0 {
		return nil
	}
	op := l.committed[len(l.committed)-1]
	l.committed = l.committed[:len(l.committed)-1]
	l.undone = append(l.undone, op)
	return op
}

// Redo re-commits the most recently undone stroke at the end of the history
// with a fresh timestamp, so the committed order stays ordered by commit
// time. Returns nil when there is nothing to redo.
func (l *RoomLog) Redo() *Operation {
	l.locker.Lock()
	defer l.locker.Unlock()

	if len(l.undone) == 0 {
		return nil
	}
	op := l.undone[len(l.undone)-1]
	l.undone = l.undone[:len(l.undone)-1]
	op.Timestamp = l.nextStamp()
	l.committed = append(l.committed, op)
	return op
}

// Clear wipes the whole room state, in-progress strokes included.
func (l *RoomLog) Clear() {
	l.locker.Lock()
	defer l.locker.Unlock()

	l.committed = nil
	l.undone = nil
	l.inProgress = make(map[string]*Operation)
}

// Snapshot returns value copies of the committed strokes in replay order.
// In-progress strokes are never part of a snapshot.
func (l *RoomLog) Snapshot() []Operation {
	l.locker.Lock()
	defer l.locker.Unlock()

	snap := make([]Operation, len(l.committed))
	for i, op := range l.committed {
		snap[i] = *op
	}
	return snap
}

func (l *RoomLog) Len() int {
	l.locker.Lock()
	defer l.locker.Unlock()
	return len(l.committed)
}

// nextStamp returns wall-clock unix millis bumped to stay strictly above the
// previous commit, so replay order is never ambiguous even when two commits
// land in the same millisecond or the clock steps backwards.
func (l *RoomLog) nextStamp() int64 {
	stamp := l.now().UnixMilli()
	if stamp <= l.lastStamp {
		stamp = l.lastStamp + 1
	}
	l.lastStamp = stamp
	return stamp
}

func clampWidth(width, max int) int {
	if width < 1 {
		return 1
	}
	if width > max {
		return max
	}
	return width
}
