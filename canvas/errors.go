package canvas

import "errors"

var (
	ErrRoomNotFound     = errors.New("room-not-found")
	ErrRoomFull         = errors.New("room-full")
	ErrStrokeInProgress = errors.New("stroke-already-in-progress")
	ErrNoActiveStroke   = errors.New("no-active-stroke")
	ErrUnknownEventType = errors.New("unknown-event-type")
	ErrUnknownTool      = errors.New("unknown-tool")
	ErrSendQueueFull    = errors.New("send-queue-full")
)
