package canvas

import (
	"encoding/json"
	"fmt"
	"time"
)

// Client -> server event types.
const (
	EventStrokeBegin = "strokeBegin"
	EventStrokePoint = "strokePoint"
	EventStrokeEnd   = "strokeEnd"
	EventCursor      = "cursor"
	EventUndo        = "undo"
	EventRedo        = "redo"
	EventClear       = "clear"
)

// Server -> client event types. Stroke, cursor, undo and redo broadcasts
// reuse the client type strings with server-enriched payloads.
const (
	EventJoined       = "joined"
	EventMemberJoined = "memberJoined"
	EventMemberLeft   = "memberLeft"
	EventCleared      = "cleared"
)

// Helper to get current time (boilerplate reduction)
func wallClock() int64 {
	return time.Now().UnixMilli()
}

// --- Client events ---

type StrokeBeginEvent struct {
	Type  string `json:"type"` // "strokeBegin"
	Tool  Tool   `json:"tool"`
	Color string `json:"color"`
	Width int    `json:"width"`
	Point Point  `json:"point"`
}

type StrokePointEvent struct {
	Type  string `json:"type"` // "strokePoint"
	Point Point  `json:"point"`
}

type StrokeEndEvent struct {
	Type string `json:"type"` // "strokeEnd"
}

type CursorEvent struct {
	Type  string `json:"type"` // "cursor"
	Point Point  `json:"point"`
}

type UndoEvent struct {
	Type string `json:"type"` // "undo"
}

type RedoEvent struct {
	Type string `json:"type"` // "redo"
}

type ClearEvent struct {
	Type string `json:"type"` // "clear"
}

// DecodeClientEvent parses one client frame into its typed event. The schema
// is closed: unknown types, unknown tools and malformed JSON are errors, and
// the caller drops the offending connection.
func DecodeClientEvent(data []byte) (any, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("malformed event: %w", err)
	}

	switch head.Type {
	case EventStrokeBegin:
		var ev StrokeBeginEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("malformed %s: %w", head.Type, err)
		}
		if !ev.Tool.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTool, ev.Tool)
		}
		return ev, nil
	case EventStrokePoint:
		var ev StrokePointEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("malformed %s: %w", head.Type, err)
		}
		return ev, nil
	case EventStrokeEnd:
		return StrokeEndEvent{Type: head.Type}, nil
	case EventCursor:
		var ev CursorEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("malformed %s: %w", head.Type, err)
		}
		return ev, nil
	case EventUndo:
		return UndoEvent{Type: head.Type}, nil
	case EventRedo:
		return RedoEvent{Type: head.Type}, nil
	case EventClear:
		return ClearEvent{Type: head.Type}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, head.Type)
	}
}

// --- Server events ---

type JoinedEvent struct {
	Type       string       `json:"type"` // "joined"
	ServerTime int64        `json:"serverTime"`
	UserID     string       `json:"userId"`
	Color      string       `json:"color"`
	Snapshot   []Operation  `json:"snapshot"`
	Members    []MemberInfo `json:"members"`
}

type MemberJoinedBroadcast struct {
	Type       string     `json:"type"` // "memberJoined"
	ServerTime int64      `json:"serverTime"`
	Member     MemberInfo `json:"member"`
}

type MemberLeftBroadcast struct {
	Type       string `json:"type"` // "memberLeft"
	ServerTime int64  `json:"serverTime"`
	UserID     string `json:"userId"`
}

type StrokeBeginBroadcast struct {
	Type        string `json:"type"` // "strokeBegin"
	ServerTime  int64  `json:"serverTime"`
	UserID      string `json:"userId"`
	OperationID string `json:"operationId"`
	Tool        Tool   `json:"tool"`
	Color       string `json:"color"`
	Width       int    `json:"width"`
	Point       Point  `json:"point"`
}

type StrokePointBroadcast struct {
	Type        string `json:"type"` // "strokePoint"
	ServerTime  int64  `json:"serverTime"`
	UserID      string `json:"userId"`
	OperationID string `json:"operationId"`
	Point       Point  `json:"point"`
}

type StrokeEndBroadcast struct {
	Type       string    `json:"type"` // "strokeEnd"
	ServerTime int64     `json:"serverTime"`
	Operation  Operation `json:"operation"`
}

type CursorBroadcast struct {
	Type       string `json:"type"` // "cursor"
	ServerTime int64  `json:"serverTime"`
	UserID     string `json:"userId"`
	Color      string `json:"color"`
	Point      Point  `json:"point"`
}

type UndoBroadcast struct {
	Type        string `json:"type"` // "undo"
	ServerTime  int64  `json:"serverTime"`
	OperationID string `json:"operationId"`
	AuthorID    string `json:"authorId"`
}

type RedoBroadcast struct {
	Type        string `json:"type"` // "redo"
	ServerTime  int64  `json:"serverTime"`
	OperationID string `json:"operationId"`
	AuthorID    string `json:"authorId"`
	Timestamp   int64  `json:"timestamp"`
}

type ClearedBroadcast struct {
	Type       string `json:"type"` // "cleared"
	ServerTime int64  `json:"serverTime"`
}

func makeJoinedEvent(userID, color string, snapshot []Operation, members []MemberInfo) JoinedEvent {
	return JoinedEvent{
		Type:       EventJoined,
		ServerTime: wallClock(),
		UserID:     userID,
		Color:      color,
		Snapshot:   snapshot,
		Members:    members,
	}
}

func makeMemberJoinedBroadcast(member MemberInfo) MemberJoinedBroadcast {
	return MemberJoinedBroadcast{Type: EventMemberJoined, ServerTime: wallClock(), Member: member}
}

func makeMemberLeftBroadcast(userID string) MemberLeftBroadcast {
	return MemberLeftBroadcast{Type: EventMemberLeft, ServerTime: wallClock(), UserID: userID}
}

func makeStrokeBeginBroadcast(op *Operation) StrokeBeginBroadcast {
	return StrokeBeginBroadcast{
		Type:        EventStrokeBegin,
		ServerTime:  wallClock(),
		UserID:      op.AuthorID,
		OperationID: op.ID,
		Tool:        op.Tool,
		Color:       op.Color,
		Width:       op.StrokeWidth,
		Point:       op.Points[0],
	}
}

func makeStrokePointBroadcast(op *Operation, p Point) StrokePointBroadcast {
	return StrokePointBroadcast{
		Type:        EventStrokePoint,
		ServerTime:  wallClock(),
		UserID:      op.AuthorID,
		OperationID: op.ID,
		Point:       p,
	}
}

func makeStrokeEndBroadcast(op *Operation) StrokeEndBroadcast {
	return StrokeEndBroadcast{Type: EventStrokeEnd, ServerTime: wallClock(), Operation: *op}
}

func makeCursorBroadcast(userID, color string, p Point) CursorBroadcast {
	return CursorBroadcast{Type: EventCursor, ServerTime: wallClock(), UserID: userID, Color: color, Point: p}
}

func makeUndoBroadcast(op *Operation) UndoBroadcast {
	return UndoBroadcast{Type: EventUndo, ServerTime: wallClock(), OperationID: op.ID, AuthorID: op.AuthorID}
}

func makeRedoBroadcast(op *Operation) RedoBroadcast {
	return RedoBroadcast{
		Type:        EventRedo,
		ServerTime:  wallClock(),
		OperationID: op.ID,
		AuthorID:    op.AuthorID,
		Timestamp:   op.Timestamp,
	}
}

func makeClearedBroadcast() ClearedBroadcast {
	return ClearedBroadcast{Type: EventCleared, ServerTime: wallClock()}
}

// DecodeServerEvent parses one server frame into its typed event. Client-side
// counterpart of the room's broadcast encoding.
func DecodeServerEvent(data []byte) (any, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("malformed event: %w", err)
	}

	var ev any
	switch head.Type {
	case EventJoined:
		ev = &JoinedEvent{}
	case EventMemberJoined:
		ev = &MemberJoinedBroadcast{}
	case EventMemberLeft:
		ev = &MemberLeftBroadcast{}
	case EventStrokeBegin:
		ev = &StrokeBeginBroadcast{}
	case EventStrokePoint:
		ev = &StrokePointBroadcast{}
	case EventStrokeEnd:
		ev = &StrokeEndBroadcast{}
	case EventCursor:
		ev = &CursorBroadcast{}
	case EventUndo:
		ev = &UndoBroadcast{}
	case EventRedo:
		ev = &RedoBroadcast{}
	case EventCleared:
		ev = &ClearedBroadcast{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, head.Type)
	}
	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("malformed %s: %w", head.Type, err)
	}
	return ev, nil
}
