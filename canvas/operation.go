package canvas

type Tool string

const (
	ToolBrush  Tool = "brush"
	ToolEraser Tool = "eraser"
)

func (t Tool) Valid() bool {
	return t == ToolBrush || t == ToolEraser
}

// EraserColor is the canvas background. Eraser strokes are stored with this
// color so every replica composites an erasure the same way regardless of
// what the client sent.
const EraserColor = "#ffffff"

const DefaultMaxStrokeWidth = 100

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Operation is a single stroke. It is mutable only while its author is still
// extending it; once committed to a room's history it is frozen, except that
// redo assigns it a fresh commit timestamp.
type Operation struct {
	ID          string  `json:"id"`
	AuthorID    string  `json:"authorId"`
	Tool        Tool    `json:"tool"`
	Color       string  `json:"color"`
	StrokeWidth int     `json:"strokeWidth"`
	Points      []Point `json:"points"`
	Timestamp   int64   `json:"timestamp"`
}

type MemberInfo struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}
