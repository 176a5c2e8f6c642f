package editor

// Tool is the active pointer tool. Bucket, Line and Circle are one-shot:
// the session returns to Pencil after each commit.
type Tool int

const (
	ToolPencil Tool = iota
	ToolBucket
	ToolLine
	ToolCircle
)

var toolNames = []string{"PENCIL", "BUCKET", "LINE", "CIRCLE"}

func (t Tool) String() string {
	if t >= 0 && int(t) < len(toolNames) {
		return toolNames[t]
	}
	return "UNKNOWN"
}

// oneShot reports whether the tool reverts to Pencil after use.
func (t Tool) oneShot() bool { return t != ToolPencil }

// Change describes what a state change touched. Values combine as bit flags.
type Change uint8

const (
	ChangeCanvas Change = 1 << iota
	ChangeLayers
	ChangeTool
	ChangeColors
	ChangeHistory
)

// Has reports whether c includes all of f.
func (c Change) Has(f Change) bool { return c&f == f }
