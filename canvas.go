package canvas

// Node types used on the workflow canvas.
const (
	TypeInput    = "Input"
	TypeTask     = "Task"
	TypeCallback = "Callback"
)

// RootNodeID is the id of the single Input node every workflow starts from.
const RootNodeID = "node-1"

// Node geometry shared by the layout and viewport packages.
const (
	NodeWidth      = 180
	InputNodeWidth = 200
	NodeHeight     = 100
)

// Workflow is a persisted canvas: its nodes and the edges between them.
type Workflow struct {
	ID    string `json:"id"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a vertex on the workflow canvas.
// ID is regenerated on every layout pass; Data.UUID is the stable identity.
type Node struct {
	ID      string   `json:"id"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Label   string   `json:"label"`
	Type    string   `json:"type"`
	GroupID string   `json:"groupId,omitempty"`
	Data    TaskData `json:"data"`
}

// TaskData is the task payload carried by a canvas node.
type TaskData struct {
	UUID        string         `json:"uuid,omitempty"`
	TaskName    string         `json:"task_name,omitempty"`
	DisplayName string         `json:"display_name,omitempty"`
	Description string         `json:"description,omitempty"`
	TaskConfig  map[string]any `json:"task_config,omitempty"`
	Status      map[string]any `json:"status,omitempty"`
}

// Edge is a directed connection between two canvas nodes.
// At most one edge exists per ordered pair; its ID is derived from the pair.
type Edge struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// EdgeID returns the derived id for the edge from -> to.
func EdgeID(from, to string) string {
	return "edge-" + from + "-" + to
}

// NewEdge builds an edge with its derived id.
func NewEdge(from, to string) Edge {
	return Edge{ID: EdgeID(from, to), From: from, To: to}
}

// Width returns the rendered width of the node.
func (n Node) Width() float64 {
	if n.Type == TypeInput {
		return InputNodeWidth
	}
	return NodeWidth
}

// Identity returns Data.UUID, falling back to the node id.
func (n Node) Identity() string {
	if n.Data.UUID != "" {
		return n.Data.UUID
	}
	return n.ID
}

// Node returns the node with the given id, or nil.
func (w *Workflow) Node(id string) *Node {
	for i := range w.Nodes {
		if w.Nodes[i].ID == id {
			return &w.Nodes[i]
		}
	}
	return nil
}

// Clone returns a copy of d whose task_config and status maps, and any maps
// or slices nested in them, are not shared with d.
func (d TaskData) Clone() TaskData {
	d.TaskConfig = cloneMap(d.TaskConfig)
	d.Status = cloneMap(d.Status)
	return d
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}
