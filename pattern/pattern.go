// Package pattern builds canned workflow subgraphs (chains, fan-out groups,
// chords) and single callback insertions as node/edge deltas that a canvas
// merges into its current graph.
package pattern

import (
	"cmp"
	"strconv"

	"github.com/meikuraledutech/canvas"
	"github.com/meikuraledutech/canvas/idgen"
	"github.com/meikuraledutech/canvas/taskgraph"
)

// Template placement, in pixels.
const (
	OriginX       = 100
	TemplateY     = 300
	ChainStepX    = 200
	FanOutStepX   = 200
	FanOutStepY   = 120
	CallbackShift = 400
)

// Template is a generated subgraph hanging off the Input node.
type Template struct {
	Nodes  []canvas.Node `json:"nodes"`
	Edges  []canvas.Edge `json:"edges"`
	NextID int           `json:"nextId"`
}

// Insertion is a single node added next to existing ones.
type Insertion struct {
	Node   canvas.Node   `json:"node"`
	Edges  []canvas.Edge `json:"edges"`
	NextID int           `json:"nextId"`
}

func nodeID(n int) string {
	return "node-" + strconv.Itoa(n)
}

func newTask(id, label, typ string, x, y float64) canvas.Node {
	return canvas.Node{
		ID:    id,
		X:     x,
		Y:     y,
		Label: label,
		Type:  typ,
		Data: canvas.TaskData{
			UUID:        idgen.TaskUUID(),
			TaskName:    taskgraph.DefaultTaskName,
			DisplayName: label,
			Description: taskgraph.DefaultDescription,
			TaskConfig:  map[string]any{},
		},
	}
}

// fanY returns the y of the i-th of count rows centered on TemplateY.
func fanY(i, count int) float64 {
	return TemplateY + (float64(i)-float64(count-1)/2)*FanOutStepY
}

// Chain generates count tasks in a line from the Input node.
func Chain(count, startID int) Template {
	t := Template{NextID: startID}
	prev := canvas.RootNodeID
	for i := range max(count, 0) {
		id := nodeID(t.NextID)
		t.NextID++
		t.Nodes = append(t.Nodes, newTask(id, "Task "+strconv.Itoa(i+1), canvas.TypeTask,
			OriginX+float64(i+1)*ChainStepX, TemplateY))
		t.Edges = append(t.Edges, canvas.NewEdge(prev, id))
		prev = id
	}
	return t
}

// Group generates one parent off the Input node fanning out into count
// children that share a group.
func Group(count, startID int, gen idgen.Generator) Template {
	t := Template{NextID: startID}
	if count <= 0 {
		return t
	}

	parentID := nodeID(t.NextID)
	t.NextID++
	t.Nodes = append(t.Nodes, newTask(parentID, "Task 1", canvas.TypeTask, OriginX+FanOutStepX, TemplateY))
	t.Edges = append(t.Edges, canvas.NewEdge(canvas.RootNodeID, parentID))

	group := idgen.Or(gen).GroupID()
	for i := range count {
		id := nodeID(t.NextID)
		t.NextID++
		n := newTask(id, "Task "+strconv.Itoa(i+2), canvas.TypeTask, OriginX+2*FanOutStepX, fanY(i, count))
		n.GroupID = group
		t.Nodes = append(t.Nodes, n)
		t.Edges = append(t.Edges, canvas.NewEdge(parentID, id))
	}
	t.Nodes = canvas.DissolveSmallGroups(t.Nodes)
	return t
}

// Chord generates count parallel tasks off the Input node that converge on
// one callback.
func Chord(count, startID int, gen idgen.Generator) Template {
	t := Template{NextID: startID}
	if count <= 0 {
		return t
	}

	group := idgen.Or(gen).GroupID()
	branchIDs := make([]string, 0, count)
	for i := range count {
		id := nodeID(t.NextID)
		t.NextID++
		n := newTask(id, "Task "+strconv.Itoa(i+1), canvas.TypeTask, OriginX+FanOutStepX, fanY(i, count))
		n.GroupID = group
		t.Nodes = append(t.Nodes, n)
		t.Edges = append(t.Edges, canvas.NewEdge(canvas.RootNodeID, id))
		branchIDs = append(branchIDs, id)
	}

	cbID := nodeID(t.NextID)
	t.NextID++
	cb := newTask(cbID, "Callback", canvas.TypeCallback, OriginX+2*FanOutStepX, TemplateY)
	cb.Data.Description = taskgraph.DefaultCallbackDescription
	t.Nodes = append(t.Nodes, cb)
	for _, id := range branchIDs {
		t.Edges = append(t.Edges, canvas.NewEdge(id, cbID))
	}
	t.Nodes = canvas.DissolveSmallGroups(t.Nodes)
	return t
}

// GroupCallback places a callback right of the group's bounding box,
// vertically centered on it, with an edge from every member. It returns nil
// for an empty group.
func GroupCallback(groupNodes []canvas.Node, data canvas.TaskData, startID int) *Insertion {
	ext, ok := canvas.Extent(groupNodes)
	if !ok {
		return nil
	}

	id := nodeID(startID)
	label := cmp.Or(data.DisplayName, "Callback "+strconv.Itoa(startID))
	n := newTask(id, label, canvas.TypeCallback, ext.MaxX+CallbackShift, (ext.MinY+ext.MaxY)/2)
	n.Data.TaskName = cmp.Or(data.TaskName, n.Data.TaskName)
	n.Data.Description = cmp.Or(data.Description, taskgraph.DefaultCallbackDescription)
	if data.TaskConfig != nil {
		n.Data.TaskConfig = data.TaskConfig
	}

	ins := &Insertion{Node: n, NextID: startID + 1}
	for _, m := range groupNodes {
		ins.Edges = append(ins.Edges, canvas.NewEdge(m.ID, id))
	}
	return ins
}
