// Package layout turns a nested workflow task-tree into absolute canvas
// positions and edges.
//
// Tasks are placed depth first, one column per tree level. Sibling lists are
// stacked vertically; siblings sharing a group are packed tightly, while a
// sibling following a structurally complex one (a chord, a fan-out, or a
// subtree ending in a chord) starts a new visual group. A chord's callback is
// placed one column right of its deepest branch, vertically centered on the
// branch block. A final pass keeps blocks in the same column apart.
package layout

import (
	"cmp"
	"maps"
	"strconv"
	"strings"

	"github.com/meikuraledutech/canvas"
	"github.com/meikuraledutech/canvas/idgen"
	"github.com/meikuraledutech/canvas/taskgraph"
)

// Layout constants, in pixels.
const (
	ColumnSpacing = 320
	// NodeCenterOffset is subtracted from a block's midpoint to center the
	// rendered node body (80% of NodeHeight) on it.
	NodeCenterOffset = 40
	IntraGroupGap    = 30
	GroupBoundaryGap = 130

	DefaultStartX = 100
	DefaultStartY = 100
)

// Result is the output of a layout pass.
type Result struct {
	Nodes      []canvas.Node  `json:"nodes"`
	Edges      []canvas.Edge  `json:"edges"`
	NextID     int            `json:"nextId"`
	RootHeight float64        `json:"rootHeight"`
	Tasks      []*canvas.Task `json:"tasks"`
}

// StatusMap carries per-task status fields keyed by task uuid.
type StatusMap map[string]map[string]any

type options struct {
	startX, startY float64
	nextID         int
	groupIDs       idgen.Generator
	inputNode      bool
}

// Option configures Compute.
type Option func(*options)

// WithStart sets the position of the first column and the top of the tree.
func WithStart(x, y float64) Option {
	return func(o *options) { o.startX, o.startY = x, y }
}

// WithNextID sets the counter used for tasks without a uuid.
func WithNextID(id int) Option {
	return func(o *options) { o.nextID = id }
}

// WithGroupIDs injects the generator for synthetic group ids.
func WithGroupIDs(g idgen.Generator) Option {
	return func(o *options) { o.groupIDs = g }
}

// WithInputNode makes Compute emit the Input node at the start column and
// shift the tree one column right, unless the tree already contains node-1.
func WithInputNode() Option {
	return func(o *options) { o.inputNode = true }
}

// Compute lays out the task tree. The tree is not modified; the normalized
// copy with every generated uuid is returned in Result.Tasks.
func Compute(tree canvas.TaskTree, status StatusMap, opts ...Option) Result {
	o := options{startX: DefaultStartX, startY: DefaultStartY}
	for _, opt := range opts {
		opt(&o)
	}
	o.groupIDs = idgen.Or(o.groupIDs)

	tasks := canvas.CloneTasks(tree.Tasks)
	if o.nextID <= 0 {
		o.nextID = max(highestNodeNumber(tasks)+1, 2)
	}

	e := &engine{
		opts:    o,
		status:  status,
		nodeIdx: make(map[string]bool),
		edgeIdx: make(map[string]bool),
		nextID:  o.nextID,
	}
	e.assignUUIDs(tasks)

	baseDepth := 0
	withInput := o.inputNode && taskgraph.FlattenTasks(tasks, nil)[canvas.RootNodeID] == nil
	inputIdx := -1
	if withInput {
		baseDepth = 1
		inputIdx = e.addNode(canvas.Node{
			ID:    canvas.RootNodeID,
			X:     o.startX,
			Label: "Input",
			Type:  canvas.TypeInput,
			Data:  canvas.TaskData{UUID: canvas.RootNodeID},
		})
	}

	rootHeight := e.placeList(tasks, []string{canvas.RootNodeID}, baseDepth, o.startY)
	if inputIdx >= 0 {
		e.nodes[inputIdx].Y = o.startY + max(rootHeight, canvas.NodeHeight)/2 - NodeCenterOffset
	}

	nodes := ResolveGroupCollisions(e.nodes)
	if nodes == nil {
		nodes = []canvas.Node{}
	}
	edges := e.edges
	if edges == nil {
		edges = []canvas.Edge{}
	}
	if tasks == nil {
		tasks = []*canvas.Task{}
	}
	return Result{
		Nodes:      nodes,
		Edges:      edges,
		NextID:     e.nextID,
		RootHeight: rootHeight,
		Tasks:      tasks,
	}
}

type engine struct {
	opts    options
	status  StatusMap
	nodes   []canvas.Node
	nodeIdx map[string]bool
	edges   []canvas.Edge
	edgeIdx map[string]bool
	nextID  int
}

// assignUUIDs gives every task and callback without a uuid a node-N id.
func (e *engine) assignUUIDs(tasks []*canvas.Task) {
	for _, t := range tasks {
		if t == nil {
			continue
		}
		if !t.IsChord() && t.UUID == "" {
			t.UUID = "node-" + strconv.Itoa(e.nextID)
			e.nextID++
		}
		e.assignUUIDs(t.Tasks)
		if t.Callback != nil {
			e.assignUUIDs([]*canvas.Task{t.Callback})
		}
	}
}

// addNode appends n unless a node with the same id exists and returns its
// index, or -1 for a duplicate.
func (e *engine) addNode(n canvas.Node) int {
	if e.nodeIdx[n.ID] {
		return -1
	}
	e.nodeIdx[n.ID] = true
	e.nodes = append(e.nodes, n)
	return len(e.nodes) - 1
}

func (e *engine) addEdge(from, to string) {
	edge := canvas.NewEdge(from, to)
	if e.edgeIdx[edge.ID] {
		return
	}
	e.edgeIdx[edge.ID] = true
	e.edges = append(e.edges, edge)
}

func (e *engine) columnX(depth int) float64 {
	return e.opts.startX + float64(depth)*ColumnSpacing
}

// placeList stacks a sibling list starting at y and returns its height.
func (e *engine) placeList(tasks []*canvas.Task, parents []string, depth int, y float64) float64 {
	tasks = compact(tasks)
	if len(tasks) == 0 {
		return 0
	}

	var synthetic string
	groupOf := func(t *canvas.Task) string {
		if t.IsChord() {
			return ""
		}
		if t.GroupID != "" {
			return t.GroupID
		}
		if len(tasks) > 1 {
			if synthetic == "" {
				synthetic = e.opts.groupIDs.GroupID()
			}
			return synthetic
		}
		return ""
	}

	cur := y
	var prev *canvas.Task
	var prevGroup string
	for _, t := range tasks {
		group := groupOf(t)
		if prev != nil {
			cur += siblingGap(prev, prevGroup, group)
		}
		cur += e.placeElement(t, parents, depth, cur, group)
		prev, prevGroup = t, group
	}
	return cur - y
}

func siblingGap(prev *canvas.Task, prevGroup, group string) float64 {
	if isComplex(prev) {
		return GroupBoundaryGap
	}
	if prevGroup != "" && prevGroup == group {
		return IntraGroupGap
	}
	return GroupBoundaryGap
}

// isComplex reports whether the next sibling after t starts a new visual group.
func isComplex(t *canvas.Task) bool {
	return t.IsChord() || len(t.Tasks) > 1 || endsInChord(t)
}

func endsInChord(t *canvas.Task) bool {
	for t != nil {
		if t.IsChord() {
			return true
		}
		if len(t.Tasks) == 0 {
			return false
		}
		t = t.Tasks[len(t.Tasks)-1]
	}
	return false
}

// placeElement places one list element (task or chord) at the top y and
// returns the height of its block.
func (e *engine) placeElement(t *canvas.Task, parents []string, depth int, y float64, group string) float64 {
	if t.IsChord() {
		return e.placeChord(t, parents, depth, y)
	}
	return e.placeTask(t, canvas.TypeTask, parents, depth, y, group)
}

func (e *engine) placeTask(t *canvas.Task, typ string, parents []string, depth int, y float64, group string) float64 {
	idx := e.addNode(e.nodeFor(t, typ, depth, group))
	for _, p := range parents {
		e.addEdge(p, t.UUID)
	}

	childHeight := e.placeList(t.Tasks, []string{t.UUID}, depth+1, y)
	height := max(float64(canvas.NodeHeight), childHeight)
	if idx >= 0 {
		e.nodes[idx].Y = y + height/2 - NodeCenterOffset
	}
	return height
}

func (e *engine) placeChord(t *canvas.Task, parents []string, depth int, y float64) float64 {
	branches := compact(t.Tasks)
	cb := t.Callback
	if len(branches) == 0 {
		if cb == nil {
			return 0
		}
		return e.placeTask(cb, canvas.TypeCallback, parents, depth, y, cb.GroupID)
	}

	branchHeight := e.placeList(branches, parents, depth, y)
	if cb == nil {
		return branchHeight
	}

	cbDepth := depth + 1 + listExtent(branches)
	idx := e.addNode(e.nodeFor(cb, canvas.TypeCallback, cbDepth, cb.GroupID))
	if idx >= 0 {
		e.nodes[idx].Y = y + branchHeight/2 - NodeCenterOffset
	}
	for _, b := range branches {
		for _, tail := range taskgraph.FindTails(b) {
			e.addEdge(tail, cb.UUID)
		}
	}

	cbChildHeight := e.placeList(cb.Tasks, []string{cb.UUID}, cbDepth+1, y)
	return max(branchHeight, cbChildHeight, canvas.NodeHeight)
}

func (e *engine) nodeFor(t *canvas.Task, typ string, depth int, group string) canvas.Node {
	if t.UUID == canvas.RootNodeID {
		typ = canvas.TypeInput
	}
	defaultLabel := "Task"
	if typ == canvas.TypeCallback {
		defaultLabel = "Callback"
	}

	data := canvas.TaskData{
		UUID:        t.UUID,
		TaskName:    t.TaskName,
		DisplayName: t.DisplayName,
		Description: t.Description,
		TaskConfig:  maps.Clone(t.TaskConfig),
	}
	if st, ok := e.status[t.UUID]; ok {
		data.Status = maps.Clone(st)
	}

	return canvas.Node{
		ID:      t.UUID,
		X:       e.columnX(depth),
		Label:   cmp.Or(t.DisplayName, t.TaskName, defaultLabel),
		Type:    typ,
		GroupID: group,
		Data:    data,
	}
}

// listExtent is the number of columns a sibling list occupies beyond its own.
func listExtent(tasks []*canvas.Task) int {
	ext := 0
	for _, t := range tasks {
		ext = max(ext, extent(t))
	}
	return ext
}

func extent(t *canvas.Task) int {
	if t == nil {
		return 0
	}
	if t.IsChord() {
		ext := listExtent(t.Tasks)
		if t.Callback != nil {
			ext += 1 + extent(t.Callback)
		}
		return ext
	}
	if len(compact(t.Tasks)) == 0 {
		return 0
	}
	return 1 + listExtent(t.Tasks)
}

func compact(tasks []*canvas.Task) []*canvas.Task {
	for _, t := range tasks {
		if t == nil {
			out := make([]*canvas.Task, 0, len(tasks))
			for _, t := range tasks {
				if t != nil {
					out = append(out, t)
				}
			}
			return out
		}
	}
	return tasks
}

// highestNodeNumber returns the largest N among node-N uuids in the tree.
func highestNodeNumber(tasks []*canvas.Task) int {
	highest := 0
	for id := range taskgraph.FlattenTasks(tasks, nil) {
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "node-")); err == nil && strings.HasPrefix(id, "node-") {
			highest = max(highest, n)
		}
	}
	return highest
}
