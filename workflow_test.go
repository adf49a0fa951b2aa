package canvas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWorkflow() *Workflow {
	return &Workflow{
		ID: "wf",
		Nodes: []Node{
			{ID: RootNodeID, Type: TypeInput},
			{ID: "a", Type: TypeTask, GroupID: "g"},
			{ID: "b", Type: TypeTask, GroupID: "g"},
			{ID: "c", Type: TypeTask},
		},
		Edges: []Edge{
			NewEdge(RootNodeID, "a"), NewEdge(RootNodeID, "b"), NewEdge("a", "c"),
		},
	}
}

func TestEdgeID(t *testing.T) {
	assert.Equal(t, "edge-node-1-node-2", EdgeID("node-1", "node-2"))
	assert.Equal(t, Edge{ID: "edge-a-b", From: "a", To: "b"}, NewEdge("a", "b"))
}

func TestNodeWidth(t *testing.T) {
	assert.Equal(t, 200.0, Node{Type: TypeInput}.Width())
	assert.Equal(t, 180.0, Node{Type: TypeTask}.Width())
}

func TestRemoveNode(t *testing.T) {
	w := sampleWorkflow()
	require.NoError(t, w.RemoveNode("a"))

	assert.Nil(t, w.Node("a"))
	assert.Equal(t, []Edge{NewEdge(RootNodeID, "b")}, w.Edges)
	assert.Empty(t, w.Node("b").GroupID, "a group with one member left is dissolved")
}

func TestRemoveNode_Errors(t *testing.T) {
	w := sampleWorkflow()
	assert.ErrorIs(t, w.RemoveNode(RootNodeID), ErrRootNode)
	assert.ErrorIs(t, w.RemoveNode("zzz"), ErrNodeNotFound)
	assert.Len(t, w.Nodes, 4)
}

func TestValidate(t *testing.T) {
	require.NoError(t, sampleWorkflow().Validate())

	tests := []struct {
		name   string
		mutate func(w *Workflow)
		want   error
	}{
		{"missing input", func(w *Workflow) { w.Nodes = w.Nodes[1:]; w.Edges = nil }, ErrInvalidWorkflow},
		{"second input", func(w *Workflow) { w.Nodes[1].Type = TypeInput }, ErrInvalidWorkflow},
		{"duplicate node", func(w *Workflow) { w.Nodes[2].ID = "a" }, ErrInvalidWorkflow},
		{"dangling edge", func(w *Workflow) { w.Edges = append(w.Edges, NewEdge("a", "ghost")) }, ErrInvalidWorkflow},
		{"duplicate edge", func(w *Workflow) { w.Edges = append(w.Edges, NewEdge("a", "c")) }, ErrInvalidWorkflow},
		{"custom edge id", func(w *Workflow) { w.Edges[2].ID = "a-to-c" }, ErrInvalidWorkflow},
		{"same pair twice", func(w *Workflow) { w.Edges = append(w.Edges, Edge{ID: "other", From: "a", To: "c"}) }, ErrInvalidWorkflow},
		{"root not input", func(w *Workflow) { w.Nodes[0].Type = TypeTask }, ErrInvalidWorkflow},
		{"cycle", func(w *Workflow) { w.Edges = append(w.Edges, NewEdge("c", "a")) }, ErrCycleDetected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := sampleWorkflow()
			tt.mutate(w)
			assert.ErrorIs(t, w.Validate(), tt.want)
		})
	}
}

func TestValidateNode(t *testing.T) {
	assert.NoError(t, ValidateNode(Node{ID: RootNodeID, Type: TypeInput}))
	assert.NoError(t, ValidateNode(Node{ID: "node-7", Type: TypeCallback}))
	assert.ErrorIs(t, ValidateNode(Node{Type: TypeTask}), ErrInvalidWorkflow)
	assert.ErrorIs(t, ValidateNode(Node{ID: "node-2", Type: TypeInput}), ErrInvalidWorkflow)
	assert.ErrorIs(t, ValidateNode(Node{ID: RootNodeID, Type: TypeTask}), ErrInvalidWorkflow)
}

func TestNormalizeEdge(t *testing.T) {
	e := Edge{From: "a", To: "b"}
	require.NoError(t, NormalizeEdge(&e))
	assert.Equal(t, "edge-a-b", e.ID)

	e = NewEdge("a", "b")
	require.NoError(t, NormalizeEdge(&e))

	e = Edge{ID: "mine", From: "a", To: "b"}
	assert.ErrorIs(t, NormalizeEdge(&e), ErrInvalidWorkflow)
}

func TestValidateAcyclic_EdgeOnlyNodes(t *testing.T) {
	assert.NoError(t, ValidateAcyclic(nil, []Edge{NewEdge("x", "y")}))
	assert.ErrorIs(t, ValidateAcyclic(nil, []Edge{NewEdge("x", "x")}), ErrCycleDetected)
}

func TestBounds(t *testing.T) {
	nodes := []Node{{X: 100, Y: 50}, {X: 140, Y: 200}}

	b, ok := Bounds(nodes)
	require.True(t, ok)
	assert.Equal(t, Box{MinX: 100, MinY: 50, MaxX: 320, MaxY: 300}, b)
	assert.Equal(t, 250.0, b.Height())

	_, ok = Bounds(nil)
	assert.False(t, ok)
}

func TestDissolveSmallGroups(t *testing.T) {
	in := []Node{{ID: "a", GroupID: "solo"}, {ID: "b", GroupID: "pair"}, {ID: "c", GroupID: "pair"}}
	out := DissolveSmallGroups(in)

	assert.Empty(t, out[0].GroupID)
	assert.Equal(t, "pair", out[1].GroupID)
	assert.Equal(t, "solo", in[0].GroupID, "input is left untouched")
}

func TestTaskMarshalJSON(t *testing.T) {
	leaf := Task{UUID: "a", TaskName: "t", DisplayName: "A", Description: "d"}
	out, err := json.Marshal(leaf)
	require.NoError(t, err)
	assert.Equal(t,
		`{"uuid":"a","task_name":"t","display_name":"A","description":"d","task_config":{},"type":"task","tasks":[]}`,
		string(out))

	chord := Task{Type: TaskTypeChord, Tasks: []*Task{{UUID: "b"}}, Callback: &Task{UUID: "c"}}
	out, err = json.Marshal(chord)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "chord", decoded["type"])
	assert.NotContains(t, decoded, "uuid")
	assert.Contains(t, decoded, "callback")
}

func TestTaskMarshalJSON_KeepsGroupID(t *testing.T) {
	out, err := json.Marshal(Task{UUID: "a", GroupID: "g"})
	require.NoError(t, err)
	assert.Equal(t,
		`{"uuid":"a","task_name":"","display_name":"","description":"","task_config":{},"type":"task","tasks":[],"groupId":"g"}`,
		string(out))

	var back Task
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "g", back.GroupID)
}

func TestTaskClone(t *testing.T) {
	orig := &Task{UUID: "a", TaskConfig: map[string]any{"k": "v"}, Tasks: []*Task{{UUID: "b"}}, Callback: &Task{UUID: "c"}}
	c := orig.Clone()

	c.Tasks[0].UUID = "changed"
	c.TaskConfig["k"] = "changed"
	c.Callback.UUID = "changed"

	assert.Equal(t, "b", orig.Tasks[0].UUID)
	assert.Equal(t, "v", orig.TaskConfig["k"])
	assert.Equal(t, "c", orig.Callback.UUID)
	assert.Nil(t, (*Task)(nil).Clone())
}

func TestTaskDataClone(t *testing.T) {
	orig := TaskData{
		UUID:       "a",
		TaskConfig: map[string]any{"paths": []any{"/var/log"}, "opts": map[string]any{"deep": true}},
		Status:     map[string]any{"state": "running"},
	}
	c := orig.Clone()

	c.TaskConfig["paths"].([]any)[0] = "/tmp"
	c.TaskConfig["opts"].(map[string]any)["deep"] = false
	c.Status["state"] = "done"

	assert.Equal(t, "/var/log", orig.TaskConfig["paths"].([]any)[0])
	assert.Equal(t, true, orig.TaskConfig["opts"].(map[string]any)["deep"])
	assert.Equal(t, "running", orig.Status["state"])
	assert.Nil(t, TaskData{}.Clone().TaskConfig)
}
