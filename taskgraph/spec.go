package taskgraph

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/meikuraledutech/canvas"
)

// BuildSpec serializes the whole canvas, rooted at the Input node.
func BuildSpec(nodes []canvas.Node, edges []canvas.Edge) canvas.Spec {
	tasks := BuildTaskTree(canvas.RootNodeID, "", edges, nodes)
	if tasks == nil {
		tasks = []*canvas.Task{}
	}
	return canvas.Spec{Workflow: canvas.TaskTree{
		Type:   canvas.TaskTypeChain,
		IsRoot: true,
		Tasks:  tasks,
	}}
}

// SpecJSON renders BuildSpec as JSON indented with four spaces.
func SpecJSON(nodes []canvas.Node, edges []canvas.Edge) ([]byte, error) {
	out, err := json.MarshalIndent(BuildSpec(nodes, edges), "", "    ")
	if err != nil {
		return nil, fmt.Errorf("taskgraph: marshal spec: %w", err)
	}
	return out, nil
}

// ParseSpec decodes a spec document produced by SpecJSON.
func ParseSpec(data []byte) (*canvas.Spec, error) {
	var s canvas.Spec
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("taskgraph: parse spec: %w", err)
	}
	return &s, nil
}
