package investigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func positions(l Layout) map[string]*LayoutNode {
	out := make(map[string]*LayoutNode, len(l.Nodes))
	for _, n := range l.Nodes {
		out[n.ID] = n
	}
	return out
}

func sampleGraph() *Graph {
	g := NewGraph()
	g.AddNode("q1", map[string]any{"type": TypeQuestion})
	g.AddNode("l1", map[string]any{"type": TypeLead})
	g.AddNode("h1", map[string]any{"type": TypeHypothesis})
	g.AddNode("t1", map[string]any{"type": TypeTask})
	g.AddEdge("q1", "l1")
	g.AddEdge("l1", "h1")
	g.AddEdge("h1", "t1")
	return g
}

func TestCalculateLayout_HypothesisCollapsedByDefault(t *testing.T) {
	l := CalculateLayout(sampleGraph(), nil)

	nodes := positions(l)
	require.Len(t, nodes, 3)
	assert.NotContains(t, nodes, "t1")
	assert.True(t, nodes["h1"].Collapsed)
	assert.Equal(t, 1, nodes["h1"].ChildCount)
	assert.Equal(t, 700.0, nodes["h1"].X)
	assert.Len(t, l.Edges, 2)
}

func TestCalculateLayout_Expanded(t *testing.T) {
	l := CalculateLayout(sampleGraph(), map[string]bool{"h1": true})

	nodes := positions(l)
	require.Contains(t, nodes, "t1")
	assert.False(t, nodes["h1"].Collapsed)
	assert.Equal(t, 1050.0, nodes["t1"].X)
	assert.Equal(t, []LayoutEdge{
		{ID: "edge-q1-l1", From: "q1", To: "l1"},
		{ID: "edge-l1-h1", From: "l1", To: "h1"},
		{ID: "edge-h1-t1", From: "h1", To: "t1"},
	}, l.Edges)
	assert.Equal(t, 1050.0+NodeWidth, l.Width)
	assert.Equal(t, float64(NodeHeight), l.Height)
}

func TestCalculateLayout_ParentCenteredOnChildren(t *testing.T) {
	g := NewGraph()
	g.AddEdge("r", "c1")
	g.AddEdge("r", "c2")

	nodes := positions(CalculateLayout(g, nil))

	assert.Equal(t, 0.0, nodes["c1"].Y)
	assert.Equal(t, float64(NodeHeight+VerticalSpacing), nodes["c2"].Y)
	assert.Equal(t, (nodes["c1"].Y+nodes["c2"].Y)/2, nodes["r"].Y)
	assert.Equal(t, float64(2*NodeHeight+VerticalSpacing), nodes["r"].Height)
	assert.Equal(t, 2, nodes["r"].ChildCount)
}

func TestCalculateLayout_StacksRoots(t *testing.T) {
	g := NewGraph()
	g.AddEdge("r1", "a")
	g.AddEdge("r1", "b")
	g.AddNode("r2", nil)

	l := CalculateLayout(g, nil)
	nodes := positions(l)

	assert.Equal(t, 260.0+VerticalSpacing, nodes["r2"].Y)
	assert.Equal(t, 0.0, nodes["r2"].X)
	assert.Equal(t, 280.0+NodeHeight, l.Height)
	assert.Equal(t, float64(NodeWidth+HorizontalSpacing+NodeWidth), l.Width)
}

func TestCalculateLayout_SectionCollapsed(t *testing.T) {
	g := NewGraph()
	g.AddNode("s", map[string]any{"type": TypeSection})
	g.AddEdge("s", "q")

	l := CalculateLayout(g, nil)
	require.Len(t, l.Nodes, 1)
	assert.Equal(t, 1, l.Nodes[0].ChildCount)

	l = CalculateLayout(g, map[string]bool{"s": true})
	assert.Len(t, l.Nodes, 2)
}

func TestCalculateLayout_CycleTerminates(t *testing.T) {
	g := NewGraph()
	g.AddNode("root", nil)
	g.AddEdge("root", "a")
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	l := CalculateLayout(g, nil)
	assert.Len(t, l.Nodes, 3)
}

func TestCalculateLayout_Empty(t *testing.T) {
	l := CalculateLayout(NewGraph(), nil)
	assert.Empty(t, l.Nodes)
	assert.Zero(t, l.Width)
	assert.Zero(t, l.Height)

	assert.Empty(t, CalculateLayout(nil, nil).Nodes)
}
