package investigation

// Tree layout constants, in pixels.
const (
	NodeWidth         = 250
	NodeHeight        = 120
	HorizontalSpacing = 100
	VerticalSpacing   = 20
)

// LayoutNode is a positioned node of one layout pass. ChildCount is the
// number of children in the graph, whether or not the node is collapsed.
type LayoutNode struct {
	ID         string         `json:"id"`
	Data       map[string]any `json:"data"`
	ChildCount int            `json:"childCount"`
	Collapsed  bool           `json:"collapsed"`
	Height     float64        `json:"height"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Children   []*LayoutNode  `json:"-"`
}

// LayoutEdge connects two visible layout nodes.
type LayoutEdge struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Layout is the result of CalculateLayout.
type Layout struct {
	Nodes  []*LayoutNode `json:"nodes"`
	Edges  []LayoutEdge  `json:"edges"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
}

// IsCollapsible reports whether nodes of the given type start collapsed.
func IsCollapsible(typ string) bool {
	return typ == TypeSection || typ == TypeHypothesis
}

// CalculateLayout lays out one tree per graph root, stacked vertically.
// Sections and hypotheses are collapsed unless their id is in expanded.
func CalculateLayout(g *Graph, expanded map[string]bool) Layout {
	out := Layout{Nodes: []*LayoutNode{}, Edges: []LayoutEdge{}}
	if g == nil {
		return out
	}

	y := 0.0
	for _, id := range g.Roots() {
		root := buildLayoutTree(g, id, expanded, map[string]bool{})
		if root == nil {
			continue
		}
		calculateSubtreeHeight(root)
		assignCoordinates(root, 0, y)
		y += root.Height + VerticalSpacing
		collect(root, &out)
	}

	for _, n := range out.Nodes {
		out.Width = max(out.Width, n.X+NodeWidth)
		out.Height = max(out.Height, n.Y+NodeHeight)
	}
	return out
}

func buildLayoutTree(g *Graph, id string, expanded map[string]bool, path map[string]bool) *LayoutNode {
	n := g.Node(id)
	if n == nil {
		return nil
	}
	children := g.edges[id]
	ln := &LayoutNode{
		ID:         id,
		Data:       n.Data,
		ChildCount: len(children),
		Collapsed:  IsCollapsible(n.Type()) && !expanded[id],
	}
	if ln.Collapsed {
		return ln
	}

	path[id] = true
	for _, c := range children {
		if path[c] {
			continue
		}
		if cn := buildLayoutTree(g, c, expanded, path); cn != nil {
			ln.Children = append(ln.Children, cn)
		}
	}
	delete(path, id)
	return ln
}

func calculateSubtreeHeight(n *LayoutNode) float64 {
	if len(n.Children) == 0 {
		n.Height = NodeHeight
		return n.Height
	}
	sum := float64(len(n.Children)-1) * VerticalSpacing
	for _, c := range n.Children {
		sum += calculateSubtreeHeight(c)
	}
	n.Height = max(NodeHeight, sum)
	return n.Height
}

func assignCoordinates(n *LayoutNode, depth int, startY float64) {
	n.X = float64(depth) * (NodeWidth + HorizontalSpacing)
	if len(n.Children) == 0 {
		n.Y = startY
		return
	}
	y := startY
	for _, c := range n.Children {
		assignCoordinates(c, depth+1, y)
		y += c.Height + VerticalSpacing
	}
	n.Y = (n.Children[0].Y + n.Children[len(n.Children)-1].Y) / 2
}

func collect(n *LayoutNode, out *Layout) {
	out.Nodes = append(out.Nodes, n)
	for _, c := range n.Children {
		out.Edges = append(out.Edges, LayoutEdge{ID: "edge-" + n.ID + "-" + c.ID, From: n.ID, To: c.ID})
		collect(c, out)
	}
}
