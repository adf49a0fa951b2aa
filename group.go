package canvas

// Box is an axis-aligned rectangle in world coordinates.
type Box struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Height returns MaxY - MinY.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// GroupMembers returns the nodes carrying groupID, in input order.
func GroupMembers(nodes []Node, groupID string) []Node {
	if groupID == "" {
		return nil
	}
	var members []Node
	for _, n := range nodes {
		if n.GroupID == groupID {
			members = append(members, n)
		}
	}
	return members
}

// Extent returns the min/max of the member positions (top-left corners).
// ok is false when nodes is empty.
func Extent(nodes []Node) (b Box, ok bool) {
	if len(nodes) == 0 {
		return Box{}, false
	}
	b = Box{MinX: nodes[0].X, MinY: nodes[0].Y, MaxX: nodes[0].X, MaxY: nodes[0].Y}
	for _, n := range nodes[1:] {
		b.MinX = min(b.MinX, n.X)
		b.MinY = min(b.MinY, n.Y)
		b.MaxX = max(b.MaxX, n.X)
		b.MaxY = max(b.MaxY, n.Y)
	}
	return b, true
}

// Bounds returns the bounding box of the nodes including the fixed node size.
func Bounds(nodes []Node) (Box, bool) {
	b, ok := Extent(nodes)
	if !ok {
		return b, false
	}
	b.MaxX += NodeWidth
	b.MaxY += NodeHeight
	return b, true
}

// DissolveSmallGroups returns a copy of nodes where every group with at most
// one member has its GroupID cleared.
func DissolveSmallGroups(nodes []Node) []Node {
	counts := make(map[string]int)
	for _, n := range nodes {
		if n.GroupID != "" {
			counts[n.GroupID]++
		}
	}
	out := make([]Node, len(nodes))
	copy(out, nodes)
	for i := range out {
		if out[i].GroupID != "" && counts[out[i].GroupID] <= 1 {
			out[i].GroupID = ""
		}
	}
	return out
}
