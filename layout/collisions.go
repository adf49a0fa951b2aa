package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/meikuraledutech/canvas"
)

const (
	// ColumnProximity is the x distance within which blocks share a column.
	ColumnProximity = 50
	// BlockGap is the minimum vertical gap between blocks in a column.
	BlockGap = 110
)

// block is a collision unit: a whole group or a single ungrouped node.
type block struct {
	box     canvas.Box
	members []int
}

// ResolveGroupCollisions returns a copy of nodes in which blocks sharing a
// column are at least BlockGap apart vertically. Blocks are bucketed by x
// alone, so two blocks in one column are separated even when they don't
// overlap horizontally.
func ResolveGroupCollisions(nodes []canvas.Node) []canvas.Node {
	if nodes == nil {
		return nil
	}
	out := make([]canvas.Node, len(nodes))
	copy(out, nodes)

	var blocks []*block
	groups := make(map[string]*block)
	for i, n := range out {
		if n.GroupID == "" {
			blocks = append(blocks, &block{members: []int{i}})
			continue
		}
		b, ok := groups[n.GroupID]
		if !ok {
			b = &block{}
			groups[n.GroupID] = b
			blocks = append(blocks, b)
		}
		b.members = append(b.members, i)
	}
	for _, b := range blocks {
		members := make([]canvas.Node, len(b.members))
		for j, idx := range b.members {
			members[j] = out[idx]
		}
		b.box, _ = canvas.Bounds(members)
	}

	slices.SortStableFunc(blocks, func(a, b *block) int { return cmp.Compare(a.box.MinX, b.box.MinX) })

	var columns [][]*block
	var anchor float64
	for _, b := range blocks {
		if len(columns) > 0 && math.Abs(b.box.MinX-anchor) <= ColumnProximity {
			columns[len(columns)-1] = append(columns[len(columns)-1], b)
			continue
		}
		anchor = b.box.MinX
		columns = append(columns, []*block{b})
	}

	for _, col := range columns {
		slices.SortStableFunc(col, func(a, b *block) int { return cmp.Compare(a.box.MinY, b.box.MinY) })
		for i := 1; i < len(col); i++ {
			prev, cur := col[i-1], col[i]
			need := prev.box.MaxY + BlockGap
			if cur.box.MinY >= need {
				continue
			}
			shift := need - cur.box.MinY
			for _, idx := range cur.members {
				out[idx].Y += shift
			}
			cur.box.MinY += shift
			cur.box.MaxY += shift
		}
	}
	return out
}
