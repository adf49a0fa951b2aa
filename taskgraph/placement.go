package taskgraph

import (
	"cmp"
	"math"
	"slices"

	"github.com/meikuraledutech/canvas"
)

// Placement constants.
const (
	// ColumnSpacing is the horizontal distance from a parent to its children.
	ColumnSpacing = 320
	// ColumnTolerance is how far (in x) a node may sit from the target
	// column and still count as an obstacle.
	ColumnTolerance = 150
	// GroupAllowance extends a group's box downwards to leave room for its
	// children and the ghost "add task" controls.
	GroupAllowance = 240
	// ObstacleGap is the clearance kept below an obstacle.
	ObstacleGap = 50
)

type obstacle struct {
	top, bottom float64
}

// IdealPlacement returns the smallest starting y, at or below the parent's y,
// at which a vertical block of siblings placed one column right of parent
// avoids every other node in that column. Grouped nodes block the whole group
// box plus GroupAllowance.
//
// Obstacles are swept once in top order: after startY moves below an obstacle
// the earlier ones are not re-checked.
func IdealPlacement(parent canvas.Node, siblings, allNodes []canvas.Node, spacing float64) float64 {
	targetX := parent.X + ColumnSpacing

	count := max(len(siblings), 1)
	blockHeight := float64(count)*canvas.NodeHeight + float64(count-1)*spacing

	skip := map[string]bool{parent.ID: true}
	for _, s := range siblings {
		skip[s.ID] = true
	}

	var obstacles []obstacle
	seenGroups := make(map[string]bool)
	for _, n := range allNodes {
		if skip[n.ID] {
			continue
		}
		if n.GroupID == "" {
			if math.Abs(n.X-targetX) < ColumnTolerance {
				obstacles = append(obstacles, obstacle{top: n.Y, bottom: n.Y + canvas.NodeHeight})
			}
			continue
		}
		if seenGroups[n.GroupID] {
			continue
		}
		seenGroups[n.GroupID] = true
		box, _ := canvas.Bounds(canvas.GroupMembers(allNodes, n.GroupID))
		if math.Abs(box.MinX-targetX) < ColumnTolerance {
			obstacles = append(obstacles, obstacle{top: box.MinY, bottom: box.MaxY + GroupAllowance})
		}
	}
	slices.SortStableFunc(obstacles, func(a, b obstacle) int { return cmp.Compare(a.top, b.top) })

	startY := parent.Y
	for _, o := range obstacles {
		if startY < o.bottom && startY+blockHeight > o.top {
			startY = o.bottom + ObstacleGap
		}
	}
	return startY
}
