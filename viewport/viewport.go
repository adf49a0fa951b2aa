// Package viewport converts between canvas world coordinates and screen
// coordinates and computes transient positions for canvas overlays.
package viewport

import (
	"github.com/meikuraledutech/canvas"
)

// Overlay geometry, in pixels.
const (
	MenuGap       = 25
	PopupWidth    = 500
	PopupHeight   = 500
	PopupGap      = 20
	ViewportInset = 10
	// ExpandAllowance is the extra height a hover-expanded group takes.
	ExpandAllowance = 120
	// CollisionGap is the clearance kept below an expanded group.
	CollisionGap = 50
)

// Point is a 2D position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is the on-screen rectangle of the canvas element.
type Rect struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// MenuRequest selects where the task creation menu opens. At most one of the
// pending ids is expected; they are checked in field order.
type MenuRequest struct {
	Nodes                  []canvas.Node `json:"nodes"`
	PendingParentID        string        `json:"pendingParentId,omitempty"`
	PendingGroupID         string        `json:"pendingGroupId,omitempty"`
	PendingCallbackGroupID string        `json:"pendingCallbackGroupId,omitempty"`
}

// TaskMenuWorldPosition returns the world position of the task creation menu:
// right of a pending parent, below a pending group, or right of a group that
// is receiving a callback. It returns the origin when the reference is unknown.
func TaskMenuWorldPosition(req MenuRequest) Point {
	switch {
	case req.PendingParentID != "":
		for _, n := range req.Nodes {
			if n.ID == req.PendingParentID {
				return Point{X: n.X + n.Width() + MenuGap, Y: n.Y}
			}
		}
	case req.PendingGroupID != "":
		if ext, ok := canvas.Extent(canvas.GroupMembers(req.Nodes, req.PendingGroupID)); ok {
			return Point{X: ext.MinX, Y: ext.MaxY + canvas.NodeHeight + MenuGap}
		}
	case req.PendingCallbackGroupID != "":
		if ext, ok := canvas.Extent(canvas.GroupMembers(req.Nodes, req.PendingCallbackGroupID)); ok {
			return Point{X: ext.MaxX + canvas.NodeWidth + MenuGap, Y: (ext.MinY + ext.MaxY) / 2}
		}
	}
	return Point{}
}

// OverviewRequest describes the node and the current pan/zoom state.
type OverviewRequest struct {
	Node           canvas.Node `json:"node"`
	Scale          float64     `json:"scale"`
	PanX           float64     `json:"panX"`
	PanY           float64     `json:"panY"`
	Rect           Rect        `json:"rect"`
	ViewportWidth  float64     `json:"viewportWidth"`
	ViewportHeight float64     `json:"viewportHeight"`
}

// ToScreen maps a world point to the screen.
func ToScreen(p Point, scale, panX, panY float64, rect Rect) Point {
	return Point{X: p.X*scale + panX + rect.Left, Y: p.Y*scale + panY + rect.Top}
}

// ToWorld is the inverse of ToScreen. A zero scale is treated as 1.
func ToWorld(p Point, scale, panX, panY float64, rect Rect) Point {
	if scale == 0 {
		scale = 1
	}
	return Point{X: (p.X - panX - rect.Left) / scale, Y: (p.Y - panY - rect.Top) / scale}
}

// OverviewScreenPosition places the node overview popup right of the node,
// else left of it, else directly below. The vertical position is clamped into
// the viewport.
func OverviewScreenPosition(req OverviewRequest) Point {
	scale := req.Scale
	if scale == 0 {
		scale = 1
	}
	s := ToScreen(Point{X: req.Node.X, Y: req.Node.Y}, scale, req.PanX, req.PanY, req.Rect)
	width := req.Node.Width() * scale

	var p Point
	switch {
	case s.X+width+PopupGap+PopupWidth <= req.ViewportWidth-ViewportInset:
		p = Point{X: s.X + width + PopupGap, Y: s.Y}
	case s.X-PopupGap-PopupWidth >= ViewportInset:
		p = Point{X: s.X - PopupGap - PopupWidth, Y: s.Y}
	default:
		p = Point{X: s.X, Y: s.Y + canvas.NodeHeight*scale + PopupGap}
	}

	p.Y = max(ViewportInset, min(p.Y, req.ViewportHeight-ViewportInset-PopupHeight))
	return p
}

// CollisionOffsets computes temporary downward offsets for nodes below a
// hover-expanded group so the expanded group does not cover them. A node in
// a group moves with its whole group by the group's largest offset. It
// returns an empty map when nothing needs to move.
func CollisionOffsets(nodes []canvas.Node, activeGroupID string) map[string]float64 {
	offsets := make(map[string]float64)
	active, ok := canvas.Bounds(canvas.GroupMembers(nodes, activeGroupID))
	if !ok {
		return offsets
	}
	expandedBottom := active.MaxY + ExpandAllowance
	target := expandedBottom + CollisionGap

	groupOffset := make(map[string]float64)
	for _, n := range nodes {
		if n.GroupID == activeGroupID {
			continue
		}
		if n.X+canvas.NodeWidth <= active.MinX || n.X >= active.MaxX {
			continue
		}
		if n.Y < active.MinY || n.Y >= expandedBottom {
			continue
		}
		off := target - n.Y
		if n.GroupID != "" {
			groupOffset[n.GroupID] = max(groupOffset[n.GroupID], off)
			continue
		}
		offsets[n.ID] = off
	}

	for _, n := range nodes {
		if off, ok := groupOffset[n.GroupID]; ok && n.GroupID != "" {
			offsets[n.ID] = off
		}
	}
	return offsets
}
