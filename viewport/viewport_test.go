package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meikuraledutech/canvas"
)

func TestTaskMenuWorldPosition(t *testing.T) {
	nodes := []canvas.Node{
		{ID: "node-1", X: 100, Y: 100, Type: canvas.TypeInput},
		{ID: "a", X: 420, Y: 50, Type: canvas.TypeTask, GroupID: "g"},
		{ID: "b", X: 420, Y: 180, Type: canvas.TypeTask, GroupID: "g"},
	}

	tests := []struct {
		name string
		req  MenuRequest
		want Point
	}{
		{"input parent", MenuRequest{Nodes: nodes, PendingParentID: "node-1"}, Point{X: 325, Y: 100}},
		{"task parent", MenuRequest{Nodes: nodes, PendingParentID: "a"}, Point{X: 625, Y: 50}},
		{"below group", MenuRequest{Nodes: nodes, PendingGroupID: "g"}, Point{X: 420, Y: 305}},
		{"callback for group", MenuRequest{Nodes: nodes, PendingCallbackGroupID: "g"}, Point{X: 625, Y: 115}},
		{"unknown parent", MenuRequest{Nodes: nodes, PendingParentID: "zzz"}, Point{}},
		{"unknown group", MenuRequest{Nodes: nodes, PendingGroupID: "zzz"}, Point{}},
		{"nothing pending", MenuRequest{Nodes: nodes}, Point{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TaskMenuWorldPosition(tt.req))
		})
	}
}

func TestScreenWorldRoundTrip(t *testing.T) {
	rect := Rect{Left: 30, Top: 60}
	p := Point{X: 123, Y: -45}
	s := ToScreen(p, 1.5, 10, 20, rect)
	assert.Equal(t, Point{X: 224.5, Y: 12.5}, s)
	assert.InDelta(t, p.X, ToWorld(s, 1.5, 10, 20, rect).X, 1e-9)
	assert.InDelta(t, p.Y, ToWorld(s, 1.5, 10, 20, rect).Y, 1e-9)
}

func TestOverviewScreenPosition(t *testing.T) {
	base := OverviewRequest{Scale: 1, ViewportWidth: 1600, ViewportHeight: 900}

	t.Run("right of node", func(t *testing.T) {
		req := base
		req.Node = canvas.Node{X: 100, Y: 100}
		assert.Equal(t, Point{X: 300, Y: 100}, OverviewScreenPosition(req))
	})

	t.Run("left of node", func(t *testing.T) {
		req := base
		req.Node = canvas.Node{X: 1200, Y: 100}
		assert.Equal(t, Point{X: 680, Y: 100}, OverviewScreenPosition(req))
	})

	t.Run("below node", func(t *testing.T) {
		req := base
		req.ViewportWidth = 700
		req.Node = canvas.Node{X: 200, Y: 100}
		assert.Equal(t, Point{X: 200, Y: 220}, OverviewScreenPosition(req))
	})

	t.Run("clamped to bottom", func(t *testing.T) {
		req := base
		req.Node = canvas.Node{X: 100, Y: 800}
		assert.Equal(t, 390.0, OverviewScreenPosition(req).Y)
	})

	t.Run("clamped to top", func(t *testing.T) {
		req := base
		req.Node = canvas.Node{X: 100, Y: -300}
		assert.Equal(t, 10.0, OverviewScreenPosition(req).Y)
	})

	t.Run("pan zoom and rect offset", func(t *testing.T) {
		req := base
		req.Scale, req.PanX, req.PanY = 2, 50, 10
		req.Rect = Rect{Left: 5, Top: 15}
		req.Node = canvas.Node{X: 10, Y: 20, Type: canvas.TypeInput}
		// screen x = 10*2+50+5 = 75, node width 400 at this zoom
		assert.Equal(t, Point{X: 495, Y: 65}, OverviewScreenPosition(req))
	})
}

func TestCollisionOffsets(t *testing.T) {
	nodes := []canvas.Node{
		{ID: "a1", X: 100, Y: 100, GroupID: "active"},
		{ID: "a2", X: 100, Y: 230, GroupID: "active"},
		{ID: "below", X: 150, Y: 400},
		{ID: "g1", X: 60, Y: 420, GroupID: "other"},
		{ID: "g2", X: 60, Y: 700, GroupID: "other"},
		{ID: "far", X: 600, Y: 400},
		{ID: "deep", X: 100, Y: 1000},
		{ID: "above", X: 100, Y: 0},
	}

	got := CollisionOffsets(nodes, "active")

	// active box bottom 330, expanded to 450, target top 500
	assert.Equal(t, map[string]float64{
		"below": 100,
		"g1":    80,
		"g2":    80,
	}, got)
}

func TestCollisionOffsets_Empty(t *testing.T) {
	assert.Empty(t, CollisionOffsets(nil, "g"))
	assert.Empty(t, CollisionOffsets([]canvas.Node{{ID: "a", GroupID: "x"}}, "g"))
	assert.Empty(t, CollisionOffsets([]canvas.Node{{ID: "a", GroupID: "g"}, {ID: "b", X: 900}}, "g"))
}
