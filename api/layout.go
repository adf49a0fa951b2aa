package api

import (
	"github.com/gofiber/fiber/v3"

	"github.com/meikuraledutech/canvas"
	"github.com/meikuraledutech/canvas/investigation"
	"github.com/meikuraledutech/canvas/layout"
	"github.com/meikuraledutech/canvas/pattern"
	"github.com/meikuraledutech/canvas/taskgraph"
	"github.com/meikuraledutech/canvas/viewport"
)

type layoutOptions struct {
	StartX    *float64 `json:"startX"`
	StartY    *float64 `json:"startY"`
	NextID    int      `json:"nextId"`
	InputNode bool     `json:"inputNode"`
}

type layoutRequest struct {
	Workflow canvas.TaskTree  `json:"workflow"`
	Status   layout.StatusMap `json:"status"`
	Options  layoutOptions    `json:"options"`
}

func (h *handler) options(o layoutOptions) []layout.Option {
	x, y := h.startX, h.startY
	if o.StartX != nil {
		x = *o.StartX
	}
	if o.StartY != nil {
		y = *o.StartY
	}
	opts := []layout.Option{layout.WithStart(x, y), layout.WithGroupIDs(h.groupIDs)}
	if o.NextID > 0 {
		opts = append(opts, layout.WithNextID(o.NextID))
	}
	if o.InputNode {
		opts = append(opts, layout.WithInputNode())
	}
	return opts
}

func (h *handler) layoutWorkflow(c fiber.Ctx) error {
	var req layoutRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badBody(c)
	}
	return c.JSON(layout.Compute(req.Workflow, req.Status, h.options(req.Options)...))
}

type investigationRequest struct {
	Session  investigation.Session `json:"session"`
	Expanded map[string]bool       `json:"expanded"`
}

func (h *handler) layoutInvestigation(c fiber.Ctx) error {
	var req investigationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badBody(c)
	}
	g := investigation.FromSession(req.Session)
	return c.JSON(investigation.CalculateLayout(g, req.Expanded))
}

type canvasRequest struct {
	Nodes []canvas.Node `json:"nodes"`
	Edges []canvas.Edge `json:"edges"`
}

func (h *handler) spec(c fiber.Ctx) error {
	var req canvasRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badBody(c)
	}
	return h.sendSpec(c, req.Nodes, req.Edges)
}

func (h *handler) sendSpec(c fiber.Ctx, nodes []canvas.Node, edges []canvas.Edge) error {
	out, err := taskgraph.SpecJSON(nodes, edges)
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(out)
}

type patternRequest struct {
	Count   int `json:"count"`
	StartID int `json:"startId"`
}

func (h *handler) pattern(c fiber.Ctx) error {
	var req patternRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badBody(c)
	}
	if req.Count <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "count must be positive"})
	}
	if req.StartID <= 0 {
		req.StartID = 2
	}

	switch c.Params("kind") {
	case "chain":
		return c.JSON(pattern.Chain(req.Count, req.StartID))
	case "group":
		return c.JSON(pattern.Group(req.Count, req.StartID, h.groupIDs))
	case "chord":
		return c.JSON(pattern.Chord(req.Count, req.StartID, h.groupIDs))
	}
	return c.Status(404).JSON(fiber.Map{"error": "unknown pattern"})
}

type callbackRequest struct {
	Nodes   []canvas.Node   `json:"nodes"`
	GroupID string          `json:"groupId"`
	Data    canvas.TaskData `json:"data"`
	StartID int             `json:"startId"`
}

func (h *handler) patternCallback(c fiber.Ctx) error {
	var req callbackRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badBody(c)
	}
	if req.StartID <= 0 {
		req.StartID = 2
	}
	ins := pattern.GroupCallback(canvas.GroupMembers(req.Nodes, req.GroupID), req.Data, req.StartID)
	if ins == nil {
		return c.Status(404).JSON(fiber.Map{"error": "group not found"})
	}
	return c.Status(201).JSON(ins)
}

func (h *handler) viewportMenu(c fiber.Ctx) error {
	var req viewport.MenuRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badBody(c)
	}
	return c.JSON(viewport.TaskMenuWorldPosition(req))
}

func (h *handler) viewportOverview(c fiber.Ctx) error {
	var req viewport.OverviewRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badBody(c)
	}
	return c.JSON(viewport.OverviewScreenPosition(req))
}

type collisionRequest struct {
	Nodes         []canvas.Node `json:"nodes"`
	ActiveGroupID string        `json:"activeGroupId"`
}

func (h *handler) viewportCollisions(c fiber.Ctx) error {
	var req collisionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badBody(c)
	}
	return c.JSON(viewport.CollisionOffsets(req.Nodes, req.ActiveGroupID))
}

// transformRequest converts a point between world and screen coordinates.
type transformRequest struct {
	Point viewport.Point `json:"point"`
	Scale float64        `json:"scale"`
	PanX  float64        `json:"panX"`
	PanY  float64        `json:"panY"`
	Rect  viewport.Rect  `json:"rect"`
}

func (h *handler) viewportScreen(c fiber.Ctx) error {
	var req transformRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badBody(c)
	}
	if req.Scale == 0 {
		req.Scale = 1
	}
	return c.JSON(viewport.ToScreen(req.Point, req.Scale, req.PanX, req.PanY, req.Rect))
}

func (h *handler) viewportWorld(c fiber.Ctx) error {
	var req transformRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badBody(c)
	}
	return c.JSON(viewport.ToWorld(req.Point, req.Scale, req.PanX, req.PanY, req.Rect))
}
