package api

import (
	"github.com/gofiber/fiber/v3"

	"github.com/meikuraledutech/canvas"
	"github.com/meikuraledutech/canvas/layout"
	"github.com/meikuraledutech/canvas/taskgraph"
)

func (h *handler) saveWorkflow(c fiber.Ctx) error {
	var w canvas.Workflow
	if err := c.Bind().JSON(&w); err != nil {
		return badBody(c)
	}
	result, err := h.store.SaveWorkflow(c.Context(), &w)
	if err != nil {
		return h.fail(c, err)
	}
	h.log.Info("workflow saved", "workflow", result.ID, "nodes", len(result.Nodes), "edges", len(result.Edges))
	return c.Status(201).JSON(result)
}

// loadWorkflow writes a 404 response and returns nil when the workflow is absent.
func (h *handler) loadWorkflow(c fiber.Ctx) (*canvas.Workflow, error) {
	w, err := h.store.GetWorkflow(c.Context(), c.Params("id"))
	if err != nil {
		return nil, h.fail(c, err)
	}
	if w == nil {
		return nil, c.Status(404).JSON(fiber.Map{"error": "workflow not found"})
	}
	return w, nil
}

func (h *handler) getWorkflow(c fiber.Ctx) error {
	w, err := h.loadWorkflow(c)
	if w == nil {
		return err
	}
	return c.JSON(w)
}

func (h *handler) deleteWorkflow(c fiber.Ctx) error {
	if err := h.store.DeleteWorkflow(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(204)
}

func (h *handler) workflowSpec(c fiber.Ctx) error {
	w, err := h.loadWorkflow(c)
	if w == nil {
		return err
	}
	return h.sendSpec(c, w.Nodes, w.Edges)
}

// relayout rebuilds the stored canvas from its own task tree and saves the
// positioned result in place. Nodes not reachable from the Input node are
// dropped.
func (h *handler) relayout(c fiber.Ctx) error {
	w, err := h.loadWorkflow(c)
	if w == nil {
		return err
	}

	status := layout.StatusMap{}
	for _, n := range w.Nodes {
		if n.Data.Status != nil {
			status[n.Identity()] = n.Data.Status
		}
	}

	spec := taskgraph.BuildSpec(w.Nodes, w.Edges)
	res := layout.Compute(spec.Workflow, status,
		layout.WithStart(h.startX, h.startY),
		layout.WithGroupIDs(h.groupIDs),
		layout.WithInputNode(),
	)

	if root := w.Node(canvas.RootNodeID); root != nil {
		for i := range res.Nodes {
			if res.Nodes[i].ID == canvas.RootNodeID {
				if root.Label != "" {
					res.Nodes[i].Label = root.Label
				}
				res.Nodes[i].Data = root.Data
			}
		}
	}

	saved, err := h.store.SaveWorkflow(c.Context(), &canvas.Workflow{ID: w.ID, Nodes: res.Nodes, Edges: res.Edges})
	if err != nil {
		return h.fail(c, err)
	}
	h.log.Info("workflow relaid out", "workflow", w.ID, "nodes", len(saved.Nodes), "dropped", len(w.Nodes)-len(saved.Nodes))
	return c.JSON(saved)
}

// ── Nodes ─────────────────────────────────────────────────────────────

func (h *handler) listNodes(c fiber.Ctx) error {
	nodes, err := h.store.ListNodes(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(nodes)
}

func (h *handler) addNode(c fiber.Ctx) error {
	var node canvas.Node
	if err := c.Bind().JSON(&node); err != nil {
		return badBody(c)
	}
	if err := h.store.AddNode(c.Context(), c.Params("id"), &node); err != nil {
		return h.fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"id": node.ID})
}

func (h *handler) getNode(c fiber.Ctx) error {
	node, err := h.store.GetNode(c.Context(), c.Params("id"), c.Params("node"))
	if err != nil {
		return h.fail(c, err)
	}
	if node == nil {
		return c.Status(404).JSON(fiber.Map{"error": "node not found"})
	}
	return c.JSON(node)
}

func (h *handler) updateNode(c fiber.Ctx) error {
	var node canvas.Node
	if err := c.Bind().JSON(&node); err != nil {
		return badBody(c)
	}
	node.ID = c.Params("node")
	if err := h.store.UpdateNode(c.Context(), c.Params("id"), &node); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(204)
}

func (h *handler) deleteNode(c fiber.Ctx) error {
	if err := h.store.DeleteNode(c.Context(), c.Params("id"), c.Params("node")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(204)
}

// ── Edges ─────────────────────────────────────────────────────────────

func (h *handler) listEdges(c fiber.Ctx) error {
	edges, err := h.store.ListEdges(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(edges)
}

func (h *handler) addEdge(c fiber.Ctx) error {
	var edge canvas.Edge
	if err := c.Bind().JSON(&edge); err != nil {
		return badBody(c)
	}
	if err := h.store.AddEdge(c.Context(), c.Params("id"), &edge); err != nil {
		return h.fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"id": edge.ID})
}

func (h *handler) deleteEdge(c fiber.Ctx) error {
	if err := h.store.DeleteEdge(c.Context(), c.Params("id"), c.Params("edge")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(204)
}
