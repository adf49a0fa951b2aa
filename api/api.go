// Package api exposes the layout engines and a canvas.Store over HTTP.
package api

import (
	"errors"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/hashicorp/go-hclog"

	"github.com/meikuraledutech/canvas"
	"github.com/meikuraledutech/canvas/idgen"
	"github.com/meikuraledutech/canvas/layout"
)

// Option configures the API.
type Option func(*handler)

// WithLayoutStart sets the origin used by relayout and by layout requests
// that don't carry one.
func WithLayoutStart(x, y float64) Option {
	return func(h *handler) { h.startX, h.startY = x, y }
}

// WithGroupIDs injects the generator for group ids created by the API.
func WithGroupIDs(g idgen.Generator) Option {
	return func(h *handler) { h.groupIDs = g }
}

type handler struct {
	store    canvas.Store
	log      hclog.Logger
	startX   float64
	startY   float64
	groupIDs idgen.Generator
}

// New builds the fiber app serving every canvas endpoint.
func New(store canvas.Store, logger hclog.Logger, opts ...Option) *fiber.App {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	h := &handler{
		store:  store,
		log:    logger,
		startX: layout.DefaultStartX,
		startY: layout.DefaultStartY,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.groupIDs = idgen.Or(h.groupIDs)

	app := fiber.New(fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	app.Use(h.logRequests)

	// ── Schema ────────────────────────────────────────────────────────
	app.Post("/schema", h.createSchema)
	app.Delete("/schema", h.dropSchema)

	// ── Layout ────────────────────────────────────────────────────────
	app.Post("/layout/workflow", h.layoutWorkflow)
	app.Post("/layout/investigation", h.layoutInvestigation)
	app.Post("/spec", h.spec)

	// ── Patterns ──────────────────────────────────────────────────────
	app.Post("/patterns/callback", h.patternCallback)
	app.Post("/patterns/:kind", h.pattern)

	// ── Viewport ──────────────────────────────────────────────────────
	app.Post("/viewport/menu", h.viewportMenu)
	app.Post("/viewport/overview", h.viewportOverview)
	app.Post("/viewport/collisions", h.viewportCollisions)
	app.Post("/viewport/screen", h.viewportScreen)
	app.Post("/viewport/world", h.viewportWorld)

	// ── Workflows ─────────────────────────────────────────────────────
	app.Post("/workflows", h.saveWorkflow)
	app.Get("/workflows/:id", h.getWorkflow)
	app.Delete("/workflows/:id", h.deleteWorkflow)
	app.Get("/workflows/:id/spec", h.workflowSpec)
	app.Post("/workflows/:id/relayout", h.relayout)

	app.Get("/workflows/:id/nodes", h.listNodes)
	app.Post("/workflows/:id/nodes", h.addNode)
	app.Get("/workflows/:id/nodes/:node", h.getNode)
	app.Put("/workflows/:id/nodes/:node", h.updateNode)
	app.Delete("/workflows/:id/nodes/:node", h.deleteNode)

	app.Get("/workflows/:id/edges", h.listEdges)
	app.Post("/workflows/:id/edges", h.addEdge)
	app.Delete("/workflows/:id/edges/:edge", h.deleteEdge)

	return app
}

func (h *handler) logRequests(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	h.log.Debug("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

// fail maps store and validation errors to HTTP responses.
func (h *handler) fail(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, canvas.ErrCycleDetected):
		return c.Status(422).JSON(fiber.Map{"error": "cycle detected"})
	case errors.Is(err, canvas.ErrNodeNotFound),
		errors.Is(err, canvas.ErrEdgeNotFound),
		errors.Is(err, canvas.ErrWorkflowNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, canvas.ErrRootNode):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, canvas.ErrInvalidWorkflow):
		return c.Status(422).JSON(fiber.Map{"error": err.Error()})
	}
	h.log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(500).JSON(fiber.Map{"error": err.Error()})
}

func badBody(c fiber.Ctx) error {
	return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
}

func (h *handler) createSchema(c fiber.Ctx) error {
	if err := h.store.CreateSchema(c.Context()); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "schema created"})
}

func (h *handler) dropSchema(c fiber.Ctx) error {
	if err := h.store.DropSchema(c.Context()); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "schema dropped"})
}
