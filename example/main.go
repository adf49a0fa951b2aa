package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/go-hclog"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meikuraledutech/canvas"
	"github.com/meikuraledutech/canvas/idgen"
	"github.com/meikuraledutech/canvas/layout"
	"github.com/meikuraledutech/canvas/memory"
	"github.com/meikuraledutech/canvas/pattern"
	"github.com/meikuraledutech/canvas/postgres"
	"github.com/meikuraledutech/canvas/taskgraph"
)

func main() {
	logger := hclog.New(&hclog.LoggerOptions{Name: "example", Level: hclog.Info})
	if err := run(context.Background(), logger); err != nil {
		logger.Error("example failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger hclog.Logger) error {
	// Postgres when DATABASE_URL is set, in-memory otherwise.
	var store canvas.Store = memory.New()
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		defer pool.Close()
		store = postgres.New(pool)
	}

	// 1. Create tables
	if err := store.CreateSchema(ctx); err != nil {
		return fmt.Errorf("schema: %w", err)
	}

	// ── Template: three parallel collectors converging on a callback ──
	groups := &idgen.Counter{}
	tpl := pattern.Chord(3, 2, groups)
	for i, name := range []string{"Collect memory", "Collect disk", "Collect logs"} {
		tpl.Nodes[i].Label = name
		tpl.Nodes[i].Data.DisplayName = name
	}

	wf := &canvas.Workflow{
		ID:    "triage",
		Nodes: append([]canvas.Node{{ID: canvas.RootNodeID, Type: canvas.TypeInput, Label: "Evidence"}}, tpl.Nodes...),
		Edges: tpl.Edges,
	}
	saved, err := store.SaveWorkflow(ctx, wf)
	if err != nil {
		return fmt.Errorf("save workflow: %w", err)
	}
	logger.Info("workflow saved", "id", saved.ID, "nodes", len(saved.Nodes))

	// ── Spec: serialize the canvas into a nested task tree ────────────
	specJSON, err := taskgraph.SpecJSON(saved.Nodes, saved.Edges)
	if err != nil {
		return fmt.Errorf("spec: %w", err)
	}
	fmt.Println("spec:")
	fmt.Println(string(specJSON))

	// ── Layout: parse the spec back and position it ───────────────────
	spec, err := taskgraph.ParseSpec(specJSON)
	if err != nil {
		return fmt.Errorf("parse spec: %w", err)
	}
	res := layout.Compute(spec.Workflow, nil, layout.WithInputNode(), layout.WithGroupIDs(groups))
	fmt.Println("\nlayout:")
	if err := printJSON(res); err != nil {
		return err
	}

	relaid, err := store.SaveWorkflow(ctx, &canvas.Workflow{ID: saved.ID, Nodes: res.Nodes, Edges: res.Edges})
	if err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	logger.Info("layout saved", "id", relaid.ID, "nodes", len(relaid.Nodes), "edges", len(relaid.Edges))

	// ── Granular: closing a loop is refused ───────────────────────────
	// Layout renumbers node ids; the task uuids still identify the nodes.
	ids := make(map[string]string, len(relaid.Nodes))
	for _, n := range relaid.Nodes {
		ids[n.Identity()] = n.ID
	}
	cb := ids[tpl.Nodes[len(tpl.Nodes)-1].Data.UUID]
	err = store.AddEdge(ctx, saved.ID, &canvas.Edge{From: cb, To: ids[tpl.Nodes[0].Data.UUID]})
	if errors.Is(err, canvas.ErrCycleDetected) {
		logger.Info("cycle rejected", "from", cb)
	} else if err != nil {
		return fmt.Errorf("add edge: %w", err)
	}

	// ── Cleanup ───────────────────────────────────────────────────────
	if err := store.DeleteWorkflow(ctx, saved.ID); err != nil {
		return fmt.Errorf("delete workflow: %w", err)
	}
	logger.Info("workflow deleted", "id", saved.ID)
	return nil
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Println(string(b))
	return nil
}
