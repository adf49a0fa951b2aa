package main

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/meikuraledutech/canvas"
	"github.com/meikuraledutech/canvas/idgen"
	"github.com/meikuraledutech/canvas/investigation"
	"github.com/meikuraledutech/canvas/layout"
	"github.com/meikuraledutech/canvas/pattern"
	"github.com/meikuraledutech/canvas/taskgraph"
)

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (a *app) layoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute canvas positions",
	}

	var (
		inputNode  bool
		nextID     int
		statusPath string
	)
	workflow := &cobra.Command{
		Use:   "workflow <spec.json>",
		Short: "Lay out a workflow spec document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			spec, err := taskgraph.ParseSpec(data)
			if err != nil {
				return err
			}

			var status layout.StatusMap
			if statusPath != "" {
				if err := readJSON(statusPath, &status); err != nil {
					return err
				}
			}

			opts := []layout.Option{layout.WithStart(a.cfg.Layout.StartX, a.cfg.Layout.StartY)}
			if inputNode {
				opts = append(opts, layout.WithInputNode())
			}
			if nextID > 0 {
				opts = append(opts, layout.WithNextID(nextID))
			}

			res := layout.Compute(spec.Workflow, status, opts...)
			a.log.Debug("workflow laid out", "file", args[0], "next_id", res.NextID, "root_height", res.RootHeight)
			if err := a.printJSON(res); err != nil {
				return err
			}
			a.success("%d nodes, %d edges", len(res.Nodes), len(res.Edges))
			return nil
		},
	}
	workflow.Flags().BoolVar(&inputNode, "input-node", false, "emit the Input node and shift the tree right")
	workflow.Flags().IntVar(&nextID, "next-id", 0, "first node-N number for tasks without a uuid")
	workflow.Flags().StringVar(&statusPath, "status", "", "JSON file mapping task uuid to status fields")

	var expand []string
	inv := &cobra.Command{
		Use:   "investigation <session.json>",
		Short: "Lay out an investigation session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s investigation.Session
			if err := readJSON(args[0], &s); err != nil {
				return err
			}
			expanded := make(map[string]bool, len(expand))
			for _, id := range expand {
				expanded[id] = true
			}

			g := investigation.FromSession(s)
			l := investigation.CalculateLayout(g, expanded)
			if err := a.printJSON(l); err != nil {
				return err
			}
			a.success("%d of %d nodes visible, %.0fx%.0f", len(l.Nodes), g.Len(), l.Width, l.Height)
			return nil
		},
	}
	inv.Flags().StringSliceVar(&expand, "expand", nil, "ids of collapsible nodes to expand")

	cmd.AddCommand(workflow, inv)
	return cmd
}

func (a *app) specCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spec <canvas.json>",
		Short: "Serialize a canvas ({nodes, edges}) into a workflow spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var w canvas.Workflow
			if err := readJSON(args[0], &w); err != nil {
				return err
			}
			if err := canvas.ValidateAcyclic(w.Nodes, w.Edges); err != nil {
				a.log.Warn("canvas has a cycle, cyclic branches are cut", "file", args[0])
			}
			out, err := taskgraph.SpecJSON(w.Nodes, w.Edges)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, string(out))
			return err
		},
	}
}

func (a *app) patternCmd() *cobra.Command {
	var count, startID int
	cmd := &cobra.Command{
		Use:       "pattern <chain|group|chord>",
		Short:     "Generate a workflow template",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"chain", "group", "chord"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			var t pattern.Template
			switch args[0] {
			case "chain":
				t = pattern.Chain(count, startID)
			case "group":
				t = pattern.Group(count, startID, idgen.Default)
			case "chord":
				t = pattern.Chord(count, startID, idgen.Default)
			default:
				return fmt.Errorf("unknown pattern %q", args[0])
			}
			if err := a.printJSON(t); err != nil {
				return err
			}
			a.success("%s of %d, next id node-%d", args[0], count, t.NextID)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 3, "number of tasks")
	cmd.Flags().IntVar(&startID, "start-id", 2, "first node-N number")
	return cmd
}
