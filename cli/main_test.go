package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/canvas"
	"github.com/meikuraledutech/canvas/investigation"
	"github.com/meikuraledutech/canvas/layout"
	"github.com/meikuraledutech/canvas/pattern"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLayoutWorkflow(t *testing.T) {
	spec := writeFile(t, "spec.json", `{"workflow":{"type":"chain","isRoot":true,"tasks":[
		{"uuid":"a","task_name":"collect","tasks":[{"uuid":"b"}]}
	]}}`)

	out, err := run(t, "layout", "workflow", spec)
	require.NoError(t, err)

	var res layout.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Nodes, 2)
	assert.Equal(t, 100.0, res.Nodes[0].X)
	assert.Equal(t, 420.0, res.Nodes[1].X)
	assert.Equal(t, []canvas.Edge{canvas.NewEdge(canvas.RootNodeID, "a"), canvas.NewEdge("a", "b")}, res.Edges)
}

func TestLayoutWorkflow_ConfigAndInputNode(t *testing.T) {
	cfg := writeFile(t, "canvas.yaml", "layout:\n  start_x: 0\n  start_y: 0\n")
	spec := writeFile(t, "spec.json", `{"workflow":{"tasks":[{"uuid":"a"}]}}`)

	out, err := run(t, "--config", cfg, "layout", "workflow", "--input-node", spec)
	require.NoError(t, err)

	var res layout.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Nodes, 2)
	assert.Equal(t, canvas.TypeInput, res.Nodes[0].Type)
	assert.Equal(t, 0.0, res.Nodes[0].X)
	assert.Equal(t, float64(layout.ColumnSpacing), res.Nodes[1].X)
}

func TestLayoutInvestigation(t *testing.T) {
	session := writeFile(t, "session.json", `{
		"questions":[{"id":"q1","question":"Who?"}],
		"hypotheses":[{"id":"h1","hypothesis":"Insider","question_id":"q1"}],
		"tasks":[{"id":"t1","task":"Pull badge logs","hypothesis_id":"h1"}]
	}`)

	out, err := run(t, "layout", "investigation", session)
	require.NoError(t, err)
	var l investigation.Layout
	require.NoError(t, json.Unmarshal([]byte(out), &l))
	assert.Len(t, l.Nodes, 2)

	out, err = run(t, "layout", "investigation", "--expand", "h1", session)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &l))
	assert.Len(t, l.Nodes, 3)

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"--no-color", "layout", "investigation", session})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stderr.String(), "2 of 3 nodes visible")
}

func TestSpec(t *testing.T) {
	path := writeFile(t, "canvas.json", `{
		"nodes":[{"id":"node-1","type":"Input"},{"id":"node-2","type":"Task","label":"Triage"}],
		"edges":[{"id":"edge-node-1-node-2","from":"node-1","to":"node-2"}]
	}`)

	out, err := run(t, "spec", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"Triage"`)
	assert.Contains(t, out, "\n    \"workflow\"")
}

func TestPattern(t *testing.T) {
	out, err := run(t, "pattern", "chain", "--count", "2")
	require.NoError(t, err)

	var tpl pattern.Template
	require.NoError(t, json.Unmarshal([]byte(out), &tpl))
	assert.Len(t, tpl.Nodes, 2)
	assert.Equal(t, 4, tpl.NextID)

	_, err = run(t, "pattern", "spiral")
	assert.ErrorContains(t, err, "unknown pattern")

	_, err = run(t, "pattern", "chord", "--count", "0")
	assert.Error(t, err)
}

func TestMissingFile(t *testing.T) {
	_, err := run(t, "layout", "workflow", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
