package canvas

import (
	"maps"

	json "github.com/goccy/go-json"
)

// Task-tree element types.
const (
	TaskTypeTask  = "task"
	TaskTypeChord = "chord"
	TaskTypeChain = "chain"
)

// Task is one element of the nested task-tree handed to the backend scheduler.
// A chord element carries only Tasks (the branches) and Callback.
type Task struct {
	UUID        string         `json:"uuid,omitempty"`
	TaskName    string         `json:"task_name,omitempty"`
	DisplayName string         `json:"display_name,omitempty"`
	Description string         `json:"description,omitempty"`
	TaskConfig  map[string]any `json:"task_config,omitempty"`
	Type        string         `json:"type,omitempty"`
	GroupID     string         `json:"groupId,omitempty"`
	Tasks       []*Task        `json:"tasks,omitempty"`
	Callback    *Task          `json:"callback,omitempty"`
}

// TaskTree is the root of a serialized workflow.
type TaskTree struct {
	Type   string  `json:"type,omitempty"`
	IsRoot bool    `json:"isRoot,omitempty"`
	Tasks  []*Task `json:"tasks"`
}

// Spec is the document stored for a workflow and sent to the scheduler.
type Spec struct {
	Workflow TaskTree `json:"workflow"`
}

// IsChord reports whether t is a chord wrapper.
func (t *Task) IsChord() bool {
	return t != nil && t.Type == TaskTypeChord
}

// Clone returns a deep copy of the task and its subtree.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.TaskConfig != nil {
		c.TaskConfig = maps.Clone(t.TaskConfig)
	}
	if t.Tasks != nil {
		c.Tasks = make([]*Task, len(t.Tasks))
		for i, child := range t.Tasks {
			c.Tasks[i] = child.Clone()
		}
	}
	c.Callback = t.Callback.Clone()
	return &c
}

// CloneTasks deep-copies a task list.
func CloneTasks(tasks []*Task) []*Task {
	if tasks == nil {
		return nil
	}
	out := make([]*Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

type chordJSON struct {
	Type     string  `json:"type"`
	Tasks    []*Task `json:"tasks"`
	Callback *Task   `json:"callback,omitempty"`
}

type taskJSON struct {
	UUID        string         `json:"uuid"`
	TaskName    string         `json:"task_name"`
	DisplayName string         `json:"display_name"`
	Description string         `json:"description"`
	TaskConfig  map[string]any `json:"task_config"`
	Type        string         `json:"type"`
	Tasks       []*Task        `json:"tasks"`
	GroupID     string         `json:"groupId,omitempty"`
}

// MarshalJSON encodes tasks in the scheduler's key order. Leaves carry an empty
// tasks array and an empty task_config object rather than null; an explicit
// group id follows them.
func (t Task) MarshalJSON() ([]byte, error) {
	tasks := t.Tasks
	if tasks == nil {
		tasks = []*Task{}
	}
	if t.Type == TaskTypeChord {
		return json.Marshal(chordJSON{Type: TaskTypeChord, Tasks: tasks, Callback: t.Callback})
	}
	cfg := t.TaskConfig
	if cfg == nil {
		cfg = map[string]any{}
	}
	typ := t.Type
	if typ == "" {
		typ = TaskTypeTask
	}
	return json.Marshal(taskJSON{
		UUID:        t.UUID,
		TaskName:    t.TaskName,
		DisplayName: t.DisplayName,
		Description: t.Description,
		TaskConfig:  cfg,
		Type:        typ,
		Tasks:       tasks,
		GroupID:     t.GroupID,
	})
}
