package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/tools"

	"github.com/todoai/todoai/store"
)

const (
	addTaskToolName      = "add_task"
	listTasksToolName    = "list_tasks"
	completeTaskToolName = "complete_task"
	deleteTaskToolName   = "delete_task"
)

// TaskStore is the slice of *store.Store the task tools need.
type TaskStore interface {
	CreateTask(ctx context.Context, create *store.Task) (*store.Task, error)
	ListTasks(ctx context.Context, find *store.FindTask) ([]*store.Task, error)
	UpdateTask(ctx context.Context, ownerID int32, update *store.UpdateTask) (*store.Task, error)
	DeleteTask(ctx context.Context, ownerID, id int32) error
}

// TaskView is the task shape returned by the tools.
type TaskView struct {
	ID          int32   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Completed   bool    `json:"completed"`
}

// ToolResult is the JSON document every task tool returns.
type ToolResult struct {
	Success bool       `json:"success"`
	Error   string     `json:"error,omitempty"`
	Message string     `json:"message,omitempty"`
	Task    *TaskView  `json:"task,omitempty"`
	Tasks   []TaskView `json:"tasks,omitempty"`
	Count   int        `json:"count"`
}

func toTaskView(task *store.Task) TaskView {
	return TaskView{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
	}
}

func encodeResult(result ToolResult) (string, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func notFound(taskID string) ToolResult {
	return ToolResult{Error: fmt.Sprintf("Task %s not found or access denied", taskID)}
}

// failure turns a store error into a tool result. Missing and foreign tasks
// collapse into one message so the tool never reveals which one it was.
func failure(taskID int32, err error) ToolResult {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrForbidden) {
		return notFound(strconv.FormatInt(int64(taskID), 10))
	}
	return ToolResult{}
}

// taskIDInput is the input of the tools that act on one task. Any JSON number
// is accepted; a number outside the id range names a task that cannot exist.
type taskIDInput struct {
	TaskID json.Number `json:"task_id"`
}

func (in taskIDInput) id() (int32, bool) {
	id, err := strconv.ParseInt(in.TaskID.String(), 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

// newToolRegistry returns the task tools bound to ownerID.
func newToolRegistry(s TaskStore, ownerID int32) map[string]tools.Tool {
	registry := map[string]tools.Tool{}
	for _, t := range []tools.Tool{
		&addTaskTool{store: s, ownerID: ownerID},
		&listTasksTool{store: s, ownerID: ownerID},
		&completeTaskTool{store: s, ownerID: ownerID},
		&deleteTaskTool{store: s, ownerID: ownerID},
	} {
		registry[t.Name()] = t
	}
	return registry
}

// ─────────────────────────────────────────────────────────────────────────────
// add_task
// ─────────────────────────────────────────────────────────────────────────────

type addTaskTool struct {
	store   TaskStore
	ownerID int32
}

func (t *addTaskTool) Name() string { return addTaskToolName }
func (t *addTaskTool) Description() string {
	return "Add a new task for the user. Input must be a JSON string with key `title` (string) and optional `description` (string)."
}
func (t *addTaskTool) Call(ctx context.Context, input string) (string, error) {
	slog.Debug("assistant tool call", "tool", t.Name(), "input", input)
	var payload struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
	}
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return encodeResult(ToolResult{Error: "Error: failed to parse input JSON."})
	}

	task, err := t.store.CreateTask(ctx, &store.Task{
		OwnerID:     t.ownerID,
		Title:       payload.Title,
		Description: payload.Description,
	})
	if err != nil {
		slog.Warn("assistant failed to add task", "owner", t.ownerID, "error", err.Error())
		return encodeResult(ToolResult{})
	}
	view := toTaskView(task)
	return encodeResult(ToolResult{Success: true, Task: &view})
}

// ─────────────────────────────────────────────────────────────────────────────
// list_tasks
// ─────────────────────────────────────────────────────────────────────────────

type listTasksTool struct {
	store   TaskStore
	ownerID int32
}

func (t *listTasksTool) Name() string { return listTasksToolName }
func (t *listTasksTool) Description() string {
	return "List the user's tasks, newest first. Input is a JSON string with optional key `completed` (bool)."
}
func (t *listTasksTool) Call(ctx context.Context, input string) (string, error) {
	slog.Debug("assistant tool call", "tool", t.Name(), "input", input)
	var payload struct {
		Completed *bool `json:"completed"`
	}
	if input != "" {
		if err := json.Unmarshal([]byte(input), &payload); err != nil {
			return encodeResult(ToolResult{Error: "Error: failed to parse input JSON."})
		}
	}

	list, err := t.store.ListTasks(ctx, &store.FindTask{OwnerID: &t.ownerID, Completed: payload.Completed})
	if err != nil {
		slog.Warn("assistant failed to list tasks", "owner", t.ownerID, "error", err.Error())
		return encodeResult(ToolResult{})
	}
	views := make([]TaskView, 0, len(list))
	for _, task := range list {
		views = append(views, toTaskView(task))
	}
	return encodeResult(ToolResult{Success: true, Tasks: views, Count: len(views)})
}

// ─────────────────────────────────────────────────────────────────────────────
// complete_task
// ─────────────────────────────────────────────────────────────────────────────

type completeTaskTool struct {
	store   TaskStore
	ownerID int32
}

func (t *completeTaskTool) Name() string { return completeTaskToolName }
func (t *completeTaskTool) Description() string {
	return "Mark one of the user's tasks as completed. Input must be a JSON string with key `task_id` (int)."
}
func (t *completeTaskTool) Call(ctx context.Context, input string) (string, error) {
	slog.Debug("assistant tool call", "tool", t.Name(), "input", input)
	var payload taskIDInput
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return encodeResult(ToolResult{Error: "Error: failed to parse input JSON."})
	}
	taskID, ok := payload.id()
	if !ok {
		return encodeResult(notFound(payload.TaskID.String()))
	}

	completed := true
	task, err := t.store.UpdateTask(ctx, t.ownerID, &store.UpdateTask{ID: taskID, Completed: &completed})
	if err != nil {
		slog.Warn("assistant failed to complete task", "owner", t.ownerID, "task", taskID, "error", err.Error())
		return encodeResult(failure(taskID, err))
	}
	view := toTaskView(task)
	return encodeResult(ToolResult{Success: true, Task: &view})
}

// ─────────────────────────────────────────────────────────────────────────────
// delete_task
// ─────────────────────────────────────────────────────────────────────────────

type deleteTaskTool struct {
	store   TaskStore
	ownerID int32
}

func (t *deleteTaskTool) Name() string { return deleteTaskToolName }
func (t *deleteTaskTool) Description() string {
	return "Permanently delete one of the user's tasks. Input must be a JSON string with key `task_id` (int)."
}
func (t *deleteTaskTool) Call(ctx context.Context, input string) (string, error) {
	slog.Debug("assistant tool call", "tool", t.Name(), "input", input)
	var payload taskIDInput
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return encodeResult(ToolResult{Error: "Error: failed to parse input JSON."})
	}
	taskID, ok := payload.id()
	if !ok {
		return encodeResult(notFound(payload.TaskID.String()))
	}

	if err := t.store.DeleteTask(ctx, t.ownerID, taskID); err != nil {
		slog.Warn("assistant failed to delete task", "owner", t.ownerID, "task", taskID, "error", err.Error())
		return encodeResult(failure(taskID, err))
	}
	return encodeResult(ToolResult{Success: true, Message: fmt.Sprintf("Task %d deleted successfully", taskID)})
}
