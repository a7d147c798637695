package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/tools"

	"github.com/todoai/todoai/server/metrics"
	"github.com/todoai/todoai/store"
)

const (
	replyAskTitle        = "What task would you like to add?"
	replyAddFailed       = "Sorry, I couldn't add that task."
	replyListEmpty       = "Your task list is empty."
	replyListFailed      = "Sorry, I couldn't retrieve your tasks."
	replyCompleteFailed  = "Sorry, I couldn't complete that task."
	replyDeleteFailed    = "Sorry, I couldn't delete that task."
	replyAskCompleteID   = "Which task would you like to mark as complete? Please provide the task number."
	replyAskDeleteID     = "Which task would you like to delete? Please provide the task number."
	replyAskTaskNumber   = "Please provide a task number."
	replyHelp            = "I can help you manage your tasks. Try saying 'add a task', 'show my tasks', 'complete task 1', or 'delete task 2'."
	listHeader           = "Here are your tasks:"
	completedMarker      = "✓"
	pendingMarker        = "○"
	promptAddTitle       = "what task would you like to add"
	promptWhichTask      = "which task"
	minDirectTitleLength = 2
)

// Interpreter maps a chat message plus the conversation so far to a task
// action and a plain-text reply. It never returns an error: every failure is
// rendered as a sentence.
type Interpreter struct {
	store TaskStore
}

func NewInterpreter(store TaskStore) *Interpreter {
	return &Interpreter{store: store}
}

func (i *Interpreter) Interpret(ctx context.Context, ownerID int32, message string, history []*store.Message) string {
	registry := newToolRegistry(i.store, ownerID)

	if reply, ok := i.continueConversation(ctx, registry, message, history); ok {
		return reply
	}

	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "add") && strings.Contains(lower, "task"):
		title := extractTitle(message)
		if utf8.RuneCountInString(title) < minDirectTitleLength {
			return replyAskTitle
		}
		return i.addTask(ctx, registry, title)
	case containsAny(lower, "list", "show", "what"):
		return i.listTasks(ctx, registry)
	case containsAny(lower, "complete", "done", "mark"):
		number, ok := extractTaskNumber(message)
		if !ok {
			return replyAskCompleteID
		}
		return i.completeTask(ctx, registry, number)
	case containsAny(lower, "delete", "remove"):
		number, ok := extractTaskNumber(message)
		if !ok {
			return replyAskDeleteID
		}
		return i.deleteTask(ctx, registry, number)
	default:
		return replyHelp
	}
}

// continueConversation answers a message that replies to the last assistant
// prompt. It reports false when the message should be treated as a new command.
func (i *Interpreter) continueConversation(ctx context.Context, registry map[string]tools.Tool, message string, history []*store.Message) (string, bool) {
	last := lastAssistantMessage(history)
	if last == nil {
		return "", false
	}
	prompt := strings.ToLower(last.Content)

	if strings.Contains(prompt, promptAddTitle) {
		return i.addTask(ctx, registry, strings.TrimSpace(message)), true
	}
	if !strings.Contains(prompt, promptWhichTask) {
		return "", false
	}
	number, ok := extractTaskNumber(message)
	if !ok {
		return replyAskTaskNumber, true
	}
	switch {
	case containsAny(prompt, "complete", "mark"):
		return i.completeTask(ctx, registry, number), true
	case containsAny(prompt, "delete", "remove"):
		return i.deleteTask(ctx, registry, number), true
	}
	return "", false
}

func (i *Interpreter) addTask(ctx context.Context, registry map[string]tools.Tool, title string) string {
	result := callTool(ctx, registry, addTaskToolName, map[string]any{"title": title})
	if !result.Success {
		return replyAddFailed
	}
	return fmt.Sprintf("I've added '%s' to your task list.", title)
}

func (i *Interpreter) listTasks(ctx context.Context, registry map[string]tools.Tool) string {
	result := callTool(ctx, registry, listTasksToolName, map[string]any{})
	if !result.Success {
		return replyListFailed
	}
	if len(result.Tasks) == 0 {
		return replyListEmpty
	}

	lines := make([]string, 0, len(result.Tasks)+1)
	lines = append(lines, listHeader)
	for _, task := range result.Tasks {
		marker := pendingMarker
		if task.Completed {
			marker = completedMarker
		}
		lines = append(lines, fmt.Sprintf("Task %d: %s %s", task.ID, task.Title, marker))
	}
	return strings.Join(lines, "\n")
}

func (i *Interpreter) completeTask(ctx context.Context, registry map[string]tools.Tool, number string) string {
	result := callTool(ctx, registry, completeTaskToolName, map[string]any{"task_id": json.Number(number)})
	if result.Success {
		return fmt.Sprintf("Great! I've marked task %s as complete.", number)
	}
	if result.Error != "" {
		return result.Error
	}
	return replyCompleteFailed
}

func (i *Interpreter) deleteTask(ctx context.Context, registry map[string]tools.Tool, number string) string {
	result := callTool(ctx, registry, deleteTaskToolName, map[string]any{"task_id": json.Number(number)})
	if result.Success {
		return fmt.Sprintf("I've deleted task %s from your list.", number)
	}
	if result.Error != "" {
		return result.Error
	}
	return replyDeleteFailed
}

// callTool runs a registered tool and decodes its JSON result. Any transport
// problem is reported as an unsuccessful result.
func callTool(ctx context.Context, registry map[string]tools.Tool, name string, input map[string]any) ToolResult {
	result := runTool(ctx, registry, name, input)
	metrics.ObserveToolCall(name, result.Success)
	return result
}

func runTool(ctx context.Context, registry map[string]tools.Tool, name string, input map[string]any) ToolResult {
	tool, ok := registry[name]
	if !ok {
		slog.Error("assistant tool not registered", "tool", name)
		return ToolResult{}
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return ToolResult{}
	}
	output, err := tool.Call(ctx, string(payload))
	if err != nil {
		slog.Warn("assistant tool call failed", "tool", name, "error", err.Error())
		return ToolResult{}
	}
	var result ToolResult
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		slog.Warn("assistant tool returned malformed result", "tool", name, "error", err.Error())
		return ToolResult{}
	}
	return result
}

func lastAssistantMessage(history []*store.Message) *store.Message {
	for idx := len(history) - 1; idx >= 0; idx-- {
		if history[idx].Role == store.RoleAssistant {
			return history[idx]
		}
	}
	return nil
}

func containsAny(s string, substrs ...string) bool {
	for _, substr := range substrs {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}
