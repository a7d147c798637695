package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/todoai/todoai/store"
	teststore "github.com/todoai/todoai/store/test"
)

type interpreterHarness struct {
	ctx         context.Context
	store       *store.Store
	interpreter *Interpreter
	ownerID     int32
	history     []*store.Message
}

func newInterpreterHarness(t *testing.T) *interpreterHarness {
	t.Helper()
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	user, err := ts.CreateUser(ctx, &store.User{Email: "chat@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	return &interpreterHarness{
		ctx:         ctx,
		store:       ts,
		interpreter: NewInterpreter(ts),
		ownerID:     user.ID,
	}
}

// say runs one turn and records it in the harness history.
func (h *interpreterHarness) say(message string) string {
	reply := h.interpreter.Interpret(h.ctx, h.ownerID, message, h.history)
	h.history = append(h.history,
		&store.Message{Role: store.RoleUser, Content: message},
		&store.Message{Role: store.RoleAssistant, Content: reply},
	)
	return reply
}

func (h *interpreterHarness) tasks(t *testing.T) []*store.Task {
	t.Helper()
	list, err := h.store.ListTasks(h.ctx, &store.FindTask{OwnerID: &h.ownerID})
	require.NoError(t, err)
	return list
}

func (h *interpreterHarness) createTask(t *testing.T, ownerID int32, title string) *store.Task {
	t.Helper()
	task, err := h.store.CreateTask(h.ctx, &store.Task{OwnerID: ownerID, Title: title})
	require.NoError(t, err)
	return task
}

func TestInterpreterAddTask(t *testing.T) {
	h := newInterpreterHarness(t)

	require.Equal(t, "I've added 'buy milk' to your task list.", h.say("add task buy milk"))
	tasks := h.tasks(t)
	require.Len(t, tasks, 1)
	require.Equal(t, "buy milk", tasks[0].Title)
	require.False(t, tasks[0].Completed)
}

func TestInterpreterAddTaskAsksForTitle(t *testing.T) {
	h := newInterpreterHarness(t)

	require.Equal(t, "What task would you like to add?", h.say("add task"))
	require.Empty(t, h.tasks(t))

	// The next message is taken as the title whatever it says.
	require.Equal(t, "I've added 'show me the money' to your task list.", h.say("  show me the money "))
	tasks := h.tasks(t)
	require.Len(t, tasks, 1)
	require.Equal(t, "show me the money", tasks[0].Title)
}

func TestInterpreterAddTaskContinuationRejectsBlankTitle(t *testing.T) {
	h := newInterpreterHarness(t)

	require.Equal(t, "What task would you like to add?", h.say("Add a task"))
	require.Equal(t, "Sorry, I couldn't add that task.", h.say("   "))
	require.Empty(t, h.tasks(t))
}

func TestInterpreterListTasks(t *testing.T) {
	h := newInterpreterHarness(t)

	require.Equal(t, "Your task list is empty.", h.say("show my tasks"))

	first := h.createTask(t, h.ownerID, "first")
	second := h.createTask(t, h.ownerID, "second")
	completed := true
	_, err := h.store.UpdateTask(h.ctx, h.ownerID, &store.UpdateTask{ID: first.ID, Completed: &completed})
	require.NoError(t, err)

	expected := "Here are your tasks:\n" +
		"Task " + itoa(second.ID) + ": second ○\n" +
		"Task " + itoa(first.ID) + ": first ✓"
	require.Equal(t, expected, h.say("what do I have?"))
	require.Equal(t, expected, h.say("LIST"))
}

func TestInterpreterListTasksIsScopedToOwner(t *testing.T) {
	h := newInterpreterHarness(t)
	other, err := h.store.CreateUser(h.ctx, &store.User{Email: "other@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	h.createTask(t, other.ID, "not mine")

	require.Equal(t, "Your task list is empty.", h.say("show my tasks"))
}

func TestInterpreterCompleteTask(t *testing.T) {
	h := newInterpreterHarness(t)
	task := h.createTask(t, h.ownerID, "water plants")

	require.Equal(t, "Great! I've marked task "+itoa(task.ID)+" as complete.", h.say("mark "+itoa(task.ID)+" done"))
	got, err := h.store.GetTask(h.ctx, h.ownerID, task.ID)
	require.NoError(t, err)
	require.True(t, got.Completed)
}

func TestInterpreterCompleteTaskAsksForNumber(t *testing.T) {
	h := newInterpreterHarness(t)

	require.Equal(t, "Which task would you like to mark as complete? Please provide the task number.", h.say("I'm done"))
	require.Equal(t, "Please provide a task number.", h.say("the plants one"))
	// The re-prompt does not ask "which task", so the next message is a fresh command.
	help := "I can help you manage your tasks. Try saying 'add a task', 'show my tasks', 'complete task 1', or 'delete task 2'."
	require.Equal(t, help, h.say("hmm"))
}

func TestInterpreterCompleteTaskFromContinuation(t *testing.T) {
	h := newInterpreterHarness(t)
	task := h.createTask(t, h.ownerID, "water plants")

	require.Equal(t, "Which task would you like to mark as complete? Please provide the task number.", h.say("complete"))
	require.Equal(t, "Great! I've marked task "+itoa(task.ID)+" as complete.", h.say(itoa(task.ID)))
}

func TestInterpreterDeleteTask(t *testing.T) {
	h := newInterpreterHarness(t)
	task := h.createTask(t, h.ownerID, "call mom")

	require.Equal(t, "I've deleted task "+itoa(task.ID)+" from your list.", h.say("please delete "+itoa(task.ID)+" now"))
	require.Empty(t, h.tasks(t))
}

func TestInterpreterDeleteTaskFromContinuation(t *testing.T) {
	h := newInterpreterHarness(t)
	task := h.createTask(t, h.ownerID, "call mom")

	require.Equal(t, "Which task would you like to delete? Please provide the task number.", h.say("remove something"))
	require.Equal(t, "I've deleted task "+itoa(task.ID)+" from your list.", h.say("number "+itoa(task.ID)))
	require.Empty(t, h.tasks(t))
}

func TestInterpreterZeroIsNotATaskNumber(t *testing.T) {
	h := newInterpreterHarness(t)

	require.Equal(t, "Which task would you like to delete? Please provide the task number.", h.say("delete 0"))
}

func TestInterpreterHidesForeignTasks(t *testing.T) {
	h := newInterpreterHarness(t)
	other, err := h.store.CreateUser(h.ctx, &store.User{Email: "other@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	foreign := h.createTask(t, other.ID, "secret")

	id := itoa(foreign.ID)
	require.Equal(t, "Task "+id+" not found or access denied", h.say("complete "+id))
	require.Equal(t, "Task "+id+" not found or access denied", h.say("delete "+id))
	require.Equal(t, "Task 4242 not found or access denied", h.say("delete 4242"))

	got, err := h.store.GetTask(h.ctx, other.ID, foreign.ID)
	require.NoError(t, err)
	require.False(t, got.Completed)
}

func TestInterpreterOversizedTaskNumberWins(t *testing.T) {
	h := newInterpreterHarness(t)
	task := h.createTask(t, h.ownerID, "keep me")

	id := itoa(task.ID)
	require.Equal(t, "Task 99999999999 not found or access denied", h.say("delete 99999999999 "+id))
	require.Equal(t, "Task 99999999999 not found or access denied", h.say("complete 99999999999 "+id))

	got, err := h.store.GetTask(h.ctx, h.ownerID, task.ID)
	require.NoError(t, err)
	require.False(t, got.Completed)
	require.Len(t, h.tasks(t), 1)
}

func TestInterpreterHelp(t *testing.T) {
	h := newInterpreterHarness(t)

	help := "I can help you manage your tasks. Try saying 'add a task', 'show my tasks', 'complete task 1', or 'delete task 2'."
	require.Equal(t, help, h.say("hello there"))
}

func TestInterpreterWhichTaskWithoutActionFallsThrough(t *testing.T) {
	h := newInterpreterHarness(t)
	task := h.createTask(t, h.ownerID, "stretch")
	h.history = []*store.Message{
		{Role: store.RoleAssistant, Content: "Which task do you mean?"},
	}

	// A number is found but the prompt names no action, so the message is
	// handled as a fresh command.
	help := "I can help you manage your tasks. Try saying 'add a task', 'show my tasks', 'complete task 1', or 'delete task 2'."
	require.Equal(t, help, h.interpreter.Interpret(h.ctx, h.ownerID, itoa(task.ID), h.history))
}

func TestInterpreterUsesMostRecentAssistantMessage(t *testing.T) {
	h := newInterpreterHarness(t)
	h.history = []*store.Message{
		{Role: store.RoleAssistant, Content: "What task would you like to add?"},
		{Role: store.RoleUser, Content: "nothing"},
		{Role: store.RoleAssistant, Content: "Your task list is empty."},
	}

	require.Equal(t, "Your task list is empty.", h.interpreter.Interpret(h.ctx, h.ownerID, "show tasks", h.history))
}
