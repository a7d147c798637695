package v1

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func createTestingTask(t *testing.T, s *testServer, token, title string) taskResponse {
	t.Helper()
	rec := s.do(http.MethodPost, "/tasks", token, map[string]any{"title": title})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var task taskResponse
	decode(t, rec, &task)
	return task
}

func TestTaskRoundTrip(t *testing.T) {
	s := newTestServer(t)
	token := s.register("tasks@example.com")

	rec := s.do(http.MethodPost, "/tasks", token, map[string]any{
		"title":       "  Buy groceries ",
		"description": "Milk, eggs, bread",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created taskResponse
	decode(t, rec, &created)
	require.Equal(t, "Buy groceries", created.Title)
	require.False(t, created.Completed)
	require.NotZero(t, created.ID)

	rec = s.do(http.MethodGet, fmt.Sprintf("/tasks/%d", created.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got taskResponse
	decode(t, rec, &got)
	require.Equal(t, created, got)
	require.NotNil(t, got.Description)
	require.Equal(t, "Milk, eggs, bread", *got.Description)

	rec = s.do(http.MethodPut, fmt.Sprintf("/tasks/%d", created.ID), token, map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated taskResponse
	decode(t, rec, &updated)
	require.True(t, updated.Completed)
	require.Equal(t, "Buy groceries", updated.Title)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/tasks/%d", created.ID), token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())

	rec = s.do(http.MethodGet, fmt.Sprintf("/tasks/%d", created.ID), token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Task not found", detailOf(t, rec))
}

func TestTaskToggleIsInvolution(t *testing.T) {
	s := newTestServer(t)
	token := s.register("toggle@example.com")
	task := createTestingTask(t, s, token, "Stretch")

	path := fmt.Sprintf("/tasks/%d/toggle", task.ID)
	for _, want := range []bool{true, false} {
		rec := s.do(http.MethodPost, path, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var toggled taskResponse
		decode(t, rec, &toggled)
		require.Equal(t, want, toggled.Completed)
	}
}

func TestTaskOwnership(t *testing.T) {
	s := newTestServer(t)
	owner := s.register("owner@example.com")
	intruder := s.register("intruder@example.com")
	task := createTestingTask(t, s, owner, "Private plans")

	path := fmt.Sprintf("/tasks/%d", task.ID)
	for _, tc := range []struct {
		method string
		path   string
		body   any
	}{
		{method: http.MethodGet, path: path},
		{method: http.MethodPut, path: path, body: map[string]any{"title": "hijacked"}},
		{method: http.MethodDelete, path: path},
		{method: http.MethodPost, path: path + "/toggle"},
	} {
		rec := s.do(tc.method, tc.path, intruder, tc.body)
		require.Equal(t, http.StatusForbidden, rec.Code, tc.method+" "+tc.path)
		require.False(t, strings.Contains(rec.Body.String(), "Private plans"))
	}

	rec := s.do(http.MethodGet, path, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got taskResponse
	decode(t, rec, &got)
	require.Equal(t, "Private plans", got.Title)
	require.False(t, got.Completed)
}

func TestTaskMissing(t *testing.T) {
	s := newTestServer(t)
	token := s.register("missing@example.com")

	rec := s.do(http.MethodPost, "/tasks/4242/toggle", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/tasks/abc", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTaskValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.register("validation@example.com")

	for _, body := range []map[string]any{
		{},
		{"title": "   "},
		{"title": strings.Repeat("x", 201)},
		{"title": "ok", "description": strings.Repeat("x", 5001)},
	} {
		rec := s.do(http.MethodPost, "/tasks", token, body)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	}

	task := createTestingTask(t, s, token, "Valid")
	rec := s.do(http.MethodPut, fmt.Sprintf("/tasks/%d", task.ID), token, map[string]any{"title": ""})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTaskList(t *testing.T) {
	s := newTestServer(t)
	token := s.register("list@example.com")
	other := s.register("other@example.com")

	milk := createTestingTask(t, s, token, "Buy milk")
	bread := createTestingTask(t, s, token, "Buy bread")
	createTestingTask(t, s, other, "Not mine")
	rec := s.do(http.MethodPost, fmt.Sprintf("/tasks/%d/toggle", milk.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list := func(query string) []taskResponse {
		rec := s.do(http.MethodGet, "/tasks"+query, token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var tasks []taskResponse
		decode(t, rec, &tasks)
		return tasks
	}

	all := list("")
	require.Len(t, all, 2)
	require.Equal(t, bread.ID, all[0].ID)
	require.Equal(t, milk.ID, all[1].ID)

	done := list("?completed=true")
	require.Len(t, done, 1)
	require.Equal(t, milk.ID, done[0].ID)

	filtered := list(`?filter=title.contains(%22bread%22)`)
	require.Len(t, filtered, 1)
	require.Equal(t, bread.ID, filtered[0].ID)

	rec = s.do(http.MethodGet, "/tasks?completed=maybe", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	rec = s.do(http.MethodGet, "/tasks?filter=title", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTaskRequiresToken(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/tasks", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
