package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/pkg/errors"

	"github.com/todoai/todoai/plugin/filter"
	"github.com/todoai/todoai/store"
)

type createTaskRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
}

type updateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Completed   *bool   `json:"completed"`
}

type taskResponse struct {
	ID          int32     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	UserID      int32     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func convertTaskFromStore(task *store.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		UserID:      task.OwnerID,
		CreatedAt:   time.Unix(task.CreatedTs, 0).UTC(),
		UpdatedAt:   time.Unix(task.UpdatedTs, 0).UTC(),
	}
}

func (s *APIV1Service) registerTaskRoutes(e *echo.Echo) {
	g := e.Group("/tasks")
	g.GET("", s.listTasks)
	g.POST("", s.createTask)
	g.GET("/:id", s.getTask)
	g.PUT("/:id", s.updateTask)
	g.DELETE("/:id", s.deleteTask)
	g.POST("/:id/toggle", s.toggleTask)
}

// listTasks returns the caller's tasks, newest first. It accepts
// ?completed=true|false and ?filter=<CEL expression>.
func (s *APIV1Service) listTasks(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}

	find := &store.FindTask{OwnerID: &userID}
	if raw := c.QueryParam("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return newValidationError(ValidationDetail{
				Loc:  []string{"query", "completed"},
				Msg:  "must be a boolean",
				Type: "bool_parsing",
			})
		}
		find.Completed = &completed
	}
	var taskFilter *filter.TaskFilter
	if expr := c.QueryParam("filter"); expr != "" {
		taskFilter, err = filter.NewTaskFilter(expr)
		if err != nil {
			return newValidationError(ValidationDetail{
				Loc:  []string{"query", "filter"},
				Msg:  err.Error(),
				Type: "value_error",
			})
		}
	}

	tasks, err := s.Store.ListTasks(c.Request().Context(), find)
	if err != nil {
		return errors.Wrap(err, "failed to list tasks")
	}
	if taskFilter != nil {
		if tasks, err = taskFilter.Apply(tasks); err != nil {
			return newValidationError(ValidationDetail{
				Loc:  []string{"query", "filter"},
				Msg:  err.Error(),
				Type: "value_error",
			})
		}
	}

	resp := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		resp = append(resp, convertTaskFromStore(task))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) createTask(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	var req createTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := s.Store.CreateTask(c.Request().Context(), &store.Task{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create task")
	}
	return c.JSON(http.StatusCreated, convertTaskFromStore(task))
}

func (s *APIV1Service) getTask(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	task, err := s.Store.GetTask(c.Request().Context(), userID, id)
	if err != nil {
		return convertTaskError(err, "access")
	}
	return c.JSON(http.StatusOK, convertTaskFromStore(task))
}

func (s *APIV1Service) updateTask(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}
	var req updateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := s.Store.UpdateTask(c.Request().Context(), userID, &store.UpdateTask{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		return convertTaskError(err, "update")
	}
	return c.JSON(http.StatusOK, convertTaskFromStore(task))
}

func (s *APIV1Service) deleteTask(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	if err := s.Store.DeleteTask(c.Request().Context(), userID, id); err != nil {
		return convertTaskError(err, "delete")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *APIV1Service) toggleTask(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	task, err := s.Store.ToggleTask(c.Request().Context(), userID, id)
	if err != nil {
		return convertTaskError(err, "update")
	}
	return c.JSON(http.StatusOK, convertTaskFromStore(task))
}

func parseTaskID(c *echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return 0, newValidationError(ValidationDetail{
			Loc:  []string{"path", "id"},
			Msg:  "must be an integer",
			Type: "int_parsing",
		})
	}
	return int32(id), nil
}

// convertTaskError maps lookup failures to their HTTP error. Any other error
// is passed through for the error handler.
func convertTaskError(err error, action string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	case errors.Is(err, store.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to "+action+" this task")
	default:
		return err
	}
}
