package v1

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"
	"github.com/pkg/errors"

	"github.com/todoai/todoai/server/auth"
	"github.com/todoai/todoai/store"
)

// ValidationDetail describes one rejected input field.
type ValidationDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError is returned by handlers for malformed input and is served as 422.
type ValidationError struct {
	Details []ValidationDetail
}

func newValidationError(details ...ValidationDetail) *ValidationError {
	return &ValidationError{Details: details}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Details))
	for _, detail := range e.Details {
		msgs = append(msgs, strings.Join(detail.Loc, ".")+": "+detail.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

type errorResponse struct {
	Detail any `json:"detail"`
}

// HTTPErrorHandler renders every handler error as {"detail": ...} with the
// status of its kind. Unexpected errors are logged and hidden behind a 500.
func HTTPErrorHandler(c *echo.Context, err error) {
	status, detail := statusOf(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err.Error(),
		)
	}
	if status == http.StatusUnauthorized {
		c.Response().Header().Set("WWW-Authenticate", "Bearer")
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, errorResponse{Detail: detail})
	}
	if err != nil {
		slog.Warn("failed to write error response", "error", err.Error())
	}
}

func statusOf(err error) (int, any) {
	var validationErr *ValidationError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity, validationErr.Details
	case errors.Is(err, store.ErrInvalidTask), errors.Is(err, store.ErrInvalidMessage):
		return http.StatusUnprocessableEntity, []ValidationDetail{{
			Loc:  []string{"body"},
			Msg:  err.Error(),
			Type: "value_error",
		}}
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid authentication credentials"
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict, "Resource already exists"
	case errors.Is(err, store.ErrForbidden):
		return http.StatusForbidden, "Not authorized to access this resource"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.As(err, &httpErr):
		return httpErr.Code, httpErr.Message
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
