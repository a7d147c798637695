package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/pkg/errors"

	"github.com/todoai/todoai/server/auth"
	"github.com/todoai/todoai/store"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72,password"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID        int32     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *APIV1Service) registerAuthRoutes(e *echo.Echo) {
	g := e.Group("/auth")
	g.POST("/register", s.register)
	g.POST("/login", s.login)
	g.GET("/me", s.me)
}

func (s *APIV1Service) register(c *echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}
	user, err := s.Store.CreateUser(c.Request().Context(), &store.User{
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return echo.NewHTTPError(http.StatusConflict, "Email already registered")
		}
		return errors.Wrap(err, "failed to create user")
	}
	return s.respondWithToken(c, http.StatusCreated, user.ID)
}

func (s *APIV1Service) login(c *echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	email := strings.TrimSpace(req.Email)
	user, err := s.Store.GetUser(c.Request().Context(), &store.FindUser{Email: &email})
	if err != nil {
		return errors.Wrap(err, "failed to find user")
	}
	// Unknown email and wrong password are indistinguishable to the caller.
	if user == nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	return s.respondWithToken(c, http.StatusOK, user.ID)
}

func (s *APIV1Service) me(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	user, err := s.Store.GetUser(c.Request().Context(), &store.FindUser{ID: &userID})
	if err != nil {
		return errors.Wrap(err, "failed to find user")
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, userResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: time.Unix(user.CreatedTs, 0).UTC(),
	})
}

func (s *APIV1Service) respondWithToken(c *echo.Context, status int, userID int32) error {
	token, err := s.Authenticator.IssueToken(userID, s.Profile.JWTExpiration())
	if err != nil {
		return errors.Wrap(err, "failed to issue access token")
	}
	return c.JSON(status, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
