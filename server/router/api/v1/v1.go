package v1

import (
	"github.com/labstack/echo/v5"

	"github.com/todoai/todoai/internal/profile"
	"github.com/todoai/todoai/server/assistant"
	"github.com/todoai/todoai/server/auth"
	"github.com/todoai/todoai/store"
)

type APIV1Service struct {
	Profile       *profile.Profile
	Store         *store.Store
	Authenticator *auth.Authenticator
	Interpreter   *assistant.Interpreter
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store) *APIV1Service {
	return &APIV1Service{
		Profile:       profile,
		Store:         store,
		Authenticator: auth.NewAuthenticator(profile.JWTSecret, profile.JWTAlgorithm),
		Interpreter:   assistant.NewInterpreter(store),
	}
}

// RegisterRoutes registers every v1 endpoint on e.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	s.registerAuthRoutes(e)
	s.registerTaskRoutes(e)
	s.registerChatRoutes(e)
}

// requireAuth resolves the user id carried by the request's bearer token.
func (s *APIV1Service) requireAuth(c *echo.Context) (int32, error) {
	return s.Authenticator.Authenticate(c.Request().Header.Get("Authorization"))
}
