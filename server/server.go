package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/pkg/errors"

	"github.com/todoai/todoai/internal/profile"
	"github.com/todoai/todoai/server/metrics"
	apiv1 "github.com/todoai/todoai/server/router/api/v1"
	"github.com/todoai/todoai/store"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	httpServer *http.Server
}

func NewServer(_ context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	s := &Server{
		Profile: profile,
		Store:   store,
	}

	echoServer := echo.New()
	echoServer.HTTPErrorHandler = apiv1.HTTPErrorHandler
	echoServer.Use(middleware.Recover())
	echoServer.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	echoServer.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{profile.FrontendURL},
		AllowCredentials: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost,
			http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization,
		},
	}))
	s.echoServer = echoServer

	echoServer.GET("/", s.root)
	echoServer.GET("/health", func(c *echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})
	echoServer.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	apiv1.NewAPIV1Service(profile, store).RegisterRoutes(echoServer)

	s.httpServer = &http.Server{
		Handler:           metrics.Instrument(logRequests(echoServer)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) root(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Todo AI API",
		"version": s.Profile.Version,
		"status":  "operational",
	})
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until Shutdown is called. It returns nil after a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", address)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", address)
	}
	slog.Info("server listening", "address", listener.Addr().String(), "mode", s.Profile.Mode, "version", s.Profile.Version)
	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server stopped")
	}
	return nil
}

// Shutdown stops accepting requests, waits up to five seconds for in-flight
// ones, then closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	slog.Info("server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err.Error())
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", "error", err.Error())
	}
	slog.Info("server stopped properly")
}
