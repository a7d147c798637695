package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v5"
	"github.com/stretchr/testify/require"

	"github.com/todoai/todoai/internal/profile"
	"github.com/todoai/todoai/store"
	teststore "github.com/todoai/todoai/store/test"
)

type testServer struct {
	t       *testing.T
	echo    *echo.Echo
	store   *store.Store
	service *APIV1Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := teststore.NewTestingStore(context.Background(), t)
	service := NewAPIV1Service(&profile.Profile{
		Mode:                 "dev",
		JWTSecret:            "test-secret",
		JWTAlgorithm:         "HS256",
		JWTExpirationMinutes: 60,
	}, ts)

	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	service.RegisterRoutes(e)
	return &testServer{t: t, echo: e, store: ts, service: service}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewBuffer(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns its access token.
func (s *testServer) register(email string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/auth/register", "", map[string]string{
		"email":    email,
		"password": "ValidPass123",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp tokenResponse
	decode(s.t, rec, &resp)
	require.Equal(s.t, "bearer", resp.TokenType)
	require.NotEmpty(s.t, resp.AccessToken)
	return resp.AccessToken
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func detailOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Detail string `json:"detail"`
	}
	decode(t, rec, &resp)
	return resp.Detail
}
