package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestInstrument(t *testing.T) {
	handler := Instrument(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := testutil.ToFloat64(httpRequests.WithLabelValues("418", "get"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("418", "get")))
}

func TestObserveToolCall(t *testing.T) {
	before := testutil.ToFloat64(toolCalls.WithLabelValues("add_task", "failure"))
	ObserveToolCall("add_task", false)
	require.Equal(t, before+1, testutil.ToFloat64(toolCalls.WithLabelValues("add_task", "failure")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveChatTurn()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "todoai_chat_turns_total"))
}
