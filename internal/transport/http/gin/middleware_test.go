package httpgin

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/theatrego/internal/service"
)

func TestLoggingMiddleware_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	up := true
	r := NewRouter(&service.Services{}, logger, Options{
		Ready: func(context.Context) error {
			if up {
				return nil
			}
			return errors.New("redis ping: refused")
		},
	})

	do(r, http.MethodGet, "/healthz", "")
	do(r, http.MethodGet, "/readyz", "")
	assert.Empty(t, buf.String(), "healthy probes are not logged")

	w := do(r, http.MethodPut, "/api/admin/bookings/abc/status", `{"status":"confirmed"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	line := buf.String()
	assert.Contains(t, line, `"level":"WARN"`)
	assert.Contains(t, line, `"route":"/api/admin/bookings/:id/status"`)
	assert.Contains(t, line, `"status":400`)

	buf.Reset()
	up = false
	do(r, http.MethodGet, "/readyz", "")
	line = buf.String()
	assert.Contains(t, line, `"level":"ERROR"`)
	assert.Contains(t, line, "redis ping: refused")
	assert.Equal(t, 1, strings.Count(line, "\n"))
}

func TestRequestID_TooLongIsReplaced(t *testing.T) {
	r := NewRouter(&service.Services{}, nil, Options{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 129))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}
