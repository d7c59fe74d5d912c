package httpgin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/theatrego/internal/domain"
	"github.com/kirinyoku/theatrego/internal/service"
	"github.com/kirinyoku/theatrego/internal/service/admin"
	"github.com/kirinyoku/theatrego/internal/service/availability"
	"github.com/kirinyoku/theatrego/internal/service/booking"
	"github.com/kirinyoku/theatrego/internal/slots"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubDirectory struct {
	theatres []domain.Theatre
	err      error
}

func (s stubDirectory) ListActiveTheatres(context.Context) ([]domain.Theatre, error) {
	return s.theatres, s.err
}

type stubLedger struct {
	bookings []domain.Booking
	err      error
}

func (s stubLedger) ListBookingsBetween(context.Context, time.Time, time.Time) ([]domain.Booking, error) {
	return s.bookings, s.err
}

func (s stubLedger) ListTheatreBookingsBetween(_ context.Context, name string, _, _ time.Time) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range s.bookings {
		if b.TheatreName == name {
			out = append(out, b)
		}
	}
	return out, s.err
}

func newTestRouter(dir stubDirectory, ledger stubLedger) *gin.Engine {
	svcs := &service.Services{
		Availability: availability.New(dir, ledger, availability.Config{
			Location: time.UTC,
			Slots:    slots.DefaultConfig(),
		}),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(svcs, logger, Options{})
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func mondayLedger() stubLedger {
	return stubLedger{bookings: []domain.Booking{
		{TheatreName: "Imperial Suite", Datetime: time.Date(2026, 10, 12, 15, 0, 0, 0, time.UTC)},
	}}
}

func TestSlotAvailability_Batch(t *testing.T) {
	r := newTestRouter(stubDirectory{theatres: []domain.Theatre{{ID: 1, Name: "Imperial Suite"}}}, mondayLedger())

	w := do(r, http.MethodGet, "/api/slots/availability?date=2026-10-12", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"availability":[{"name":"Imperial Suite","slots":3}]}`, w.Body.String())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestSlotAvailability_BatchEmpty(t *testing.T) {
	r := newTestRouter(stubDirectory{}, stubLedger{})

	w := do(r, http.MethodGet, "/api/slots/availability?date=2026-10-12", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"availability":[]}`, w.Body.String())
}

func TestSlotAvailability_Single(t *testing.T) {
	r := newTestRouter(stubDirectory{}, mondayLedger())

	w := do(r, http.MethodGet, "/api/slots/availability?date=2026-10-12&theatre=Imperial%20Suite", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"availableSlots":4}`, w.Body.String())
}

func TestSlotAvailability_InvalidInput(t *testing.T) {
	r := newTestRouter(stubDirectory{}, stubLedger{})

	cases := map[string]string{
		"/api/slots/availability":                             "date is required",
		"/api/slots/availability?date=2026/10/12":             "date must be YYYY-MM-DD",
		"/api/slots/availability?date=2026-10-12&theatre=":    "theatre is required",
		"/api/slots/availability?date=2026-10-12&theatre=%20": "theatre is required",
	}
	for target, msg := range cases {
		w := do(r, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, msg), w.Body.String(), target)
	}
}

func TestSlotAvailability_StorageFailure(t *testing.T) {
	r := newTestRouter(stubDirectory{err: errors.New("connection refused")}, stubLedger{})

	w := do(r, http.MethodGet, "/api/slots/availability?date=2026-10-12", "")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"server error"}`, w.Body.String())
}

func TestHealthz(t *testing.T) {
	w := do(newTestRouter(stubDirectory{}, stubLedger{}), http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReadyz(t *testing.T) {
	w := do(newTestRouter(stubDirectory{}, stubLedger{}), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRouter(&service.Services{}, logger, Options{
		Ready: func(context.Context) error { return errors.New("postgres ping: refused") },
	})
	w = do(r, http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
}

func TestRequestID(t *testing.T) {
	r := newTestRouter(stubDirectory{}, stubLedger{})

	w := do(r, http.MethodGet, "/healthz", "")
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCreateBooking_BadRequest(t *testing.T) {
	r := newTestRouter(stubDirectory{}, stubLedger{})

	w := do(r, http.MethodPost, "/api/bookings", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/bookings",
		`{"name":"Asha","phone":"1","theatre_name":"Royal","party_size":2,"datetime":"tomorrow"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid datetime (RFC3339)"}`, w.Body.String())
}

func TestCreateContact_BadEmail(t *testing.T) {
	r := newTestRouter(stubDirectory{}, stubLedger{})

	w := do(r, http.MethodPost, "/api/contacts", `{"name":"Ravi","email":"nope","message":"hi"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_InvalidID(t *testing.T) {
	r := newTestRouter(stubDirectory{}, stubLedger{})

	w := do(r, http.MethodPut, "/api/admin/bookings/abc/status", `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid id"}`, w.Body.String())

	w = do(r, http.MethodDelete, "/api/admin/theatres/0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodDelete, "/api/admin/gallery/-3", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid id"}`, w.Body.String())
}

func TestAdmin_UnknownStatusRejectedByBinding(t *testing.T) {
	r := newTestRouter(stubDirectory{}, stubLedger{})

	w := do(r, http.MethodPut, "/api/admin/bookings/7/status", `{"status":"archived"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRespondErr(t *testing.T) {
	cases := []struct {
		err    error
		status int
		body   string
	}{
		{fmt.Errorf("op: %w", booking.RateLimitedError{RetryAfter: 1500 * time.Millisecond}), http.StatusTooManyRequests, `{"error":"rate limited"}`},
		{fmt.Errorf("op: %w: name is required", booking.ErrInvalidBooking), http.StatusBadRequest, `{"error":"name is required"}`},
		{fmt.Errorf("op: %w", booking.ErrBookingNotFound), http.StatusNotFound, `{"error":"booking not found"}`},
		{fmt.Errorf("op: %w", admin.ErrTheatreConflict), http.StatusConflict, `{"error":"theatre already exists"}`},
		{fmt.Errorf("op: %w", admin.ErrGalleryImageNotFound), http.StatusNotFound, `{"error":"gallery image not found"}`},
		{fmt.Errorf("op: %w: price must not be negative", admin.ErrInvalidAddon), http.StatusBadRequest, `{"error":"price must not be negative"}`},
		{errors.New("boom"), http.StatusInternalServerError, `{"error":"server error"}`},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondErr(c, tc.err)

		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.JSONEq(t, tc.body, w.Body.String(), tc.err.Error())
		if tc.status == http.StatusTooManyRequests {
			assert.Equal(t, "2", w.Header().Get("Retry-After"))
		}
	}
}

func TestErrMessage(t *testing.T) {
	err := fmt.Errorf("a: b: %w: date must be YYYY-MM-DD", availability.ErrInvalidInput)

	assert.Equal(t, "date must be YYYY-MM-DD", errMessage(err, availability.ErrInvalidInput))
	assert.Equal(t, "invalid input", errMessage(availability.ErrInvalidInput, availability.ErrInvalidInput))
}

func TestActiveOrDefault(t *testing.T) {
	f := false

	assert.True(t, activeOrDefault(nil))
	assert.False(t, activeOrDefault(&f))
}
