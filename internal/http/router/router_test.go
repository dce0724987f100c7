package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"service-cleaning-booking/internal/apperr"
	"service-cleaning-booking/internal/domain"
	"service-cleaning-booking/internal/http/handlers"
	"service-cleaning-booking/internal/http/router"
	"service-cleaning-booking/internal/logx"
	"service-cleaning-booking/internal/metrics"
	"service-cleaning-booking/internal/repository/memstore"
	"service-cleaning-booking/internal/service/assignment"
)

type discard struct{}

func (discard) Send(context.Context, domain.NotificationEvent) error { return nil }

func newRouter(t *testing.T) (http.Handler, *memstore.Store) {
	t.Helper()

	store := memstore.New()
	store.PutBooking(domain.Booking{ID: 1})
	store.PutStaff(domain.StaffMember{ID: 5, Name: "Ann", Status: domain.StaffActive})

	svc := assignment.NewService(store, discard{}, assignment.Config{}, logx.Nop(), nil)
	ah := handlers.NewAssignmentHandler(handlers.NewAssignmentUsecase(svc), logx.Nop())
	m, err := metrics.RegisterHTTP(prometheus.DefaultRegisterer)
	require.NoError(t, err)
	return router.New(handlers.New(logx.Nop(), nil), ah, m, logx.Nop()), store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_ServiceEndpoints(t *testing.T) {
	t.Parallel()

	h, _ := newRouter(t)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/ping", "").Code)
	require.Equal(t, http.StatusNoContent, do(t, h, http.MethodHead, "/healthcheck", "").Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthcheck", "").Code)
	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/nope", "").Code)

	rr := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "http_requests_total")
	require.Contains(t, rr.Body.String(), `path="/ping"`)
}

func TestRouter_AssignmentLifecycle(t *testing.T) {
	t.Parallel()

	h, store := newRouter(t)

	rr := do(t, h, http.MethodPost, "/assignments", `{"booking_id":1,"assigned_by":9,"staff_id":5}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.Equal(t, "/assignments/1", rr.Header().Get("Location"))

	rr = do(t, h, http.MethodPost, "/assignments", `{"booking_id":1,"assigned_by":9,"staff_id":5}`)
	require.Equal(t, http.StatusConflict, rr.Code)

	for _, status := range []string{"accepted", "in_progress", "completed"} {
		rr = do(t, h, http.MethodPost, "/assignments/1/transitions", `{"status":"`+status+`","actor_id":5}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}
	b, ok := store.Booking(1)
	require.True(t, ok)
	require.Equal(t, domain.BookingCompleted, b.Status)

	rr = do(t, h, http.MethodPost, "/assignments/1/transitions", `{"status":"cancelled","actor_id":5}`)
	require.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, h, http.MethodGet, "/assignments/1/history", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 3, strings.Count(rr.Body.String(), `"new_status"`))

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/assignments/1", "").Code)
	require.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/assignments/1", "").Code)
	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/assignments/1", "").Code)

	b, _ = store.Booking(1)
	require.Equal(t, domain.BookingPending, b.Status)
}

func TestRouter_CreateErrors(t *testing.T) {
	t.Parallel()

	h, _ := newRouter(t)

	rr := do(t, h, http.MethodPost, "/assignments", `{"booking_id":404,"assigned_by":9,"staff_id":5}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), apperr.ErrBookingNotFound.Code)

	rr = do(t, h, http.MethodPost, "/assignments", `{"booking_id":1,"assigned_by":9,"staff_id":5,"team_id":3}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), apperr.ErrInvalidAssignmentType.Code)
}
