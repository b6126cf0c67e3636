package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/leads/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/leads/{id}", "404"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leads/abc-123", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/leads/{id}", "404")))
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(repliesHandled.WithLabelValues("booked"))
	RecordReply("booked")
	assert.Equal(t, before+1, testutil.ToFloat64(repliesHandled.WithLabelValues("booked")))

	before = testutil.ToFloat64(bookingConflicts)
	RecordBookingConflict()
	assert.Equal(t, before+1, testutil.ToFloat64(bookingConflicts))
}
