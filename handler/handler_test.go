package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sljivkov/pythkeeper/domain"
)

type fakeSource struct {
	ready   chan struct{}
	outcome domain.Outcome
}

func (f *fakeSource) Ready() <-chan struct{}     { return f.ready }
func (f *fakeSource) LastOutcome() domain.Outcome { return f.outcome }

func TestStatus(t *testing.T) {
	src := &fakeSource{ready: make(chan struct{}), outcome: domain.Abstain("Not all prices available")}
	close(src.ready)

	rec := httptest.NewRecorder()
	New(src).Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got domain.Outcome
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, src.outcome, got)
}

func TestStatus_NotReady(t *testing.T) {
	h := New(&fakeSource{ready: make(chan struct{})})
	h.readTimeout = 10 * time.Millisecond

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthzAndMetrics(t *testing.T) {
	router := New(&fakeSource{ready: make(chan struct{})}).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
