package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Slade66/number-generator/internal/status"
	"github.com/Slade66/number-generator/pkg/run"
)

type fakeQueue struct {
	requests []*run.Request
	err      error
}

func (q *fakeQueue) Enqueue(_ context.Context, req *run.Request) error {
	if q.err != nil {
		return q.err
	}
	q.requests = append(q.requests, req)
	return nil
}

type fakeStore struct {
	runs    map[string]*status.Info
	initErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{runs: make(map[string]*status.Info)}
}

func (s *fakeStore) InitRunStatus(_ context.Context, req *run.Request) error {
	if s.initErr != nil {
		return s.initErr
	}
	s.runs[req.ID.String()] = &status.Info{ID: req.ID.String(), Status: status.Queued}
	return nil
}

func (s *fakeStore) GetRun(_ context.Context, id string) (*status.Info, error) {
	info, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, status.ErrNotFound)
	}
	return info, nil
}

func (s *fakeStore) GetAllRuns(context.Context) ([]status.Info, error) {
	runs := make([]status.Info, 0, len(s.runs))
	for _, info := range s.runs {
		runs = append(runs, *info)
	}
	return runs, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateRun(t *testing.T) {
	queue, store := &fakeQueue{}, newFakeStore()
	router := NewServer(queue, store, zerolog.Nop(), nil).Router()

	w := do(t, router, http.MethodPost, "/api/runs",
		`{"seed":125,"delay_ms":0,"observers":[{"kind":"range","hits":5,"lower":200,"upper":300}]}`)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	id, err := uuid.Parse(resp["run_id"])
	require.NoError(t, err)

	require.Len(t, queue.requests, 1)
	assert.Equal(t, id, queue.requests[0].ID)
	require.NotNil(t, queue.requests[0].Seed)
	assert.Equal(t, int32(125), *queue.requests[0].Seed)
	assert.Contains(t, store.runs, id.String())
}

func TestCreateRunRejectsInvalidRequests(t *testing.T) {
	bodies := map[string]string{
		"NotJSON":         `nope`,
		"NoObservers":     `{"observers":[]}`,
		"UnknownKind":     `{"observers":[{"kind":"median"}]}`,
		"NegativeDelay":   `{"delay_ms":-5,"observers":[{"kind":"quicktipp"}]}`,
		"LowerAboveUpper": `{"observers":[{"kind":"range","hits":1,"lower":15,"upper":10}]}`,
		"Unreachable":     `{"observers":[{"kind":"range","hits":1,"lower":1000,"upper":1100}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			queue := &fakeQueue{}
			router := NewServer(queue, newFakeStore(), zerolog.Nop(), nil).Router()

			w := do(t, router, http.MethodPost, "/api/runs", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, queue.requests)
		})
	}
}

func TestCreateRunQueueFailure(t *testing.T) {
	router := NewServer(&fakeQueue{err: errors.New("redis down")}, newFakeStore(), zerolog.Nop(), nil).Router()
	w := do(t, router, http.MethodPost, "/api/runs", `{"observers":[{"kind":"quicktipp"}]}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCreateRunStatusFailureIsNotFatal(t *testing.T) {
	store := newFakeStore()
	store.initErr = errors.New("redis flaky")
	queue := &fakeQueue{}
	router := NewServer(queue, store, zerolog.Nop(), nil).Router()

	w := do(t, router, http.MethodPost, "/api/runs", `{"observers":[{"kind":"quicktipp"}]}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Len(t, queue.requests, 1)
}

func TestGetRun(t *testing.T) {
	store := newFakeStore()
	id := uuid.New().String()
	store.runs[id] = &status.Info{ID: id, Status: status.Completed, Rounds: 186}
	router := NewServer(&fakeQueue{}, store, zerolog.Nop(), nil).Router()

	w := do(t, router, http.MethodGet, "/api/runs/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var info status.Info
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, 186, info.Rounds)

	w = do(t, router, http.MethodGet, "/api/runs/"+uuid.New().String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodGet, "/api/runs/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRuns(t *testing.T) {
	store := newFakeStore()
	store.runs["a"] = &status.Info{ID: "a", Status: status.Queued}
	store.runs["b"] = &status.Info{ID: "b", Status: status.Failed}
	router := NewServer(&fakeQueue{}, store, zerolog.Nop(), nil).Router()

	w := do(t, router, http.MethodGet, "/api/runs", "")
	require.Equal(t, http.StatusOK, w.Code)
	var runs []status.Info
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	assert.Len(t, runs, 2)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	router := NewServer(&fakeQueue{}, newFakeStore(), zerolog.Nop(), reg).Router()
	w := do(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_total 1")
}
