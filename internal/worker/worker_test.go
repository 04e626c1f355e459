package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Slade66/number-generator/internal/metrics"
	"github.com/Slade66/number-generator/internal/queue"
	"github.com/Slade66/number-generator/internal/report"
	"github.com/Slade66/number-generator/internal/status"
	"github.com/Slade66/number-generator/pkg/run"
)

type fakeSource struct {
	messages []queue.Message
	acked    []string
}

func (s *fakeSource) Next(ctx context.Context) (queue.Message, error) {
	if len(s.messages) == 0 {
		<-ctx.Done()
		return queue.Message{}, ctx.Err()
	}
	msg := s.messages[0]
	s.messages = s.messages[1:]
	return msg, nil
}

func (s *fakeSource) Ack(_ context.Context, id string) error {
	s.acked = append(s.acked, id)
	return nil
}

type fakeStore struct {
	statuses map[string][]string
	errors   map[string]string
	reports  map[string]*report.Report
	keys     map[string]string
	saveErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		statuses: make(map[string][]string),
		errors:   make(map[string]string),
		reports:  make(map[string]*report.Report),
		keys:     make(map[string]string),
	}
}

func (s *fakeStore) UpdateRunStatus(_ context.Context, runID, newStatus string) error {
	s.statuses[runID] = append(s.statuses[runID], newStatus)
	return nil
}

func (s *fakeStore) UpdateRunError(_ context.Context, runID, errMsg string) error {
	s.statuses[runID] = append(s.statuses[runID], status.Failed)
	s.errors[runID] = errMsg
	return nil
}

func (s *fakeStore) SaveReport(_ context.Context, runID string, rep *report.Report, key string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.reports[runID] = rep
	s.keys[runID] = key
	return nil
}

type fakeUploader struct {
	uploaded map[string][]byte
	err      error
}

func (u *fakeUploader) UploadReport(runID string, data []byte) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	if u.uploaded == nil {
		u.uploaded = make(map[string][]byte)
	}
	u.uploaded[runID] = data
	return "reports/" + runID + ".json", nil
}

func message(t *testing.T, id string, req run.Request) queue.Message {
	t.Helper()
	payload, err := json.Marshal(req)
	require.NoError(t, err)
	return queue.Message{ID: id, Payload: string(payload)}
}

func seededRequest(observers ...run.ObserverSpec) run.Request {
	seed := int32(125)
	return run.Request{ID: uuid.New(), Seed: &seed, Observers: observers}
}

func TestProcessCompletedRun(t *testing.T) {
	source, store, uploader := &fakeSource{}, newFakeStore(), &fakeUploader{}
	collector := metrics.NewCollector(prometheus.NewRegistry())
	w := New(source, store, uploader, collector, zerolog.Nop())

	req := seededRequest(run.DefaultObservers()...)
	w.Process(context.Background(), message(t, "1-0", req))

	id := req.ID.String()
	assert.Equal(t, []string{status.Processing, status.Completed}, store.statuses[id])
	require.Contains(t, store.reports, id)
	assert.Equal(t, 186, store.reports[id].Rounds)
	assert.Equal(t, id, store.reports[id].RunID)
	assert.Equal(t, "reports/"+id+".json", store.keys[id])
	assert.Contains(t, string(uploader.uploaded[id]), `"rounds": 186`)
	assert.Equal(t, []string{"1-0"}, source.acked)
}

func TestProcessWithoutUploader(t *testing.T) {
	source, store := &fakeSource{}, newFakeStore()
	w := New(source, store, nil, nil, zerolog.Nop())

	req := seededRequest(run.ObserverSpec{Kind: run.KindRange, Hits: 5, Lower: 200, Upper: 300})
	w.Process(context.Background(), message(t, "2-0", req))

	id := req.ID.String()
	require.Contains(t, store.reports, id)
	assert.Equal(t, 69, store.reports[id].Rounds)
	assert.Empty(t, store.keys[id])
	assert.Equal(t, []string{"2-0"}, source.acked)
}

func TestProcessInvalidRunIsRecordedNotAcked(t *testing.T) {
	source, store := &fakeSource{}, newFakeStore()
	w := New(source, store, nil, nil, zerolog.Nop())

	req := seededRequest(run.ObserverSpec{Kind: run.KindRange, Hits: 5, Lower: 15, Upper: 10})
	w.Process(context.Background(), message(t, "3-0", req))

	id := req.ID.String()
	assert.Equal(t, []string{status.Processing, status.Failed}, store.statuses[id])
	assert.Contains(t, store.errors[id], "lower 15 above upper 10")
	assert.Empty(t, source.acked)
}

func TestProcessDropsGarbage(t *testing.T) {
	source, store := &fakeSource{}, newFakeStore()
	w := New(source, store, nil, nil, zerolog.Nop())

	w.Process(context.Background(), queue.Message{ID: "4-0", Payload: "{"})
	assert.Equal(t, []string{"4-0"}, source.acked)
	assert.Empty(t, store.statuses)
}

func TestStoreCombinesErrors(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("redis down")
	w := New(&fakeSource{}, store, &fakeUploader{err: errors.New("obs down")}, nil, zerolog.Nop())

	err := w.store(context.Background(), "abc", &report.Report{Rounds: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "obs down")
	assert.Contains(t, err.Error(), "redis down")
	assert.Equal(t, []string{status.Completed}, store.statuses["abc"])
}

func TestExecuteCapsDelay(t *testing.T) {
	w := New(&fakeSource{}, newFakeStore(), nil, nil, zerolog.Nop())
	req := seededRequest(run.ObserverSpec{Kind: run.KindBase, Count: 1})
	req.DelayMs = 60_000

	rep, err := w.execute(&req, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, int64(MaxDelayMs), rep.DelayMs)
	assert.Equal(t, MaxDelayMs, req.DelayMs)
}

func TestRunStopsOnCancel(t *testing.T) {
	source, store := &fakeSource{}, newFakeStore()
	req := seededRequest(run.ObserverSpec{Kind: run.KindQuickTipp})
	source.messages = []queue.Message{message(t, "5-0", req)}
	w := New(source, store, nil, nil, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := w.Run(ctx)
	assert.True(t, IsCancelled(err))
	assert.Equal(t, []string{"5-0"}, source.acked)
	assert.Contains(t, store.reports, req.ID.String())
}
