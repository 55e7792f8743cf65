package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchbridge/internal/searchapi/metrics"
	"searchbridge/internal/searchapi/models"
	id "searchbridge/pkg/domain"
)

type stubSource struct {
	ready    []models.SearchAPIRequest
	failed   []models.SearchAPIRequest
	readyErr error
}

func (s *stubSource) GetAllReadyForSearch(context.Context) ([]models.SearchAPIRequest, error) {
	return s.ready, s.readyErr
}

func (s *stubSource) GetAllValidFailed(context.Context) ([]models.SearchAPIRequest, error) {
	return s.failed, nil
}

type published struct {
	topic   string
	key     string
	value   []byte
	headers map[string]string
}

type recordingPublisher struct {
	mu      sync.Mutex
	records []published
	failKey string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, key, value []byte, headers map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if string(key) == p.failKey {
		return errors.New("broker unavailable")
	}
	p.records = append(p.records, published{topic: topic, key: string(key), value: value, headers: headers})
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.records)
}

func newScheduler(t *testing.T, source Source, pub Publisher) (*Scheduler, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewWith(prometheus.NewRegistry())
	s, err := New(source, pub, DefaultTopics("test."),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(m),
	)
	require.NoError(t, err)
	return s, m
}

func TestNew(t *testing.T) {
	_, err := New(nil, &recordingPublisher{}, Topics{})
	assert.ErrorContains(t, err, "request source is required")

	_, err = New(&stubSource{}, nil, Topics{})
	assert.ErrorContains(t, err, "publisher is required")
}

func TestScanDispatchesBothQueues(t *testing.T) {
	ready := models.SearchAPIRequest{ID: id.NewSearchAPIRequestID(), Status: models.StatusReadyForSearch}
	failed := models.SearchAPIRequest{ID: id.NewSearchAPIRequestID(), Status: models.StatusInProgress, IsFailed: true}
	pub := &recordingPublisher{}
	s, m := newScheduler(t, &stubSource{ready: []models.SearchAPIRequest{ready}, failed: []models.SearchAPIRequest{failed}}, pub)

	result, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ScanResult{Ready: 1, Retry: 1, Dispatched: 2}, result)

	require.Len(t, pub.records, 2)
	assert.Equal(t, "test.search-api-request.ready", pub.records[0].topic)
	assert.Equal(t, ready.ID.String(), pub.records[0].key)
	assert.Equal(t, "false", pub.records[0].headers["is_failed"])
	assert.Equal(t, "test.search-api-request.retry", pub.records[1].topic)
	assert.Equal(t, "true", pub.records[1].headers["is_failed"])

	var decoded models.SearchAPIRequest
	require.NoError(t, json.Unmarshal(pub.records[1].value, &decoded))
	assert.Equal(t, failed.ID, decoded.ID)

	assert.InDelta(t, 1, testutil.ToFloat64(m.ScanRuns.WithLabelValues("ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Dispatched.WithLabelValues("retry", "ok")), 0)
}

func TestScanContinuesPastPublishFailure(t *testing.T) {
	bad := models.SearchAPIRequest{ID: id.NewSearchAPIRequestID()}
	good := models.SearchAPIRequest{ID: id.NewSearchAPIRequestID()}
	pub := &recordingPublisher{failKey: bad.ID.String()}
	s, m := newScheduler(t, &stubSource{ready: []models.SearchAPIRequest{bad, good}}, pub)

	result, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Dispatched)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Dispatched.WithLabelValues("ready", "error")), 0)
}

func TestScanSelectionErrorAborts(t *testing.T) {
	pub := &recordingPublisher{}
	s, m := newScheduler(t, &stubSource{readyErr: errors.New("db down")}, pub)

	_, err := s.Scan(context.Background())
	assert.ErrorContains(t, err, "select ready requests")
	assert.Zero(t, pub.count())
	assert.InDelta(t, 1, testutil.ToFloat64(m.ScanRuns.WithLabelValues("error")), 0)
}

func TestRunRejectsInvalidSchedule(t *testing.T) {
	s, _ := newScheduler(t, &stubSource{}, &recordingPublisher{})
	err := s.Run(context.Background(), "not a schedule")
	assert.ErrorContains(t, err, "invalid retry scan schedule")
}

func TestRunStopsOnCancel(t *testing.T) {
	s, _ := newScheduler(t, &stubSource{}, &recordingPublisher{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "@every 1h") }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
