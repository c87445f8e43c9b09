package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rainfall-idf/internal/domain"
	"github.com/couchcryptid/rainfall-idf/internal/observability"
	"github.com/couchcryptid/rainfall-idf/internal/pipeline"
)

// --- mocks ---

type mockExtractor struct {
	mu      sync.Mutex
	batches [][]domain.RawEvent
	errs    []error
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawEvent, error) {
	m.mu.Lock()
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		m.mu.Unlock()
		return nil, err
	}
	if len(m.batches) > 0 {
		b := m.batches[0]
		m.batches = m.batches[1:]
		m.mu.Unlock()
		return b, nil
	}
	m.mu.Unlock()

	// block until context cancelled to simulate waiting for messages
	<-ctx.Done()
	return nil, ctx.Err()
}

type mockTransformer struct {
	failKeys map[string]bool
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.TableEvent, error) {
	if m.failKeys[string(raw.Key)] {
		return domain.TableEvent{}, errors.New("bad request")
	}
	return domain.TableEvent{ID: string(raw.Key), File: string(raw.Key) + ".txt"}, nil
}

type mockLoader struct {
	mu     sync.Mutex
	loaded []domain.TableEvent
	errs   []error
}

func (m *mockLoader) LoadBatch(_ context.Context, events []domain.TableEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return err
	}
	m.loaded = append(m.loaded, events...)
	return nil
}

func (m *mockLoader) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.loaded))
	for i, e := range m.loaded {
		out[i] = e.ID
	}
	return out
}

type commitLog struct {
	mu   sync.Mutex
	keys []string
}

func (c *commitLog) raw(key string) domain.RawEvent {
	return domain.RawEvent{
		Key:   []byte(key),
		Topic: "idf-parse-requests",
		Commit: func(_ context.Context) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.keys = append(c.keys, key)
			return nil
		},
	}
}

func (c *commitLog) committed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.keys...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runFor(t *testing.T, p *pipeline.Pipeline, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	require.NoError(t, p.Run(ctx))
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	commits := &commitLog{}
	ext := &mockExtractor{batches: [][]domain.RawEvent{
		{commits.raw("a"), commits.raw("b")},
		{commits.raw("c")},
	}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), metrics, 10)
	runFor(t, p, 300*time.Millisecond)

	assert.Equal(t, []string{"a", "b", "c"}, ldr.ids())
	assert.Equal(t, []string{"a", "b", "c"}, commits.committed())
	require.NoError(t, p.CheckReadiness(context.Background()))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.MessagesConsumed))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.MessagesProduced))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.PipelineRunning))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ldr := &mockLoader{}
	p := pipeline.New(&mockExtractor{}, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.loaded)
	require.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_SkipsFailedRequests(t *testing.T) {
	commits := &commitLog{}
	ext := &mockExtractor{batches: [][]domain.RawEvent{
		{commits.raw("bad"), commits.raw("good")},
	}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, &mockTransformer{failKeys: map[string]bool{"bad": true}}, ldr, discardLogger(), metrics, 10)
	runFor(t, p, 300*time.Millisecond)

	assert.Equal(t, []string{"good"}, ldr.ids())
	assert.ElementsMatch(t, []string{"bad", "good"}, commits.committed(), "poison messages are committed too")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TransformErrors.WithLabelValues("error")))
}

func TestPipeline_Run_AllFailedIsNotReady(t *testing.T) {
	commits := &commitLog{}
	ext := &mockExtractor{batches: [][]domain.RawEvent{{commits.raw("bad")}}}

	p := pipeline.New(ext, &mockTransformer{failKeys: map[string]bool{"bad": true}}, &mockLoader{}, discardLogger(), observability.NewMetricsForTesting(), 10)
	runFor(t, p, 200*time.Millisecond)

	require.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_LoadFailureDoesNotCommit(t *testing.T) {
	commits := &commitLog{}
	ext := &mockExtractor{batches: [][]domain.RawEvent{
		{commits.raw("a")},
		{commits.raw("b")},
	}}
	ldr := &mockLoader{errs: []error{errors.New("broker unavailable")}}

	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)
	runFor(t, p, 600*time.Millisecond)

	assert.Equal(t, []string{"b"}, ldr.ids())
	assert.Equal(t, []string{"b"}, commits.committed())
}

func TestPipeline_Run_RecoversFromExtractErrors(t *testing.T) {
	commits := &commitLog{}
	ext := &mockExtractor{
		errs:    []error{errors.New("rebalance in progress")},
		batches: [][]domain.RawEvent{{commits.raw("a")}},
	}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)
	runFor(t, p, 600*time.Millisecond)

	assert.Equal(t, []string{"a"}, ldr.ids())
}

func TestPipeline_Run_ClassifiesSkippedRequests(t *testing.T) {
	withBody := func(key, body string) domain.RawEvent {
		raw := (&commitLog{}).raw(key)
		raw.Value = []byte(body)
		return raw
	}
	ext := &mockExtractor{batches: [][]domain.RawEvent{{
		withBody("json", `{oops`),
		withBody("missing", `{"file":"missing.txt"}`),
		withBody("notable", `{"file":"notable.txt"}`),
		withBody("rows", `{"file":"rows.txt"}`),
	}}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, newTransformer(), ldr, discardLogger(), metrics, 10)
	runFor(t, p, 300*time.Millisecond)

	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, "rows.txt", ldr.loaded[0].File)
	for reason, want := range map[string]float64{
		"invalid_request":  1,
		"source_not_found": 1,
		"table_not_found":  1,
		"parse_failure":    0,
	} {
		assert.Equal(t, want, testutil.ToFloat64(metrics.TransformErrors.WithLabelValues(reason)), reason)
	}
}
