package prometheus

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songpeng/inferBind/internal/testutil"
	"github.com/songpeng/inferBind/pkg/errors"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "unit"}, testutil.NewMockLogger())
	require.NoError(t, err)
	return c
}

func textfile(t *testing.T, c MetricsCollector) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gift.prom")
	require.NoError(t, c.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNewMetricsCollector_RequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidConfig))
}

func TestRegister_SameNameReturnsSameVec(t *testing.T) {
	c := newTestCollector(t)
	a := c.RegisterCounter("runs_total", "runs", "mode")
	b := c.RegisterCounter("runs_total", "runs", "mode")
	a.WithLabelValues("train").Inc()
	b.WithLabelValues("train").Inc()

	assert.Contains(t, textfile(t, c), `test_unit_runs_total{mode="train"} 2`)
}

func TestRegister_TypeMismatchFallsBackToNoop(t *testing.T) {
	logger := testutil.NewMockLogger()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test"}, logger)
	require.NoError(t, err)

	c.RegisterCounter("things", "things")
	g := c.RegisterGauge("things", "things")
	g.WithLabelValues().Set(5)

	assert.True(t, logger.HasMessage("warn", "metric type mismatch"))
	assert.NotContains(t, textfile(t, c), "test_things 5")
}

func TestPrepMetrics_WrittenToTextfile(t *testing.T) {
	c := newTestCollector(t)
	m := NewPrepMetrics(c)

	m.RecordRelation("drug2protein", 4)
	m.RecordEntities("drug", 2)
	m.RecordAssociation("estimate", 6)
	d := m.StageTimer("estimate").ObserveDuration()
	assert.GreaterOrEqual(t, d, time.Duration(0))
	m.RecordError("DAT_002")

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RowEstimated(0, 3)
		}()
	}
	wg.Wait()

	out := textfile(t, c)
	assert.Contains(t, out, `test_unit_relation_edges{relation="drug2protein"} 4`)
	assert.Contains(t, out, `test_unit_entities{namespace="drug"} 2`)
	assert.Contains(t, out, `test_unit_association_cells_total{mode="estimate"} 6`)
	assert.Contains(t, out, `test_unit_association_rows_estimated_total 3`)
	assert.Contains(t, out, `test_unit_stage_duration_seconds_count{stage="estimate"} 1`)
	assert.Contains(t, out, `test_unit_errors_total{code="DAT_002"} 1`)
}

func TestWriteTextfile_BadPath(t *testing.T) {
	c := newTestCollector(t)
	err := c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "gift.prom"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInternal))
}

func TestTimer(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("op_seconds", "op", nil, "op")
	d := NewTimer(h.WithLabelValues("load")).ObserveDuration()
	assert.GreaterOrEqual(t, d, time.Duration(0))
	assert.Contains(t, textfile(t, c), `test_unit_op_seconds_count{op="load"} 1`)

	assert.NotPanics(t, func() { NewTimer(nil).ObserveDuration() })
}

func TestNewMetricsCollector_GoMetrics(t *testing.T) {
	plain := newTestCollector(t)
	assert.NotContains(t, textfile(t, plain), "go_goroutines")

	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", EnableGoMetrics: true}, nil)
	require.NoError(t, err)
	out := textfile(t, c)
	assert.Contains(t, out, "go_goroutines")
	assert.Contains(t, out, "go_memstats_alloc_bytes")
}
