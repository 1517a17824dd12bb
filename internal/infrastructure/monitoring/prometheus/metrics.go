package prometheus

// Metric namespace used by the gift binary.
const (
	Namespace = "gift"
	Subsystem = "prep"
)

// StageDurationBuckets span fast name-list reads to long estimations.
var StageDurationBuckets = []float64{.001, .01, .1, .5, 1, 5, 30, 120, 600, 1800}

// PrepMetrics holds the metrics of one preparation run.
type PrepMetrics struct {
	StageDuration    HistogramVec
	RelationEdges    GaugeVec
	EntityCount      GaugeVec
	AssociationCells CounterVec
	RowsEstimated    CounterVec
	ErrorsTotal      CounterVec
}

// NewPrepMetrics registers the preparation metrics on c.
func NewPrepMetrics(c MetricsCollector) *PrepMetrics {
	return &PrepMetrics{
		StageDuration: c.RegisterHistogram("stage_duration_seconds",
			"Wall time of each preparation stage.", StageDurationBuckets, "stage"),
		RelationEdges: c.RegisterGauge("relation_edges",
			"Pairs held by each adjacency relation.", "relation"),
		EntityCount: c.RegisterGauge("entities",
			"Entities per namespace.", "namespace"),
		AssociationCells: c.RegisterCounter("association_cells_total",
			"Association matrix cells produced, by mode.", "mode"),
		RowsEstimated: c.RegisterCounter("association_rows_estimated_total",
			"Substructure rows finished by the estimator."),
		ErrorsTotal: c.RegisterCounter("errors_total",
			"Failed runs by error code.", "code"),
	}
}

// StageTimer starts timing stage into StageDuration.
func (m *PrepMetrics) StageTimer(stage string) *Timer {
	return NewTimer(m.StageDuration.WithLabelValues(stage))
}

func (m *PrepMetrics) RecordRelation(relation string, edges int) {
	m.RelationEdges.WithLabelValues(relation).Set(float64(edges))
}

func (m *PrepMetrics) RecordEntities(namespace string, n int) {
	m.EntityCount.WithLabelValues(namespace).Set(float64(n))
}

func (m *PrepMetrics) RecordAssociation(mode string, cells int) {
	m.AssociationCells.WithLabelValues(mode).Add(float64(cells))
}

// RowEstimated has the shape of an estimator progress callback.
func (m *PrepMetrics) RowEstimated(_, _ int) {
	m.RowsEstimated.WithLabelValues().Inc()
}

func (m *PrepMetrics) RecordError(code string) {
	m.ErrorsTotal.WithLabelValues(code).Inc()
}
