package association

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/songpeng/inferBind/internal/domain/fingerprint"
	"github.com/songpeng/inferBind/internal/infrastructure/monitoring/logging"
	"github.com/songpeng/inferBind/pkg/errors"
)

// Inputs are the three adjacency views the estimator walks.
type Inputs struct {
	// SubToDrug maps each substructure to the drugs carrying it.
	SubToDrug *fingerprint.Relation
	// DomainToProtein maps each domain to the proteins carrying it.
	DomainToProtein *fingerprint.Relation
	// DrugToProtein maps each drug to its observed interacting proteins.
	DrugToProtein *fingerprint.Relation
}

// Validate checks that all views are present and agree on the drug and
// protein namespaces.
func (in Inputs) Validate() error {
	if in.SubToDrug == nil || in.DomainToProtein == nil || in.DrugToProtein == nil {
		return errors.Internal("association inputs are incomplete")
	}
	if in.SubToDrug.Cols() != in.DrugToProtein.Rows() {
		return errors.Newf(errors.ErrCodeMalformedInput,
			"substructure relation covers %d drugs, interaction relation %d",
			in.SubToDrug.Cols(), in.DrugToProtein.Rows())
	}
	if in.DomainToProtein.Cols() != in.DrugToProtein.Cols() {
		return errors.Newf(errors.ErrCodeMalformedInput,
			"domain relation covers %d proteins, interaction relation %d",
			in.DomainToProtein.Cols(), in.DrugToProtein.Cols())
	}
	return nil
}

// Dims returns the association matrix shape: substructures × domains.
func (in Inputs) Dims() (subNum, domainNum int) {
	return in.SubToDrug.Rows(), in.DomainToProtein.Rows()
}

// Cooccurrence counts cell (i, j) directly from its definition: trials is the
// number of (drug, protein) pairs where the drug carries substructure i and
// the protein carries domain j, hits is how many of them interact.  Estimate
// computes the same figures row by row; this form serves as a reference.
func Cooccurrence(in Inputs, i, j int) (hits, trials int) {
	drugs := in.SubToDrug.Neighbors(i)
	proteins := in.DomainToProtein.Neighbors(j)
	for _, d := range drugs {
		for _, p := range proteins {
			if in.DrugToProtein.Contains(d, p) {
				hits++
			}
		}
	}
	return hits, len(drugs) * len(proteins)
}

// ProgressFunc receives the number of finished rows and the total.  It is
// called from worker goroutines and must be safe for concurrent use.
type ProgressFunc func(done, total int)

// Option configures an Estimator.
type Option func(*Estimator)

// WithWorkers bounds the number of rows estimated concurrently.  Values below
// one fall back to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Estimator) { e.workers = n }
}

// WithVariance also computes the posterior variance of every cell.
func WithVariance(on bool) Option {
	return func(e *Estimator) { e.variance = on }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Estimator) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithProgress registers a per-row progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Estimator) { e.progress = fn }
}

// Estimator fills the association matrix with Beta posterior means.
type Estimator struct {
	prior    Prior
	workers  int
	variance bool
	logger   logging.Logger
	progress ProgressFunc
}

// NewEstimator validates prior and applies options.
func NewEstimator(prior Prior, opts ...Option) (*Estimator, error) {
	if err := prior.Validate(); err != nil {
		return nil, err
	}
	e := &Estimator{prior: prior, logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	return e, nil
}

// Estimate computes every cell of the association matrix.
//
// Rows are independent: each worker accumulates, for one substructure, how
// many of its drugs interact with each protein, then sums those counts over
// the proteins of every domain.  Each row is written by exactly one goroutine,
// so the result does not depend on the worker count.
func (e *Estimator) Estimate(ctx context.Context, in Inputs) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	subNum, domainNum := in.Dims()
	mean, err := NewMatrix(subNum, domainNum)
	if err != nil {
		return nil, err
	}
	var variance *Matrix
	if e.variance {
		if variance, err = NewMatrix(subNum, domainNum); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	e.logger.Debug("estimating association matrix",
		logging.Int("substructures", subNum),
		logging.Int("domains", domainNum),
		logging.Int("workers", e.workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	var done atomic.Int64
	proteinNum := in.DrugToProtein.Cols()

	for i := 0; i < subNum; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			counts := make([]int, proteinNum)
			meanRow := make([]float64, domainNum)
			var varRow []float64
			if variance != nil {
				varRow = make([]float64, domainNum)
			}
			e.estimateRow(in, i, counts, meanRow, varRow)
			mean.d.SetRow(i, meanRow)
			if variance != nil {
				variance.d.SetRow(i, varRow)
			}
			n := int(done.Add(1))
			if e.progress != nil {
				e.progress(n, subNum)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(err, errors.ErrCodeCanceled, "association estimation canceled")
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCanceled, "association estimation canceled")
	}

	logging.LogStageDuration(e.logger, "estimate", start,
		logging.Int("cells", subNum*domainNum))
	return &Result{Mean: mean, Variance: variance, Estimated: true}, nil
}

func (e *Estimator) estimateRow(in Inputs, i int, counts []int, meanRow, varRow []float64) {
	drugs := in.SubToDrug.Neighbors(i)
	for _, d := range drugs {
		for _, p := range in.DrugToProtein.Neighbors(d) {
			counts[p]++
		}
	}
	for j := range meanRow {
		proteins := in.DomainToProtein.Neighbors(j)
		trials := len(drugs) * len(proteins)
		hits := 0
		if trials > 0 {
			for _, p := range proteins {
				hits += counts[p]
			}
		}
		meanRow[j] = e.prior.PosteriorMean(hits, trials)
		if varRow != nil {
			varRow[j] = e.prior.PosteriorVariance(hits, trials)
		}
	}
}
