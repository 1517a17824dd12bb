package association

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/songpeng/inferBind/pkg/errors"
)

// Prior is a Beta(Alpha, Beta) prior on the probability that a candidate
// (drug, protein) pair implied by a (substructure, domain) cell interacts.
// Alpha and Beta act as pseudo-counts of successes and failures.
type Prior struct {
	Alpha float64
	Beta  float64
}

// Validate requires finite, non-negative pseudo-counts with a positive sum,
// which keeps every posterior mean well defined and inside [0,1].
func (p Prior) Validate() error {
	finite := !math.IsNaN(p.Alpha) && !math.IsInf(p.Alpha, 0) &&
		!math.IsNaN(p.Beta) && !math.IsInf(p.Beta, 0)
	if !finite || p.Alpha < 0 || p.Beta < 0 || p.Alpha+p.Beta <= 0 {
		return errors.InvalidPrior(p.Alpha, p.Beta)
	}
	return nil
}

// Mean is the prior mean Alpha/(Alpha+Beta).
func (p Prior) Mean() float64 {
	return p.Alpha / (p.Alpha + p.Beta)
}

// PosteriorMean is the empirical Bayes estimate after observing hits
// interacting pairs out of trials candidates:
//
//	(hits + Alpha) / (Alpha + Beta + trials)
//
// With no trials it equals the prior mean.
func (p Prior) PosteriorMean(hits, trials int) float64 {
	return (float64(hits) + p.Alpha) / (p.Alpha + p.Beta + float64(trials))
}

// Posterior returns the Beta posterior Beta(hits+Alpha, trials-hits+Beta).
func (p Prior) Posterior(hits, trials int) distuv.Beta {
	return distuv.Beta{
		Alpha: float64(hits) + p.Alpha,
		Beta:  float64(trials-hits) + p.Beta,
	}
}

// PosteriorVariance is the variance of the Beta posterior.
func (p Prior) PosteriorVariance(hits, trials int) float64 {
	return p.Posterior(hits, trials).Variance()
}
