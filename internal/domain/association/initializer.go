package association

import (
	"context"

	"github.com/songpeng/inferBind/pkg/errors"
)

// Mode selects how the association matrix is produced.
type Mode int

const (
	// ModeEstimate computes the matrix from the relations and the prior.
	ModeEstimate Mode = iota
	// ModeLoad reads a previously saved matrix from disk.
	ModeLoad
)

func (m Mode) String() string {
	if m == ModeLoad {
		return "load"
	}
	return "estimate"
}

// taskPredict is the only task value that loads a saved matrix.
const taskPredict = "predict"

// ModeForTask maps the configured task onto a Mode.  Only the exact string
// "predict" selects ModeLoad; every other value, misspellings included,
// estimates.
func ModeForTask(task string) Mode {
	if task == taskPredict {
		return ModeLoad
	}
	return ModeEstimate
}

// Params configure Initialize.
type Params struct {
	Mode Mode
	// MatrixFile is read in ModeLoad.
	MatrixFile string
	// Delims separate fields of MatrixFile.
	Delims string
	Prior  Prior
	// Workers bounds estimation concurrency.
	Workers int
	// Variance requests posterior variances alongside the means.
	Variance bool
}

// Result holds the initialized association matrix.
type Result struct {
	Mean *Matrix
	// Variance is nil unless requested in ModeEstimate.
	Variance *Matrix
	// Estimated is false when Mean was loaded from disk.
	Estimated bool
}

// Initialize produces the substructure×domain association matrix, either by
// estimating it or by loading the file named in p.  Loaded matrices must
// match the shape implied by in.
func Initialize(ctx context.Context, p Params, in Inputs, opts ...Option) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if p.Mode == ModeLoad {
		if p.MatrixFile == "" {
			return nil, errors.InvalidConfig("drugSub2proteinSubFileName", "required when task is predict")
		}
		subNum, domainNum := in.Dims()
		m, err := LoadMatrix(p.MatrixFile, p.Delims, subNum, domainNum)
		if err != nil {
			return nil, err
		}
		return &Result{Mean: m}, nil
	}

	all := append([]Option{WithWorkers(p.Workers), WithVariance(p.Variance)}, opts...)
	e, err := NewEstimator(p.Prior, all...)
	if err != nil {
		return nil, err
	}
	return e.Estimate(ctx, in)
}
