package association

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/songpeng/inferBind/internal/infrastructure/storage/delimited"
	"github.com/songpeng/inferBind/pkg/errors"
)

// Matrix is a dense substructure×domain grid of probabilities.  It is frozen
// once Initialize returns it; the exported API is read-only.
type Matrix struct {
	d *mat.Dense
}

// NewMatrix allocates a zero matrix.  Both dimensions must be positive.
func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.Newf(errors.ErrCodeMalformedInput, "association matrix must be non-empty, got %dx%d", rows, cols)
	}
	return &Matrix{d: mat.NewDense(rows, cols, nil)}, nil
}

// FromRows builds a Matrix from row slices of equal length.
func FromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeMalformedInput, "association matrix must be non-empty")
	}
	m, err := NewMatrix(len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != len(rows[0]) {
			return nil, errors.Newf(errors.ErrCodeMalformedInput, "row %d has %d values, want %d", i, len(row), len(rows[0]))
		}
		m.d.SetRow(i, row)
	}
	return m, nil
}

// Dims returns the number of substructures and domains.
func (m *Matrix) Dims() (rows, cols int) { return m.d.Dims() }

// At returns cell (i, j).
func (m *Matrix) At(i, j int) float64 { return m.d.At(i, j) }

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 { return mat.Row(nil, i, m.d) }

// Dense returns a copy of the underlying gonum matrix for numeric work by the
// training stage.
func (m *Matrix) Dense() *mat.Dense { return mat.DenseCopyOf(m.d) }

// Equal reports whether both matrices have identical shape and bit-identical
// cells.
func (m *Matrix) Equal(o *Matrix) bool {
	if o == nil {
		return false
	}
	return mat.Equal(m.d, o.d)
}

// Bounds returns the smallest and largest cell values.
func (m *Matrix) Bounds() (lo, hi float64) {
	return mat.Min(m.d), mat.Max(m.d)
}

// WriteFile writes the matrix one row per line, cells separated by the first
// rune of delims.  Values use the shortest representation that parses back to
// the same float64, so LoadMatrix reproduces the matrix exactly.
func (m *Matrix) WriteFile(path, delims string) error {
	r, c := m.d.Dims()
	records := make([][]string, r)
	for i := 0; i < r; i++ {
		rec := make([]string, c)
		for j := 0; j < c; j++ {
			rec[j] = strconv.FormatFloat(m.d.At(i, j), 'g', -1, 64)
		}
		records[i] = rec
	}
	return delimited.WriteRecords(path, delims, records)
}

// LoadMatrix reads a precomputed association matrix.  The file must hold
// exactly rows records of cols numeric fields, each a probability in [0,1].
func LoadMatrix(path, delims string, rows, cols int) (*Matrix, error) {
	m, err := NewMatrix(rows, cols)
	if err != nil {
		return nil, err
	}
	i := 0
	err = delimited.ForEachRecord(path, delims, func(line int, fields []string) error {
		if i >= rows {
			return errors.MalformedInput(path, line, fmt.Sprintf("more than %d rows", rows))
		}
		if len(fields) != cols {
			return errors.MalformedInput(path, line, fmt.Sprintf("row has %d fields, want %d", len(fields), cols))
		}
		for j, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return errors.MalformedInput(path, line, fmt.Sprintf("field %d: %q is not numeric", j+1, field))
			}
			if math.IsNaN(v) || v < 0 || v > 1 {
				return errors.MalformedInput(path, line, fmt.Sprintf("field %d: %v is not a probability", j+1, v))
			}
			m.d.Set(i, j, v)
		}
		i++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if i != rows {
		return nil, errors.MalformedInput(path, 0, fmt.Sprintf("has %d rows, want %d", i, rows))
	}
	return m, nil
}
