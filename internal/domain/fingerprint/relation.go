// Package fingerprint holds the sparse bipartite relations gift reads from
// its inputs: drug→protein interactions, drug→substructure fingerprints and
// protein→domain fingerprints, together with their reverse views.
//
// A Relation is immutable once constructed.  Each row's neighbour list is
// sorted and free of duplicates, so membership tests are binary searches and
// no (row, column) pair is ever counted twice.
package fingerprint

import (
	"fmt"
	"slices"

	"github.com/songpeng/inferBind/pkg/errors"
)

// Relation maps every index of a row namespace to the set of related indices
// in a column namespace.
type Relation struct {
	rows  [][]int
	cols  int
	edges int
}

// New builds a Relation with numRows rows and numCols columns from per-row
// neighbour lists.  lists may be shorter than numRows; missing rows are empty.
// Every index must lie in [0, numCols); duplicates within a row are dropped.
// The input slices are not retained.
func New(numRows, numCols int, lists [][]int) (*Relation, error) {
	if numRows < 0 || numCols < 0 {
		return nil, errors.Newf(errors.ErrCodeMalformedInput, "negative relation size %dx%d", numRows, numCols)
	}
	if len(lists) > numRows {
		return nil, errors.Newf(errors.ErrCodeMalformedInput, "%d neighbour lists for %d rows", len(lists), numRows)
	}
	r := &Relation{rows: make([][]int, numRows), cols: numCols}
	for i, list := range lists {
		row := slices.Clone(list)
		for _, j := range row {
			if j < 0 || j >= numCols {
				return nil, errors.Newf(errors.ErrCodeMalformedInput, "row %d: column %d outside [0,%d)", i, j, numCols)
			}
		}
		slices.Sort(row)
		row = slices.Compact(row)
		r.rows[i] = row
		r.edges += len(row)
	}
	return r, nil
}

// Rows returns the size of the row namespace.
func (r *Relation) Rows() int { return len(r.rows) }

// Cols returns the size of the column namespace.
func (r *Relation) Cols() int { return r.cols }

// Edges returns the number of distinct (row, column) pairs.
func (r *Relation) Edges() int { return r.edges }

// Neighbors returns the sorted column indices related to row i.  The returned
// slice is shared with the Relation and must not be modified.  An out-of-range
// row has no neighbours.
func (r *Relation) Neighbors(i int) []int {
	if i < 0 || i >= len(r.rows) {
		return nil
	}
	return r.rows[i]
}

// Degree returns the number of columns related to row i.
func (r *Relation) Degree(i int) int {
	return len(r.Neighbors(i))
}

// Contains reports whether row i is related to column j.
func (r *Relation) Contains(i, j int) bool {
	_, found := slices.BinarySearch(r.Neighbors(i), j)
	return found
}

// Reverse returns the inverse relation: column j of r becomes row j of the
// result, related to every row i of r that contained j.
func (r *Relation) Reverse() *Relation {
	counts := make([]int, r.cols)
	for _, row := range r.rows {
		for _, j := range row {
			counts[j]++
		}
	}
	out := &Relation{rows: make([][]int, r.cols), cols: len(r.rows), edges: r.edges}
	for j, n := range counts {
		if n > 0 {
			out.rows[j] = make([]int, 0, n)
		}
	}
	// Rows are visited in ascending order, so every reversed row comes out
	// sorted and duplicate-free.
	for i, row := range r.rows {
		for _, j := range row {
			out.rows[j] = append(out.rows[j], i)
		}
	}
	return out
}

// String summarises the relation's shape.
func (r *Relation) String() string {
	return fmt.Sprintf("Relation(%dx%d, %d edges)", len(r.rows), r.cols, r.edges)
}
