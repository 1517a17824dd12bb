package fingerprint

import (
	"fmt"
	"math"
	"strconv"

	"github.com/songpeng/inferBind/internal/infrastructure/storage/delimited"
	"github.com/songpeng/inferBind/pkg/errors"
)

// Build parses a matrix-like delimited file into a Relation.
//
// Each non-blank line is one row of the row namespace and carries one numeric
// field per column; a positive field marks the pair as related.  The column
// count is fixed by the first row, and every later row must match it.  An
// empty file, a ragged row, a non-numeric field or a negative, NaN or infinite
// field is ErrCodeMalformedInput; an unopenable path is ErrCodeMissingFile.
func Build(path, delims string) (*Relation, error) {
	var (
		lists [][]int
		cols  = -1
	)
	err := delimited.ForEachRecord(path, delims, func(line int, fields []string) error {
		if cols < 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return errors.MalformedInput(path, line,
				fmt.Sprintf("row has %d fields, want %d", len(fields), cols))
		}
		var row []int
		for j, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return errors.MalformedInput(path, line,
					fmt.Sprintf("field %d: %q is not numeric", j+1, field))
			}
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return errors.MalformedInput(path, line,
					fmt.Sprintf("field %d: %q is not a finite non-negative value", j+1, field))
			}
			if v != 0 {
				row = append(row, j)
			}
		}
		lists = append(lists, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		return nil, errors.MalformedInput(path, 0, "relation file has no rows")
	}
	return New(len(lists), cols, lists)
}
