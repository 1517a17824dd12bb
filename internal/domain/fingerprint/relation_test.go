package fingerprint

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songpeng/inferBind/internal/testutil"
	"github.com/songpeng/inferBind/pkg/errors"
)

func TestNew_SortsAndDeduplicates(t *testing.T) {
	r, err := New(3, 4, [][]int{{3, 1, 1, 0}, nil, {2, 2}})
	require.NoError(t, err)

	assert.Equal(t, 3, r.Rows())
	assert.Equal(t, 4, r.Cols())
	assert.Equal(t, []int{0, 1, 3}, r.Neighbors(0))
	assert.Empty(t, r.Neighbors(1))
	assert.Equal(t, []int{2}, r.Neighbors(2))
	assert.Equal(t, 4, r.Edges())
	assert.Equal(t, "Relation(3x4, 4 edges)", r.String())
}

func TestNew_DoesNotRetainInput(t *testing.T) {
	in := [][]int{{1, 0}}
	r, err := New(1, 2, in)
	require.NoError(t, err)
	in[0][0] = 99
	assert.Equal(t, []int{0, 1}, r.Neighbors(0))
}

func TestNew_RejectsOutOfRange(t *testing.T) {
	cases := []struct {
		name  string
		rows  int
		cols  int
		lists [][]int
	}{
		{"column too large", 1, 2, [][]int{{2}}},
		{"negative column", 1, 2, [][]int{{-1}}},
		{"too many rows", 1, 2, [][]int{{0}, {1}}},
		{"negative size", -1, 2, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.rows, tc.cols, tc.lists)
			assert.True(t, errors.IsCode(err, errors.ErrCodeMalformedInput))
		})
	}
}

func TestContainsAndDegree(t *testing.T) {
	r, err := New(2, 5, [][]int{{0, 2, 4}, {1}})
	require.NoError(t, err)

	assert.True(t, r.Contains(0, 2))
	assert.False(t, r.Contains(0, 3))
	assert.True(t, r.Contains(1, 1))
	assert.False(t, r.Contains(5, 1))
	assert.False(t, r.Contains(-1, 0))
	assert.Equal(t, 3, r.Degree(0))
	assert.Equal(t, 0, r.Degree(7))
}

func TestReverse(t *testing.T) {
	r, err := New(3, 4, [][]int{{0, 3}, {3}, {0, 1, 3}})
	require.NoError(t, err)

	rev := r.Reverse()
	assert.Equal(t, 4, rev.Rows())
	assert.Equal(t, 3, rev.Cols())
	assert.Equal(t, r.Edges(), rev.Edges())
	assert.Equal(t, []int{0, 2}, rev.Neighbors(0))
	assert.Equal(t, []int{2}, rev.Neighbors(1))
	assert.Empty(t, rev.Neighbors(2))
	assert.Equal(t, []int{0, 1, 2}, rev.Neighbors(3))

	back := rev.Reverse()
	for i := 0; i < r.Rows(); i++ {
		assert.Equal(t, r.Neighbors(i), back.Neighbors(i))
	}
}

func TestReverse_PairsCountedOnce(t *testing.T) {
	r, err := New(1, 2, [][]int{{1, 1, 1}})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, r.Reverse().Neighbors(1))
	assert.Equal(t, 1, r.Reverse().Edges())
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "drug2sub.tsv", "1\t0\t1\n0,0,0\n\n0\t1.0\t0\n")

	r, err := Build(path, "\t,")
	require.NoError(t, err)
	assert.Equal(t, 3, r.Rows())
	assert.Equal(t, 3, r.Cols())
	assert.Equal(t, []int{0, 2}, r.Neighbors(0))
	assert.Empty(t, r.Neighbors(1))
	assert.Equal(t, []int{1}, r.Neighbors(2))
}

func TestBuild_Errors(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name     string
		content  string
		code     errors.ErrorCode
		contains string
	}{
		{"ragged row", "1\t0\n1\t0\t1\n", errors.ErrCodeMalformedInput, ":2"},
		{"non numeric", "1\tx\n", errors.ErrCodeMalformedInput, `"x" is not numeric`},
		{"empty", "\n\n", errors.ErrCodeMalformedInput, "no rows"},
		{"nan", "1\tNaN\n", errors.ErrCodeMalformedInput, `field 2: "NaN" is not a finite non-negative value`},
		{"infinite", "+Inf\t0\n", errors.ErrCodeMalformedInput, `"+Inf" is not a finite`},
		{"negative", "0\t1\n1\t-1\n", errors.ErrCodeMalformedInput, ":2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := testutil.WriteFile(t, dir, tc.name+".tsv", tc.content)
			_, err := Build(path, "\t,")
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tc.code))
			assert.Contains(t, err.Error(), tc.contains)
		})
	}

	_, err := Build(filepath.Join(dir, "absent.tsv"), "\t,")
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingFile))
}
