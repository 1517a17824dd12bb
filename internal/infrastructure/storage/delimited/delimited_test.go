package delimited

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songpeng/inferBind/internal/testutil"
	"github.com/songpeng/inferBind/pkg/errors"
)

func TestSplit(t *testing.T) {
	cases := []struct {
		name   string
		line   string
		delims string
		want   []string
	}{
		{"tab", "1\t0\t1", "\t,", []string{"1", "0", "1"}},
		{"comma", "1,0,1", "\t,", []string{"1", "0", "1"}},
		{"mixed", "1,0\t1", "\t,", []string{"1", "0", "1"}},
		{"compressed runs", "1,,0\t\t1,", "\t,", []string{"1", "0", "1"}},
		{"custom", "a;b c", "; ", []string{"a", "b", "c"}},
		{"default on empty", "a\tb", "", []string{"a", "b"}},
		{"no delimiter", "abc", ",", []string{"abc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Split(tc.line, tc.delims))
		})
	}
}

func TestForEachRecord_SkipsBlankLinesAndReportsLineNumbers(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "m.tsv", "1\t0\n\n0\t1\r\n")

	var lines []int
	var rows [][]string
	err := ForEachRecord(path, DefaultDelims, func(line int, fields []string) error {
		lines = append(lines, line)
		rows = append(rows, fields)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, lines)
	assert.Equal(t, [][]string{{"1", "0"}, {"0", "1"}}, rows)
}

func TestForEachRecord_MissingFile(t *testing.T) {
	err := ForEachRecord(filepath.Join(t.TempDir(), "absent.tsv"), DefaultDelims, func(int, []string) error { return nil })
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingFile))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestForEachRecord_CallbackErrorStopsScan(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "m.tsv", "1\n2\n3\n")
	calls := 0
	stop := errors.MalformedInput(path, 2, "stop")
	err := ForEachRecord(path, DefaultDelims, func(line int, _ []string) error {
		calls++
		if line == 2 {
			return stop
		}
		return nil
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 2, calls)
}

func TestReadNames(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "names.txt", "  DB00001 \n\nDB00002\nname, with comma\n")
	names, err := ReadNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"DB00001", "DB00002", "name, with comma"}, names)
}

func TestReadNames_MissingFile(t *testing.T) {
	_, err := ReadNames(filepath.Join(t.TempDir(), "absent.txt"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingFile))
}

func TestWriteRecords_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")
	records := [][]string{{"0.5", "0.25"}, {"1", "0"}}
	require.NoError(t, WriteRecords(path, "\t,", records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0.5\t0.25\n1\t0\n", string(data))

	var got [][]string
	require.NoError(t, ForEachRecord(path, "\t,", func(_ int, f []string) error {
		got = append(got, f)
		return nil
	}))
	assert.Equal(t, records, got)
}

func TestWriteRecords_UnwritablePath(t *testing.T) {
	err := WriteRecords(filepath.Join(t.TempDir(), "no", "such", "dir", "out.tsv"), ",", nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingFile))
}

func TestFieldSeparator(t *testing.T) {
	assert.Equal(t, '\t', FieldSeparator("\t,"))
	assert.Equal(t, ',', FieldSeparator(",\t"))
	assert.Equal(t, '\t', FieldSeparator(""))
}
