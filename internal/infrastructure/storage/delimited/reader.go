// Package delimited reads and writes the line-oriented text files gift
// consumes and produces: matrix-like records whose fields are separated by any
// rune of a delimiter set, and single-column name lists.
package delimited

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/songpeng/inferBind/pkg/errors"
)

// DefaultDelims is the delimiter set used when none is configured.
const DefaultDelims = "\t,"

// maxLineBytes bounds a single record.  Wide fingerprint matrices can carry
// tens of thousands of columns per row.
const maxLineBytes = 64 << 20

// Split breaks line into fields at every rune contained in delims.  Runs of
// delimiters and leading or trailing delimiters produce no empty fields.
func Split(line, delims string) []string {
	if delims == "" {
		delims = DefaultDelims
	}
	return strings.FieldsFunc(line, func(r rune) bool {
		return strings.ContainsRune(delims, r)
	})
}

// RecordFunc receives the 1-based line number and the fields of one record.
type RecordFunc func(line int, fields []string) error

// ForEachRecord opens path and calls fn for every non-blank line.  A failure to
// open the file is reported as ErrCodeMissingFile; fn's errors are returned
// unchanged and stop the scan.
func ForEachRecord(path, delims string, fn RecordFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.MissingFile("", path, err)
	}
	defer f.Close()
	return scan(f, path, func(line int, text string) error {
		return fn(line, Split(text, delims))
	})
}

// ReadNames returns one name per non-blank line of path, in file order, with
// surrounding whitespace removed.  The whole line is the name, so names may
// contain delimiter characters.
func ReadNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.MissingFile("", path, err)
	}
	defer f.Close()

	var names []string
	err = scan(f, path, func(_ int, text string) error {
		names = append(names, text)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func scan(r io.Reader, path string, fn func(line int, text string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if err := fn(line, text); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return errors.MalformedInput(path, line+1, "read failed").WithCause(err)
	}
	return nil
}
