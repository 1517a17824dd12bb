package delimited

import (
	"bufio"
	"os"
	"unicode/utf8"

	"github.com/songpeng/inferBind/pkg/errors"
)

// FieldSeparator returns the rune used between written fields: the first rune
// of delims, or TAB when delims is empty.
func FieldSeparator(delims string) rune {
	if delims == "" {
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(delims)
	return r
}

// WriteRecords writes each record on its own line, fields joined by the first
// rune of delims.  The file is created or truncated.
func WriteRecords(path, delims string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.MissingFile("", path, err)
	}
	sep := FieldSeparator(delims)
	w := bufio.NewWriter(f)
	for _, rec := range records {
		for i, field := range rec {
			if i > 0 {
				w.WriteRune(sep)
			}
			w.WriteString(field)
		}
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrap(err, errors.ErrCodeInternal, "write "+path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "close "+path)
	}
	return nil
}
