// Package nameindex maps entity names to dense indices within one namespace
// (drugs, proteins, substructures or domains).
package nameindex

import (
	"slices"

	"github.com/songpeng/inferBind/internal/infrastructure/storage/delimited"
	"github.com/songpeng/inferBind/pkg/errors"
)

// Index is a bidirectional name↔index mapping.  Indices are assigned in
// first-appearance order and never change.
type Index struct {
	source string
	names  []string
	byName map[string]int
}

// Build reads a name-list file (one name per line) and indexes it.
func Build(path string) (*Index, error) {
	names, err := delimited.ReadNames(path)
	if err != nil {
		return nil, err
	}
	return newIndex(path, names)
}

// New indexes names held in memory.
func New(names []string) (*Index, error) {
	return newIndex("", names)
}

// newIndex rejects a name that occurs twice, since a second occurrence would
// silently rebind the name to a different row of every relation.
func newIndex(source string, names []string) (*Index, error) {
	idx := &Index{
		source: source,
		names:  slices.Clone(names),
		byName: make(map[string]int, len(names)),
	}
	for i, name := range idx.names {
		if first, dup := idx.byName[name]; dup {
			return nil, errors.DuplicateName(source, name, first, i)
		}
		idx.byName[name] = i
	}
	return idx, nil
}

// Len returns the number of names.
func (x *Index) Len() int { return len(x.names) }

// Source returns the file the index was built from, or "" for New.
func (x *Index) Source() string { return x.source }

// IndexOf returns the index assigned to name.
func (x *Index) IndexOf(name string) (int, bool) {
	i, ok := x.byName[name]
	return i, ok
}

// Name returns the name at index i.
func (x *Index) Name(i int) (string, bool) {
	if i < 0 || i >= len(x.names) {
		return "", false
	}
	return x.names[i], true
}

// Names returns a copy of all names in index order.
func (x *Index) Names() []string {
	return slices.Clone(x.names)
}

// Resolve maps names to indices, failing on the first unknown name.
func (x *Index) Resolve(names []string) ([]int, error) {
	out := make([]int, len(names))
	for k, name := range names {
		i, ok := x.byName[name]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeMalformedInput, "unknown name %q", name).WithDetail(x.source)
		}
		out[k] = i
	}
	return out, nil
}
