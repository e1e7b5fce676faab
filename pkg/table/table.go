// Package table provides the in-memory table passed between pipeline stages.
//
// A table is an ordered list of named columns of equal length. Every column is
// either a float column, where NaN marks a missing value, or a string column with
// its own validity mask. Tables and columns are never modified in place: stages
// build new tables that share the columns they did not touch, which makes a table
// safe to read from several goroutines.
//
// Files are parsed with gota in internal/dataset, but stages exchange Table
// rather than dataframe.DataFrame: untouched columns are shared instead of
// copied, and reading a column as the wrong kind is an error instead of a
// silent conversion.
package table

import (
	"sort"

	"github.com/pkg/errors"
)

var (
	ErrColumnNotFound  = errors.New("column not found")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrLengthMismatch  = errors.New("column length mismatch")
	ErrKindMismatch    = errors.New("column kind mismatch")
)

// Field describes a column expected by a stage.
type Field struct {
	Name string
	Kind Kind
}

// Table is an ordered set of columns with the same number of rows.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New creates a table from columns. All columns must have the same length and a
// unique name.
func New(columns ...*Column) (*Table, error) {
	tbl := &Table{
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if i == 0 {
			tbl.rows = col.Len()
		}
		if col.Len() != tbl.rows {
			return nil, errors.Wrapf(ErrLengthMismatch, "column %s has %d rows, expected %d", col.Name(), col.Len(), tbl.rows)
		}
		if _, ok := tbl.index[col.Name()]; ok {
			return nil, errors.Wrap(ErrDuplicateColumn, col.Name())
		}
		tbl.index[col.Name()] = len(tbl.columns)
		tbl.columns = append(tbl.columns, col)
	}

	return tbl, nil
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.rows }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name()
	}

	return names
}

// Has reports whether the table holds a column with this name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]

	return ok
}

// Column returns the column with this name.
func (t *Table) Column(name string) (*Column, error) {
	idx, ok := t.index[name]
	if !ok {
		return nil, errors.Wrap(ErrColumnNotFound, name)
	}

	return t.columns[idx], nil
}

// Typed returns the column with this name and checks its kind.
func (t *Table) Typed(name string, kind Kind) (*Column, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if col.Kind() != kind {
		return nil, errors.Wrapf(ErrKindMismatch, "column %s is %s, expected %s", name, col.Kind(), kind)
	}

	return col, nil
}

// Require checks that every field is present with the expected kind.
func (t *Table) Require(fields ...Field) error {
	for _, field := range fields {
		_, err := t.Typed(field.Name, field.Kind)
		if err != nil {
			return err
		}
	}

	return nil
}

// With returns a new table with the columns added. A column whose name already
// exists replaces the old one at the same position.
func (t *Table) With(columns ...*Column) (*Table, error) {
	out := make([]*Column, len(t.columns), len(t.columns)+len(columns))
	copy(out, t.columns)
	seen := make(map[string]int, len(t.index))
	for name, idx := range t.index {
		seen[name] = idx
	}
	for _, col := range columns {
		if idx, ok := seen[col.Name()]; ok {
			out[idx] = col

			continue
		}
		seen[col.Name()] = len(out)
		out = append(out, col)
	}

	return New(out...)
}

// Drop returns a new table without the named columns. Unknown names are ignored.
func (t *Table) Drop(names ...string) *Table {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[name] = struct{}{}
	}
	out := &Table{
		columns: make([]*Column, 0, len(t.columns)),
		index:   make(map[string]int, len(t.columns)),
		rows:    t.rows,
	}
	for _, col := range t.columns {
		if _, ok := drop[col.Name()]; ok {
			continue
		}
		out.index[col.Name()] = len(out.columns)
		out.columns = append(out.columns, col)
	}

	return out
}

// Select returns a new table with the named columns in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	out.rows = t.rows

	return out, nil
}

// Sorted returns a new table with the columns ordered by name.
func (t *Table) Sorted() *Table {
	names := t.Names()
	sort.Strings(names)
	out, _ := t.Select(names...) //nolint:errcheck // names come from the table itself

	return out
}
