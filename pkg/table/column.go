package table

import (
	"math"
	"strconv"
)

// Kind is the type of the values held by a column.
type Kind int

const (
	// Float columns hold float64 values, NaN marks a missing value.
	Float Kind = iota
	// String columns hold text values with a validity mask.
	String
)

func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Column is a named, typed and nullable sequence of values.
//
// A column never changes once built. Constructors take ownership of the slices
// they are given.
type Column struct {
	name    string
	kind    Kind
	floats  []float64
	strings []string
	valid   []bool
}

// NewFloat creates a float column. NaN values are missing.
func NewFloat(name string, values []float64) *Column {
	return &Column{name: name, kind: Float, floats: values}
}

// NewString creates a string column. A nil valid mask marks every value as present.
func NewString(name string, values []string, valid []bool) *Column {
	if valid == nil {
		valid = make([]bool, len(values))
		for i := range valid {
			valid[i] = true
		}
	}

	return &Column{name: name, kind: String, strings: values, valid: valid}
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the column kind.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of rows.
func (c *Column) Len() int {
	if c.kind == Float {
		return len(c.floats)
	}

	return len(c.strings)
}

// IsNull reports whether row i is missing.
func (c *Column) IsNull(i int) bool {
	if c.kind == Float {
		return math.IsNaN(c.floats[i])
	}

	return !c.valid[i]
}

// Float returns row i of a float column.
func (c *Column) Float(i int) float64 {
	return c.floats[i]
}

// Text returns the textual form of row i and whether it is present.
// Float values use their shortest decimal representation.
func (c *Column) Text(i int) (string, bool) {
	if c.IsNull(i) {
		return "", false
	}
	if c.kind == Float {
		return strconv.FormatFloat(c.floats[i], 'f', -1, 64), true
	}

	return c.strings[i], true
}

// Floats returns a copy of the values of a float column.
func (c *Column) Floats() []float64 {
	out := make([]float64, len(c.floats))
	copy(out, c.floats)

	return out
}

// Rename returns the same values under another name.
func (c *Column) Rename(name string) *Column {
	return &Column{name: name, kind: c.kind, floats: c.floats, strings: c.strings, valid: c.valid}
}
