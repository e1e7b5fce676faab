package table_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-titanic/pkg/table"
)

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		table.NewFloat("Age", []float64{22, math.NaN(), 35}),
		table.NewString("Cabin", []string{"", "C85", ""}, []bool{false, true, false}),
		table.NewFloat("Pclass", []float64{3, 1, 3}),
	)
	require.NoError(t, err)

	return tbl
}

func TestNewLengthMismatch(t *testing.T) {
	t.Parallel()

	_, err := table.New(
		table.NewFloat("a", []float64{1, 2}),
		table.NewFloat("b", []float64{1}),
	)
	assert.ErrorIs(t, err, table.ErrLengthMismatch)
}

func TestNewDuplicateColumn(t *testing.T) {
	t.Parallel()

	_, err := table.New(
		table.NewFloat("a", []float64{1}),
		table.NewString("a", []string{"x"}, nil),
	)
	assert.ErrorIs(t, err, table.ErrDuplicateColumn)
}

func TestColumnAccess(t *testing.T) {
	t.Parallel()

	tbl := sampleTable(t)
	assert.Equal(t, 3, tbl.Rows())
	assert.Equal(t, 3, tbl.Width())
	assert.Equal(t, []string{"Age", "Cabin", "Pclass"}, tbl.Names())

	age, err := tbl.Typed("Age", table.Float)
	require.NoError(t, err)
	assert.True(t, age.IsNull(1))
	assert.False(t, age.IsNull(0))

	cabin, err := tbl.Column("Cabin")
	require.NoError(t, err)
	v, ok := cabin.Text(1)
	assert.True(t, ok)
	assert.Equal(t, "C85", v)
	_, ok = cabin.Text(0)
	assert.False(t, ok)

	pclass, err := tbl.Column("Pclass")
	require.NoError(t, err)
	v, ok = pclass.Text(0)
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	_, err = tbl.Column("Fare")
	assert.ErrorIs(t, err, table.ErrColumnNotFound)
	_, err = tbl.Typed("Cabin", table.Float)
	assert.ErrorIs(t, err, table.ErrKindMismatch)
}

func TestRequire(t *testing.T) {
	t.Parallel()

	tbl := sampleTable(t)
	tcs := map[string]struct {
		fields  []table.Field
		wantErr error
	}{
		"all present": {fields: []table.Field{{Name: "Age", Kind: table.Float}, {Name: "Cabin", Kind: table.String}}},
		"missing":     {fields: []table.Field{{Name: "Name", Kind: table.String}}, wantErr: table.ErrColumnNotFound},
		"wrong kind":  {fields: []table.Field{{Name: "Pclass", Kind: table.String}}, wantErr: table.ErrKindMismatch},
	}
	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := tbl.Require(tc.fields...)
			if tc.wantErr == nil {
				assert.NoError(t, err)

				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestWithDoesNotMutate(t *testing.T) {
	t.Parallel()

	tbl := sampleTable(t)
	out, err := tbl.With(
		table.NewFloat("Age_bin", []float64{3, 0, 5}),
		table.NewFloat("Pclass", []float64{1, 1, 1}),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"Age", "Cabin", "Pclass"}, tbl.Names())
	assert.Equal(t, []string{"Age", "Cabin", "Pclass", "Age_bin"}, out.Names())

	pclass, err := out.Column("Pclass")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1}, pclass.Floats())
	original, err := tbl.Column("Pclass")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 3}, original.Floats())

	_, err = tbl.With(table.NewFloat("short", []float64{1}))
	assert.ErrorIs(t, err, table.ErrLengthMismatch)
}

func TestDropSelectSorted(t *testing.T) {
	t.Parallel()

	tbl := sampleTable(t)
	dropped := tbl.Drop("Age", "Unknown")
	assert.Equal(t, []string{"Cabin", "Pclass"}, dropped.Names())
	assert.Equal(t, 3, dropped.Rows())

	empty := tbl.Drop(tbl.Names()...)
	assert.Equal(t, 0, empty.Width())
	assert.Equal(t, 3, empty.Rows())

	selected, err := tbl.Select("Pclass", "Age")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pclass", "Age"}, selected.Names())

	_, err = tbl.Select("Fare")
	assert.ErrorIs(t, err, table.ErrColumnNotFound)

	withLower, err := tbl.With(table.NewFloat("is_married", []float64{0, 0, 1}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Age", "Cabin", "Pclass", "is_married"}, withLower.Sorted().Names())
}

func TestRename(t *testing.T) {
	t.Parallel()

	col := table.NewString("Sex", []string{"male"}, nil)
	renamed := col.Rename("Gender")
	assert.Equal(t, "Gender", renamed.Name())
	assert.Equal(t, "Sex", col.Name())
	assert.Equal(t, table.String, renamed.Kind())
	assert.Equal(t, "string", renamed.Kind().String())
}
