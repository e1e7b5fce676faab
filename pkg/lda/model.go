package lda

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/askiada/go-titanic/pkg/table"
)

// Model is a fitted linear discriminant analysis. It is read-only.
type Model struct {
	features  []string
	classes   []float64
	priors    []float64
	means     *mat.Dense
	coef      *mat.Dense
	intercept []float64
	xbar      []float64
	scalings  *mat.Dense
}

// Features returns the columns the model was fitted on, in order.
func (m *Model) Features() []string {
	return append([]string(nil), m.features...)
}

// Classes returns the sorted class labels.
func (m *Model) Classes() []float64 {
	return append([]float64(nil), m.classes...)
}

// Priors returns the class frequencies seen during fitting.
func (m *Model) Priors() []float64 {
	return append([]float64(nil), m.priors...)
}

// Coef returns the discriminant coefficients of class ci.
func (m *Model) Coef(ci int) []float64 {
	return mat.Row(nil, ci, m.coef)
}

// Intercept returns the intercept of class ci.
func (m *Model) Intercept(ci int) float64 {
	return m.intercept[ci]
}

func (m *Model) matrix(tbl *table.Table) (*mat.Dense, error) {
	names := tbl.Names()
	if len(names) != len(m.features) {
		return nil, errors.Wrapf(ErrFeatureMismatch, "got %d columns, expected %d", len(names), len(m.features))
	}
	for i, name := range names {
		if name != m.features[i] {
			return nil, errors.Wrapf(ErrFeatureMismatch, "column %d is %s, expected %s", i, name, m.features[i])
		}
	}

	return toMatrix(tbl)
}

// DecisionFunction returns one score per row and class.
func (m *Model) DecisionFunction(tbl *table.Table) ([][]float64, error) {
	x, err := m.matrix(tbl)
	if err != nil {
		return nil, err
	}
	var scores mat.Dense
	scores.Mul(x, m.coef.T())
	n, k := scores.Dims()
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, k)
		for ci := 0; ci < k; ci++ {
			out[i][ci] = scores.At(i, ci) + m.intercept[ci]
		}
	}

	return out, nil
}

// PredictProba returns the posterior probability of every class per row.
func (m *Model) PredictProba(tbl *table.Table) ([][]float64, error) {
	scores, err := m.DecisionFunction(tbl)
	if err != nil {
		return nil, err
	}
	for _, row := range scores {
		top := floats.Max(row)
		for ci, v := range row {
			row[ci] = math.Exp(v - top)
		}
		floats.Scale(1/floats.Sum(row), row)
	}

	return scores, nil
}

// Predict implements model.Predictor. It returns the most likely class per row.
func (m *Model) Predict(tbl *table.Table) ([]float64, error) {
	scores, err := m.DecisionFunction(tbl)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(scores))
	for i, row := range scores {
		out[i] = m.classes[floats.MaxIdx(row)]
	}

	return out, nil
}

// Components returns the number of discriminant axes Transform projects onto.
func (m *Model) Components() int {
	if m.scalings == nil {
		return 0
	}
	_, n := m.scalings.Dims()

	return n
}

// Transform implements model.Transformer. It centres every row on the training
// mean and projects it onto the discriminant axes, strongest first, as the
// columns ld1, ld2 and so on.
func (m *Model) Transform(tbl *table.Table) (*table.Table, error) {
	if m.scalings == nil {
		return nil, errors.Wrap(ErrSingularScatter, "no discriminant axes were fitted")
	}
	x, err := m.matrix(tbl)
	if err != nil {
		return nil, err
	}
	n, _ := x.Dims()
	for i := 0; i < n; i++ {
		floats.Sub(x.RawRowView(i), m.xbar)
	}

	var proj mat.Dense
	proj.Mul(x, m.scalings)
	_, c := proj.Dims()
	cols := make([]*table.Column, c)
	for j := range cols {
		cols[j] = table.NewFloat(ComponentName(j), mat.Col(nil, j, &proj))
	}

	return table.New(cols...)
}

// Score returns the accuracy of the predictions against labels.
func (m *Model) Score(tbl *table.Table, labels []float64) (float64, error) {
	predictions, err := m.Predict(tbl)
	if err != nil {
		return 0, err
	}

	return Accuracy(predictions, labels)
}

// Accuracy returns the share of predictions equal to their label.
func Accuracy(predictions, labels []float64) (float64, error) {
	if len(predictions) != len(labels) {
		return 0, errors.Wrapf(ErrLabelsMisaligned, "%d predictions for %d labels", len(predictions), len(labels))
	}
	if len(labels) == 0 {
		return 0, nil
	}
	hits := 0
	for i, p := range predictions {
		if p == labels[i] {
			hits++
		}
	}

	return float64(hits) / float64(len(labels)), nil
}
