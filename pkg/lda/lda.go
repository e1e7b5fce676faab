// Package lda implements linear discriminant analysis over engineered tables.
//
// The classifier models every class as a Gaussian sharing one covariance matrix.
// Each class covariance can be regularised with a fixed shrinkage or with the
// Ledoit-Wolf estimate, which is the default. The shared covariance is the
// prior-weighted sum of the class covariances.
package lda

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/askiada/go-titanic/pkg/pipeline/model"
	"github.com/askiada/go-titanic/pkg/table"
)

var (
	ErrEmptyTable       = errors.New("table has no rows or no columns")
	ErrLabelsMisaligned = errors.New("labels and table have different lengths")
	ErrSingleClass      = errors.New("at least two classes are required")
	ErrMissingValue     = errors.New("missing value")
	ErrFeatureMismatch  = errors.New("features differ from the fitted ones")
	ErrSingularScatter  = errors.New("within-class scatter is singular")
	ErrInvalidShrinkage = errors.New("shrinkage must be between 0 and 1")
)

// Option configures a Classifier.
type Option func(c *Classifier)

// WithAutoShrinkage uses the Ledoit-Wolf shrinkage.
func WithAutoShrinkage() Option {
	return func(c *Classifier) {
		c.shrinkage = shrinkage{auto: true}
	}
}

// WithShrinkage uses a fixed shrinkage between 0 and 1.
func WithShrinkage(alpha float64) Option {
	return func(c *Classifier) {
		c.shrinkage = shrinkage{alpha: alpha}
	}
}

// WithoutShrinkage uses the empirical covariance.
func WithoutShrinkage() Option {
	return WithShrinkage(0)
}

// Classifier is an unfitted linear discriminant analysis.
type Classifier struct {
	shrinkage shrinkage
}

// New creates a classifier. Automatic shrinkage is used by default.
func New(opts ...Option) (*Classifier, error) {
	c := &Classifier{shrinkage: shrinkage{auto: true}}
	for _, opt := range opts {
		opt(c)
	}
	if !c.shrinkage.auto && (c.shrinkage.alpha < 0 || c.shrinkage.alpha > 1 || math.IsNaN(c.shrinkage.alpha)) {
		return nil, errors.Wrapf(ErrInvalidShrinkage, "got %v", c.shrinkage.alpha)
	}

	return c, nil
}

// Fit implements model.Estimator.
func (c *Classifier) Fit(tbl *table.Table, labels []float64) (model.Predictor, error) {
	return c.Train(tbl, labels)
}

// Train fits the classifier and returns the fitted model.
func (c *Classifier) Train(tbl *table.Table, labels []float64) (*Model, error) {
	x, err := toMatrix(tbl)
	if err != nil {
		return nil, err
	}
	n, p := x.Dims()
	if len(labels) != n {
		return nil, errors.Wrapf(ErrLabelsMisaligned, "%d labels for %d rows", len(labels), n)
	}
	classes, groups, err := splitClasses(labels)
	if err != nil {
		return nil, err
	}

	k := len(classes)
	priors := make([]float64, k)
	means := mat.NewDense(k, p, nil)
	within := mat.NewSymDense(p, nil)
	for ci, rows := range groups {
		priors[ci] = float64(len(rows)) / float64(n)
		xk := mat.NewDense(len(rows), p, nil)
		for r, idx := range rows {
			xk.SetRow(r, x.RawRowView(idx))
		}
		for j := 0; j < p; j++ {
			means.Set(ci, j, mat.Sum(xk.ColView(j))/float64(len(rows)))
		}
		addScaled(within, classCovariance(xk, c.shrinkage), priors[ci])
	}

	coef, err := solve(within, means)
	if err != nil {
		return nil, err
	}
	intercept := make([]float64, k)
	for ci := range intercept {
		intercept[ci] = -0.5*mat.Dot(means.RowView(ci), coef.RowView(ci)) + math.Log(priors[ci])
	}

	xbar := overallMean(means, priors)
	scalings, _ := discriminantAxes(within, means, priors, xbar) //nolint:errcheck // reported by Transform

	return &Model{
		features:  tbl.Names(),
		classes:   classes,
		priors:    priors,
		means:     means,
		coef:      coef,
		intercept: intercept,
		xbar:      xbar,
		scalings:  scalings,
	}, nil
}

// solve returns W (k x p) with within * Wᵀ = meansᵀ.
func solve(within *mat.SymDense, means *mat.Dense) (*mat.Dense, error) {
	var chol mat.Cholesky
	if chol.Factorize(within) {
		var sol mat.Dense
		err := chol.SolveTo(&sol, means.T())
		if err == nil {
			return mat.DenseCopyOf(sol.T()), nil
		}
	}
	var sol mat.Dense
	err := sol.Solve(within, means.T())
	if err != nil {
		return nil, errors.Wrap(ErrSingularScatter, err.Error())
	}

	return mat.DenseCopyOf(sol.T()), nil
}

// addScaled adds f*m to dst.
func addScaled(dst, m *mat.SymDense, f float64) {
	p := dst.SymmetricDim()
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			dst.SetSym(i, j, dst.At(i, j)+f*m.At(i, j))
		}
	}
}

// splitClasses returns the sorted distinct labels and the rows of each.
func splitClasses(labels []float64) ([]float64, [][]int, error) {
	byLabel := make(map[float64][]int)
	for i, label := range labels {
		if math.IsNaN(label) {
			return nil, nil, errors.Wrapf(ErrMissingValue, "label at row %d", i)
		}
		byLabel[label] = append(byLabel[label], i)
	}
	if len(byLabel) < 2 {
		return nil, nil, ErrSingleClass
	}
	classes := make([]float64, 0, len(byLabel))
	for label := range byLabel {
		classes = append(classes, label)
	}
	sort.Float64s(classes)
	groups := make([][]int, len(classes))
	for i, label := range classes {
		groups[i] = byLabel[label]
	}

	return classes, groups, nil
}

// toMatrix copies a fully numeric table into a dense matrix.
func toMatrix(tbl *table.Table) (*mat.Dense, error) {
	n, p := tbl.Rows(), tbl.Width()
	if n == 0 || p == 0 {
		return nil, ErrEmptyTable
	}
	x := mat.NewDense(n, p, nil)
	for j, name := range tbl.Names() {
		col, err := tbl.Typed(name, table.Float)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			v := col.Float(i)
			if math.IsNaN(v) {
				return nil, errors.Wrapf(ErrMissingValue, "column %s row %d", name, i)
			}
			x.Set(i, j, v)
		}
	}

	return x, nil
}
