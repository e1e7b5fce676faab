package lda

import (
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ComponentPrefix starts the name of every projected column.
const ComponentPrefix = "ld"

// ComponentName returns the name of the i-th discriminant column, from 0.
func ComponentName(i int) string {
	return ComponentPrefix + strconv.Itoa(i+1)
}

// overallMean returns the prior-weighted mean of the class means.
func overallMean(means *mat.Dense, priors []float64) []float64 {
	_, p := means.Dims()
	xbar := make([]float64, p)
	for ci, prior := range priors {
		floats.AddScaled(xbar, prior, means.RawRowView(ci))
	}

	return xbar
}

// discriminantAxes solves Sb·v = λ·Sw·v, with Sb the between-class scatter, and
// returns the eigenvectors of the k-1 largest eigenvalues as columns, strongest
// first. Each axis has vᵀ·Sw·v = 1 and points from the first class mean towards
// the last one.
func discriminantAxes(within *mat.SymDense, means *mat.Dense, priors, xbar []float64) (*mat.Dense, error) {
	k, p := means.Dims()
	between := mat.NewSymDense(p, nil)
	for ci := 0; ci < k; ci++ {
		diff := make([]float64, p)
		floats.SubTo(diff, means.RawRowView(ci), xbar)
		between.SymRankOne(between, priors[ci], mat.NewVecDense(p, diff))
	}

	var chol mat.Cholesky
	if !chol.Factorize(within) {
		return nil, ErrSingularScatter
	}
	var l, linv mat.TriDense
	chol.LTo(&l)
	err := linv.InverseTri(&l)
	var cond mat.Condition
	if err != nil && !errors.As(err, &cond) {
		return nil, errors.Wrap(ErrSingularScatter, err.Error())
	}

	// L⁻¹·Sb·L⁻ᵀ has the same eigenvalues as the generalised problem.
	var tmp, reduced mat.Dense
	tmp.Mul(&linv, between)
	reduced.Mul(&tmp, linv.T())
	sym := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			sym.SetSym(i, j, (reduced.At(i, j)+reduced.At(j, i))/2)
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return nil, errors.Wrap(ErrSingularScatter, "eigen decomposition did not converge")
	}
	var u, vecs mat.Dense
	eig.VectorsTo(&u)
	vecs.Mul(linv.T(), &u)

	span := make([]float64, p)
	floats.SubTo(span, means.RawRowView(k-1), means.RawRowView(0))
	n := min(k-1, p)
	axes := mat.NewDense(p, n, nil)
	for c := 0; c < n; c++ {
		// eigenvalues come in ascending order
		axis := mat.Col(nil, p-1-c, &vecs)
		if floats.Dot(axis, span) < 0 {
			floats.Scale(-1, axis)
		}
		axes.SetCol(c, axis)
	}

	return axes, nil
}
