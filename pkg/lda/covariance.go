package lda

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// shrinkage selects how the class covariance is regularised.
type shrinkage struct {
	auto  bool
	alpha float64
}

// center returns x minus its column means.
func center(x *mat.Dense) *mat.Dense {
	n, p := x.Dims()
	centered := mat.NewDense(n, p, nil)
	for j := 0; j < p; j++ {
		col := mat.Col(nil, j, x)
		mean := stat.Mean(col, nil)
		for i, v := range col {
			centered.Set(i, j, v-mean)
		}
	}

	return centered
}

// empiricalCovariance returns the maximum likelihood covariance of x.
func empiricalCovariance(x *mat.Dense) *mat.SymDense {
	n, _ := x.Dims()
	var cov mat.SymDense
	cov.SymOuterK(1/float64(n), center(x).T())

	return &cov
}

// shrunk returns (1-alpha)*cov + alpha*mu*I where mu is the mean variance.
func shrunk(cov *mat.SymDense, alpha float64) *mat.SymDense {
	p := cov.SymmetricDim()
	mu := mat.Trace(cov) / float64(p)
	out := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			v := (1 - alpha) * cov.At(i, j)
			if i == j {
				v += alpha * mu
			}
			out.SetSym(i, j, v)
		}
	}

	return out
}

// ledoitWolfShrinkage estimates the optimal shrinkage of the covariance of x.
func ledoitWolfShrinkage(x *mat.Dense) float64 {
	n, p := x.Dims()
	if p == 1 {
		return 0
	}
	centered := center(x)
	squared := mat.NewDense(n, p, nil)
	squared.MulElem(centered, centered)

	traces := make([]float64, p)
	for j := range traces {
		traces[j] = mat.Sum(squared.ColView(j)) / float64(n)
	}
	traceSum := 0.0
	for _, v := range traces {
		traceSum += v
	}
	mu := traceSum / float64(p)

	var sq2 mat.Dense
	sq2.Mul(squared.T(), squared)
	betaSum := mat.Sum(&sq2)

	var gram, gram2 mat.Dense
	gram.Mul(centered.T(), centered)
	gram2.MulElem(&gram, &gram)
	deltaSum := mat.Sum(&gram2) / float64(n*n)

	beta := (betaSum/float64(n) - deltaSum) / float64(p*n)
	delta := (deltaSum - 2*mu*traceSum + float64(p)*mu*mu) / float64(p)
	if beta > delta {
		beta = delta
	}
	if beta <= 0 || delta <= 0 {
		return 0
	}

	return beta / delta
}

// classCovariance returns the covariance of x regularised as requested.
// Automatic shrinkage works on standardised columns and is scaled back.
func classCovariance(x *mat.Dense, shr shrinkage) *mat.SymDense {
	if !shr.auto {
		cov := empiricalCovariance(x)
		if shr.alpha == 0 {
			return cov
		}

		return shrunk(cov, shr.alpha)
	}

	n, p := x.Dims()
	scale := make([]float64, p)
	scaled := mat.NewDense(n, p, nil)
	for j := 0; j < p; j++ {
		col := mat.Col(nil, j, x)
		mean, variance := stat.PopMeanVariance(col, nil)
		sd := 1.0
		if variance > 0 {
			sd = math.Sqrt(variance)
		}
		scale[j] = sd
		for i, v := range col {
			scaled.Set(i, j, (v-mean)/sd)
		}
	}
	cov := shrunk(empiricalCovariance(scaled), ledoitWolfShrinkage(scaled))
	out := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			out.SetSym(i, j, scale[i]*cov.At(i, j)*scale[j])
		}
	}

	return out
}
