package feature

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/askiada/go-titanic/pkg/pipeline/model"
	"github.com/askiada/go-titanic/pkg/table"
)

// missingValue replaces NaN before binning.
const missingValue = -1

// BinnerConfig lists the columns to bin and their edges.
type BinnerConfig struct {
	Features []string
	Edges    map[string][]float64
}

// Binner discretizes continuous columns into ordinal bins.
type Binner struct {
	features []string
	edges    map[string][]float64
}

// NewBinner validates the configuration and copies it.
func NewBinner(cfg BinnerConfig) (*Binner, error) {
	b := &Binner{
		features: append([]string(nil), cfg.Features...),
		edges:    make(map[string][]float64, len(cfg.Features)),
	}
	err := checkFeatures(cfg.Features)
	if err != nil {
		return nil, err
	}
	for _, feature := range cfg.Features {
		edges, ok := cfg.Edges[feature]
		if !ok {
			return nil, errors.Wrapf(ErrValidation, "feature %s is missing in bin edges", feature)
		}
		err = checkEdges(edges)
		if err != nil {
			return nil, errors.Wrapf(err, "feature %s", feature)
		}
		b.edges[feature] = append([]float64(nil), edges...)
	}

	return b, nil
}

func checkEdges(edges []float64) error {
	if len(edges) < 2 {
		return errors.Wrap(ErrValidation, "at least two edges are required")
	}
	if !math.IsInf(edges[0], -1) || !math.IsInf(edges[len(edges)-1], 1) {
		return errors.Wrap(ErrValidation, "edges must start at -Inf and end at +Inf")
	}
	for i := 1; i < len(edges); i++ {
		if !(edges[i-1] < edges[i]) {
			return errors.Wrapf(ErrValidation, "edges must be strictly ascending, got %v then %v", edges[i-1], edges[i])
		}
	}

	return nil
}

// Fit learns nothing and returns the binner.
func (b *Binner) Fit(_ *table.Table, _ []float64) (model.Transformer, error) {
	return b, nil
}

// Transform appends a <feature>_bin column for every configured feature.
func (b *Binner) Transform(tbl *table.Table) (*table.Table, error) {
	cols := make([]*table.Column, 0, len(b.features))
	for _, feature := range b.features {
		col, err := tbl.Typed(feature, table.Float)
		if err != nil {
			return nil, errors.Wrap(err, "unable to bin")
		}
		edges := b.edges[feature]
		bins := make([]float64, col.Len())
		for i := range bins {
			bins[i] = float64(binIndex(col.Float(i), edges))
		}
		cols = append(cols, table.NewFloat(feature+"_bin", bins))
	}

	return tbl.With(cols...)
}

// binIndex returns i such that edges[i] <= v < edges[i+1].
func binIndex(v float64, edges []float64) int {
	if math.IsNaN(v) {
		v = missingValue
	}
	last := len(edges) - 2
	idx := sort.Search(len(edges), func(i int) bool { return edges[i] > v }) - 1
	if idx > last {
		return last
	}
	if idx < 0 {
		return 0
	}

	return idx
}
