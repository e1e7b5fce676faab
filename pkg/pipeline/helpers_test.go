package pipeline_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-titanic/pkg/pipeline/model"
	"github.com/askiada/go-titanic/pkg/table"
)

var errBoom = errors.New("boom")

// meanStage learns the mean of the labels and appends it as column name.
type meanStage struct {
	name string
	fits atomic.Int32
}

func (s *meanStage) Fit(tbl *table.Table, labels []float64) (model.Transformer, error) {
	s.fits.Add(1)
	total := 0.0
	for _, l := range labels {
		total += l
	}
	mean := 0.0
	if len(labels) > 0 {
		mean = total / float64(len(labels))
	}

	return &constTransformer{name: s.name, value: mean}, nil
}

type constTransformer struct {
	name  string
	value float64
}

func (c *constTransformer) Transform(tbl *table.Table) (*table.Table, error) {
	values := make([]float64, tbl.Rows())
	for i := range values {
		values[i] = c.value
	}

	return tbl.With(table.NewFloat(c.name, values))
}

type failingStage struct {
	onTransform bool
}

func (s *failingStage) Fit(*table.Table, []float64) (model.Transformer, error) {
	if s.onTransform {
		return s, nil
	}

	return nil, errBoom
}

func (s *failingStage) Transform(*table.Table) (*table.Table, error) {
	return nil, errBoom
}

// thresholdEstimator predicts 1 when column is above its fitted mean.
type thresholdEstimator struct {
	column string
}

func (e *thresholdEstimator) Fit(tbl *table.Table, _ []float64) (model.Predictor, error) {
	col, err := tbl.Typed(e.column, table.Float)
	if err != nil {
		return nil, err
	}
	total := 0.0
	for _, v := range col.Floats() {
		total += v
	}

	return &thresholdPredictor{column: e.column, threshold: total / float64(col.Len())}, nil
}

type thresholdPredictor struct {
	column    string
	threshold float64
}

func (p *thresholdPredictor) Predict(tbl *table.Table) ([]float64, error) {
	col, err := tbl.Typed(p.column, table.Float)
	if err != nil {
		return nil, err
	}
	out := make([]float64, col.Len())
	for i, v := range col.Floats() {
		if v > p.threshold {
			out[i] = 1
		}
	}

	return out, nil
}

// marginEstimator is a thresholdEstimator whose predictor also projects each
// row to its distance from the threshold.
type marginEstimator struct {
	thresholdEstimator
}

func (e *marginEstimator) Fit(tbl *table.Table, labels []float64) (model.Predictor, error) {
	p, err := e.thresholdEstimator.Fit(tbl, labels)
	if err != nil {
		return nil, err
	}

	return &marginPredictor{thresholdPredictor: p.(*thresholdPredictor)}, nil
}

type marginPredictor struct {
	*thresholdPredictor
}

func (p *marginPredictor) Transform(tbl *table.Table) (*table.Table, error) {
	col, err := tbl.Typed(p.column, table.Float)
	if err != nil {
		return nil, err
	}
	out := make([]float64, col.Len())
	for i, v := range col.Floats() {
		out[i] = v - p.threshold
	}

	return table.New(table.NewFloat("margin", out))
}

func createTable(t *testing.T, values ...float64) *table.Table {
	t.Helper()
	tbl, err := table.New(table.NewFloat("x", values))
	require.NoError(t, err)

	return tbl
}

type recordingOption struct {
	created  int
	prepared []string
	outputs  []string
	finished int
	err      error
}

func (r *recordingOption) New() error {
	r.created++

	return r.err
}

func (r *recordingOption) PrepareStage(parent, stage *model.StageInfo) error {
	r.prepared = append(r.prepared, parent.Name+">"+stage.Name)

	return nil
}

func (r *recordingOption) OnStageOutput(stage *model.StageInfo, phase model.Phase, _ model.Shape, _ time.Duration) error {
	r.outputs = append(r.outputs, stage.Name+":"+string(phase))

	return nil
}

func (r *recordingOption) Finish() error {
	r.finished++

	return nil
}
