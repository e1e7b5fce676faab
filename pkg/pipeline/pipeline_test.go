package pipeline_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-titanic/pkg/pipeline"
	"github.com/askiada/go-titanic/pkg/pipeline/model"
	"github.com/askiada/go-titanic/pkg/table"
)

func TestNewOptionError(t *testing.T) {
	t.Parallel()

	_, err := pipeline.New(&recordingOption{err: errBoom})
	assert.ErrorIs(t, err, errBoom)
}

func TestAddStageErrors(t *testing.T) {
	t.Parallel()

	var nilPipe *pipeline.Pipeline
	assert.ErrorIs(t, nilPipe.AddStage("a", &meanStage{name: "a"}), pipeline.ErrPipelineMustBeSet)
	assert.ErrorIs(t, nilPipe.SetEstimator("e", &thresholdEstimator{column: "x"}), pipeline.ErrPipelineMustBeSet)

	pipe, err := pipeline.New()
	require.NoError(t, err)
	assert.ErrorIs(t, pipe.AddStage("a", nil), pipeline.ErrStageMustBeSet)
	assert.ErrorIs(t, pipe.SetEstimator("e", nil), pipeline.ErrStageMustBeSet)

	require.NoError(t, pipe.AddStage("a", &meanStage{name: "a"}))
	assert.ErrorIs(t, pipe.AddStage("a", &meanStage{name: "a"}), pipeline.ErrDuplicateStage)

	require.NoError(t, pipe.SetEstimator("e", &thresholdEstimator{column: "x"}))
	assert.ErrorIs(t, pipe.AddStage("b", &meanStage{name: "b"}), pipeline.ErrEstimatorSet)
	assert.ErrorIs(t, pipe.SetEstimator("f", &thresholdEstimator{column: "x"}), pipeline.ErrEstimatorSet)
	assert.Equal(t, []string{"a", "e"}, pipe.Stages())
}

func TestFitTransform(t *testing.T) {
	t.Parallel()

	first, second := &meanStage{name: "a"}, &meanStage{name: "b"}
	pipe, err := pipeline.New()
	require.NoError(t, err)
	require.NoError(t, pipe.AddStage("first", first))
	require.NoError(t, pipe.AddStage("second", second))

	train := createTable(t, 1, 2, 3, 4)
	m, engineered, err := pipe.FitTransform(context.Background(), train, []float64{0, 1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "a", "b"}, engineered.Names())
	assert.Equal(t, []string{"x"}, train.Names())
	col, err := engineered.Column("b")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.75, 0.75, 0.75, 0.75}, col.Floats())

	got, err := m.Transform(context.Background(), createTable(t, 10, 20))
	require.NoError(t, err)
	col, err = got.Column("a")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.75, 0.75}, col.Floats())

	// transforming never refits
	assert.Equal(t, int32(1), first.fits.Load())
	assert.Equal(t, int32(1), second.fits.Load())

	tr, ok := m.Transformer("second")
	require.True(t, ok)
	assert.Equal(t, &constTransformer{name: "b", value: 0.75}, tr)
	_, ok = m.Transformer("missing")
	assert.False(t, ok)

	_, err = m.Predict(context.Background(), train)
	assert.ErrorIs(t, err, pipeline.ErrNoEstimator)
	_, ok = m.Predictor()
	assert.False(t, ok)
}

func TestPredict(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New()
	require.NoError(t, err)
	require.NoError(t, pipe.AddStage("mean", &meanStage{name: "mean"}))
	require.NoError(t, pipe.SetEstimator("threshold", &thresholdEstimator{column: "x"}))

	m, err := pipe.Fit(context.Background(), createTable(t, 1, 2, 3, 4), []float64{0, 0, 1, 1})
	require.NoError(t, err)
	got, err := m.Predict(context.Background(), createTable(t, 1, 4, 2.5))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0}, got)
	_, ok := m.Predictor()
	assert.True(t, ok)
}

func TestTransformAll(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		estimator   model.Estimator
		wantNames   []string
		wantOutputs []string
	}{
		"estimator projects": {
			estimator:   &marginEstimator{thresholdEstimator{column: "x"}},
			wantNames:   []string{"margin"},
			wantOutputs: []string{"mean:transform", "e:transform"},
		},
		"estimator without transform": {
			estimator:   &thresholdEstimator{column: "x"},
			wantNames:   []string{"x", "mean"},
			wantOutputs: []string{"mean:transform"},
		},
		"no estimator": {
			wantNames:   []string{"x", "mean"},
			wantOutputs: []string{"mean:transform"},
		},
	}
	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			opt := &recordingOption{}
			pipe, err := pipeline.New(opt)
			require.NoError(t, err)
			require.NoError(t, pipe.AddStage("mean", &meanStage{name: "mean"}))
			if tc.estimator != nil {
				require.NoError(t, pipe.SetEstimator("e", tc.estimator))
			}
			m, err := pipe.Fit(context.Background(), createTable(t, 1, 2, 3, 4), []float64{0, 0, 1, 1})
			require.NoError(t, err)

			opt.outputs = nil
			got, err := m.TransformAll(context.Background(), createTable(t, 1, 4))
			require.NoError(t, err)
			assert.Equal(t, tc.wantNames, got.Names())
			assert.Equal(t, tc.wantOutputs, opt.outputs)
		})
	}
}

func TestTransformAllValues(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New()
	require.NoError(t, err)
	require.NoError(t, pipe.SetEstimator("e", &marginEstimator{thresholdEstimator{column: "x"}}))
	m, err := pipe.Fit(context.Background(), createTable(t, 1, 2, 3, 4), []float64{0, 0, 1, 1})
	require.NoError(t, err)

	got, err := m.TransformAll(context.Background(), createTable(t, 0, 5))
	require.NoError(t, err)
	col, err := got.Typed("margin", table.Float)
	require.NoError(t, err)
	assert.Equal(t, []float64{-2.5, 2.5}, col.Floats())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.TransformAll(ctx, createTable(t, 0))
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "stage e: unable to transform")

	_, err = m.TransformAll(context.Background(), nil)
	assert.ErrorIs(t, err, pipeline.ErrInputMustBeSet)
}

func TestFitErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		stage   model.Stage
		wantMsg string
	}{
		"fit":       {stage: &failingStage{}, wantMsg: "stage bad: unable to fit"},
		"transform": {stage: &failingStage{onTransform: true}, wantMsg: "stage bad: unable to transform"},
	}
	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			pipe, err := pipeline.New()
			require.NoError(t, err)
			require.NoError(t, pipe.AddStage("good", &meanStage{name: "m"}))
			require.NoError(t, pipe.AddStage("bad", tc.stage))

			_, err = pipe.Fit(context.Background(), createTable(t, 1), []float64{1})
			require.ErrorIs(t, err, errBoom)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestFitEstimatorError(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New()
	require.NoError(t, err)
	require.NoError(t, pipe.SetEstimator("threshold", &thresholdEstimator{column: "missing"}))

	_, err = pipe.Fit(context.Background(), createTable(t, 1), []float64{1})
	require.ErrorIs(t, err, table.ErrColumnNotFound)
	assert.Contains(t, err.Error(), "stage threshold")
}

func TestFitNilInput(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New()
	require.NoError(t, err)
	_, err = pipe.Fit(context.Background(), nil, nil)
	assert.ErrorIs(t, err, pipeline.ErrInputMustBeSet)

	var nilPipe *pipeline.Pipeline
	_, err = nilPipe.Fit(context.Background(), createTable(t, 1), nil)
	assert.ErrorIs(t, err, pipeline.ErrPipelineMustBeSet)
}

func TestFitCanceled(t *testing.T) {
	t.Parallel()

	stage := &meanStage{name: "m"}
	pipe, err := pipeline.New()
	require.NoError(t, err)
	require.NoError(t, pipe.AddStage("mean", stage))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = pipe.Fit(ctx, createTable(t, 1), []float64{1})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), stage.fits.Load())
}

func TestOptionHooks(t *testing.T) {
	t.Parallel()

	opt := &recordingOption{}
	pipe, err := pipeline.New(opt)
	require.NoError(t, err)
	require.NoError(t, pipe.AddStage("a", &meanStage{name: "a"}))
	require.NoError(t, pipe.AddStage("b", &meanStage{name: "b"}))
	require.NoError(t, pipe.SetEstimator("e", &thresholdEstimator{column: "x"}))

	m, err := pipe.Fit(context.Background(), createTable(t, 1, 2), []float64{0, 1})
	require.NoError(t, err)
	_, err = m.Predict(context.Background(), createTable(t, 3))
	require.NoError(t, err)
	require.NoError(t, pipe.Close())

	assert.Equal(t, 1, opt.created)
	assert.Equal(t, []string{"start>a", "a>b", "b>e"}, opt.prepared)
	assert.Equal(t, []string{
		"a:fit", "a:transform", "b:fit", "b:transform", "e:fit",
		"a:transform", "b:transform", "e:predict",
	}, opt.outputs)
	assert.Equal(t, 1, opt.finished)
}

func TestModelConcurrentTransform(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New()
	require.NoError(t, err)
	require.NoError(t, pipe.AddStage("mean", &meanStage{name: "mean"}))
	require.NoError(t, pipe.SetEstimator("threshold", &thresholdEstimator{column: "x"}))
	m, err := pipe.Fit(context.Background(), createTable(t, 1, 2, 3), []float64{0, 1, 1})
	require.NoError(t, err)

	holdout := createTable(t, 0, 5)
	var wg sync.WaitGroup
	results := make([][]float64, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = m.Predict(context.Background(), holdout)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, []float64{0, 1}, results[i])
	}
}
