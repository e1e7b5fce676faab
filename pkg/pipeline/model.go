package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-titanic/pkg/pipeline/model"
	"github.com/askiada/go-titanic/pkg/table"
)

// Model is a fitted pipeline. It is read-only and safe for concurrent use as long
// as the fitted stages are.
type Model struct {
	opts          []model.PipelineOption
	transformers  []model.Transformer
	infos         []*model.StageInfo
	predictor     model.Predictor
	predictorInfo *model.StageInfo
}

// Transformer returns the fitted value of the stage called name.
func (m *Model) Transformer(name string) (model.Transformer, bool) {
	for i, info := range m.infos {
		if info.Name == name {
			return m.transformers[i], true
		}
	}

	return nil, false
}

// Predictor returns the fitted estimator, if any.
func (m *Model) Predictor() (model.Predictor, bool) {
	return m.predictor, m.predictor != nil
}

// Transform replays the fitted stages on tbl.
func (m *Model) Transform(ctx context.Context, tbl *table.Table) (*table.Table, error) {
	if tbl == nil {
		return nil, ErrInputMustBeSet
	}
	current := tbl
	for i, tr := range m.transformers {
		err := ctx.Err()
		if err != nil {
			return nil, stageError(err, m.infos[i], model.PhaseTransform)
		}
		current, err = transform(m.opts, m.infos[i], tr, current)
		if err != nil {
			return nil, err
		}
	}

	return current, nil
}

// TransformAll is Transform followed by the transform of the fitted estimator,
// when it implements model.Transformer.
func (m *Model) TransformAll(ctx context.Context, tbl *table.Table) (*table.Table, error) {
	engineered, err := m.Transform(ctx, tbl)
	if err != nil {
		return nil, err
	}
	tr, ok := m.predictor.(model.Transformer)
	if !ok {
		return engineered, nil
	}
	err = ctx.Err()
	if err != nil {
		return nil, stageError(err, m.predictorInfo, model.PhaseTransform)
	}

	return transform(m.opts, m.predictorInfo, tr, engineered)
}

// Predict transforms tbl then predicts one label per row.
func (m *Model) Predict(ctx context.Context, tbl *table.Table) ([]float64, error) {
	if m.predictor == nil {
		return nil, ErrNoEstimator
	}
	engineered, err := m.Transform(ctx, tbl)
	if err != nil {
		return nil, err
	}
	err = ctx.Err()
	if err != nil {
		return nil, stageError(err, m.predictorInfo, model.PhasePredict)
	}

	start := time.Now()
	predictions, err := m.predictor.Predict(engineered)
	if err != nil {
		return nil, stageError(err, m.predictorInfo, model.PhasePredict)
	}
	if len(predictions) != engineered.Rows() {
		return nil, errors.Wrapf(table.ErrLengthMismatch, "stage %s: %d predictions for %d rows", m.predictorInfo.Name, len(predictions), engineered.Rows())
	}
	err = notify(m.opts, m.predictorInfo, model.PhasePredict, model.Shape{Rows: len(predictions), Cols: 1}, time.Since(start))
	if err != nil {
		return nil, err
	}

	return predictions, nil
}
