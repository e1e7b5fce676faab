package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-titanic/pkg/pipeline/model"
	"github.com/askiada/go-titanic/pkg/table"
)

type stage struct {
	info  *model.StageInfo
	stage model.Stage
}

// Pipeline is an ordered list of stages followed by an optional estimator.
type Pipeline struct {
	opts          []model.PipelineOption
	stages        []*stage
	names         map[string]struct{}
	estimator     model.Estimator
	estimatorInfo *model.StageInfo
}

// New creates a new pipeline.
func New(opts ...model.PipelineOption) (*Pipeline, error) {
	pipe := &Pipeline{
		opts:  opts,
		names: make(map[string]struct{}),
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

func (p *Pipeline) register(name string, typ model.StageType) (*model.StageInfo, error) {
	if _, ok := p.names[name]; ok {
		return nil, errors.Wrapf(ErrDuplicateStage, "name %s", name)
	}
	if p.estimator != nil {
		return nil, errors.Wrapf(ErrEstimatorSet, "cannot add %s after %s", name, p.estimatorInfo.Name)
	}

	parent := model.StartStage
	if len(p.stages) > 0 {
		parent = p.stages[len(p.stages)-1].info
	}
	info := &model.StageInfo{Type: typ, Name: name, Index: len(p.stages)}
	for _, opt := range p.opts {
		err := opt.PrepareStage(parent, info)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to prepare stage %s", name)
		}
	}
	p.names[name] = struct{}{}

	return info, nil
}

// AddStage appends a stage. Names must be unique within the pipeline.
func (p *Pipeline) AddStage(name string, s model.Stage) error {
	if p == nil {
		return ErrPipelineMustBeSet
	}
	if s == nil {
		return errors.Wrapf(ErrStageMustBeSet, "name %s", name)
	}
	info, err := p.register(name, model.TransformerStageType)
	if err != nil {
		return err
	}
	p.stages = append(p.stages, &stage{info: info, stage: s})

	return nil
}

// SetEstimator sets the final stage. No stage can be added afterwards.
func (p *Pipeline) SetEstimator(name string, e model.Estimator) error {
	if p == nil {
		return ErrPipelineMustBeSet
	}
	if e == nil {
		return errors.Wrapf(ErrStageMustBeSet, "name %s", name)
	}
	info, err := p.register(name, model.EstimatorStageType)
	if err != nil {
		return err
	}
	p.estimator = e
	p.estimatorInfo = info

	return nil
}

// Stages returns the names of the registered stages, estimator included.
func (p *Pipeline) Stages() []string {
	names := make([]string, 0, len(p.stages)+1)
	for _, s := range p.stages {
		names = append(names, s.info.Name)
	}
	if p.estimatorInfo != nil {
		names = append(names, p.estimatorInfo.Name)
	}

	return names
}

// Fit fits every stage in order, then the estimator, and returns the fitted model.
func (p *Pipeline) Fit(ctx context.Context, tbl *table.Table, labels []float64) (*Model, error) {
	m, _, err := p.FitTransform(ctx, tbl, labels)

	return m, err
}

// FitTransform is Fit that also returns the table the estimator was fitted on.
func (p *Pipeline) FitTransform(ctx context.Context, tbl *table.Table, labels []float64) (*Model, *table.Table, error) {
	if p == nil {
		return nil, nil, ErrPipelineMustBeSet
	}
	if tbl == nil {
		return nil, nil, ErrInputMustBeSet
	}

	m := &Model{
		opts:         p.opts,
		transformers: make([]model.Transformer, len(p.stages)),
		infos:        make([]*model.StageInfo, len(p.stages)),
	}
	current := tbl
	for i, s := range p.stages {
		err := ctx.Err()
		if err != nil {
			return nil, nil, stageError(err, s.info, model.PhaseFit)
		}

		start := time.Now()
		tr, err := s.stage.Fit(current, labels)
		if err != nil {
			return nil, nil, stageError(err, s.info, model.PhaseFit)
		}
		err = notify(p.opts, s.info, model.PhaseFit, shapeOf(current), time.Since(start))
		if err != nil {
			return nil, nil, err
		}

		current, err = transform(p.opts, s.info, tr, current)
		if err != nil {
			return nil, nil, err
		}
		m.transformers[i] = tr
		m.infos[i] = s.info
	}

	if p.estimator != nil {
		err := ctx.Err()
		if err != nil {
			return nil, nil, stageError(err, p.estimatorInfo, model.PhaseFit)
		}

		start := time.Now()
		predictor, err := p.estimator.Fit(current, labels)
		if err != nil {
			return nil, nil, stageError(err, p.estimatorInfo, model.PhaseFit)
		}
		err = notify(p.opts, p.estimatorInfo, model.PhaseFit, shapeOf(current), time.Since(start))
		if err != nil {
			return nil, nil, err
		}
		m.predictor = predictor
		m.predictorInfo = p.estimatorInfo
	}

	return m, current, nil
}

// Close finishes every option. The drawer writes its graph here.
func (p *Pipeline) Close() error {
	if p == nil {
		return ErrPipelineMustBeSet
	}
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}

func transform(opts []model.PipelineOption, info *model.StageInfo, tr model.Transformer, tbl *table.Table) (*table.Table, error) {
	start := time.Now()
	out, err := tr.Transform(tbl)
	if err != nil {
		return nil, stageError(err, info, model.PhaseTransform)
	}
	err = notify(opts, info, model.PhaseTransform, shapeOf(out), time.Since(start))
	if err != nil {
		return nil, err
	}

	return out, nil
}

func notify(opts []model.PipelineOption, info *model.StageInfo, phase model.Phase, shape model.Shape, elapsed time.Duration) error {
	for _, opt := range opts {
		err := opt.OnStageOutput(info, phase, shape, elapsed)
		if err != nil {
			return errors.Wrapf(err, "unable to report %s of stage %s", phase, info.Name)
		}
	}

	return nil
}

func shapeOf(tbl *table.Table) model.Shape {
	return model.Shape{Rows: tbl.Rows(), Cols: tbl.Width()}
}
