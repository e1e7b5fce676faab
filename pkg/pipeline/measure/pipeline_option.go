package measure

import (
	"time"

	"github.com/askiada/go-titanic/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
	startTime time.Time
}

func (pm *pipelineMeasure) New() error {
	pm.startTime = time.Now()
	pm.AddMetric(model.StartStage.Name)
	pm.AddMetric(model.EndStage.Name)

	return nil
}

func (pm *pipelineMeasure) PrepareStage(_, stage *model.StageInfo) error {
	pm.AddMetric(stage.Name)

	return nil
}

// OnStageOutput records the duration of every phase. The shape kept is the one
// the stage produced while fitting the pipeline.
func (pm *pipelineMeasure) OnStageOutput(stage *model.StageInfo, phase model.Phase, shape model.Shape, elapsed time.Duration) error {
	mt := pm.AddMetric(stage.Name)
	mt.AddDuration(phase, elapsed)
	if phase == model.PhaseTransform && mt.Calls(model.PhaseTransform) == 1 {
		mt.SetShape(shape)
	}

	return nil
}

func (pm *pipelineMeasure) Finish() error {
	pm.GetMetric(model.EndStage.Name).SetTotalDuration(time.Since(pm.startTime))

	return nil
}

// PipelineMeasure returns an option recording stage timings into measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{Measure: measure}
}
