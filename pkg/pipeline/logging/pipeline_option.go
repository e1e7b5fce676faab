// Package logging reports pipeline events through log/slog.
package logging

import (
	"log/slog"
	"time"

	"github.com/askiada/go-titanic/pkg/pipeline/model"
)

type pipelineLogger struct {
	logger    *slog.Logger
	startTime time.Time
}

func (pl *pipelineLogger) New() error {
	pl.startTime = time.Now()
	pl.logger.Debug("pipeline created")

	return nil
}

func (pl *pipelineLogger) PrepareStage(parentStage, stage *model.StageInfo) error {
	pl.logger.Debug("stage added",
		slog.String("stage", stage.Name),
		slog.String("type", string(stage.Type)),
		slog.String("parent", parentStage.Name))

	return nil
}

func (pl *pipelineLogger) OnStageOutput(stage *model.StageInfo, phase model.Phase, shape model.Shape, elapsed time.Duration) error {
	pl.logger.Info("stage done",
		slog.String("stage", stage.Name),
		slog.String("phase", string(phase)),
		slog.Int("rows", shape.Rows),
		slog.Int("cols", shape.Cols),
		slog.Duration("elapsed", elapsed))

	return nil
}

func (pl *pipelineLogger) Finish() error {
	pl.logger.Info("pipeline finished", slog.Duration("elapsed", time.Since(pl.startTime)))

	return nil
}

// PipelineLogger returns an option logging every stage output with logger.
// A nil logger uses slog.Default.
func PipelineLogger(logger *slog.Logger) model.PipelineOption {
	if logger == nil {
		logger = slog.Default()
	}

	return &pipelineLogger{logger: logger.With(slog.String("component", "pipeline"))}
}
