package model

import "time"

// PipelineOption defines the interface for pipeline options.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error
	// PrepareStage runs when a stage is added, after its parent stage.
	PrepareStage(parentStage, stage *StageInfo) error
	// OnStageOutput runs every time a stage finishes a phase.
	OnStageOutput(stage *StageInfo, phase Phase, shape Shape, elapsed time.Duration) error
	// Finish runs when the pipeline is closed.
	Finish() error
}
