package model

import "github.com/askiada/go-titanic/pkg/table"

// Transformer turns a table into another table using parameters already learned.
// Implementations must not modify their input and must be safe for concurrent use.
type Transformer interface {
	Transform(tbl *table.Table) (*table.Table, error)
}

// Stage is a transformer before fitting. Fit returns the value used to transform,
// which may be the stage itself when it learns nothing.
type Stage interface {
	Fit(tbl *table.Table, labels []float64) (Transformer, error)
}

// Predictor predicts one label per row of an engineered table. A predictor that
// also implements Transformer can project the engineered table as a last step.
type Predictor interface {
	Predict(tbl *table.Table) ([]float64, error)
}

// Estimator is the final stage of a pipeline.
type Estimator interface {
	Fit(tbl *table.Table, labels []float64) (Predictor, error)
}

// StageType tells what kind of stage a StageInfo describes.
type StageType string

const (
	StartStageType       StageType = "start"
	TransformerStageType StageType = "transformer"
	EstimatorStageType   StageType = "estimator"
	EndStageType         StageType = "end"
)

// Phase is the operation a stage is running.
type Phase string

const (
	PhaseFit       Phase = "fit"
	PhaseTransform Phase = "transform"
	PhasePredict   Phase = "predict"
)

// StageInfo describes a stage registered in a pipeline.
type StageInfo struct {
	Type  StageType
	Name  string
	Index int
}

var (
	StartStage = &StageInfo{Type: StartStageType, Name: "start", Index: -1}
	EndStage   = &StageInfo{Type: EndStageType, Name: "end", Index: -1}
)

// Shape is the size of the table a stage produced.
type Shape struct {
	Rows int
	Cols int
}
