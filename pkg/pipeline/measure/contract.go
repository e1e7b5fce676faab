package measure

import (
	"time"

	"github.com/askiada/go-titanic/pkg/pipeline/model"
)

// Measure holds one metric per stage.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates the durations and output shapes of a stage.
type Metric interface {
	AddDuration(phase model.Phase, elapsed time.Duration)
	AVGDuration(phase model.Phase) time.Duration
	Calls(phase model.Phase) int64
	Elapsed() time.Duration
	SetShape(shape model.Shape)
	Shape() model.Shape
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
}
