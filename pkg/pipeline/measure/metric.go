package measure

import (
	"sync"
	"time"

	"github.com/askiada/go-titanic/pkg/pipeline/model"
)

type phaseInfo struct {
	elapsed time.Duration
	total   int64
}

type DefaultMetric struct {
	phases      map[string]*phaseInfo
	mu          sync.Mutex
	EndDuration time.Duration
	shape       model.Shape
}

func (mt *DefaultMetric) AddDuration(phase model.Phase, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	info, ok := mt.phases[string(phase)]
	if !ok {
		info = &phaseInfo{}
		mt.phases[string(phase)] = info
	}
	info.total++
	info.elapsed += elapsed
}

func (mt *DefaultMetric) AVGDuration(phase model.Phase) time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	info, ok := mt.phases[string(phase)]
	if !ok || info.total == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(info.elapsed) / float64(info.total)))
}

func (mt *DefaultMetric) Calls(phase model.Phase) int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if info, ok := mt.phases[string(phase)]; ok {
		return info.total
	}

	return 0
}

// Elapsed returns the time spent in the stage across all phases.
func (mt *DefaultMetric) Elapsed() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	var total time.Duration
	for _, info := range mt.phases {
		total += info.elapsed
	}

	return total
}

func (mt *DefaultMetric) SetShape(shape model.Shape) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.shape = shape
}

func (mt *DefaultMetric) Shape() model.Shape {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.shape
}

func (mt *DefaultMetric) SetTotalDuration(endDuration time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.EndDuration = endDuration
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.EndDuration
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Minute)
	case d > time.Second:
		d = d.Round(time.Millisecond)
	case d > time.Millisecond:
		d = d.Round(time.Microsecond)
	}

	return d
}

var _ Metric = (*DefaultMetric)(nil)
