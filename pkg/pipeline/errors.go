package pipeline

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-titanic/pkg/pipeline/model"
)

var (
	ErrPipelineMustBeSet = errors.New("p must be set")
	ErrInputMustBeSet    = errors.New("input must be set")
	ErrStageMustBeSet    = errors.New("stage must be set")
	ErrDuplicateStage    = errors.New("stage name already used")
	ErrEstimatorSet      = errors.New("estimator already set")
	ErrNoEstimator       = errors.New("pipeline has no estimator")
)

// stageError wraps err with the stage and the phase it failed in.
func stageError(err error, info *model.StageInfo, phase model.Phase) error {
	return errors.Wrapf(err, "stage %s: unable to %s", info.Name, phase)
}
