package feature

import "github.com/pkg/errors"

var (
	// ErrValidation is returned when a stage is built with an invalid configuration.
	ErrValidation = errors.New("invalid configuration")

	ErrLabelsRequired   = errors.New("labels are required to fit")
	ErrLabelsMisaligned = errors.New("labels and table have different lengths")
	ErrInvalidLabel     = errors.New("label must be a number")
)
