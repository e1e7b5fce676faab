package feature

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-titanic/pkg/pipeline/model"
	"github.com/askiada/go-titanic/pkg/table"
)

// EncoderConfig lists the categorical columns to expand and their ordered domains.
type EncoderConfig struct {
	Features  []string
	Domains   map[string][]string
	DropFirst bool
}

// Encoder expands categorical columns into indicator columns.
type Encoder struct {
	features  []string
	domains   map[string][]string
	dropFirst bool
}

// NewEncoder validates the configuration and copies it.
func NewEncoder(cfg EncoderConfig) (*Encoder, error) {
	enc := &Encoder{
		features:  append([]string(nil), cfg.Features...),
		domains:   make(map[string][]string, len(cfg.Features)),
		dropFirst: cfg.DropFirst,
	}
	err := checkFeatures(cfg.Features)
	if err != nil {
		return nil, err
	}
	for _, feature := range cfg.Features {
		domain, ok := cfg.Domains[feature]
		if !ok {
			return nil, errors.Wrapf(ErrValidation, "feature %s is missing in feature values", feature)
		}
		err = checkDomain(domain)
		if err != nil {
			return nil, errors.Wrapf(err, "feature %s", feature)
		}
		enc.domains[feature] = append([]string(nil), domain...)
	}

	return enc, nil
}

// Fit learns nothing and returns the encoder.
func (e *Encoder) Fit(_ *table.Table, _ []float64) (model.Transformer, error) {
	return e, nil
}

// Transform appends the indicator columns of every configured feature. Values
// outside the domain produce a row of zeros. The original columns are kept.
func (e *Encoder) Transform(tbl *table.Table) (*table.Table, error) {
	var cols []*table.Column
	for _, feature := range e.features {
		col, err := tbl.Column(feature)
		if err != nil {
			return nil, errors.Wrap(err, "unable to encode")
		}
		domain := e.domains[feature]
		cols = append(cols, dummies(feature, coerce(col, domain), domain, e.dropFirst)...)
	}

	return tbl.With(cols...)
}
