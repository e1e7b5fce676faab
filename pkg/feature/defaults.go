package feature

import (
	"math"

	"github.com/askiada/go-titanic/pkg/passenger"
)

// DefaultBinEdges returns the age and fare edges used by the survival model.
// Every call returns new slices.
func DefaultBinEdges() map[string][]float64 {
	return map[string][]float64{
		passenger.ColAge:  {math.Inf(-1), 0, 17, 22, 27, 31, 36, 46, 55, math.Inf(1)},
		passenger.ColFare: {math.Inf(-1), 7.7, 8.1, 12.5, 19.3, 28, 57, math.Inf(1)},
	}
}

// DefaultDomains returns the ordered values of the encoded categorical columns.
func DefaultDomains() map[string][]string {
	return map[string][]string{
		passenger.ColPclass:   {"1", "2", "3"},
		passenger.ColSex:      {"male", "female"},
		passenger.ColEmbarked: {"S", "C", "Q"},
	}
}

// DefaultBinnerConfig bins Age and Fare.
func DefaultBinnerConfig() BinnerConfig {
	return BinnerConfig{
		Features: []string{passenger.ColAge, passenger.ColFare},
		Edges:    DefaultBinEdges(),
	}
}

// DefaultEncoderConfig encodes Pclass, Sex and Embarked.
func DefaultEncoderConfig() EncoderConfig {
	return EncoderConfig{
		Features:  []string{passenger.ColPclass, passenger.ColSex, passenger.ColEmbarked},
		Domains:   DefaultDomains(),
		DropFirst: true,
	}
}

// DefaultAttributeConfig consumes every column the attribute adder knows about.
func DefaultAttributeConfig() AttributeConfig {
	return AttributeConfig{
		Features:  append([]string(nil), attributeInputs...),
		DropFirst: true,
	}
}
