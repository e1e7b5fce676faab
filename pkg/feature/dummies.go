package feature

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-titanic/pkg/table"
)

func checkDomain(domain []string) error {
	if len(domain) == 0 {
		return errors.Wrap(ErrValidation, "domain is empty")
	}
	seen := make(map[string]struct{}, len(domain))
	for _, value := range domain {
		if _, ok := seen[value]; ok {
			return errors.Wrapf(ErrValidation, "value %q is declared twice", value)
		}
		seen[value] = struct{}{}
	}

	return nil
}

// checkFeatures rejects a column listed twice.
func checkFeatures(features []string) error {
	seen := make(map[string]struct{}, len(features))
	for _, feature := range features {
		if _, ok := seen[feature]; ok {
			return errors.Wrapf(ErrValidation, "feature %s is listed twice", feature)
		}
		seen[feature] = struct{}{}
	}

	return nil
}

// coerce maps every row to its position in the domain, -1 when the value is
// missing or outside the domain.
func coerce(col *table.Column, domain []string) []int {
	positions := make(map[string]int, len(domain))
	for i, value := range domain {
		positions[value] = i
	}
	out := make([]int, col.Len())
	for i := range out {
		out[i] = -1
		value, ok := col.Text(i)
		if !ok {
			continue
		}
		if pos, ok := positions[value]; ok {
			out[i] = pos
		}
	}

	return out
}

// dummies builds one 0/1 column per domain value named <prefix>_<value>.
// The first value is skipped when dropFirst is set.
func dummies(prefix string, codes []int, domain []string, dropFirst bool) []*table.Column {
	start := 0
	if dropFirst {
		start = 1
	}
	cols := make([]*table.Column, 0, len(domain)-start)
	for pos := start; pos < len(domain); pos++ {
		values := make([]float64, len(codes))
		for i, code := range codes {
			if code == pos {
				values[i] = 1
			}
		}
		cols = append(cols, table.NewFloat(prefix+"_"+domain[pos], values))
	}

	return cols
}
