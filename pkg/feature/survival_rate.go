package feature

import "github.com/askiada/go-titanic/pkg/table"

// GroupStat is the number of training rows in a group and their mean label.
type GroupStat struct {
	Freq float64
	Rate float64
}

// SurvivalRate maps a group key to its statistics. Only groups with more than one
// member are kept.
type SurvivalRate map[string]GroupStat

// buildSurvivalRate groups labels by key. Rows without a key are ignored.
func buildSurvivalRate(keys []string, present []bool, labels []float64) SurvivalRate {
	sums := make(map[string]GroupStat)
	for i, key := range keys {
		if !present[i] {
			continue
		}
		stat := sums[key]
		stat.Freq++
		stat.Rate += labels[i]
		sums[key] = stat
	}
	out := make(SurvivalRate, len(sums))
	for key, stat := range sums {
		if stat.Freq <= 1 {
			continue
		}
		out[key] = GroupStat{Freq: stat.Freq, Rate: stat.Rate / stat.Freq}
	}

	return out
}

// join looks up every key and returns <prefix>_freq, <prefix>_surv_rate and
// <prefix>_survival_rate_na. Unmatched rows get 0, 0 and 1.
func (sr SurvivalRate) join(prefix string, keys []string, present []bool) []*table.Column {
	freq := make([]float64, len(keys))
	rate := make([]float64, len(keys))
	missing := make([]float64, len(keys))
	for i, key := range keys {
		stat, ok := sr[key]
		if !present[i] || !ok {
			missing[i] = 1

			continue
		}
		freq[i] = stat.Freq
		rate[i] = stat.Rate
	}

	return []*table.Column{
		table.NewFloat(prefix+"_freq", freq),
		table.NewFloat(prefix+"_surv_rate", rate),
		table.NewFloat(prefix+"_survival_rate_na", missing),
	}
}
