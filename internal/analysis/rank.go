package analysis

import (
	"math"
	"sort"
)

type RankedSummary struct {
	Name string
	ScheduleSummary
}

// RankByCost sorts ascending by LogCost. Saturated (+Inf or NaN) entries sort last; ties
// keep name order so the output is deterministic.
func RankByCost(byName map[string]ScheduleSummary) []RankedSummary {
	out := make([]RankedSummary, 0, len(byName))
	for name, s := range byName {
		out = append(out, RankedSummary{Name: name, ScheduleSummary: s})
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := sortCost(out[i].LogCost), sortCost(out[j].LogCost)
		if ci != cj {
			return ci < cj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func sortCost(c float64) float64 {
	if math.IsNaN(c) {
		return math.Inf(1)
	}
	return c
}
