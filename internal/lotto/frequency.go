package lotto

import "sort"

// RankedNumber is one entry of a frequency ranking.
type RankedNumber struct {
	Number int          `json:"number"`
	Counts NumberCounts `json:"counts"`
}

// Ranking returns all numbers ordered by total count descending. Ties are
// broken by number ascending so the order is deterministic.
func (t *FrequencyTable) Ranking() []RankedNumber {
	ranking := make([]RankedNumber, 0, len(t.Counts))
	for n, c := range t.Counts {
		ranking = append(ranking, RankedNumber{Number: n, Counts: c})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].Counts.Total != ranking[j].Counts.Total {
			return ranking[i].Counts.Total > ranking[j].Counts.Total
		}
		return ranking[i].Number < ranking[j].Number
	})
	return ranking
}
