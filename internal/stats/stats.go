// Package stats computes per-draw derived metrics and aggregate statistics
// over draw record collections. Every function is a pure reduction: inputs
// are never mutated and results are re-derivable on demand.
package stats

import (
	"fmt"
	"sort"

	"github.com/lottostack/lotto645/internal/lotto"
)

// Derive computes the per-draw metrics for a set of main numbers.
func Derive(numbers []int) lotto.DerivedMetrics {
	odds := 0
	sum := 0
	highs := 0
	for _, n := range numbers {
		if n%2 != 0 {
			odds++
		}
		if n >= lotto.HighThreshold {
			highs++
		}
		sum += n
	}

	return lotto.DerivedMetrics{
		OddEvenRatio: fmt.Sprintf("%d:%d", odds, len(numbers)-odds),
		SumValue:     sum,
		ACValue:      ACValue(numbers),
		HighLowRatio: fmt.Sprintf("%d:%d", highs, len(numbers)-highs),
	}
}

// ACValue is the arithmetic-complexity heuristic: the count of distinct
// pairwise differences, minus 5 (the minimum distinct-difference count for
// 6 sorted integers).
func ACValue(numbers []int) int {
	sorted := append([]int(nil), numbers...)
	sort.Ints(sorted)

	diffs := make(map[int]bool)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			diffs[sorted[j]-sorted[i]] = true
		}
	}
	return len(diffs) - 5
}

// Frequency tallies main, bonus and total occurrences per number over the
// whole collection. Numbers outside [1,45] are ignored; validated records
// never contain them.
func Frequency(records []lotto.DrawRecord) *lotto.FrequencyTable {
	counts := make(map[int]lotto.NumberCounts, lotto.MaxNumber)
	for n := lotto.MinNumber; n <= lotto.MaxNumber; n++ {
		counts[n] = lotto.NumberCounts{}
	}

	for _, record := range records {
		for _, n := range record.Numbers {
			if n < lotto.MinNumber || n > lotto.MaxNumber {
				continue
			}
			c := counts[n]
			c.Main++
			c.Total++
			counts[n] = c
		}
		if record.Bonus >= lotto.MinNumber && record.Bonus <= lotto.MaxNumber {
			c := counts[record.Bonus]
			c.Bonus++
			c.Total++
			counts[record.Bonus] = c
		}
	}

	return &lotto.FrequencyTable{Counts: counts, TotalRounds: len(records)}
}

// PairWeights counts co-occurrences for every unordered pair of main
// numbers across the given records.
func PairWeights(records []lotto.DrawRecord) map[lotto.Pair]int {
	pairs := make(map[lotto.Pair]int)
	for _, record := range records {
		for i := 0; i < len(record.Numbers); i++ {
			for j := i + 1; j < len(record.Numbers); j++ {
				pairs[lotto.NewPair(record.Numbers[i], record.Numbers[j])]++
			}
		}
	}
	return pairs
}

// PairCount is a ranked pair-weight entry.
type PairCount struct {
	Pair  lotto.Pair
	Count int
}

// TopPairs ranks pair weights by count descending, capped at limit. Ties are
// broken by pair ascending so the ranking is deterministic.
func TopPairs(weights map[lotto.Pair]int, limit int) []PairCount {
	ranked := make([]PairCount, 0, len(weights))
	for pair, count := range weights {
		ranked = append(ranked, PairCount{Pair: pair, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		if ranked[i].Pair.Low != ranked[j].Pair.Low {
			return ranked[i].Pair.Low < ranked[j].Pair.Low
		}
		return ranked[i].Pair.High < ranked[j].Pair.High
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// CarryoverDistribution tallies, for each adjacent pair of records (by
// position in the round-ascending sequence), how many numbers carried over
// from the previous draw. Keys are overlap counts 0..6; values sum to
// len(records)-1 for non-empty input.
func CarryoverDistribution(records []lotto.DrawRecord) map[int]int {
	distribution := make(map[int]int)
	for i := 1; i < len(records); i++ {
		prev := make(map[int]bool, len(records[i-1].Numbers))
		for _, n := range records[i-1].Numbers {
			prev[n] = true
		}
		overlap := 0
		for _, n := range records[i].Numbers {
			if prev[n] {
				overlap++
			}
		}
		distribution[overlap]++
	}
	return distribution
}

// ConsecutiveIncidence reports how many records contain at least one run of
// two adjacent numbers, and that count as a percentage of all records.
func ConsecutiveIncidence(records []lotto.DrawRecord) (int, float64) {
	count := 0
	for _, record := range records {
		sorted := append([]int(nil), record.Numbers...)
		sort.Ints(sorted)
		for i := 0; i < len(sorted)-1; i++ {
			if sorted[i+1] == sorted[i]+1 {
				count++
				break
			}
		}
	}
	if len(records) == 0 {
		return 0, 0
	}
	return count, float64(count) / float64(len(records)) * 100
}

// NumberFrequency pairs a number with how often it appeared as a main
// number inside one group of records.
type NumberFrequency struct {
	Number int
	Count  int
}

// GroupSummary describes a record group: the rounds it covers, the mean of
// the per-draw number sums and the most frequent main numbers.
type GroupSummary struct {
	Rounds  []int
	MeanSum float64
	Top     []NumberFrequency
}

// ModuloGroup summarizes the records whose round number leaves the given
// remainder for the given cycle length. Top is capped at limit entries,
// ranked by count descending with ties broken by number ascending.
func ModuloGroup(records []lotto.DrawRecord, modulo, remainder, limit int) GroupSummary {
	if modulo <= 0 {
		return GroupSummary{}
	}
	var group []lotto.DrawRecord
	for _, record := range records {
		if record.Round%modulo == remainder {
			group = append(group, record)
		}
	}
	return summarize(group, limit)
}

// IntervalChunk summarizes one fixed-size slice of the round sequence.
type IntervalChunk struct {
	FirstRound int
	LastRound  int
	MeanSum    float64
	TopNumber  int
	TopCount   int
}

// IntervalFlow splits the round-ascending records into chunks of the given
// size and summarizes each one, showing how sums and dominant numbers shift
// over time. A trailing partial chunk is kept.
func IntervalFlow(records []lotto.DrawRecord, interval int) []IntervalChunk {
	if interval <= 0 {
		return nil
	}
	var chunks []IntervalChunk
	for i := 0; i < len(records); i += interval {
		end := i + interval
		if end > len(records) {
			end = len(records)
		}
		summary := summarize(records[i:end], 1)
		chunk := IntervalChunk{
			FirstRound: records[i].Round,
			LastRound:  records[end-1].Round,
			MeanSum:    summary.MeanSum,
		}
		if len(summary.Top) > 0 {
			chunk.TopNumber = summary.Top[0].Number
			chunk.TopCount = summary.Top[0].Count
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

func summarize(records []lotto.DrawRecord, limit int) GroupSummary {
	if len(records) == 0 {
		return GroupSummary{}
	}

	summary := GroupSummary{Rounds: make([]int, 0, len(records))}
	counts := make(map[int]int)
	sum := 0
	for _, record := range records {
		summary.Rounds = append(summary.Rounds, record.Round)
		sum += record.Metrics.SumValue
		for _, n := range record.Numbers {
			counts[n]++
		}
	}
	summary.MeanSum = float64(sum) / float64(len(records))

	ranked := make([]NumberFrequency, 0, len(counts))
	for n, count := range counts {
		ranked = append(ranked, NumberFrequency{Number: n, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Number < ranked[j].Number
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	summary.Top = ranked
	return summary
}

// EndingDigitDistribution tallies the last digit of every main number.
func EndingDigitDistribution(records []lotto.DrawRecord) map[int]int {
	digits := make(map[int]int)
	for _, record := range records {
		for _, n := range record.Numbers {
			digits[n%10]++
		}
	}
	return digits
}
