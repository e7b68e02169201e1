// Package filter validates candidate number sets against the statistical
// plausibility rules observed in historical winning draws.
package filter

import (
	"sort"

	"github.com/lottostack/lotto645/internal/lotto"
	"github.com/lottostack/lotto645/internal/stats"
)

const (
	minSum = 100
	maxSum = 200
	minAC  = 7
)

// Passes reports whether a 6-number candidate clears every rule:
// sum in [100,200], neither all-odd nor all-even, neither all-high nor
// all-low, no run of 3 consecutive numbers, and AC value >= 7.
// Pure and order-insensitive.
func Passes(numbers []int) bool {
	sum := 0
	odds := 0
	highs := 0
	for _, n := range numbers {
		sum += n
		if n%2 != 0 {
			odds++
		}
		if n >= lotto.HighThreshold {
			highs++
		}
	}

	if sum < minSum || sum > maxSum {
		return false
	}
	if odds == 0 || odds == len(numbers) {
		return false
	}
	if highs == 0 || highs == len(numbers) {
		return false
	}

	sorted := append([]int(nil), numbers...)
	sort.Ints(sorted)
	for i := 0; i+2 < len(sorted); i++ {
		if sorted[i+1] == sorted[i]+1 && sorted[i+2] == sorted[i]+2 {
			return false
		}
	}

	return stats.ACValue(numbers) >= minAC
}
