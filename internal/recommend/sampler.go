package recommend

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/lottostack/lotto645/internal/lotto"
)

// sampler draws 6 distinct numbers with replacement probability proportional
// to weight. Duplicate picks are discarded and redrawn, so the loop is
// bounded by pickCap rather than left open.
type sampler struct {
	rng     *rand.Rand
	pickCap int
}

// draw collects distinct numbers until the candidate holds lotto.PickCount
// of them, starting from the numbers in seed. The returned slice is sorted.
func (s *sampler) draw(weights map[int]int, seed []int) ([]int, error) {
	selected := make(map[int]bool, lotto.PickCount)
	for _, n := range seed {
		selected[n] = true
	}

	numbers := make([]int, 0, len(weights))
	total := 0
	available := 0
	for n, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("%w: negative weight for %d", ErrDegenerateWeights, n)
		}
		numbers = append(numbers, n)
		total += w
		if w > 0 && !selected[n] {
			available++
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: total weight is zero", ErrDegenerateWeights)
	}
	if len(selected)+available < lotto.PickCount {
		return nil, fmt.Errorf("%w: only %d positive-weight numbers for %d open slots",
			ErrDegenerateWeights, available, lotto.PickCount-len(selected))
	}
	sort.Ints(numbers)

	for picks := 0; picks < s.pickCap; picks++ {
		selected[s.pick(numbers, weights, total)] = true
		if len(selected) == lotto.PickCount {
			result := make([]int, 0, lotto.PickCount)
			for n := range selected {
				result = append(result, n)
			}
			sort.Ints(result)
			return result, nil
		}
	}
	return nil, fmt.Errorf("%w: no %d distinct numbers after %d weighted picks",
		ErrSamplingExhausted, lotto.PickCount, s.pickCap)
}

// pick draws one number with probability weight/total. numbers must be
// sorted so equal seeds give identical sequences.
func (s *sampler) pick(numbers []int, weights map[int]int, total int) int {
	r := s.rng.IntN(total)
	for _, n := range numbers {
		r -= weights[n]
		if r < 0 {
			return n
		}
	}
	// Unreachable while total matches the weight sum.
	return numbers[len(numbers)-1]
}
