// Package recommend produces number combinations per weighting strategy,
// using rejection sampling against the statistical filters.
package recommend

import (
	"fmt"
	"math/rand/v2"

	"github.com/lottostack/lotto645/internal/filter"
	"github.com/lottostack/lotto645/internal/lotto"
	"github.com/lottostack/lotto645/internal/stats"
)

const (
	StrategyRecentHot     = "recent-hot"
	StrategyCold          = "cold"
	StrategyGlobalBalance = "global-balance"
	StrategyPairAffinity  = "pair-affinity"

	recentHotWindow = 30  // rounds considered "recent" for the hot strategy
	coldWindow      = 15  // rounds a number must miss to count as cold
	coldBoost       = 10  // weight for cold numbers (others get 1)
	topPairLimit    = 100 // ranked pairs the affinity strategy seeds from
)

// Recommendation is one accepted candidate set with its strategy label.
type Recommendation struct {
	Strategy string `json:"strategy"`
	Numbers  []int  `json:"numbers"`
}

type Options struct {
	Quota   int        // accepted sets per strategy
	DrawCap int        // candidate draws per strategy before giving up
	PickCap int        // weighted picks per candidate before giving up
	Rand    *rand.Rand // optional; defaults to an auto-seeded source
}

// Engine runs the four weighting strategies over an immutable snapshot of
// the record collection.
type Engine struct {
	records []lotto.DrawRecord
	quota   int
	drawCap int
	rng     *rand.Rand
	sampler sampler
}

func NewEngine(records []lotto.DrawRecord, opts Options) *Engine {
	if opts.Quota <= 0 {
		opts.Quota = 5
	}
	if opts.DrawCap <= 0 {
		opts.DrawCap = 1000
	}
	if opts.PickCap <= 0 {
		opts.PickCap = 1000
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Engine{
		records: records,
		quota:   opts.Quota,
		drawCap: opts.DrawCap,
		rng:     rng,
		sampler: sampler{rng: rng, pickCap: opts.PickCap},
	}
}

// Recommend runs every strategy in order and returns the accepted sets.
// Each returned set has 6 distinct numbers and passes all filters.
func (e *Engine) Recommend() ([]Recommendation, error) {
	if len(e.records) == 0 {
		return nil, ErrNoData
	}

	global := e.globalWeights()

	var results []Recommendation
	strategies := []struct {
		label string
		gen   func() ([]int, error)
	}{
		{StrategyRecentHot, e.recentHotGen()},
		{StrategyCold, e.coldGen()},
		{StrategyGlobalBalance, func() ([]int, error) { return e.sampler.draw(global, nil) }},
		{StrategyPairAffinity, e.pairAffinityGen(global)},
	}
	for _, strategy := range strategies {
		accepted, err := e.collect(strategy.label, strategy.gen)
		if err != nil {
			return nil, err
		}
		results = append(results, accepted...)
	}
	return results, nil
}

// collect runs the rejection loop for one strategy: draw, filter, dedup
// within the batch, stop at quota or at the draw cap.
func (e *Engine) collect(label string, gen func() ([]int, error)) ([]Recommendation, error) {
	accepted := make([]Recommendation, 0, e.quota)
	seen := make(map[string]bool, e.quota)

	for attempts := 0; attempts < e.drawCap; attempts++ {
		numbers, err := gen()
		if err != nil {
			return nil, fmt.Errorf("strategy %q: %w", label, err)
		}
		if !filter.Passes(numbers) {
			continue
		}
		key := fmt.Sprint(numbers)
		if seen[key] {
			continue
		}
		seen[key] = true
		accepted = append(accepted, Recommendation{Strategy: label, Numbers: numbers})
		if len(accepted) == e.quota {
			return accepted, nil
		}
	}
	return nil, &SamplingExhaustedError{Strategy: label, Cap: e.drawCap}
}

// recentHotGen weights each number 1 + its frequency in the last 30 rounds.
// The +1 floor keeps every number drawable even with zero recent showings.
func (e *Engine) recentHotGen() func() ([]int, error) {
	recent := tail(e.records, recentHotWindow)
	weights := make(map[int]int, lotto.MaxNumber)
	for n := lotto.MinNumber; n <= lotto.MaxNumber; n++ {
		weights[n] = 1
	}
	for _, record := range recent {
		for _, n := range record.Numbers {
			weights[n]++
		}
	}
	return func() ([]int, error) { return e.sampler.draw(weights, nil) }
}

// coldGen boosts numbers absent from the last 15 rounds.
func (e *Engine) coldGen() func() ([]int, error) {
	drawn := make(map[int]bool)
	for _, record := range tail(e.records, coldWindow) {
		for _, n := range record.Numbers {
			drawn[n] = true
		}
	}
	weights := make(map[int]int, lotto.MaxNumber)
	for n := lotto.MinNumber; n <= lotto.MaxNumber; n++ {
		if drawn[n] {
			weights[n] = 1
		} else {
			weights[n] = coldBoost
		}
	}
	return func() ([]int, error) { return e.sampler.draw(weights, nil) }
}

// globalWeights are the raw occurrence counts over the whole history.
// Numbers never drawn keep weight 0 and stay unreachable under the
// global-balance strategy; the sampler guards the all-zero case.
func (e *Engine) globalWeights() map[int]int {
	weights := make(map[int]int, lotto.MaxNumber)
	for n := lotto.MinNumber; n <= lotto.MaxNumber; n++ {
		weights[n] = 0
	}
	for _, record := range e.records {
		for _, n := range record.Numbers {
			weights[n]++
		}
	}
	return weights
}

// pairAffinityGen seeds each candidate with one of the top co-occurring
// pairs, then fills the rest with global-frequency weights.
func (e *Engine) pairAffinityGen(global map[int]int) func() ([]int, error) {
	top := stats.TopPairs(stats.PairWeights(e.records), topPairLimit)
	return func() ([]int, error) {
		if len(top) == 0 {
			return nil, fmt.Errorf("%w: no pair statistics", ErrDegenerateWeights)
		}
		pair := top[e.rng.IntN(len(top))].Pair
		return e.sampler.draw(global, []int{pair.Low, pair.High})
	}
}

func tail(records []lotto.DrawRecord, n int) []lotto.DrawRecord {
	if len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}
