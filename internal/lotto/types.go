package lotto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// MinNumber and MaxNumber bound the drawable range.
	MinNumber = 1
	MaxNumber = 45

	// PickCount is the number of main numbers per draw.
	PickCount = 6

	// HighThreshold splits the range into low (1-22) and high (23-45).
	HighThreshold = 23
)

var (
	ErrInvalidRound   = errors.New("round must be positive")
	ErrInvalidNumbers = errors.New("numbers must be 6 distinct values in [1,45]")
	ErrInvalidBonus   = errors.New("bonus must be in [1,45]")
	ErrInvalidPrize   = errors.New("winners and amount per winner must be non-negative")
)

// DerivedMetrics are the per-draw metrics computed at ingest time.
type DerivedMetrics struct {
	OddEvenRatio string `json:"odd_even_ratio"`
	SumValue     int    `json:"sum_value"`
	ACValue      int    `json:"ac_value"`
	HighLowRatio string `json:"high_low_ratio"`
}

// DrawRecord is one drawn round. Records are validated at construction and
// treated as immutable afterwards.
type DrawRecord struct {
	Round           int            `json:"round"`
	Numbers         []int          `json:"numbers"`
	Bonus           int            `json:"bonus"`
	Winners         int64          `json:"winners"`
	AmountPerWinner int64          `json:"amount_per_winner"`
	DrawDate        string         `json:"draw_date,omitempty"`
	Metrics         DerivedMetrics `json:"analysis"`
}

// Validate checks the record invariants: positive round, 6 distinct main
// numbers in range, bonus in range, non-negative prize figures.
func (r *DrawRecord) Validate() error {
	if r.Round <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRound, r.Round)
	}
	if len(r.Numbers) != PickCount {
		return fmt.Errorf("%w: got %d numbers", ErrInvalidNumbers, len(r.Numbers))
	}
	seen := make(map[int]bool, PickCount)
	for _, n := range r.Numbers {
		if n < MinNumber || n > MaxNumber {
			return fmt.Errorf("%w: %d out of range", ErrInvalidNumbers, n)
		}
		if seen[n] {
			return fmt.Errorf("%w: %d repeated", ErrInvalidNumbers, n)
		}
		seen[n] = true
	}
	if r.Bonus < MinNumber || r.Bonus > MaxNumber {
		return fmt.Errorf("%w: got %d", ErrInvalidBonus, r.Bonus)
	}
	if r.Winners < 0 || r.AmountPerWinner < 0 {
		return ErrInvalidPrize
	}
	return nil
}

func (r DrawRecord) MarshalBinary() ([]byte, error) {
	return json.Marshal(r)
}

func (r *DrawRecord) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, r)
}

func (r DrawRecord) String() string {
	nums := make([]string, len(r.Numbers))
	for i, n := range r.Numbers {
		nums[i] = fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("{Round: %d, Numbers: [%s], Bonus: %d, Winners: %d, AmountPerWinner: %d, Sum: %d, AC: %d}",
		r.Round, strings.Join(nums, " "), r.Bonus, r.Winners, r.AmountPerWinner, r.Metrics.SumValue, r.Metrics.ACValue)
}

// Pair is an unordered pair of distinct numbers, stored as Low < High.
type Pair struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// NewPair normalizes the order of a and b.
func NewPair(a, b int) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{Low: a, High: b}
}

// NumberCounts holds the occurrence counts of a single number.
type NumberCounts struct {
	Main  int `json:"main"`
	Bonus int `json:"bonus"`
	Total int `json:"total"`
}

// FrequencyTable maps each number to its occurrence counts. It is fully
// recomputed from the whole record collection on each refresh.
type FrequencyTable struct {
	Counts      map[int]NumberCounts `json:"counts"`
	TotalRounds int                  `json:"total_rounds"`
}
