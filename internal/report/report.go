// Package report renders computed statistics and recommendations as text.
// It only consumes plain values; nothing here touches storage or the site.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/lottostack/lotto645/internal/lotto"
	"github.com/lottostack/lotto645/internal/recommend"
	"github.com/lottostack/lotto645/internal/stats"
)

const (
	rankingLimit  = 10
	topPairLimit  = 5
	topDigits     = 5
	topGroupLimit = 5
	roundListMax  = 60
)

// WriteAnalysis prints the aggregate statistics report for a record range.
func WriteAnalysis(w io.Writer, records []lotto.DrawRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No draw data available. Run `lotto645 crawl` first.")
		return err
	}

	first, last := records[0].Round, records[len(records)-1].Round
	fmt.Fprintf(w, "Draw analysis, rounds %d-%d (%d rounds)\n\n", first, last, len(records))

	writePrizeSummary(w, records)
	writeFrequency(w, records)
	writeCarryover(w, records)
	writeConsecutive(w, records)
	writeEndingDigits(w, records)
	writeTopPairs(w, records)
	return nil
}

// writePrizeSummary aggregates sums and prize money. Amounts are KRW, so
// the aggregation runs on decimals rather than floats.
func writePrizeSummary(w io.Writer, records []lotto.DrawRecord) {
	sum := decimal.Zero
	payout := decimal.Zero
	prize := decimal.Zero
	for _, record := range records {
		sum = sum.Add(decimal.NewFromInt(int64(record.Metrics.SumValue)))
		amount := decimal.NewFromInt(record.AmountPerWinner)
		payout = payout.Add(amount.Mul(decimal.NewFromInt(record.Winners)))
		prize = prize.Add(amount)
	}
	rounds := decimal.NewFromInt(int64(len(records)))

	fmt.Fprintf(w, "Mean number sum:        %s\n", sum.Div(rounds).Round(1))
	fmt.Fprintf(w, "Mean first prize (KRW): %s\n", prize.Div(rounds).Round(0))
	fmt.Fprintf(w, "Total first-tier payout (KRW): %s\n\n", payout)
}

func writeFrequency(w io.Writer, records []lotto.DrawRecord) {
	table := stats.Frequency(records)
	ranking := table.Ranking()
	if len(ranking) > rankingLimit {
		ranking = ranking[:rankingLimit]
	}

	fmt.Fprintf(w, "Most frequent numbers (top %d):\n", rankingLimit)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "number\tmain\tbonus\ttotal")
	for _, entry := range ranking {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\n",
			entry.Number, entry.Counts.Main, entry.Counts.Bonus, entry.Counts.Total)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func writeCarryover(w io.Writer, records []lotto.DrawRecord) {
	distribution := stats.CarryoverDistribution(records)
	total := 0
	for _, count := range distribution {
		total += count
	}
	if total == 0 {
		return
	}

	fmt.Fprintln(w, "Carryover (numbers repeating from the previous round):")
	for overlap := 0; overlap <= lotto.PickCount; overlap++ {
		count, ok := distribution[overlap]
		if !ok {
			continue
		}
		percent := float64(count) / float64(total) * 100
		fmt.Fprintf(w, "  %d carried: %d rounds (%.1f%%)\n", overlap, count, percent)
	}
	fmt.Fprintln(w)
}

func writeConsecutive(w io.Writer, records []lotto.DrawRecord) {
	count, percent := stats.ConsecutiveIncidence(records)
	fmt.Fprintf(w, "Rounds containing consecutive numbers: %d (%.1f%%)\n\n", count, percent)
}

func writeEndingDigits(w io.Writer, records []lotto.DrawRecord) {
	distribution := stats.EndingDigitDistribution(records)
	type digitCount struct{ digit, count int }
	ranked := make([]digitCount, 0, len(distribution))
	for digit, count := range distribution {
		ranked = append(ranked, digitCount{digit, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].digit < ranked[j].digit
	})
	if len(ranked) > topDigits {
		ranked = ranked[:topDigits]
	}

	parts := make([]string, len(ranked))
	for i, entry := range ranked {
		parts[i] = fmt.Sprintf("%d (%d)", entry.digit, entry.count)
	}
	fmt.Fprintf(w, "Top ending digits: %s\n\n", strings.Join(parts, ", "))
}

func writeTopPairs(w io.Writer, records []lotto.DrawRecord) {
	top := stats.TopPairs(stats.PairWeights(records), topPairLimit)
	fmt.Fprintf(w, "Best co-occurring pairs (top %d):\n", topPairLimit)
	for _, entry := range top {
		fmt.Fprintf(w, "  %d & %d: together %d times\n", entry.Pair.Low, entry.Pair.High, entry.Count)
	}
}

// WriteModuloGroup prints statistics over the rounds whose number leaves
// the given remainder for the given cycle length, e.g. every 10th round.
func WriteModuloGroup(w io.Writer, records []lotto.DrawRecord, modulo, remainder int) error {
	if modulo <= 0 {
		return fmt.Errorf("cycle length must be positive, got %d", modulo)
	}

	summary := stats.ModuloGroup(records, modulo, remainder, topGroupLimit)
	fmt.Fprintf(w, "Cycle analysis: every %d rounds, remainder %d\n", modulo, remainder)
	if len(summary.Rounds) == 0 {
		_, err := fmt.Fprintln(w, "  No rounds match this cycle.")
		return err
	}

	fmt.Fprintf(w, "  Matching rounds (%d): %s\n", len(summary.Rounds), joinRounds(summary.Rounds))
	fmt.Fprintf(w, "  Mean number sum: %.1f\n", summary.MeanSum)
	parts := make([]string, len(summary.Top))
	for i, entry := range summary.Top {
		parts[i] = fmt.Sprintf("%d (%d)", entry.Number, entry.Count)
	}
	_, err := fmt.Fprintf(w, "  Most frequent (top %d): %s\n\n", topGroupLimit, strings.Join(parts, ", "))
	return err
}

// WriteIntervalFlow prints the per-chunk mean sum and dominant number over
// fixed-size slices of the round sequence.
func WriteIntervalFlow(w io.Writer, records []lotto.DrawRecord, interval int) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %d", interval)
	}

	chunks := stats.IntervalFlow(records, interval)
	fmt.Fprintf(w, "Interval flow (%d-round chunks):\n", interval)
	if len(chunks) == 0 {
		_, err := fmt.Fprintln(w, "  No draw data available.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, chunk := range chunks {
		fmt.Fprintf(tw, "  rounds %d-%d\tmean sum %.1f\ttop number %d (%d times)\n",
			chunk.FirstRound, chunk.LastRound, chunk.MeanSum, chunk.TopNumber, chunk.TopCount)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// joinRounds renders a round list, truncated so a wide cycle match does not
// flood the report.
func joinRounds(rounds []int) string {
	parts := make([]string, len(rounds))
	for i, round := range rounds {
		parts[i] = strconv.Itoa(round)
	}
	joined := strings.Join(parts, ", ")
	if len(joined) > roundListMax {
		joined = joined[:roundListMax] + "..."
	}
	return joined
}

// WriteRecommendations prints the accepted candidate sets as a table with
// per-set sum and odd:even ratio, mirroring what players check first.
func WriteRecommendations(w io.Writer, nextRound int, recommendations []recommend.Recommendation) error {
	if nextRound > 0 {
		fmt.Fprintf(w, "Recommendations for round %d\n", nextRound)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "no.\tstrategy\tnumbers\tsum\todd:even")
	for i, rec := range recommendations {
		metrics := stats.Derive(rec.Numbers)
		numbers := make([]string, len(rec.Numbers))
		for j, n := range rec.Numbers {
			numbers[j] = fmt.Sprintf("%2d", n)
		}
		fmt.Fprintf(tw, "%02d\t%s\t%s\t%d\t%s\n",
			i+1, rec.Strategy, strings.Join(numbers, " "), metrics.SumValue, metrics.OddEvenRatio)
	}
	return tw.Flush()
}
