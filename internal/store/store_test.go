package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottostack/lotto645/internal/kvstore"
	"github.com/lottostack/lotto645/internal/lotto"
	"github.com/lottostack/lotto645/internal/stats"
)

func newTestStore(t *testing.T) *DrawStore {
	t.Helper()
	kv, err := kvstore.NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	store := NewDrawStore(kv)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testRecord(round int, numbers []int, bonus int) *lotto.DrawRecord {
	return &lotto.DrawRecord{
		Round:           round,
		Numbers:         numbers,
		Bonus:           bonus,
		Winners:         12,
		AmountPerWinner: 1_980_000_000,
		DrawDate:        "2026-08-22",
		Metrics:         stats.Derive(numbers),
	}
}

func TestDrawStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)

	record := testRecord(1182, []int{2, 9, 15, 28, 34, 43}, 7)
	require.NoError(t, store.SaveDraw(record))

	loaded, err := store.GetDraw(1182)
	require.NoError(t, err)
	assert.Equal(t, record, loaded)
}

func TestDrawStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetDraw(999)
	assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)
}

func TestDrawStore_RejectsInvalidRecord(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		name   string
		record *lotto.DrawRecord
	}{
		{"zero round", testRecord(0, []int{2, 9, 15, 28, 34, 43}, 7)},
		{"five numbers", testRecord(1, []int{2, 9, 15, 28, 34}, 7)},
		{"duplicate number", testRecord(1, []int{2, 2, 15, 28, 34, 43}, 7)},
		{"out of range", testRecord(1, []int{2, 9, 15, 28, 34, 46}, 7)},
		{"bad bonus", testRecord(1, []int{2, 9, 15, 28, 34, 43}, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, store.SaveDraw(tt.record))
		})
	}

	records, err := store.ListDraws()
	require.NoError(t, err)
	assert.Empty(t, records, "rejected records must not be stored")
}

func TestDrawStore_ListDrawsOrdered(t *testing.T) {
	store := newTestStore(t)

	// Insert out of order; ListDraws must return ascending rounds.
	for _, round := range []int{30, 1, 200, 15} {
		require.NoError(t, store.SaveDraw(testRecord(round, []int{2, 9, 15, 28, 34, 43}, 7)))
	}

	records, err := store.ListDraws()
	require.NoError(t, err)
	require.Len(t, records, 4)

	rounds := make([]int, len(records))
	for i, record := range records {
		rounds[i] = record.Round
	}
	assert.Equal(t, []int{1, 15, 30, 200}, rounds)
}

func TestDrawStore_LatestRoundCursor(t *testing.T) {
	store := newTestStore(t)

	latest, err := store.LatestRound()
	require.NoError(t, err)
	assert.Equal(t, 0, latest, "empty store reports round 0")

	require.NoError(t, store.SaveLatestRound(1182))

	latest, err = store.LatestRound()
	require.NoError(t, err)
	assert.Equal(t, 1182, latest)
}

func TestDrawStore_FrequencySnapshot(t *testing.T) {
	store := newTestStore(t)

	_, err := store.FrequencySnapshot()
	assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)

	records := []lotto.DrawRecord{
		*testRecord(1, []int{7, 9, 15, 28, 34, 43}, 7),
		*testRecord(2, []int{7, 10, 16, 29, 35, 44}, 1),
	}
	require.NoError(t, store.SaveFrequencySnapshot(stats.Frequency(records)))

	snapshot, err := store.FrequencySnapshot()
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.TotalRounds)
	assert.Equal(t, lotto.NumberCounts{Main: 2, Bonus: 1, Total: 3}, snapshot.Stats[7])
	require.NotEmpty(t, snapshot.Ranking)
	assert.Equal(t, 7, snapshot.Ranking[0].Number)
}
