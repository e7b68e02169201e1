package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/lottostack/lotto645/internal/kvstore"
	"github.com/lottostack/lotto645/internal/lotto"
)

const (
	drawKeyPrefix    = "draw/"
	latestRoundKey   = "meta/latest"
	frequencyKey     = "meta/frequency"
	roundKeyPadWidth = 6
)

// DrawStore persists draw records keyed by round number, plus the
// latest-round cursor and the rolling frequency snapshot.
type DrawStore struct {
	kv kvstore.KVStore
}

func NewDrawStore(kv kvstore.KVStore) *DrawStore {
	return &DrawStore{kv: kv}
}

func drawKey(round int) string {
	return fmt.Sprintf("%s%0*d", drawKeyPrefix, roundKeyPadWidth, round)
}

// SaveDraw validates and stores a single record. Malformed records are
// rejected here, before they can reach the statistics code.
func (s *DrawStore) SaveDraw(record *lotto.DrawRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid draw record: %w", err)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal draw record: %w", err)
	}
	if err := s.kv.Set(drawKey(record.Round), data); err != nil {
		return fmt.Errorf("store draw %d: %w", record.Round, err)
	}
	return nil
}

// GetDraw returns the record for one round, or kvstore.ErrKeyNotFound.
func (s *DrawStore) GetDraw(round int) (*lotto.DrawRecord, error) {
	data, err := s.kv.Get(drawKey(round))
	if err != nil {
		return nil, err
	}

	var record lotto.DrawRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal draw %d: %w", round, err)
	}
	return &record, nil
}

// ListDraws returns every stored record ordered by round ascending.
func (s *DrawStore) ListDraws() ([]lotto.DrawRecord, error) {
	pairs, err := s.kv.List(drawKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list draws: %w", err)
	}

	records := make([]lotto.DrawRecord, 0, len(pairs))
	for _, pair := range pairs {
		var record lotto.DrawRecord
		if err := json.Unmarshal(pair.Value, &record); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", pair.Key, err)
		}
		records = append(records, record)
	}

	// Zero-padded keys already iterate in round order; sort anyway so the
	// ordering contract does not depend on the key encoding.
	sort.Slice(records, func(i, j int) bool {
		return records[i].Round < records[j].Round
	})
	return records, nil
}

// LatestRound returns the stored cursor, or 0 when nothing has been crawled.
func (s *DrawStore) LatestRound() (int, error) {
	data, err := s.kv.Get(latestRoundKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}

	round, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, fmt.Errorf("parse latest round: %w", err)
	}
	return round, nil
}

func (s *DrawStore) SaveLatestRound(round int) error {
	return s.kv.Set(latestRoundKey, []byte(strconv.Itoa(round)))
}

// FrequencySnapshot is the persisted form of the rolling frequency table,
// ranking included so report consumers need no recomputation.
type FrequencySnapshot struct {
	Stats       map[int]lotto.NumberCounts `json:"stats"`
	Ranking     []lotto.RankedNumber       `json:"ranking"`
	TotalRounds int                        `json:"total_rounds"`
}

// SaveFrequencySnapshot replaces the stored snapshot with the given table.
func (s *DrawStore) SaveFrequencySnapshot(table *lotto.FrequencyTable) error {
	snapshot := FrequencySnapshot{
		Stats:       table.Counts,
		Ranking:     table.Ranking(),
		TotalRounds: table.TotalRounds,
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal frequency snapshot: %w", err)
	}
	return s.kv.Set(frequencyKey, data)
}

// FrequencySnapshot returns the stored snapshot, or kvstore.ErrKeyNotFound
// when no crawl has produced one yet.
func (s *DrawStore) FrequencySnapshot() (*FrequencySnapshot, error) {
	data, err := s.kv.Get(frequencyKey)
	if err != nil {
		return nil, err
	}

	var snapshot FrequencySnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal frequency snapshot: %w", err)
	}
	return &snapshot, nil
}

func (s *DrawStore) Close() error {
	return s.kv.Close()
}
