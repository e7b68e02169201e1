package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottostack/lotto645/internal/config"
	"github.com/lottostack/lotto645/internal/kvstore"
	"github.com/lottostack/lotto645/internal/store"
)

// newSyncServer serves a latest round of 3 and per-round payloads with
// distinct numbers per round.
func newSyncServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/lt645/result", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<select id="srchStrLtEpsd"><option value="3">3</option><option value="2">2</option></select>`)
	})
	mux.HandleFunc("/common.do", func(w http.ResponseWriter, r *http.Request) {
		round, err := strconv.Atoi(r.URL.Query().Get("drwNo"))
		if err != nil || round < 1 || round > 3 {
			fmt.Fprint(w, `{"returnValue":"fail"}`)
			return
		}
		fmt.Fprintf(w, `{
			"returnValue": "success",
			"drwNo": %d,
			"drwNoDate": "2026-08-%02d",
			"drwtNo1": %d, "drwtNo2": %d, "drwtNo3": %d,
			"drwtNo4": %d, "drwtNo5": %d, "drwtNo6": %d,
			"bnusNo": 7,
			"firstPrzwnerCo": 10,
			"firstWinamnt": 2000000000
		}`, round, round, round+1, round+10, round+20, round+25, round+30, round+40)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newSyncStore(t *testing.T) *store.DrawStore {
	t.Helper()
	kv, err := kvstore.NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	drawStore := store.NewDrawStore(kv)
	t.Cleanup(func() { _ = drawStore.Close() })
	return drawStore
}

func TestCrawlerSync(t *testing.T) {
	server := newSyncServer(t)
	drawStore := newSyncStore(t)

	cfg := config.CrawlerConfig{
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
		MaxRetries:     2,
		RetryDelay:     10 * time.Millisecond,
	}
	c := New(NewClient(server.URL, cfg.RequestTimeout), drawStore, nil, cfg)

	saved, err := c.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, saved)

	records, err := drawStore.ListDraws()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 1, records[0].Round)
	assert.Equal(t, 3, records[2].Round)
	assert.Equal(t, []int{2, 11, 21, 26, 31, 41}, records[0].Numbers)

	latest, err := drawStore.LatestRound()
	require.NoError(t, err)
	assert.Equal(t, 3, latest)

	snapshot, err := drawStore.FrequencySnapshot()
	require.NoError(t, err)
	assert.Equal(t, 3, snapshot.TotalRounds)
	// Bonus 7 in all three rounds.
	assert.Equal(t, 3, snapshot.Stats[7].Bonus)
}

func TestCrawlerSync_RetriesLatestRound(t *testing.T) {
	var resultHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/lt645/result", func(w http.ResponseWriter, _ *http.Request) {
		if resultHits.Add(1) == 1 {
			fmt.Fprint(w, "<html><body>maintenance</body></html>")
			return
		}
		fmt.Fprint(w, `<select id="srchStrLtEpsd"><option value="1">1</option></select>`)
	})
	mux.HandleFunc("/common.do", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, roundJSON(1))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	drawStore := newSyncStore(t)
	cfg := config.CrawlerConfig{
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
		MaxRetries:     5,
		RetryDelay:     5 * time.Millisecond,
	}
	c := New(NewClient(server.URL, cfg.RequestTimeout), drawStore, nil, cfg)

	saved, err := c.Sync(context.Background())
	require.NoError(t, err, "transient result-page failure is retried")
	assert.Equal(t, 1, saved)
	assert.GreaterOrEqual(t, resultHits.Load(), int32(2))
}

func TestCrawlerSync_RefetchesSkippedRound(t *testing.T) {
	var roundTwoDown atomic.Bool
	roundTwoDown.Store(true)

	mux := http.NewServeMux()
	mux.HandleFunc("/lt645/result", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<select id="srchStrLtEpsd"><option value="3">3</option></select>`)
	})
	mux.HandleFunc("/common.do", func(w http.ResponseWriter, r *http.Request) {
		round, _ := strconv.Atoi(r.URL.Query().Get("drwNo"))
		if round == 2 && roundTwoDown.Load() {
			fmt.Fprint(w, `{"returnValue":"fail"}`)
			return
		}
		fmt.Fprint(w, roundJSON(round))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	drawStore := newSyncStore(t)
	cfg := config.CrawlerConfig{
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}
	c := New(NewClient(server.URL, cfg.RequestTimeout), drawStore, nil, cfg)

	saved, err := c.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, saved, "rounds 1 and 3 stored, 2 skipped")

	cursor, err := drawStore.LatestRound()
	require.NoError(t, err)
	assert.Equal(t, 1, cursor, "cursor stops below the skipped round")

	// The site recovers; the next sync closes the gap.
	roundTwoDown.Store(false)
	saved, err = c.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, saved, "round 2 plus the re-saved round 3")

	cursor, err = drawStore.LatestRound()
	require.NoError(t, err)
	assert.Equal(t, 3, cursor)

	records, err := drawStore.ListDraws()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 2, records[1].Round)
}

func TestCrawlerSync_AlreadyUpToDate(t *testing.T) {
	server := newSyncServer(t)
	drawStore := newSyncStore(t)

	cfg := config.CrawlerConfig{
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
		MaxRetries:     1,
		RetryDelay:     time.Millisecond,
	}
	c := New(NewClient(server.URL, cfg.RequestTimeout), drawStore, nil, cfg)

	_, err := c.Sync(context.Background())
	require.NoError(t, err)

	saved, err := c.Sync(context.Background())
	require.NoError(t, err)
	assert.Zero(t, saved, "second sync has nothing to fetch")
}
