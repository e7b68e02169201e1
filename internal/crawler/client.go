package crawler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/lottostack/lotto645/internal/lotto"
	"github.com/lottostack/lotto645/internal/stats"
)

const (
	resultPagePath = "/lt645/result"
	roundAPIPath   = "/common.do?method=getLottoNumber&drwNo=%d"

	// The result page rejects default Go client UAs.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

var (
	ErrRoundNotFound = errors.New("round not published")
	ErrNoLatestRound = errors.New("latest round not found on result page")
)

// Client fetches draw results from the lottery site: the published JSON
// endpoint for individual rounds, and the result page for discovering the
// latest round number.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// roundResponse is the JSON payload of the per-round endpoint.
type roundResponse struct {
	ReturnValue     string `json:"returnValue"`
	Round           int    `json:"drwNo"`
	DrawDate        string `json:"drwNoDate"`
	Num1            int    `json:"drwtNo1"`
	Num2            int    `json:"drwtNo2"`
	Num3            int    `json:"drwtNo3"`
	Num4            int    `json:"drwtNo4"`
	Num5            int    `json:"drwtNo5"`
	Num6            int    `json:"drwtNo6"`
	Bonus           int    `json:"bnusNo"`
	Winners         int64  `json:"firstPrzwnerCo"`
	AmountPerWinner int64  `json:"firstWinamnt"`
}

// LatestRound scrapes the result page's round selector; its first numeric
// option is the most recent round.
func (c *Client) LatestRound(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+resultPagePath, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch result page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch result page: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("parse result page: %w", err)
	}

	latest := 0
	doc.Find("select#srchStrLtEpsd option").EachWithBreak(func(_ int, option *goquery.Selection) bool {
		value, ok := option.Attr("value")
		if !ok {
			return true
		}
		round, err := strconv.Atoi(value)
		if err != nil {
			return true
		}
		latest = round
		return false
	})
	if latest == 0 {
		return 0, ErrNoLatestRound
	}
	return latest, nil
}

// FetchRound retrieves one round and maps it into a validated DrawRecord
// with its derived metrics computed.
func (c *Client) FetchRound(ctx context.Context, round int) (*lotto.DrawRecord, error) {
	url := c.baseURL + fmt.Sprintf(roundAPIPath, round)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch round %d: %w", round, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch round %d: unexpected status %d", round, resp.StatusCode)
	}

	var payload roundResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode round %d: %w", round, err)
	}
	if payload.ReturnValue != "success" {
		return nil, fmt.Errorf("round %d: %w", round, ErrRoundNotFound)
	}

	numbers := []int{payload.Num1, payload.Num2, payload.Num3, payload.Num4, payload.Num5, payload.Num6}
	record := &lotto.DrawRecord{
		Round:           payload.Round,
		Numbers:         numbers,
		Bonus:           payload.Bonus,
		Winners:         payload.Winners,
		AmountPerWinner: payload.AmountPerWinner,
		DrawDate:        payload.DrawDate,
		Metrics:         stats.Derive(numbers),
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("round %d: %w", round, err)
	}
	return record, nil
}
