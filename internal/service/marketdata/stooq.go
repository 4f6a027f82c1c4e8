package marketdata

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"WaveCast/internal/domain/models"
	"WaveCast/internal/domain/repository"
	pkghttp "WaveCast/pkg/http"
	"WaveCast/pkg/logger"
)

// ErrNoData is returned when the provider has no history for a symbol.
var ErrNoData = errors.New("marketdata: no data for symbol")

const defaultBaseURL = "https://stooq.com/q/d/l/"

// StooqSource fetches daily OHLCV history from the Stooq CSV endpoint.
type StooqSource struct {
	client  *pkghttp.Client
	baseURL string
	log     *logger.Logger
}

// StooqOption configures StooqSource.
type StooqOption func(*StooqSource)

// WithBaseURL overrides the CSV endpoint, mainly for tests.
func WithBaseURL(u string) StooqOption {
	return func(s *StooqSource) { s.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *pkghttp.Client) StooqOption {
	return func(s *StooqSource) { s.client = c }
}

func NewStooqSource(log *logger.Logger, opts ...StooqOption) *StooqSource {
	s := &StooqSource{
		client:  pkghttp.NewClient(pkghttp.WithTimeout(15 * time.Second)),
		baseURL: defaultBaseURL,
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ repository.BarSource = (*StooqSource)(nil)

// DailyBars downloads and parses history for one symbol. The returned series
// is ascending by date.
func (s *StooqSource) DailyBars(ctx context.Context, symbol string, period repository.Period) (models.BarSeries, error) {
	end := time.Now().UTC()
	start := period.StartFor(end)

	var body []byte
	err := s.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    s.baseURL,
		QueryParams: map[string][]string{
			"s":  {strings.ToLower(symbol)},
			"i":  {"d"},
			"d1": {start.Format("20060102")},
			"d2": {end.Format("20060102")},
		},
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s history: %w", symbol, err)
	}

	bars, err := ParseDailyCSV(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s history: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}

	s.log.Debug("fetched daily bars",
		logger.String("symbol", symbol),
		logger.String("period", string(period)),
		logger.Int("bars", len(bars)))
	return bars, nil
}

// ParseDailyCSV decodes the provider CSV layout:
// Date,Open,High,Low,Close,Volume. Rows with unparseable prices are skipped;
// a missing volume column is tolerated.
func ParseDailyCSV(data []byte) (models.BarSeries, error) {
	body := strings.TrimSpace(string(data))
	if body == "" || strings.HasPrefix(body, "No data") {
		return nil, nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 5 || !strings.EqualFold(header[0], "Date") {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var bars models.BarSeries
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) < 5 {
			continue
		}

		date, err := time.ParseInLocation("2006-01-02", rec[0], time.UTC)
		if err != nil {
			continue
		}
		open, err1 := strconv.ParseFloat(rec[1], 64)
		high, err2 := strconv.ParseFloat(rec[2], 64)
		low, err3 := strconv.ParseFloat(rec[3], 64)
		cls, err4 := strconv.ParseFloat(rec[4], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}

		var volume float64
		if len(rec) > 5 {
			volume, _ = strconv.ParseFloat(rec[5], 64)
		}

		bars = append(bars, models.PriceBar{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  cls,
			Volume: volume,
		})
	}

	// The provider serves ascending history; enforce it anyway since the
	// analysis layer depends on ordering.
	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return nil, fmt.Errorf("bars out of order at row %d", i)
		}
	}
	return bars, nil
}
