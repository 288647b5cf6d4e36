package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	// ErrInvalidPeriod is returned for period tokens the provider does not accept.
	ErrInvalidPeriod = errors.New("invalid period")
	// ErrNoData is returned when the provider answers without any usable rows.
	ErrNoData = errors.New("no data returned")
)

// ValidPeriods are the history ranges offered to the user.
var ValidPeriods = []string{"1mo", "3mo", "6mo", "1y", "5y", "10y"}

// IsValidPeriod reports whether period is one of ValidPeriods.
func IsValidPeriod(period string) bool {
	for _, p := range ValidPeriods {
		if p == period {
			return true
		}
	}
	return false
}

// MarketDataRepository provides price history and fundamentals for a symbol.
type MarketDataRepository interface {
	GetPriceHistory(ctx context.Context, symbol, period string) (*dto.PriceHistory, error)
	GetFundamentals(ctx context.Context, symbol string) (*dto.Fundamentals, error)
}

type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	cache          MarketDataCache
}

// NewYahooFinanceRepository creates a rate limited, cached Yahoo Finance client.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger, cache MarketDataCache) MarketDataRepository {
	perMinute := cfg.YahooFinance.MaxRequestPerMinute
	if perMinute <= 0 {
		perMinute = 60
	}
	timeout := cfg.YahooFinance.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		requestLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		cache:          cache,
	}
}

// normalizeSymbol upper-cases the symbol and appends the default exchange suffix when it has none.
func (r *yahooFinanceRepository) normalizeSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if r.cfg.YahooFinance.DefaultSuffix != "" && !strings.Contains(symbol, ".") && !strings.HasPrefix(symbol, "^") {
		symbol += r.cfg.YahooFinance.DefaultSuffix
	}
	return symbol
}

// GetPriceHistory returns daily bars for symbol over period, oldest first.
func (r *yahooFinanceRepository) GetPriceHistory(ctx context.Context, symbol, period string) (*dto.PriceHistory, error) {
	if !IsValidPeriod(period) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	symbol = r.normalizeSymbol(symbol)

	cacheKey := fmt.Sprintf(common.CacheKeyPriceHistory, symbol, period)
	var cached dto.PriceHistory
	if r.cache != nil && r.cache.Get(ctx, cacheKey, &cached) {
		r.log.DebugContext(ctx, "Price history served from cache", logger.StringField("symbol", symbol), logger.StringField("period", period))
		return &cached, nil
	}

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d", r.cfg.YahooFinance.BaseURL, url.PathEscape(symbol), url.QueryEscape(period))
	body, err := r.sendRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var resp dto.YahooChartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo finance chart error: %s - %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoData, symbol)
	}

	result := resp.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	history := &dto.PriceHistory{
		Symbol:   symbol,
		Period:   period,
		Currency: result.Meta.Currency,
		Bars:     make([]dto.PriceBar, 0, len(result.Timestamp)),
	}
	for i, ts := range result.Timestamp {
		closeVal := valueAt(quote.Close, i)
		if closeVal == nil {
			continue
		}
		bar := dto.PriceBar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Close:     *closeVal,
		}
		if v := valueAt(quote.Open, i); v != nil {
			bar.Open = *v
		}
		if v := valueAt(quote.High, i); v != nil {
			bar.High = *v
		}
		if v := valueAt(quote.Low, i); v != nil {
			bar.Low = *v
		}
		if v := valueAt(quote.Volume, i); v != nil {
			bar.Volume = *v
		}
		history.Bars = append(history.Bars, bar)
	}
	if len(history.Bars) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoData, symbol)
	}

	if r.cache != nil {
		r.cache.Set(ctx, cacheKey, history, r.cfg.Cache.MarketDataTTL)
	}
	return history, nil
}

// GetFundamentals returns market cap, trailing P/E, trailing EPS and debt/equity.
func (r *yahooFinanceRepository) GetFundamentals(ctx context.Context, symbol string) (*dto.Fundamentals, error) {
	symbol = r.normalizeSymbol(symbol)

	cacheKey := fmt.Sprintf(common.CacheKeyFundamentals, symbol)
	var cached dto.Fundamentals
	if r.cache != nil && r.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=summaryDetail,defaultKeyStatistics,financialData", r.cfg.YahooFinance.BaseURL, url.PathEscape(symbol))
	body, err := r.sendRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var resp dto.YahooQuoteSummaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode quote summary response: %w", err)
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo finance quote summary error: %s - %s", resp.QuoteSummary.Error.Code, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoData, symbol)
	}

	result := resp.QuoteSummary.Result[0]
	fundamentals := &dto.Fundamentals{
		MarketCap:        result.SummaryDetail.MarketCap.Raw,
		PERatio:          result.SummaryDetail.TrailingPE.Raw,
		EPS:              result.DefaultKeyStatistics.TrailingEps.Raw,
		DebtToEquityRate: result.FinancialData.DebtToEquity.Raw,
	}

	if r.cache != nil {
		r.cache.Set(ctx, cacheKey, fundamentals, r.cfg.Cache.MarketDataTTL)
	}
	return fundamentals, nil
}

func (r *yahooFinanceRepository) sendRequest(ctx context.Context, endpoint string) ([]byte, error) {
	fields := []zap.Field{
		zap.String("url", endpoint),
		zap.Int("max_request_per_minute", r.cfg.YahooFinance.MaxRequestPerMinute),
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to send request to Yahoo Finance API", fields...)
		return nil, fmt.Errorf("failed to send request to Yahoo Finance API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to read response body from Yahoo Finance API", fields...)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		fields = append(fields, zap.Int("status_code", resp.StatusCode))
		r.log.ErrorContext(ctx, "Received non-OK response from Yahoo Finance API", fields...)
		return nil, fmt.Errorf("received non-OK response from Yahoo Finance API: %d", resp.StatusCode)
	}

	return body, nil
}

func valueAt[T any](values []*T, i int) *T {
	if i >= len(values) {
		return nil
	}
	return values[i]
}
