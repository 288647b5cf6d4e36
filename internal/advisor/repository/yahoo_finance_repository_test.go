package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartFixture = `{"chart":{"result":[{"meta":{"currency":"INR","symbol":"RELIANCE.NS"},
"timestamp":[1700000000,1700086400,1700172800],
"indicators":{"quote":[{"open":[100,101,null],"high":[102,103,null],"low":[99,100,null],
"close":[101,102.5,null],"volume":[1000,2000,null]}]}}],"error":null}}`

const quoteSummaryFixture = `{"quoteSummary":{"result":[{
"summaryDetail":{"marketCap":{"raw":17000000000000,"fmt":"17T"},"trailingPE":{"raw":27.5}},
"defaultKeyStatistics":{"trailingEps":{"raw":98.2}},
"financialData":{"debtToEquity":{}}}],"error":null}}`

func newYahooTestConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.YahooFinance.BaseURL = baseURL
	cfg.YahooFinance.DefaultSuffix = ".NS"
	cfg.YahooFinance.MaxRequestPerMinute = 60000
	cfg.YahooFinance.Timeout = 5 * time.Second
	cfg.Cache.MarketDataTTL = time.Minute
	return cfg
}

func TestYahooFinanceRepository_GetPriceHistory(t *testing.T) {
	var hits int32
	var gotPath, gotRange string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		gotPath = r.URL.Path
		gotRange = r.URL.Query().Get("range")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartFixture))
	}))
	defer server.Close()

	repo := NewYahooFinanceRepository(newYahooTestConfig(server.URL), logger.NewNop(), NewInMemoryMarketDataCache(time.Minute))

	history, err := repo.GetPriceHistory(context.Background(), "reliance", "1y")
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/RELIANCE.NS", gotPath)
	assert.Equal(t, "1y", gotRange)
	assert.Equal(t, "RELIANCE.NS", history.Symbol)
	assert.Equal(t, "INR", history.Currency)
	require.Len(t, history.Bars, 2, "bars without a close are skipped")
	assert.Equal(t, []float64{101, 102.5}, history.Closes())
	assert.Equal(t, int64(2000), history.Bars[1].Volume)

	_, err = repo.GetPriceHistory(context.Background(), "RELIANCE.NS", "1y")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second call is served from cache")
}

func TestYahooFinanceRepository_GetPriceHistory_InvalidPeriod(t *testing.T) {
	repo := NewYahooFinanceRepository(newYahooTestConfig("http://127.0.0.1:0"), logger.NewNop(), nil)

	_, err := repo.GetPriceHistory(context.Background(), "TCS", "2w")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestYahooFinanceRepository_GetPriceHistory_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		target error
	}{
		{name: "non-OK status", status: http.StatusTooManyRequests, body: `{}`},
		{name: "empty result", status: http.StatusOK, body: `{"chart":{"result":[],"error":null}}`, target: ErrNoData},
		{name: "provider error", status: http.StatusOK, body: `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`},
		{name: "all closes null", status: http.StatusOK, body: `{"chart":{"result":[{"timestamp":[1],"indicators":{"quote":[{"close":[null]}]}}]}}`, target: ErrNoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			repo := NewYahooFinanceRepository(newYahooTestConfig(server.URL), logger.NewNop(), nil)
			history, err := repo.GetPriceHistory(context.Background(), "INFY", "1mo")
			require.Error(t, err)
			assert.Nil(t, history)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestYahooFinanceRepository_GetFundamentals(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(quoteSummaryFixture))
	}))
	defer server.Close()

	repo := NewYahooFinanceRepository(newYahooTestConfig(server.URL), logger.NewNop(), nil)

	f, err := repo.GetFundamentals(context.Background(), "RELIANCE")
	require.NoError(t, err)
	assert.Equal(t, "/v10/finance/quoteSummary/RELIANCE.NS", gotPath)
	require.NotNil(t, f.MarketCap)
	assert.Equal(t, 17000000000000.0, *f.MarketCap)
	require.NotNil(t, f.PERatio)
	assert.Equal(t, 27.5, *f.PERatio)
	require.NotNil(t, f.EPS)
	assert.Equal(t, 98.2, *f.EPS)
	assert.Nil(t, f.DebtToEquityRate)
}

func TestIsValidPeriod(t *testing.T) {
	for _, p := range ValidPeriods {
		assert.True(t, IsValidPeriod(p), p)
	}
	assert.False(t, IsValidPeriod(""))
	assert.False(t, IsValidPeriod("max"))
}
