package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/pkg/indicator"
	"golang-stock-advisor/pkg/logger"
)

// DefaultPeriod is used when a request does not name one.
const DefaultPeriod = "1y"

// ErrInvalidChartKind is returned for chart kinds other than price and rsi.
var ErrInvalidChartKind = errors.New("invalid chart kind")

// MarketService combines price history, indicators, fundamentals and news for a symbol.
type MarketService interface {
	GetOverview(ctx context.Context, symbol, period string) (*dto.MarketOverview, error)
	GetNews(ctx context.Context, symbol string) ([]dto.NewsArticle, error)
	RenderChart(ctx context.Context, symbol, period, kind string) ([]byte, error)
}

// NewMarketService creates a new market service.
func NewMarketService(marketRepo repository.MarketDataRepository, newsRepo repository.NewsRepository, log *logger.Logger) MarketService {
	return &marketService{
		marketRepo: marketRepo,
		newsRepo:   newsRepo,
		logger:     log,
	}
}

type marketService struct {
	marketRepo repository.MarketDataRepository
	newsRepo   repository.NewsRepository
	logger     *logger.Logger
}

// GetOverview fails only when price history is unavailable; missing fundamentals are logged and left empty.
func (s *marketService) GetOverview(ctx context.Context, symbol, period string) (*dto.MarketOverview, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ErrInvalidRequest)
	}
	if period == "" {
		period = DefaultPeriod
	}
	if !repository.IsValidPeriod(period) {
		return nil, fmt.Errorf("%w: period must be one of %s", ErrInvalidRequest, strings.Join(repository.ValidPeriods, ", "))
	}

	history, err := s.marketRepo.GetPriceHistory(ctx, symbol, period)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get price history", logger.ErrorField(err), logger.StringField("symbol", symbol), logger.StringField("period", period))
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}

	overview := &dto.MarketOverview{
		History:    history,
		Indicators: SnapshotIndicators(history.Closes()),
	}

	fundamentals, err := s.marketRepo.GetFundamentals(ctx, symbol)
	if err != nil {
		s.logger.WarnContext(ctx, "Fundamentals unavailable", logger.ErrorField(err), logger.StringField("symbol", symbol))
	} else if fundamentals != nil {
		overview.Fundamentals = *fundamentals
	}
	return overview, nil
}

func (s *marketService) GetNews(ctx context.Context, symbol string) ([]dto.NewsArticle, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ErrInvalidRequest)
	}
	return s.newsRepo.GetNews(ctx, symbol)
}

func (s *marketService) RenderChart(ctx context.Context, symbol, period, kind string) ([]byte, error) {
	if kind == "" {
		kind = ChartKindPrice
	}
	if kind != ChartKindPrice && kind != ChartKindRSI {
		return nil, fmt.Errorf("%w: %q", ErrInvalidChartKind, kind)
	}

	overview, err := s.GetOverview(ctx, symbol, period)
	if err != nil {
		return nil, err
	}
	if kind == ChartKindRSI {
		return RenderRSIChart(overview.History)
	}
	return RenderPriceChart(overview.History)
}

// SnapshotIndicators returns the latest value of every indicator over closes.
func SnapshotIndicators(closes []float64) dto.IndicatorSnapshot {
	series := indicator.Compute(closes)
	return dto.IndicatorSnapshot{
		LastClose: indicator.Last(series.Close),
		MA50:      indicator.Last(series.MA50),
		MA200:     indicator.Last(series.MA200),
		RSI:       indicator.Last(series.RSI),
		UpperBB:   indicator.Last(series.UpperBB),
		LowerBB:   indicator.Last(series.LowerBB),
	}
}
