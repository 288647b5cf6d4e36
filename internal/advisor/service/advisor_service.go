package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/telegram"
	"golang-stock-advisor/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInvalidRequest is returned when the symbol or a positive capital is missing.
	ErrInvalidRequest = errors.New("missing required trading inputs")
	// ErrMissingContent is returned when saving before anything was generated.
	ErrMissingContent = errors.New("no generated content to save")
	// ErrGenerationFailed is returned when the crew could not produce advice.
	ErrGenerationFailed = errors.New("failed to generate analysis and advice")
)

// AdvisorService generates investment advice and files it in the record store.
type AdvisorService interface {
	GenerateAdvice(ctx context.Context, req dto.AdviceRequest) (*dto.AdviceResponse, error)
	// SaveAdvice stores content under the request's symbol and parameter string.
	SaveAdvice(ctx context.Context, req dto.AdviceRequest, content string) (repository.Result, error)
	// RetrieveAdvice looks up previously saved content for the request's symbol and parameter string.
	RetrieveAdvice(ctx context.Context, req dto.AdviceRequest) (repository.Result, error)
}

// NewAdvisorService creates a new advisor service. A nil notifier disables notifications.
func NewAdvisorService(market MarketService, crew Crew, records RecordService, notifier telegram.Notifier, log *logger.Logger) AdvisorService {
	if notifier == nil {
		notifier = telegram.NewNopNotifier()
	}
	return &advisorService{
		market:   market,
		crew:     crew,
		records:  records,
		notifier: notifier,
		logger:   log,
	}
}

type advisorService struct {
	market   MarketService
	crew     Crew
	records  RecordService
	notifier telegram.Notifier
	logger   *logger.Logger
}

// BuildParameters encodes the trading inputs the way records are keyed: ₹{capital}-{risk}-{strategy}.
func BuildParameters(req dto.AdviceRequest) string {
	return fmt.Sprintf("%s%d-%s-%s", common.CurrencySymbol, req.InitialCapital, req.RiskTolerance, req.TradingStrategy)
}

func normalizeAdviceRequest(req *dto.AdviceRequest) {
	req.StockSymbol = strings.ToUpper(strings.TrimSpace(req.StockSymbol))
	req.RiskTolerance = strings.TrimSpace(req.RiskTolerance)
	req.TradingStrategy = strings.TrimSpace(req.TradingStrategy)
	req.InvestmentHorizon = strings.TrimSpace(req.InvestmentHorizon)
}

// ValidateAdviceRequest normalizes the request and checks the inputs generation needs.
func ValidateAdviceRequest(req *dto.AdviceRequest) error {
	normalizeAdviceRequest(req)
	if req.StockSymbol == "" || req.InitialCapital <= 0 {
		return ErrInvalidRequest
	}
	if req.PortfolioDiversification < 0 || req.PortfolioDiversification > 100 {
		return fmt.Errorf("%w: portfolio diversification must be between 0 and 100", ErrInvalidRequest)
	}
	if req.Period == "" {
		req.Period = DefaultPeriod
	}
	if !repository.IsValidPeriod(req.Period) {
		return fmt.Errorf("%w: period must be one of %s", ErrInvalidRequest, strings.Join(repository.ValidPeriods, ", "))
	}
	return nil
}

func (s *advisorService) GenerateAdvice(ctx context.Context, req dto.AdviceRequest) (*dto.AdviceResponse, error) {
	if err := ValidateAdviceRequest(&req); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	fields := []zap.Field{
		zap.String("run_id", runID),
		zap.String("symbol", req.StockSymbol),
		zap.String("period", req.Period),
	}
	s.logger.InfoContext(ctx, "Generating analysis and advice", fields...)

	var (
		marketSummary string
		indicators    dto.IndicatorSnapshot
		fundamentals  dto.Fundamentals
	)
	overview, err := s.market.GetOverview(ctx, req.StockSymbol, req.Period)
	if err != nil {
		s.logger.WarnContext(ctx, "Market data unavailable, continuing without it", append(fields, zap.Error(err))...)
	} else {
		indicators = overview.Indicators
		fundamentals = overview.Fundamentals
		marketSummary = repository.BuildMarketSummary(overview.History, overview.Indicators, &overview.Fundamentals)
	}

	news, err := s.market.GetNews(ctx, req.StockSymbol)
	if err != nil {
		s.logger.WarnContext(ctx, "News unavailable, continuing without it", append(fields, zap.Error(err))...)
		news = []dto.NewsArticle{}
	}

	agents := []dto.AgentSpec{
		repository.BuildStockAnalystAgent(req),
		repository.BuildInvestmentAdvisorAgent(req, news),
	}
	tasks := []dto.TaskSpec{
		repository.BuildAnalysisTask(req, marketSummary),
		repository.BuildAdviceTask(req),
	}

	result, err := s.crew.Kickoff(ctx, agents, tasks)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate analysis and advice", append(fields, zap.Error(err))...)
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if strings.TrimSpace(result.Final) == "" {
		s.logger.ErrorContext(ctx, "Crew returned empty advice", fields...)
		return nil, ErrGenerationFailed
	}

	resp := &dto.AdviceResponse{
		RunID:        runID,
		GeneratedAt:  utils.TimeNowIST(),
		Symbol:       req.StockSymbol,
		Parameters:   BuildParameters(req),
		Content:      result.Final,
		Indicators:   indicators,
		Fundamentals: fundamentals,
		News:         news,
	}
	for _, t := range result.Tasks {
		if t.Task == repository.TaskAnalysis {
			resp.Analysis = t.Output
		}
	}

	if req.Notify {
		s.notify(ctx, resp)
	}

	s.logger.InfoContext(ctx, "Analysis and advice generated", append(fields, zap.Int("content_length", len(resp.Content)))...)
	return resp, nil
}

func (s *advisorService) notify(ctx context.Context, resp *dto.AdviceResponse) {
	for i, msg := range telegram.FormatAdviceForTelegram(resp) {
		if err := s.notifier.SendMessage(msg); err != nil {
			s.logger.WarnContext(ctx, "Failed to send advice to telegram",
				zap.String("run_id", resp.RunID),
				zap.Int("part", i+1),
				zap.Error(err),
			)
			return
		}
	}
}

func (s *advisorService) SaveAdvice(ctx context.Context, req dto.AdviceRequest, content string) (repository.Result, error) {
	if strings.TrimSpace(content) == "" {
		return repository.Result{}, ErrMissingContent
	}
	normalizeAdviceRequest(&req)
	if req.StockSymbol == "" {
		return repository.Result{}, ErrInvalidRequest
	}
	return s.records.Save(ctx, dto.RecordRequest{
		Topic:      req.StockSymbol,
		Parameters: BuildParameters(req),
		Content:    content,
	})
}

func (s *advisorService) RetrieveAdvice(ctx context.Context, req dto.AdviceRequest) (repository.Result, error) {
	normalizeAdviceRequest(&req)
	if req.StockSymbol == "" || req.InitialCapital <= 0 {
		return repository.Result{}, ErrInvalidRequest
	}
	return s.records.Retrieve(ctx, dto.RecordRequest{
		Topic:      req.StockSymbol,
		Parameters: BuildParameters(req),
	})
}
