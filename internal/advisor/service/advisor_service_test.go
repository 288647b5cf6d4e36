package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAdviceRequest() dto.AdviceRequest {
	return dto.AdviceRequest{
		StockSymbol:              "RELIANCE",
		InitialCapital:           100000,
		RiskTolerance:            "Moderate",
		TradingStrategy:          "Value",
		InvestmentHorizon:        "Long-term",
		PortfolioDiversification: 20,
		Period:                   "1y",
	}
}

type advisorFixture struct {
	ai       *fakeAI
	market   *fakeMarketRepo
	news     *fakeNewsRepo
	notifier *fakeNotifier
	records  RecordService
	svc      AdvisorService
}

func newAdvisorFixture(t *testing.T) *advisorFixture {
	t.Helper()
	f := &advisorFixture{
		ai:       newFakeAI(),
		market:   &fakeMarketRepo{history: risingHistory("RELIANCE.NS", 60), fundamentals: testFundamentals()},
		news:     &fakeNewsRepo{articles: []dto.NewsArticle{{Title: "Reliance Q2 beats estimates", Description: "Profit up 12%"}}},
		notifier: &fakeNotifier{},
		records:  createTestRecordService(t),
	}
	f.ai.outputs[repository.RoleStockAnalyst] = "Uptrend."
	f.ai.outputs[repository.RoleInvestmentAdvisor] = "## Strategy\nBuy in tranches."
	market := NewMarketService(f.market, f.news, logger.NewNop())
	f.svc = NewAdvisorService(market, NewCrew(f.ai, logger.NewNop()), f.records, f.notifier, logger.NewNop())
	return f
}

func TestBuildParameters(t *testing.T) {
	assert.Equal(t, "₹100000-Moderate-Value", BuildParameters(validAdviceRequest()))
}

func TestValidateAdviceRequest(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *dto.AdviceRequest)
		ok     bool
	}{
		{name: "valid", mutate: func(r *dto.AdviceRequest) {}, ok: true},
		{name: "blank symbol", mutate: func(r *dto.AdviceRequest) { r.StockSymbol = "  " }},
		{name: "zero capital", mutate: func(r *dto.AdviceRequest) { r.InitialCapital = 0 }},
		{name: "negative capital", mutate: func(r *dto.AdviceRequest) { r.InitialCapital = -5 }},
		{name: "diversification above 100", mutate: func(r *dto.AdviceRequest) { r.PortfolioDiversification = 101 }},
		{name: "unknown period", mutate: func(r *dto.AdviceRequest) { r.Period = "2y" }},
		{name: "empty period defaults", mutate: func(r *dto.AdviceRequest) { r.Period = "" }, ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validAdviceRequest()
			tt.mutate(&req)
			err := ValidateAdviceRequest(&req)
			if tt.ok {
				assert.NoError(t, err)
				assert.NotEmpty(t, req.Period)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestAdvisorService_GenerateAdvice(t *testing.T) {
	f := newAdvisorFixture(t)
	req := validAdviceRequest()
	req.StockSymbol = " reliance "

	resp, err := f.svc.GenerateAdvice(context.Background(), req)
	require.NoError(t, err)

	_, err = uuid.Parse(resp.RunID)
	assert.NoError(t, err)
	assert.Equal(t, utils.GetISTTimeLocation().String(), resp.GeneratedAt.Location().String())
	assert.Equal(t, "RELIANCE", resp.Symbol)
	assert.Equal(t, "₹100000-Moderate-Value", resp.Parameters)
	assert.Equal(t, "Uptrend.", resp.Analysis)
	assert.Equal(t, "## Strategy\nBuy in tranches.", resp.Content)
	require.NotNil(t, resp.Indicators.LastClose)
	assert.Equal(t, 159.0, *resp.Indicators.LastClose)
	assert.Len(t, resp.News, 1)

	require.Len(t, f.ai.calls, 2)
	analysisPrompt := f.ai.calls[0].Prompt
	assert.Contains(t, analysisPrompt, "Analyze stock RELIANCE using technical indicators and fundamentals over 1y with a Long-term perspective.")
	assert.Contains(t, analysisPrompt, "P/E Ratio: 27.50")
	advisor := f.ai.calls[1].Agent
	assert.Contains(t, advisor.Goal, "Reliance Q2 beats estimates")
	assert.Contains(t, f.ai.calls[1].Prompt, "Uptrend.")

	assert.Empty(t, f.notifier.messages, "notifications are opt-in")
}

func TestAdvisorService_GenerateAdvice_Notifies(t *testing.T) {
	f := newAdvisorFixture(t)
	req := validAdviceRequest()
	req.Notify = true

	_, err := f.svc.GenerateAdvice(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, f.notifier.messages, 1)
	assert.Contains(t, f.notifier.messages[0], "Buy in tranches.")
}

func TestAdvisorService_GenerateAdvice_NotifierFailureIsNotFatal(t *testing.T) {
	f := newAdvisorFixture(t)
	f.notifier.err = errors.New("bot blocked")
	req := validAdviceRequest()
	req.Notify = true

	resp, err := f.svc.GenerateAdvice(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Content)
}

func TestAdvisorService_GenerateAdvice_WithoutMarketData(t *testing.T) {
	f := newAdvisorFixture(t)
	f.market.historyErr = errors.New("no data returned")

	resp, err := f.svc.GenerateAdvice(context.Background(), validAdviceRequest())
	require.NoError(t, err)
	assert.Nil(t, resp.Indicators.LastClose)
	assert.NotContains(t, f.ai.calls[0].Prompt, "Market data:")
}

func TestAdvisorService_GenerateAdvice_Failures(t *testing.T) {
	f := newAdvisorFixture(t)

	_, err := f.svc.GenerateAdvice(context.Background(), dto.AdviceRequest{StockSymbol: "RELIANCE"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Empty(t, f.ai.calls)

	f.ai.errs[repository.RoleInvestmentAdvisor] = errors.New("model overloaded")
	_, err = f.svc.GenerateAdvice(context.Background(), validAdviceRequest())
	assert.ErrorIs(t, err, ErrGenerationFailed)

	delete(f.ai.errs, repository.RoleInvestmentAdvisor)
	f.ai.outputs[repository.RoleInvestmentAdvisor] = "   "
	_, err = f.svc.GenerateAdvice(context.Background(), validAdviceRequest())
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestAdvisorService_SaveAndRetrieve(t *testing.T) {
	ctx := context.Background()
	f := newAdvisorFixture(t)
	req := validAdviceRequest()

	res, err := f.svc.RetrieveAdvice(ctx, req)
	require.NoError(t, err)
	assert.True(t, res.NotFound())

	res, err = f.svc.SaveAdvice(ctx, req, "Buy in tranches.")
	require.NoError(t, err)
	assert.Equal(t, repository.OutcomeSaved, res.Outcome)

	res, err = f.svc.RetrieveAdvice(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Buy in tranches.", res.Content)

	records, err := f.records.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "RELIANCE", records[0].Topic)
	assert.Equal(t, "₹100000-Moderate-Value", records[0].Parameters)
}

func TestAdvisorService_SaveAndRetrieve_Validation(t *testing.T) {
	ctx := context.Background()
	f := newAdvisorFixture(t)

	_, err := f.svc.SaveAdvice(ctx, validAdviceRequest(), strings.Repeat(" ", 3))
	assert.ErrorIs(t, err, ErrMissingContent)

	noSymbol := validAdviceRequest()
	noSymbol.StockSymbol = ""
	_, err = f.svc.SaveAdvice(ctx, noSymbol, "content")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	noCapital := validAdviceRequest()
	noCapital.InitialCapital = 0
	_, err = f.svc.RetrieveAdvice(ctx, noCapital)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
