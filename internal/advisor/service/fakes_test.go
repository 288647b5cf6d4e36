package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/pkg/utils"
)

type completeCall struct {
	Agent  dto.AgentSpec
	Prompt string
}

type fakeAI struct {
	mu      sync.Mutex
	calls   []completeCall
	outputs map[string]string
	errs    map[string]error
}

func newFakeAI() *fakeAI {
	return &fakeAI{outputs: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeAI) Complete(_ context.Context, agent dto.AgentSpec, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, completeCall{Agent: agent, Prompt: prompt})
	if err := f.errs[agent.Role]; err != nil {
		return "", err
	}
	if out, ok := f.outputs[agent.Role]; ok {
		return out, nil
	}
	return fmt.Sprintf("output of %s", agent.Role), nil
}

type fakeMarketRepo struct {
	history         *dto.PriceHistory
	historyErr      error
	fundamentals    *dto.Fundamentals
	fundamentalsErr error
	lastPeriod      string
}

func (f *fakeMarketRepo) GetPriceHistory(_ context.Context, symbol, period string) (*dto.PriceHistory, error) {
	f.lastPeriod = period
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func (f *fakeMarketRepo) GetFundamentals(context.Context, string) (*dto.Fundamentals, error) {
	if f.fundamentalsErr != nil {
		return nil, f.fundamentalsErr
	}
	return f.fundamentals, nil
}

type fakeNewsRepo struct {
	articles []dto.NewsArticle
}

func (f *fakeNewsRepo) GetNews(context.Context, string) ([]dto.NewsArticle, error) {
	return f.articles, nil
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) SendMessage(text string) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, text)
	return nil
}

// risingHistory returns n daily bars whose close rises by one each day.
func risingHistory(symbol string, n int) *dto.PriceHistory {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]dto.PriceBar, n)
	for i := range bars {
		bars[i] = dto.PriceBar{Timestamp: start.AddDate(0, 0, i), Close: float64(100 + i)}
	}
	return &dto.PriceHistory{Symbol: symbol, Period: "1y", Currency: "INR", Bars: bars}
}

func testFundamentals() *dto.Fundamentals {
	return &dto.Fundamentals{
		MarketCap: utils.ToPointer(1.7e13),
		PERatio:   utils.ToPointer(27.5),
	}
}

var _ repository.AIRepository = (*fakeAI)(nil)
var _ repository.MarketDataRepository = (*fakeMarketRepo)(nil)
var _ repository.NewsRepository = (*fakeNewsRepo)(nil)
