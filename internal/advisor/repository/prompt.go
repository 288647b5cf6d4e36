package repository

import (
	"fmt"
	"strings"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/pkg/common"
)

const (
	RoleStockAnalyst      = "Stock Analyst"
	RoleInvestmentAdvisor = "Investment Advisor"

	TaskAnalysis = "analysis"
	TaskAdvice   = "advice"
)

func BuildStockAnalystAgent(req dto.AdviceRequest) dto.AgentSpec {
	return dto.AgentSpec{
		Role:            RoleStockAnalyst,
		Goal:            fmt.Sprintf("Analyze market trends, price patterns, and performance indicators for %s.", req.StockSymbol),
		Backstory:       "Expert in stock market analysis, providing key insights on price patterns, trends, and potential risks.",
		AllowDelegation: true,
	}
}

// BuildInvestmentAdvisorAgent embeds the latest news in the advisor's goal.
func BuildInvestmentAdvisorAgent(req dto.AdviceRequest, news []dto.NewsArticle) dto.AgentSpec {
	return dto.AgentSpec{
		Role: RoleInvestmentAdvisor,
		Goal: fmt.Sprintf(
			"Provide investment advice for %s, based on an initial capital of %s%d, "+
				"a %s risk tolerance, and a %s strategy. Consider a %s horizon, "+
				"%d%% diversification, technical indicators, fundamentals, and recent news updates. "+
				"The latest news includes the following: %s.",
			req.StockSymbol, common.CurrencySymbol, req.InitialCapital,
			req.RiskTolerance, req.TradingStrategy, req.InvestmentHorizon,
			req.PortfolioDiversification, formatNewsInline(news),
		),
		Backstory:       "Knowledgeable in finance and investment, offers insights into optimizing capital allocation and managing risks.",
		AllowDelegation: false,
	}
}

// BuildAnalysisTask appends the market data summary so the analyst works from real numbers.
func BuildAnalysisTask(req dto.AdviceRequest, marketSummary string) dto.TaskSpec {
	description := fmt.Sprintf(
		"Analyze stock %s using technical indicators and fundamentals over %s with a %s perspective.",
		req.StockSymbol, req.Period, req.InvestmentHorizon,
	)
	if marketSummary != "" {
		description += "\n\nMarket data:\n" + marketSummary
	}
	return dto.TaskSpec{
		Name:           TaskAnalysis,
		Description:    description,
		ExpectedOutput: fmt.Sprintf("Summary of stock trends, key indicators, and risk factors relevant to %s.", req.StockSymbol),
		AgentRole:      RoleStockAnalyst,
	}
}

func BuildAdviceTask(req dto.AdviceRequest) dto.TaskSpec {
	return dto.TaskSpec{
		Name: TaskAdvice,
		Description: fmt.Sprintf(
			"Recommend an investment strategy for %s with an initial capital of %s%d, "+
				"considering %s risk, a %s horizon, and %d%% diversification.",
			req.StockSymbol, common.CurrencySymbol, req.InitialCapital,
			req.RiskTolerance, req.InvestmentHorizon, req.PortfolioDiversification,
		),
		ExpectedOutput: "Investment strategy with risk management techniques and capital allocation tips, incorporating recent news updates.",
		AgentRole:      RoleInvestmentAdvisor,
	}
}

// BuildAgentInstruction renders the system instruction for an agent.
func BuildAgentInstruction(agent dto.AgentSpec) string {
	return fmt.Sprintf("You are a %s.\n\nYour goal: %s\n\nBackground: %s\n\nAnswer in Markdown.", agent.Role, agent.Goal, agent.Backstory)
}

// BuildTaskPrompt renders a task together with the outputs of the tasks that ran before it.
func BuildTaskPrompt(task dto.TaskSpec, previous []dto.TaskOutput) string {
	var sb strings.Builder
	sb.WriteString("Task: ")
	sb.WriteString(task.Description)
	sb.WriteString("\n\nExpected output: ")
	sb.WriteString(task.ExpectedOutput)

	if len(previous) > 0 {
		sb.WriteString("\n\nContext from previous work:\n")
		for _, p := range previous {
			sb.WriteString(fmt.Sprintf("\n### %s (%s)\n%s\n", p.Task, p.AgentRole, p.Output))
		}
	}
	return sb.String()
}

// BuildMarketSummary describes price history, indicators and fundamentals in plain text.
func BuildMarketSummary(history *dto.PriceHistory, indicators dto.IndicatorSnapshot, fundamentals *dto.Fundamentals) string {
	var sb strings.Builder
	if history != nil && len(history.Bars) > 0 {
		first := history.Bars[0]
		last := history.Bars[len(history.Bars)-1]
		sb.WriteString(fmt.Sprintf("- Symbol: %s (%s)\n", history.Symbol, history.Period))
		sb.WriteString(fmt.Sprintf("- Trading days: %d, from %s to %s\n", len(history.Bars), first.Timestamp.Format("2006-01-02"), last.Timestamp.Format("2006-01-02")))
		sb.WriteString(fmt.Sprintf("- First close: %.2f, last close: %.2f\n", first.Close, last.Close))
		if first.Close != 0 {
			sb.WriteString(fmt.Sprintf("- Change over period: %.2f%%\n", (last.Close-first.Close)/first.Close*100))
		}
	}
	sb.WriteString(fmt.Sprintf("- MA50: %s\n", formatOptional(indicators.MA50)))
	sb.WriteString(fmt.Sprintf("- MA200: %s\n", formatOptional(indicators.MA200)))
	sb.WriteString(fmt.Sprintf("- RSI(14): %s\n", formatOptional(indicators.RSI)))
	sb.WriteString(fmt.Sprintf("- Bollinger upper: %s, lower: %s\n", formatOptional(indicators.UpperBB), formatOptional(indicators.LowerBB)))
	if fundamentals != nil {
		sb.WriteString(fmt.Sprintf("- Market Cap: %s\n", formatOptional(fundamentals.MarketCap)))
		sb.WriteString(fmt.Sprintf("- P/E Ratio: %s\n", formatOptional(fundamentals.PERatio)))
		sb.WriteString(fmt.Sprintf("- EPS: %s\n", formatOptional(fundamentals.EPS)))
		sb.WriteString(fmt.Sprintf("- Debt/Equity Ratio: %s\n", formatOptional(fundamentals.DebtToEquityRate)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatNewsInline(news []dto.NewsArticle) string {
	if len(news) == 0 {
		return "no recent news available"
	}
	parts := make([]string, 0, len(news))
	for i, n := range news {
		parts = append(parts, fmt.Sprintf("(%d) %s: %s", i+1, n.Title, n.Description))
	}
	return strings.Join(parts, "; ")
}

func formatOptional(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}
