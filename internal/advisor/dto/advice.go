package dto

import "time"

// AdviceRequest holds the trading inputs from the form or the JSON API.
type AdviceRequest struct {
	StockSymbol              string `json:"stock_symbol" form:"stock_symbol"`
	InitialCapital           int64  `json:"initial_capital" form:"initial_capital"`
	RiskTolerance            string `json:"risk_tolerance" form:"risk_tolerance"`
	TradingStrategy          string `json:"trading_strategy" form:"trading_strategy"`
	InvestmentHorizon        string `json:"investment_horizon" form:"investment_horizon"`
	PortfolioDiversification int    `json:"portfolio_diversification" form:"portfolio_diversification"`
	Period                   string `json:"period" form:"period"`
	Notify                   bool   `json:"notify" form:"notify"`
}

// AdviceResponse is returned after a successful generation run.
type AdviceResponse struct {
	RunID        string            `json:"run_id"`
	GeneratedAt  time.Time         `json:"generated_at"`
	Symbol       string            `json:"symbol"`
	Parameters   string            `json:"parameters"`
	Analysis     string            `json:"analysis"`
	Content      string            `json:"content"`
	Indicators   IndicatorSnapshot `json:"indicators"`
	Fundamentals Fundamentals      `json:"fundamentals"`
	News         []NewsArticle     `json:"news"`
}
