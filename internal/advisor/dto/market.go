package dto

import "time"

// PriceBar is one daily bar of price history.
type PriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// PriceHistory is the price table for a symbol over a period, oldest bar first.
type PriceHistory struct {
	Symbol   string     `json:"symbol"`
	Period   string     `json:"period"`
	Currency string     `json:"currency"`
	Bars     []PriceBar `json:"bars"`
}

// Closes returns the close column.
func (h *PriceHistory) Closes() []float64 {
	closes := make([]float64, len(h.Bars))
	for i, b := range h.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Fundamentals holds the named fundamental metrics; nil means the provider had no value.
type Fundamentals struct {
	MarketCap        *float64 `json:"Market Cap"`
	PERatio          *float64 `json:"P/E Ratio"`
	EPS              *float64 `json:"EPS"`
	DebtToEquityRate *float64 `json:"Debt/Equity Ratio"`
}

// IndicatorSnapshot is the latest value of each derived indicator.
type IndicatorSnapshot struct {
	LastClose *float64 `json:"last_close"`
	MA50      *float64 `json:"ma50"`
	MA200     *float64 `json:"ma200"`
	RSI       *float64 `json:"rsi"`
	UpperBB   *float64 `json:"upper_bb"`
	LowerBB   *float64 `json:"lower_bb"`
}

// MarketOverview is what the market endpoint returns.
type MarketOverview struct {
	History      *PriceHistory     `json:"history"`
	Indicators   IndicatorSnapshot `json:"indicators"`
	Fundamentals Fundamentals      `json:"fundamentals"`
}

// YahooChartResponse is the subset of the Yahoo Finance chart API we read.
type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency string `json:"currency"`
				Symbol   string `json:"symbol"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *YahooError `json:"error"`
	} `json:"chart"`
}

// YahooQuoteSummaryResponse is the subset of the quoteSummary API we read.
type YahooQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				MarketCap  YahooRawValue `json:"marketCap"`
				TrailingPE YahooRawValue `json:"trailingPE"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				TrailingEps YahooRawValue `json:"trailingEps"`
			} `json:"defaultKeyStatistics"`
			FinancialData struct {
				DebtToEquity YahooRawValue `json:"debtToEquity"`
			} `json:"financialData"`
		} `json:"result"`
		Error *YahooError `json:"error"`
	} `json:"quoteSummary"`
}

// YahooRawValue is Yahoo's {"raw": ..., "fmt": ...} number wrapper.
type YahooRawValue struct {
	Raw *float64 `json:"raw"`
}

type YahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
