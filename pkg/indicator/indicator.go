// Package indicator computes rolling technical indicators over a close-price series.
// Values are ordered oldest first; positions without enough history hold NaN.
package indicator

import "math"

const (
	MA50Window      = 50
	MA200Window     = 200
	RSIWindow       = 14
	BollingerWindow = 20
	BollingerK      = 2
)

// SMA returns the simple moving average of values over window.
func SMA(values []float64, window int) []float64 {
	out := nanSeries(len(values))
	if window <= 0 {
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// RSI returns the relative strength index using rolling mean gains and losses.
func RSI(closes []float64, window int) []float64 {
	out := nanSeries(len(closes))
	if window <= 0 || len(closes) <= window {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	// the first diff is undefined, so the first full window ends at index window
	for i := window; i < len(closes); i++ {
		var g, l float64
		for j := i - window + 1; j <= i; j++ {
			g += gains[j]
			l += losses[j]
		}
		avgGain := g / float64(window)
		avgLoss := l / float64(window)
		switch {
		case avgLoss == 0 && avgGain == 0:
			out[i] = math.NaN()
		case avgLoss == 0:
			out[i] = 100
		default:
			rs := avgGain / avgLoss
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}

// Bollinger returns the upper and lower bands at k sample standard deviations around the SMA.
func Bollinger(closes []float64, window int, k float64) (upper, lower []float64) {
	upper = nanSeries(len(closes))
	lower = nanSeries(len(closes))
	if window < 2 {
		return upper, lower
	}
	mean := SMA(closes, window)
	for i := window - 1; i < len(closes); i++ {
		var ss float64
		for j := i - window + 1; j <= i; j++ {
			d := closes[j] - mean[i]
			ss += d * d
		}
		std := math.Sqrt(ss / float64(window-1))
		upper[i] = mean[i] + k*std
		lower[i] = mean[i] - k*std
	}
	return upper, lower
}

// Series bundles the indicators the advisor charts and summarizes.
type Series struct {
	Close   []float64
	MA50    []float64
	MA200   []float64
	RSI     []float64
	UpperBB []float64
	LowerBB []float64
}

// Compute derives MA50, MA200, RSI(14) and Bollinger(20, 2) from closes.
func Compute(closes []float64) Series {
	upper, lower := Bollinger(closes, BollingerWindow, BollingerK)
	return Series{
		Close:   closes,
		MA50:    SMA(closes, MA50Window),
		MA200:   SMA(closes, MA200Window),
		RSI:     RSI(closes, RSIWindow),
		UpperBB: upper,
		LowerBB: lower,
	}
}

// Last returns the last value of s, or nil when s is empty or the value is NaN.
func Last(s []float64) *float64 {
	if len(s) == 0 {
		return nil
	}
	v := s[len(s)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
