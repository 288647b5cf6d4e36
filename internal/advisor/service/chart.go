package service

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/indicator"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	ChartKindPrice = "price"
	ChartKindRSI   = "rsi"
)

// RenderPriceChart renders Close, MA50, MA200 and the Bollinger bands as a PNG.
// Indicator series start at their first defined value.
func RenderPriceChart(history *dto.PriceHistory) ([]byte, error) {
	xValues, err := chartDates(history)
	if err != nil {
		return nil, err
	}
	series := indicator.Compute(history.Closes())

	var lines []chart.Series
	lines = appendDefined(lines, "Close", xValues, series.Close, chart.Style{
		StrokeColor: drawing.ColorFromHex("2563eb"),
		StrokeWidth: 2,
	})
	lines = appendDefined(lines, "MA50", xValues, series.MA50, chart.Style{
		StrokeColor: drawing.ColorFromHex("f59e0b"),
		StrokeWidth: 1.5,
	})
	lines = appendDefined(lines, "MA200", xValues, series.MA200, chart.Style{
		StrokeColor: drawing.ColorFromHex("dc2626"),
		StrokeWidth: 1.5,
	})
	lines = appendDefined(lines, "Upper BB", xValues, series.UpperBB, chart.Style{
		StrokeColor:     drawing.ColorFromHex("9ca3af"),
		StrokeWidth:     1,
		StrokeDashArray: []float64{5.0, 3.0},
	})
	lines = appendDefined(lines, "Lower BB", xValues, series.LowerBB, chart.Style{
		StrokeColor:     drawing.ColorFromHex("9ca3af"),
		StrokeWidth:     1,
		StrokeDashArray: []float64{5.0, 3.0},
	})

	return renderChart(fmt.Sprintf("%s price (%s)", history.Symbol, history.Period), lines, func(f float64) string {
		return fmt.Sprintf("%s%.0f", common.CurrencySymbol, f)
	})
}

// RenderRSIChart renders RSI(14) with the 70/30 bands.
func RenderRSIChart(history *dto.PriceHistory) ([]byte, error) {
	xValues, err := chartDates(history)
	if err != nil {
		return nil, err
	}
	rsi := indicator.RSI(history.Closes(), indicator.RSIWindow)

	var lines []chart.Series
	lines = appendDefined(lines, "RSI", xValues, rsi, chart.Style{
		StrokeColor: drawing.ColorFromHex("7c3aed"),
		StrokeWidth: 2,
	})
	if len(lines) == 0 {
		return nil, fmt.Errorf("need at least %d closes to plot RSI, got %d", indicator.RSIWindow+2, len(xValues))
	}
	for _, level := range []float64{70, 30} {
		lines = appendDefined(lines, fmt.Sprintf("%.0f", level), xValues, constantSeries(len(xValues), level), chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"),
			StrokeWidth:     1,
			StrokeDashArray: []float64{4.0, 4.0},
		})
	}

	return renderChart(fmt.Sprintf("%s RSI (%s)", history.Symbol, history.Period), lines, func(f float64) string {
		return fmt.Sprintf("%.0f", f)
	})
}

func chartDates(history *dto.PriceHistory) ([]time.Time, error) {
	if history == nil || len(history.Bars) < 2 {
		n := 0
		if history != nil {
			n = len(history.Bars)
		}
		return nil, fmt.Errorf("need at least 2 data points, got %d", n)
	}
	xValues := make([]time.Time, len(history.Bars))
	for i, b := range history.Bars {
		xValues[i] = b.Timestamp
	}
	return xValues, nil
}

// appendDefined adds the part of values after its leading NaNs, carrying the previous value over
// interior gaps. Series with fewer than two points are skipped.
func appendDefined(lines []chart.Series, name string, xValues []time.Time, values []float64, style chart.Style) []chart.Series {
	start := 0
	for start < len(values) && math.IsNaN(values[start]) {
		start++
	}
	if len(values)-start < 2 {
		return lines
	}
	yValues := make([]float64, len(values)-start)
	for i, v := range values[start:] {
		if math.IsNaN(v) {
			v = yValues[i-1]
		}
		yValues[i] = v
	}
	return append(lines, chart.TimeSeries{
		Name:    name,
		Style:   style,
		XValues: xValues[start:],
		YValues: yValues,
	})
}

func constantSeries(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func renderChart(title string, lines []chart.Series, yFormat func(float64) string) ([]byte, error) {
	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("02 Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return yFormat(f)
				}
				return ""
			},
		},
		Series: lines,
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
