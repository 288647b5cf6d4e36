package repository

import (
	"context"
	"testing"
	"time"

	"golang-stock-advisor/internal/advisor/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryMarketDataCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryMarketDataCache(time.Minute)

	var miss dto.PriceHistory
	assert.False(t, c.Get(ctx, "absent", &miss))

	want := dto.PriceHistory{Symbol: "RELIANCE.NS", Period: "1mo", Bars: []dto.PriceBar{{Close: 2500}}}
	c.Set(ctx, "k", want, time.Minute)

	var got dto.PriceHistory
	require.True(t, c.Get(ctx, "k", &got))
	assert.Equal(t, want.Symbol, got.Symbol)
	assert.Equal(t, 2500.0, got.Bars[0].Close)
}

func TestInMemoryMarketDataCache_Expires(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryMarketDataCache(time.Minute)
	c.Set(ctx, "k", dto.Fundamentals{}, time.Millisecond)

	time.Sleep(5 * time.Millisecond)
	var got dto.Fundamentals
	assert.False(t, c.Get(ctx, "k", &got))
}
