package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitLine(t *testing.T) {
	t.Run("exact line", func(t *testing.T) {
		line, ok := FitLine([]Point{{X: 0, Y: 1}, {X: 1, Y: 3}, {X: 2, Y: 5}})
		require.True(t, ok)
		assert.InDelta(t, 1.0, line.Intercept, 1e-9)
		assert.InDelta(t, 2.0, line.Slope, 1e-9)
		assert.InDelta(t, 7.0, line.At(3), 1e-9)
	})

	t.Run("fewer than two points", func(t *testing.T) {
		_, ok := FitLine([]Point{{X: 0, Y: 4}})
		assert.False(t, ok)
	})

	t.Run("identical x is degenerate", func(t *testing.T) {
		_, ok := FitLine([]Point{{X: 2, Y: 1}, {X: 2, Y: 3}})
		assert.False(t, ok)
	})
}

func TestProjectNext(t *testing.T) {
	tests := []struct {
		name       string
		series     []float64
		wantOK     bool
		wantLast   float64
		wantFcst   float64
		wantTrend  float64
		wantSample int
	}{
		{
			name:   "no observations",
			series: nil,
			wantOK: false,
		},
		{
			name:   "only non-finite observations",
			series: []float64{math.NaN(), math.Inf(1)},
			wantOK: false,
		},
		{
			name:       "single observation carries forward",
			series:     []float64{10},
			wantOK:     true,
			wantLast:   10,
			wantFcst:   10,
			wantTrend:  0,
			wantSample: 1,
		},
		{
			name:       "flat series",
			series:     []float64{4, 4, 4},
			wantOK:     true,
			wantLast:   4,
			wantFcst:   4,
			wantTrend:  0,
			wantSample: 3,
		},
		{
			name:       "linear growth",
			series:     []float64{2, 4, 6, 8},
			wantOK:     true,
			wantLast:   8,
			wantFcst:   10,
			wantTrend:  2,
			wantSample: 4,
		},
		{
			name:       "dropped point keeps its position",
			series:     []float64{1, math.NaN(), 3},
			wantOK:     true,
			wantLast:   3,
			wantFcst:   4,
			wantTrend:  1,
			wantSample: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ProjectNext(tt.series)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.wantLast, got.LastObservation, 1e-9)
			assert.InDelta(t, tt.wantFcst, got.Forecast, 1e-9)
			assert.InDelta(t, tt.wantTrend, got.Trend, 1e-9)
			assert.Equal(t, tt.wantSample, got.SampleSize)
		})
	}
}

func TestProjectNextIncreasingSeriesTrendsUp(t *testing.T) {
	got, ok := ProjectNext([]float64{3.5, 4.25, 6, 6.5, 9.75})
	require.True(t, ok)
	assert.Greater(t, got.Trend, 0.0)
	assert.Greater(t, got.Forecast, got.LastObservation)
}

func TestProjectNextOverflowFallsBackToLastObservation(t *testing.T) {
	got, ok := ProjectNext([]float64{-math.MaxFloat64, math.MaxFloat64})
	require.True(t, ok)
	assert.Equal(t, math.MaxFloat64, got.Forecast)
	assert.Equal(t, 2, got.SampleSize)
}
