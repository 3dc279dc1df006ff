// Package forecast fits a least-squares trend over a short series and projects it one step.
package forecast

import "math"

type Point struct {
	X float64
	Y float64
}

// Line is y = Intercept + Slope*x.
type Line struct {
	Intercept float64
	Slope     float64
}

func (l Line) At(x float64) float64 {
	return l.Intercept + l.Slope*x
}

// FitLine computes the ordinary least-squares line through points. ok is false when
// fewer than two points are given or all x are equal.
func FitLine(points []Point) (Line, bool) {
	n := float64(len(points))
	if len(points) < 2 {
		return Line{}, false
	}

	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumXX += p.X * p.X
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return Line{}, false
	}

	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n
	return Line{Intercept: intercept, Slope: slope}, true
}

// Projection is the one-step-ahead outcome for a series.
type Projection struct {
	LastObservation float64
	Forecast        float64
	Trend           float64
	SampleSize      int
}

// ProjectNext takes a chronological series and predicts the value one step after the
// last usable observation. Non-finite values are dropped but keep their position, so x
// is the index in the original series. ok is false when no usable value exists.
func ProjectNext(series []float64) (Projection, bool) {
	points := make([]Point, 0, len(series))
	for i, y := range series {
		if !isFinite(y) {
			continue
		}
		points = append(points, Point{X: float64(i), Y: y})
	}

	if len(points) == 0 {
		return Projection{}, false
	}

	last := points[len(points)-1]
	if len(points) == 1 {
		return Projection{
			LastObservation: last.Y,
			Forecast:        last.Y,
			Trend:           0,
			SampleSize:      1,
		}, true
	}

	line, ok := FitLine(points)
	if !ok {
		return Projection{LastObservation: last.Y, Forecast: last.Y, SampleSize: len(points)}, true
	}

	prediction := line.At(last.X + 1)
	if !isFinite(prediction) {
		prediction = last.Y
	}
	trend := line.Slope
	if !isFinite(trend) {
		trend = 0
	}

	return Projection{
		LastObservation: last.Y,
		Forecast:        prediction,
		Trend:           trend,
		SampleSize:      len(points),
	}, true
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Round2 rounds half away from zero to 2 decimals. Non-finite input becomes 0.
func Round2(x float64) float64 {
	if !isFinite(x) {
		return 0
	}
	return math.Round(x*100) / 100
}
