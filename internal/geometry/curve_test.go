package geometry

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestComputeCurvePoints_Length(t *testing.T) {
	cases := []struct {
		start, end Point
		samples    int
	}{
		{Point{0, 0}, Point{100, 0}, 1},
		{Point{10, 20}, Point{-40, 300}, 7},
		{Point{5, 5}, Point{5, 5}, 60},
		{Point{0, 0}, Point{0, 100}, 60},
	}

	for _, tc := range cases {
		points := ComputeCurvePoints(tc.start, tc.end, tc.samples)
		assert.Len(t, points, tc.samples+1)
	}
}

func TestComputeCurvePoints_DefaultSamples(t *testing.T) {
	points := ComputeCurvePoints(Point{0, 0}, Point{10, 10}, 0)
	assert.Len(t, points, DefaultSamples+1)
}

func TestComputeCurvePoints_Endpoints(t *testing.T) {
	start, end := Point{12, 40}, Point{220, 95}
	points := ComputeCurvePoints(start, end, 60)

	assert.InDelta(t, start.X, points[0].X, tolerance)
	assert.InDelta(t, start.Y, points[0].Y, tolerance)
	assert.InDelta(t, end.X, points[60].X, tolerance)
	assert.InDelta(t, end.Y, points[60].Y, tolerance)
}

func TestComputeCurvePoints_Degenerate(t *testing.T) {
	p := Point{42.5, -17}
	points := ComputeCurvePoints(p, p, 12)

	require.Len(t, points, 13)
	for _, got := range points {
		assert.Equal(t, p, got)
	}
	assert.True(t, IsDegenerate(points))
}

func TestComputeCurvePoints_BowsUpward(t *testing.T) {
	// Горизонтальная хорда: середина дуги должна быть выше (меньше Y)
	points := ComputeCurvePoints(Point{0, 100}, Point{200, 100}, 60)
	mid := points[30]

	assert.InDelta(t, 100.0, mid.X, tolerance)
	// Контрольная точка смещена на 50px, вершина кривой - на половину этого
	assert.InDelta(t, 75.0, mid.Y, tolerance)

	reversed := ComputeCurvePoints(Point{200, 100}, Point{0, 100}, 60)
	assert.Less(t, reversed[30].Y, 100.0)
}

func TestComputeCurvePoints_Symmetry(t *testing.T) {
	pairs := [][2]Point{
		{{0, 0}, {100, 50}},
		{{300, 10}, {20, 400}},
		{{-50, -50}, {75, -120}},
		{{10, 10}, {10, 200}},
	}

	for _, pair := range pairs {
		forward := ComputeCurvePoints(pair[0], pair[1], 30)
		backward := ComputeCurvePoints(pair[1], pair[0], 30)
		require.Len(t, backward, len(forward))

		for i := range forward {
			j := len(backward) - 1 - i
			assert.InDelta(t, forward[i].X, backward[j].X, 1e-6)
			assert.InDelta(t, forward[i].Y, backward[j].Y, 1e-6)
		}
	}
}

func TestComputeCurvePoints_VerticalChordBowsTowardNegativeX(t *testing.T) {
	// Подготовка
	top, bottom := Point{40, 0}, Point{40, 100}

	// Действие
	down := ComputeCurvePoints(top, bottom, 2)
	up := ComputeCurvePoints(bottom, top, 2)

	// Проверки: контрольная точка (15, 50), середина кривой (27.5, 50) в обоих направлениях
	require.Len(t, down, 3)
	require.Len(t, up, 3)
	assert.InDelta(t, 27.5, down[1].X, tolerance)
	assert.InDelta(t, 50, down[1].Y, tolerance)
	assert.InDelta(t, 27.5, up[1].X, tolerance)
	assert.InDelta(t, 50, up[1].Y, tolerance)

	dense := ComputeCurvePoints(top, bottom, 60)
	reversed := ComputeCurvePoints(bottom, top, 60)
	for i := range dense {
		assert.LessOrEqual(t, dense[i].X, top.X+tolerance)
		assert.InDelta(t, dense[i].X, reversed[len(reversed)-1-i].X, tolerance)
		assert.InDelta(t, dense[i].Y, reversed[len(reversed)-1-i].Y, tolerance)
	}
}

func TestComputeCurvePoints_Finite(t *testing.T) {
	points := ComputeCurvePoints(Point{1e6, -1e6}, Point{-1e6, 1e6}, 60)
	for _, p := range points {
		assert.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y))
	}
}

func TestBuildPathString_Empty(t *testing.T) {
	assert.Equal(t, "", BuildPathString(nil))
	assert.Equal(t, "", BuildPathString([]Point{}))
}

func TestBuildPathString_MoveThenLines(t *testing.T) {
	path := BuildPathString([]Point{{1, 2}, {3.5, 4}, {5, 6.25}})

	assert.Equal(t, "M 1.00 2.00 L 3.50 4.00 L 5.00 6.25", path)
	assert.True(t, strings.HasPrefix(path, "M 1.00 2.00"))
	assert.Equal(t, 2, strings.Count(path, "L"))
}

func TestBuildPathString_SinglePoint(t *testing.T) {
	assert.Equal(t, "M 0.00 0.00", BuildPathString([]Point{{0, 0}}))
}
