// Package geometry содержит чистые функции построения дуг в пиксельном пространстве карты.
package geometry

import (
	"math"
	"strconv"
	"strings"
)

// DefaultSamples - количество отрезков дуги по умолчанию
const DefaultSamples = 60

// bowFactor - смещение контрольной точки относительно длины хорды
const bowFactor = 0.25

// Point - точка в пиксельных координатах карты
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ComputeCurvePoints строит квадратичную кривую Безье от start до end и возвращает samples+1 точку.
// Кривая всегда выгибается вверх (в сторону отрицательного Y).
func ComputeCurvePoints(start, end Point, samples int) []Point {
	if samples < 1 {
		samples = DefaultSamples
	}
	points := make([]Point, samples+1)

	dx := end.X - start.X
	dy := end.Y - start.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		for i := range points {
			points[i] = start
		}
		return points
	}

	// Единичный перпендикуляр к хорде. Для вертикальной хорды выбираем отрицательный X,
	// чтобы перестановка концов давала ту же кривую.
	nx, ny := -dy/length, dx/length
	if ny > 0 || (ny == 0 && nx > 0) {
		nx, ny = -nx, -ny
	}

	control := Point{
		X: (start.X+end.X)/2 + nx*length*bowFactor,
		Y: (start.Y+end.Y)/2 + ny*length*bowFactor,
	}

	for i := 0; i <= samples; i++ {
		t := float64(i) / float64(samples)
		a := (1 - t) * (1 - t)
		b := 2 * (1 - t) * t
		c := t * t
		points[i] = Point{
			X: a*start.X + b*control.X + c*end.X,
			Y: a*start.Y + b*control.Y + c*end.Y,
		}
	}
	return points
}

// BuildPathString собирает описание пути SVG: "M x y L x y ...".
// Для пустого набора точек возвращает пустую строку.
func BuildPathString(points []Point) string {
	if len(points) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(points) * 16)
	for i, p := range points {
		if i == 0 {
			sb.WriteString("M ")
		} else {
			sb.WriteString(" L ")
		}
		sb.WriteString(formatCoord(p.X))
		sb.WriteByte(' ')
		sb.WriteString(formatCoord(p.Y))
	}
	return sb.String()
}

// IsDegenerate сообщает, что все точки совпадают и путь имеет нулевую длину
func IsDegenerate(points []Point) bool {
	if len(points) == 0 {
		return true
	}
	for _, p := range points[1:] {
		if p != points[0] {
			return false
		}
	}
	return true
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
