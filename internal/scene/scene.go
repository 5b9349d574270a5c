// Package scene строит описание слоя дуг и набора маркеров по списку инцидентов.
// Сцена каждый раз собирается заново и не хранит состояния между пересборками.
package scene

import (
	"time"

	"github.com/shenikar/warzone_monitor/internal/geometry"
)

// Projector переводит географические координаты в пиксели текущего вида карты.
// Результат действителен только для текущего положения и масштаба.
type Projector func(lat, lng float64) geometry.Point

// StrokeKind - слой обводки дуги
type StrokeKind string

const (
	StrokeGlow    StrokeKind = "glow"
	StrokePrimary StrokeKind = "primary"
	StrokeCore    StrokeKind = "core"
)

// Stroke - одна обводка вдоль пути дуги
type Stroke struct {
	Kind      StrokeKind    `json:"kind"`
	Color     string        `json:"color"`
	Width     float64       `json:"width"`
	Opacity   float64       `json:"opacity"`
	DashArray string        `json:"dash_array,omitempty"`
	DashCycle time.Duration `json:"dash_cycle,omitempty"`
	Filter    string        `json:"filter,omitempty"`
}

// Projectile - маркер боеприпаса, движущийся по пути
type Projectile struct {
	Radius   float64       `json:"radius"`
	Color    string        `json:"color"`
	Duration time.Duration `json:"duration"`
}

// OriginPulse - пульсирующая точка в месте запуска
type OriginPulse struct {
	At       geometry.Point `json:"at"`
	Radius   float64        `json:"radius"`
	Color    string         `json:"color"`
	Duration time.Duration  `json:"duration"`
}

// Gradient - линейный градиент от точки запуска к цели
type Gradient struct {
	ID         string         `json:"id"`
	From       geometry.Point `json:"from"`
	To         geometry.Point `json:"to"`
	StartColor string         `json:"start_color"`
	EndColor   string         `json:"end_color"`
}

// Filter - фильтр размытия для свечения
type Filter struct {
	ID           string  `json:"id"`
	StdDeviation float64 `json:"std_deviation"`
}

// Defs - вспомогательные ресурсы сцены
type Defs struct {
	Gradients []Gradient `json:"gradients"`
	Filters   []Filter   `json:"filters"`
}

// Arc - слоеный визуальный элемент одной дуги. Strokes перечислены в порядке отрисовки.
type Arc struct {
	Index      int            `json:"index"`
	IncidentID string         `json:"incident_id"`
	Attacker   string         `json:"attacker"`
	Origin     geometry.Point `json:"origin"`
	Target     geometry.Point `json:"target"`
	Path       string         `json:"path"`
	Strokes    []Stroke       `json:"strokes"`
	Projectile Projectile     `json:"projectile"`
	Pulse      OriginPulse    `json:"pulse"`
}

// ArcScene - полный слой дуг
type ArcScene struct {
	Defs Defs  `json:"defs"`
	Arcs []Arc `json:"arcs"`
}

// Tier - размерная категория маркера
type Tier string

const (
	TierStandard Tier = "standard"
	TierLarge    Tier = "large"
)

// Marker - маркер инцидента в точке цели
type Marker struct {
	IncidentID string  `json:"incident_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Tier       Tier    `json:"tier"`
	Radius     float64 `json:"radius"`
	ClassName  string  `json:"class_name"`
	Popup      string  `json:"popup"`
	OnClick    func()  `json:"-"`
}
