// Package mapview - карта без графического интерфейса: вид в проекции Web Mercator,
// события изменения вида, слой маркеров и слой дуг.
// Все методы Map вызываются из цикла отображения (eventloop).
package mapview

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/warzone_monitor/internal/eventloop"
	"github.com/shenikar/warzone_monitor/internal/geometry"
)

// Event - тип уведомления об изменении вида
type Event string

const (
	EventMove    Event = "move"
	EventMoveEnd Event = "moveend"
	EventZoom    Event = "zoom"
	EventZoomEnd Event = "zoomend"
	EventResize  Event = "resize"
)

// TransformEvents - все события, после которых прежние проекции недействительны
var TransformEvents = []Event{EventMove, EventZoom, EventZoomEnd, EventMoveEnd, EventResize}

const (
	MinZoom   = 1
	MaxZoom   = 18
	frameTime = 16 * time.Millisecond
)

// ErrRemoved возвращается при обращении к удаленной карте
var ErrRemoved = errors.New("map has been removed")

// ErrNotFinite возвращается для NaN и бесконечных координат или масштаба
var ErrNotFinite = errors.New("map view values must be finite")

type handler struct {
	id int
	fn func(Event)
}

// Options - параметры создания карты
type Options struct {
	CenterLat float64
	CenterLng float64
	Zoom      float64
	Width     int
	Height    int
	// OverlaySink получает SVG слоя дуг после каждой перерисовки
	OverlaySink func(svg []byte)
}

// Map - карта с текущим видом и подписками на события
type Map struct {
	sched     eventloop.Scheduler
	logger    *logrus.Logger
	transform Transform
	handlers  map[Event][]handler
	nextID    int
	markers   *MarkerLayer
	overlay   *OverlayLayer
	animation int
	removed   bool
}

// New создает карту. Слой маркеров подключается в Loader.
func New(sched eventloop.Scheduler, logger *logrus.Logger, opts Options) *Map {
	if opts.Width <= 0 {
		opts.Width = 1024
	}
	if opts.Height <= 0 {
		opts.Height = 768
	}
	return &Map{
		sched:  sched,
		logger: logger,
		transform: Transform{
			CenterLat: clampLat(opts.CenterLat),
			CenterLng: wrapLng(opts.CenterLng),
			Zoom:      clampZoom(opts.Zoom),
			Width:     opts.Width,
			Height:    opts.Height,
		},
		handlers: make(map[Event][]handler),
		overlay:  newOverlayLayer(opts.OverlaySink),
	}
}

// Loader возвращает функцию асинхронной инициализации карты: подключение слоя маркеров.
// Создание и подключение слоев выполняется в цикле отображения.
func Loader(sched eventloop.Scheduler, logger *logrus.Logger, opts Options) func(ctx context.Context) (*Map, error) {
	return func(ctx context.Context) (*Map, error) {
		result := make(chan *Map, 1)
		if !sched.Post(func() {
			m := New(sched, logger, opts)
			m.markers = newMarkerLayer()
			result <- m
		}) {
			return nil, context.Canceled
		}
		select {
		case m := <-result:
			logger.WithField("component", "mapview").Info("Map initialized")
			return m, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Transform возвращает текущий вид
func (m *Map) Transform() Transform {
	return m.transform
}

// Projector возвращает функцию проекции для текущего вида.
// Вид фиксируется в момент вызова: после любого события проектор нужно запросить заново.
func (m *Map) Projector() func(lat, lng float64) geometry.Point {
	t := m.transform
	return t.Project
}

// On подписывает fn на события. Возвращает функцию отписки.
func (m *Map) On(events []Event, fn func(Event)) (unsubscribe func()) {
	if m.removed {
		return func() {}
	}
	m.nextID++
	id := m.nextID
	for _, e := range events {
		m.handlers[e] = append(m.handlers[e], handler{id: id, fn: fn})
	}
	return func() { m.off(id) }
}

func (m *Map) off(id int) {
	for e, hs := range m.handlers {
		kept := hs[:0]
		for _, h := range hs {
			if h.id != id {
				kept = append(kept, h)
			}
		}
		if len(kept) == 0 {
			delete(m.handlers, e)
			continue
		}
		m.handlers[e] = kept
	}
}

func (m *Map) subscribed(e Event, id int) bool {
	for _, h := range m.handlers[e] {
		if h.id == id {
			return true
		}
	}
	return false
}

// Subscribers возвращает число активных подписок на событие
func (m *Map) Subscribers(e Event) int {
	return len(m.handlers[e])
}

func (m *Map) emit(events ...Event) {
	for _, e := range events {
		// Обработчик может отписаться во время рассылки
		hs := append([]handler(nil), m.handlers[e]...)
		for _, h := range hs {
			if m.removed {
				return
			}
			if m.subscribed(e, h.id) {
				h.fn(e)
			}
		}
	}
}

// Markers - слой маркеров; nil до завершения Loader
func (m *Map) Markers() *MarkerLayer {
	return m.markers
}

// Overlay - слой дуг
func (m *Map) Overlay() *OverlayLayer {
	return m.overlay
}

// Pan сдвигает вид на dx, dy пикселей контейнера
func (m *Map) Pan(dx, dy float64) error {
	if m.removed {
		return ErrRemoved
	}
	if !finite(dx, dy) {
		return ErrNotFinite
	}
	m.animation++
	center := geometry.Point{X: float64(m.transform.Width)/2 + dx, Y: float64(m.transform.Height)/2 + dy}
	m.transform.CenterLat, m.transform.CenterLng = m.transform.Unproject(center)
	m.emit(EventMove, EventMoveEnd)
	return nil
}

// SetView переносит центр и масштаб без анимации
func (m *Map) SetView(lat, lng, zoom float64) error {
	if m.removed {
		return ErrRemoved
	}
	if !finite(lat, lng, zoom) {
		return ErrNotFinite
	}
	m.animation++
	m.apply(lat, lng, zoom)
	m.emit(EventMove, EventZoom, EventMoveEnd, EventZoomEnd)
	return nil
}

// SetZoom меняет масштаб относительно текущего центра
func (m *Map) SetZoom(zoom float64) error {
	if m.removed {
		return ErrRemoved
	}
	if !finite(zoom) {
		return ErrNotFinite
	}
	m.animation++
	m.transform.Zoom = clampZoom(zoom)
	m.emit(EventZoom, EventZoomEnd)
	return nil
}

// Resize меняет размер контейнера
func (m *Map) Resize(width, height int) error {
	if m.removed {
		return ErrRemoved
	}
	if width <= 0 || height <= 0 {
		return errors.New("map size must be positive")
	}
	m.transform.Width = width
	m.transform.Height = height
	m.emit(EventResize)
	return nil
}

// FlyTo плавно переносит вид к точке на заданном масштабе.
// Кадры анимации выполняются в цикле отображения; новый вызов отменяет предыдущую анимацию.
func (m *Map) FlyTo(lat, lng, zoom float64, duration time.Duration) {
	if m.removed || !finite(lat, lng, zoom) {
		return
	}
	m.animation++
	if duration <= 0 {
		m.apply(lat, lng, zoom)
		m.emit(EventMove, EventZoom, EventMoveEnd, EventZoomEnd)
		return
	}

	gen := m.animation
	from := m.transform
	frames := int(math.Ceil(float64(duration) / float64(frameTime)))

	go func() {
		ticker := time.NewTicker(frameTime)
		defer ticker.Stop()
		for i := 1; i <= frames; i++ {
			<-ticker.C
			step := i
			if !m.sched.Post(func() { m.frame(gen, from, lat, lng, zoom, step, frames) }) {
				return
			}
		}
	}()
}

func (m *Map) frame(gen int, from Transform, lat, lng, zoom float64, step, frames int) {
	if m.removed || gen != m.animation {
		return
	}
	if step >= frames {
		m.apply(lat, lng, zoom)
		m.emit(EventMove, EventZoom, EventMoveEnd, EventZoomEnd)
		return
	}
	t := easeOutCubic(float64(step) / float64(frames))
	m.apply(
		from.CenterLat+(lat-from.CenterLat)*t,
		from.CenterLng+(lng-from.CenterLng)*t,
		from.Zoom+(zoom-from.Zoom)*t,
	)
	m.emit(EventMove, EventZoom)
}

func (m *Map) apply(lat, lng, zoom float64) {
	m.transform.CenterLat = clampLat(lat)
	m.transform.CenterLng = wrapLng(lng)
	m.transform.Zoom = clampZoom(zoom)
}

// Remove освобождает карту: снимает все подписки, очищает слои, останавливает анимацию
func (m *Map) Remove() {
	if m.removed {
		return
	}
	m.removed = true
	m.animation++
	m.handlers = make(map[Event][]handler)
	if m.markers != nil {
		m.markers.ClearLayers()
	}
	m.overlay.Clear()
	m.logger.WithField("component", "mapview").Info("Map removed")
}

// Removed сообщает, была ли карта удалена
func (m *Map) Removed() bool {
	return m.removed
}

// EventNames возвращает события, на которые есть подписчики, в отсортированном виде
func (m *Map) EventNames() []string {
	names := make([]string, 0, len(m.handlers))
	for e := range m.handlers {
		names = append(names, string(e))
	}
	sort.Strings(names)
	return names
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func clampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

func easeOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}
