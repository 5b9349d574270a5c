// Package viewsync связывает хранилище инцидентов, построитель сцены и карту:
// перестраивает маркеры и дуги при изменении данных или вида карты.
package viewsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/warzone_monitor/internal/eventloop"
	"github.com/shenikar/warzone_monitor/internal/geometry"
	"github.com/shenikar/warzone_monitor/internal/mapview"
	"github.com/shenikar/warzone_monitor/internal/models"
	"github.com/shenikar/warzone_monitor/internal/scene"
	"github.com/shenikar/warzone_monitor/internal/store"
)

// Map определяет контракт карты, с которой работает синхронизатор
type Map interface {
	Projector() func(lat, lng float64) geometry.Point
	On(events []mapview.Event, fn func(mapview.Event)) (unsubscribe func())
	Markers() *mapview.MarkerLayer
	Overlay() *mapview.OverlayLayer
	Transform() mapview.Transform
	FlyTo(lat, lng, zoom float64, duration time.Duration)
	Remove()
}

// Loader асинхронно создает карту
type Loader func(ctx context.Context) (Map, error)

// Store определяет контракт хранилища инцидентов
type Store interface {
	Snapshot() ([]*models.Incident, uint64)
	Subscribe(topic store.Topic, fn func()) (unsubscribe func())
	Select(id string)
}

// SceneBuilder определяет контракт построителя сцены
type SceneBuilder interface {
	RebuildArcs(incidents []*models.Incident, project scene.Projector) *scene.ArcScene
	RebuildMarkers(incidents []*models.Incident, onSelect func(id string)) []scene.Marker
}

// State - состояние синхронизатора
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

var (
	// ErrAlreadyStarted возвращается при повторном вызове Start
	ErrAlreadyStarted = errors.New("synchronizer already started")
	// ErrDisposed возвращается, если синхронизатор освобожден до готовности карты
	ErrDisposed = errors.New("synchronizer disposed")
)

// Options - параметры синхронизатора
type Options struct {
	// ThrottleInterval ограничивает частоту перестроения дуг при изменении вида; 0 - без ограничения
	ThrottleInterval time.Duration
}

// Synchronizer поддерживает слои карты в соответствии с данными и видом.
// Реакции и Dispose выполняются в цикле отображения.
type Synchronizer struct {
	store   Store
	builder SceneBuilder
	sched   eventloop.Scheduler
	loader  Loader
	logger  *logrus.Logger
	opts    Options

	mu        sync.Mutex
	state     State
	starting  bool
	abandoned bool
	m         Map
	unsubs   []func()
	throttle *throttle

	rendered        bool
	renderedVersion uint64
}

// New создает синхронизатор в состоянии Uninitialized
func New(st Store, builder SceneBuilder, sched eventloop.Scheduler, loader Loader, logger *logrus.Logger, opts Options) *Synchronizer {
	return &Synchronizer{
		store:   st,
		builder: builder,
		sched:   sched,
		loader:  loader,
		logger:  logger,
		opts:    opts,
	}
}

// Start загружает карту и подключает реакции. Блокирует до готовности карты.
func (s *Synchronizer) Start(ctx context.Context) error {
	log := s.logger.WithFields(logrus.Fields{
		"component": "viewsync",
		"method":    "Start",
	})

	s.mu.Lock()
	if s.state == StateDisposed {
		s.mu.Unlock()
		return ErrDisposed
	}
	if s.starting {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.starting = true
	s.abandoned = false
	s.mu.Unlock()

	m, err := s.loader(ctx)
	if err != nil {
		s.resetStart()
		log.WithError(err).Error("Failed to load map")
		return fmt.Errorf("viewsync: could not load map: %w", err)
	}

	attached := make(chan error, 1)
	if !s.sched.Post(func() { attached <- s.attach(m) }) {
		s.resetStart()
		m.Remove()
		return fmt.Errorf("viewsync: ui loop stopped: %w", context.Canceled)
	}

	select {
	case err := <-attached:
		if err != nil {
			return err
		}
		log.Info("Synchronizer ready")
		return nil
	case <-ctx.Done():
		s.mu.Lock()
		if s.state == StateReady {
			s.mu.Unlock()
			log.Info("Synchronizer ready")
			return nil
		}
		s.abandoned = true
		s.mu.Unlock()
		log.WithError(ctx.Err()).Warn("Start cancelled before map attached")
		return ctx.Err()
	}
}

// resetStart разрешает повторный Start после неудачной попытки
func (s *Synchronizer) resetStart() {
	s.mu.Lock()
	s.starting = false
	s.mu.Unlock()
}

func (s *Synchronizer) attach(m Map) error {
	s.mu.Lock()
	if s.state == StateDisposed {
		s.mu.Unlock()
		m.Remove()
		s.logger.WithField("component", "viewsync").Info("Map loaded after dispose, released")
		return ErrDisposed
	}
	if s.abandoned {
		s.abandoned = false
		s.starting = false
		s.mu.Unlock()
		m.Remove()
		s.logger.WithField("component", "viewsync").Info("Map loaded after Start was cancelled, released")
		return context.Canceled
	}
	s.m = m
	if s.opts.ThrottleInterval > 0 {
		s.throttle = newThrottle(s.opts.ThrottleInterval, s.sched, s.rebuildArcs)
	}
	s.unsubs = append(s.unsubs,
		m.On(mapview.TransformEvents, s.onTransform),
		s.store.Subscribe(store.TopicIncidents, s.onData),
	)
	s.state = StateReady
	s.mu.Unlock()

	s.rebuildAll()
	return nil
}

// State возвращает текущее состояние
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ready сообщает, готова ли карта
func (s *Synchronizer) Ready() bool {
	return s.State() == StateReady
}

// Map возвращает карту или nil, если синхронизатор не в состоянии Ready
func (s *Synchronizer) Map() Map {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return nil
	}
	return s.m
}

// Dispose снимает все подписки, останавливает ограничитель частоты и освобождает карту.
// Повторный вызов ничего не делает.
func (s *Synchronizer) Dispose() {
	s.mu.Lock()
	if s.state == StateDisposed {
		s.mu.Unlock()
		return
	}
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()

	for _, unsubscribe := range unsubs {
		unsubscribe()
	}

	s.mu.Lock()
	th := s.throttle
	s.throttle = nil
	m := s.m
	s.m = nil
	s.state = StateDisposed
	s.mu.Unlock()

	if th != nil {
		th.stop()
	}
	if m != nil {
		m.Remove()
	}
	s.logger.WithField("component", "viewsync").Info("Synchronizer disposed")
}

// current возвращает карту, если реакции еще разрешены
func (s *Synchronizer) current() Map {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return nil
	}
	return s.m
}

func (s *Synchronizer) onData() {
	if s.current() == nil {
		return
	}
	_, version := s.store.Snapshot()
	if s.rendered && version == s.renderedVersion {
		return
	}
	s.rebuildAll()
}

func (s *Synchronizer) onTransform(mapview.Event) {
	if s.current() == nil {
		return
	}
	s.mu.Lock()
	th := s.throttle
	s.mu.Unlock()
	if th != nil {
		th.trigger()
		return
	}
	s.rebuildArcs()
}

func (s *Synchronizer) rebuildAll() {
	m := s.current()
	if m == nil {
		return
	}
	incidents, version := s.store.Snapshot()

	if layer := m.Markers(); layer != nil {
		layer.ClearLayers()
		for _, marker := range s.builder.RebuildMarkers(incidents, s.store.Select) {
			layer.AddMarker(marker)
		}
	}
	s.drawArcs(m, incidents)

	s.rendered = true
	s.renderedVersion = version
	s.logger.WithFields(logrus.Fields{
		"component": "viewsync",
		"incidents": len(incidents),
		"version":   version,
	}).Debug("Layers rebuilt")
}

func (s *Synchronizer) rebuildArcs() {
	m := s.current()
	if m == nil {
		return
	}
	incidents, _ := s.store.Snapshot()
	s.drawArcs(m, incidents)
}

func (s *Synchronizer) drawArcs(m Map, incidents []*models.Incident) {
	arcs := s.builder.RebuildArcs(incidents, m.Projector())
	t := m.Transform()
	if err := m.Overlay().Draw(arcs, t.Width, t.Height); err != nil {
		s.logger.WithError(err).WithField("component", "viewsync").Error("Failed to draw arc overlay")
	}
}

// FromMapview приводит загрузчик mapview к Loader
func FromMapview(load func(ctx context.Context) (*mapview.Map, error)) Loader {
	return func(ctx context.Context) (Map, error) {
		m, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}
