package camera

import (
	"bytes"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenikar/warzone_monitor/internal/eventloop"
	"github.com/shenikar/warzone_monitor/internal/geometry"
	"github.com/shenikar/warzone_monitor/internal/mapview"
	"github.com/shenikar/warzone_monitor/internal/models"
	"github.com/shenikar/warzone_monitor/internal/store"
	"github.com/shenikar/warzone_monitor/internal/viewsync"
)

type flight struct {
	lat, lng, zoom float64
	duration       time.Duration
}

// fakeMap записывает вызовы FlyTo
type fakeMap struct {
	flights []flight
}

func (f *fakeMap) Projector() func(lat, lng float64) geometry.Point { return nil }
func (f *fakeMap) On([]mapview.Event, func(mapview.Event)) func() { return func() {} }
func (f *fakeMap) Markers() *mapview.MarkerLayer                  { return nil }
func (f *fakeMap) Overlay() *mapview.OverlayLayer                 { return nil }
func (f *fakeMap) Transform() mapview.Transform                   { return mapview.Transform{} }
func (f *fakeMap) Remove()                                        {}
func (f *fakeMap) FlyTo(lat, lng, zoom float64, d time.Duration) {
	f.flights = append(f.flights, flight{lat: lat, lng: lng, zoom: zoom, duration: d})
}

// mapSource возвращает карту только когда ready
type mapSource struct {
	m     *fakeMap
	ready bool
}

func (s *mapSource) Map() viewsync.Map {
	if !s.ready {
		return nil
	}
	return s.m
}

func newTestController(t *testing.T, opts Options) (*Controller, *store.Store, *mapSource) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	st := store.New(nil, eventloop.Immediate{}, logger)
	st.ReplaceIncidents([]*models.Incident{
		{ID: "a", Latitude: 32.5, Longitude: 44.4},
		{ID: "b", Latitude: 35.7, Longitude: 51.4},
	})
	source := &mapSource{m: &fakeMap{}, ready: true}
	return New(st, source, logger, opts), st, source
}

func TestSelection_FliesToIncident(t *testing.T) {
	// Подготовка
	_, st, source := newTestController(t, Options{})

	// Действие
	st.Select("b")

	// Проверки
	require.Len(t, source.m.flights, 1)
	assert.Equal(t, flight{lat: 35.7, lng: 51.4, zoom: DefaultSelectZoom, duration: DefaultFlyDuration}, source.m.flights[0])
}

func TestSelection_CustomOptions(t *testing.T) {
	_, st, source := newTestController(t, Options{SelectZoom: 9, FlyDuration: -1})

	st.Select("a")

	require.Len(t, source.m.flights, 1)
	assert.Equal(t, 9.0, source.m.flights[0].zoom)
	assert.Equal(t, time.Duration(-1), source.m.flights[0].duration)
}

func TestSelection_NoOpCases(t *testing.T) {
	_, st, source := newTestController(t, Options{})

	st.Select("missing")
	st.Select("")
	source.ready = false
	st.Select("a")

	assert.Empty(t, source.m.flights)
}

func TestClose_Unsubscribes(t *testing.T) {
	c, st, source := newTestController(t, Options{})
	require.Equal(t, 1, st.Subscribers(store.TopicSelection))

	c.Close()
	c.Close()
	st.Select("a")

	assert.Zero(t, st.Subscribers(store.TopicSelection))
	assert.Empty(t, source.m.flights)
}
