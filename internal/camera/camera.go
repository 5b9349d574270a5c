// Package camera переносит вид карты к выбранному инциденту.
package camera

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/warzone_monitor/internal/models"
	"github.com/shenikar/warzone_monitor/internal/store"
	"github.com/shenikar/warzone_monitor/internal/viewsync"
)

const (
	DefaultSelectZoom  = 7
	DefaultFlyDuration = 1500 * time.Millisecond
)

// Selection определяет контракт источника выбора
type Selection interface {
	Subscribe(topic store.Topic, fn func()) (unsubscribe func())
	Selected() *models.Incident
}

// MapSource возвращает готовую карту или nil
type MapSource interface {
	Map() viewsync.Map
}

// Options - параметры перелета
type Options struct {
	SelectZoom  float64
	FlyDuration time.Duration
}

// Controller следит за выбором и переносит вид карты
type Controller struct {
	selection   Selection
	maps        MapSource
	logger      *logrus.Logger
	opts        Options
	unsubscribe func()
}

// New создает контроллер и подписывает его на изменения выбора
func New(selection Selection, maps MapSource, logger *logrus.Logger, opts Options) *Controller {
	if opts.SelectZoom <= 0 {
		opts.SelectZoom = DefaultSelectZoom
	}
	if opts.FlyDuration == 0 {
		opts.FlyDuration = DefaultFlyDuration
	}
	c := &Controller{
		selection: selection,
		maps:      maps,
		logger:    logger,
		opts:      opts,
	}
	c.unsubscribe = selection.Subscribe(store.TopicSelection, c.onSelection)
	return c
}

func (c *Controller) onSelection() {
	inc := c.selection.Selected()
	if inc == nil || !inc.HasValidTarget() {
		return
	}
	m := c.maps.Map()
	if m == nil {
		return
	}

	c.logger.WithFields(logrus.Fields{
		"component":   "camera",
		"incident_id": inc.ID,
		"zoom":        c.opts.SelectZoom,
	}).Debug("Flying to selected incident")
	m.FlyTo(inc.Latitude, inc.Longitude, c.opts.SelectZoom, c.opts.FlyDuration)
}

// Close отписывает контроллер
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}
