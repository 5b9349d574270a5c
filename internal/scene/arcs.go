package scene

import (
	"fmt"
	"math"
	"time"

	"github.com/shenikar/warzone_monitor/internal/geometry"
	"github.com/shenikar/warzone_monitor/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	glowWidth    = 8
	glowOpacity  = 0.18
	primaryWidth = 2.5
	coreWidth    = 0.8
	dashPattern  = "6 10"

	baseDashCycle       = 1500 * time.Millisecond
	dashCycleStep       = 250 * time.Millisecond
	baseProjectileCycle = 2500 * time.Millisecond
	projectileCycleStep = 400 * time.Millisecond
	pulseCycle          = 1800 * time.Millisecond
)

// Builder собирает сцену. Не хранит состояния между вызовами.
type Builder struct {
	logger  *logrus.Logger
	samples int
}

// NewBuilder создает сборщик сцены; samples задает число отрезков дуги
func NewBuilder(logger *logrus.Logger, samples int) *Builder {
	if samples < 1 {
		samples = geometry.DefaultSamples
	}
	return &Builder{
		logger:  logger,
		samples: samples,
	}
}

// RebuildArcs строит слой дуг для инцидентов с известной точкой запуска.
// Проектор вызывается заново для каждой точки, кешировать проекции нельзя.
func (b *Builder) RebuildArcs(incidents []*models.Incident, project Projector) *ArcScene {
	res := newArena(len(incidents))
	arcs := make([]Arc, 0, len(incidents))

	for _, inc := range incidents {
		arc, ok := b.buildArc(inc, project, len(arcs), res)
		if !ok {
			continue
		}
		arcs = append(arcs, arc)
	}

	return &ArcScene{
		Defs: res.defs(),
		Arcs: arcs,
	}
}

func (b *Builder) buildArc(inc *models.Incident, project Projector, index int, res *arena) (arc Arc, ok bool) {
	if inc == nil {
		return Arc{}, false
	}
	originLat, originLng, hasOrigin := inc.Origin()
	if !hasOrigin {
		return Arc{}, false
	}

	log := b.logger.WithFields(logrus.Fields{
		"component":   "scene",
		"method":      "RebuildArcs",
		"incident_id": inc.ID,
	})
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Warn("Skipping arc for malformed incident")
			arc, ok = Arc{}, false
		}
	}()

	origin := project(originLat, originLng)
	target := project(inc.Latitude, inc.Longitude)
	if !finite(origin) || !finite(target) {
		log.Debug("Skipping arc with non-finite projection")
		return Arc{}, false
	}

	points := geometry.ComputeCurvePoints(origin, target, b.samples)
	if geometry.IsDegenerate(points) {
		return Arc{}, false
	}
	path := geometry.BuildPathString(points)
	if path == "" {
		return Arc{}, false
	}

	color := AttackerColor(inc.Attacker)
	gradientID := res.gradient(index, origin, target, color, impactColor)
	dashCycle := DashCycle(index)

	return Arc{
		Index:      index,
		IncidentID: inc.ID,
		Attacker:   inc.Attacker,
		Origin:     origin,
		Target:     target,
		Path:       path,
		Strokes: []Stroke{
			{
				Kind:    StrokeGlow,
				Color:   color,
				Width:   glowWidth,
				Opacity: glowOpacity,
				Filter:  res.glow(),
			},
			{
				Kind:      StrokePrimary,
				Color:     fmt.Sprintf("url(#%s)", gradientID),
				Width:     primaryWidth,
				Opacity:   0.9,
				DashArray: dashPattern,
				DashCycle: dashCycle,
			},
			{
				Kind:      StrokeCore,
				Color:     coreColor,
				Width:     coreWidth,
				Opacity:   0.85,
				DashArray: dashPattern,
				DashCycle: dashCycle,
			},
		},
		Projectile: Projectile{
			Radius:   3,
			Color:    coreColor,
			Duration: ProjectileCycle(index),
		},
		Pulse: OriginPulse{
			At:       origin,
			Radius:   4,
			Color:    color,
			Duration: pulseCycle,
		},
	}, true
}

// DashCycle - длительность цикла штриховки; смещается по индексу, чтобы дуги не мигали синхронно
func DashCycle(index int) time.Duration {
	return baseDashCycle + time.Duration(index%5)*dashCycleStep
}

// ProjectileCycle - длительность полета маркера боеприпаса для дуги с индексом index
func ProjectileCycle(index int) time.Duration {
	return baseProjectileCycle + time.Duration(index%4)*projectileCycleStep
}

func finite(p geometry.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
