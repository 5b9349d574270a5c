package scene

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shenikar/warzone_monitor/internal/geometry"
	"github.com/shenikar/warzone_monitor/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder() *Builder {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return NewBuilder(logger, 60)
}

// linearProjector - простой проектор для тестов: 10 пикселей на градус, Y вниз
func linearProjector(lat, lng float64) geometry.Point {
	return geometry.Point{X: lng * 10, Y: -lat * 10}
}

func scenarioIncidents() []*models.Incident {
	return []*models.Incident{
		{
			ID:              "with-origin",
			Title:           "Strike on Baghdad",
			Latitude:        32.0,
			Longitude:       44.0,
			Killed:          50,
			Attacker:        "Iran",
			OriginLatitude:  models.Float(35.0),
			OriginLongitude: models.Float(45.0),
		},
		{
			ID:        "no-origin",
			Title:     "Explosion",
			Latitude:  30.0,
			Longitude: 50.0,
			Killed:    5,
		},
	}
}

func TestRebuild_Scenario(t *testing.T) {
	b := newTestBuilder()
	incidents := scenarioIncidents()

	markers := b.RebuildMarkers(incidents, nil)
	arcs := b.RebuildArcs(incidents, linearProjector)

	require.Len(t, markers, 2)
	assert.Equal(t, TierLarge, markers[0].Tier)
	assert.Equal(t, TierStandard, markers[1].Tier)

	require.Len(t, arcs.Arcs, 1)
	arc := arcs.Arcs[0]
	assert.Equal(t, "with-origin", arc.IncidentID)
	assert.Equal(t, geometry.Point{X: 450, Y: -350}, arc.Origin)
	assert.Equal(t, geometry.Point{X: 440, Y: -320}, arc.Target)
	assert.True(t, strings.HasPrefix(arc.Path, "M 450.00 -350.00"))
}

func TestRebuildArcs_LayerOrder(t *testing.T) {
	scene := newTestBuilder().RebuildArcs(scenarioIncidents(), linearProjector)
	require.Len(t, scene.Arcs, 1)

	arc := scene.Arcs[0]
	require.Len(t, arc.Strokes, 3)
	assert.Equal(t, StrokeGlow, arc.Strokes[0].Kind)
	assert.Equal(t, StrokePrimary, arc.Strokes[1].Kind)
	assert.Equal(t, StrokeCore, arc.Strokes[2].Kind)

	assert.Greater(t, arc.Strokes[0].Width, arc.Strokes[1].Width)
	assert.Less(t, arc.Strokes[0].Opacity, 0.5)
	assert.Equal(t, "url(#arc-gradient-0)", arc.Strokes[1].Color)
	assert.Equal(t, arc.Strokes[1].DashCycle, arc.Strokes[2].DashCycle)
	assert.Equal(t, arc.Origin, arc.Pulse.At)
	assert.Positive(t, arc.Projectile.Duration)
}

func TestRebuildArcs_AttackerGradient(t *testing.T) {
	b := newTestBuilder()
	incidents := scenarioIncidents()
	incidents[0].Attacker = "somebody unknown"

	scene := b.RebuildArcs(incidents, linearProjector)
	require.Len(t, scene.Defs.Gradients, 1)
	assert.Equal(t, defaultAttackerColor, scene.Defs.Gradients[0].StartColor)

	incidents[0].Attacker = " ISRAEL "
	scene = b.RebuildArcs(incidents, linearProjector)
	assert.Equal(t, attackerColors["israel"], scene.Defs.Gradients[0].StartColor)
}

func TestRebuildArcs_UniqueResourcesAndStagger(t *testing.T) {
	incidents := make([]*models.Incident, 0, 6)
	for i := 0; i < 6; i++ {
		incidents = append(incidents, &models.Incident{
			ID:              string(rune('a' + i)),
			Latitude:        30,
			Longitude:       40 + float64(i),
			OriginLatitude:  models.Float(35),
			OriginLongitude: models.Float(50 + float64(i)),
		})
	}

	scene := newTestBuilder().RebuildArcs(incidents, linearProjector)
	require.Len(t, scene.Arcs, 6)
	require.Len(t, scene.Defs.Gradients, 6)
	require.Len(t, scene.Defs.Filters, 1)

	seen := make(map[string]bool)
	for i, g := range scene.Defs.Gradients {
		assert.False(t, seen[g.ID], "duplicate gradient id %s", g.ID)
		seen[g.ID] = true
		assert.Equal(t, i, scene.Arcs[i].Index)
	}

	assert.NotEqual(t, scene.Arcs[0].Strokes[1].DashCycle, scene.Arcs[1].Strokes[1].DashCycle)
	assert.NotEqual(t, scene.Arcs[0].Projectile.Duration, scene.Arcs[1].Projectile.Duration)
}

func TestRebuildArcs_SkipsDegenerate(t *testing.T) {
	incidents := []*models.Incident{
		{
			ID:              "same-point",
			Latitude:        33,
			Longitude:       44,
			OriginLatitude:  models.Float(33),
			OriginLongitude: models.Float(44),
		},
	}

	scene := newTestBuilder().RebuildArcs(incidents, linearProjector)
	assert.Empty(t, scene.Arcs)
	assert.Empty(t, scene.Defs.Gradients)
}

func TestRebuildArcs_IsolatesMalformedIncident(t *testing.T) {
	incidents := []*models.Incident{
		nil,
		{ID: "nan", Latitude: math.NaN(), Longitude: 10, OriginLatitude: models.Float(1), OriginLongitude: models.Float(2)},
		{ID: "panic", Latitude: 66.6, Longitude: 10, OriginLatitude: models.Float(1), OriginLongitude: models.Float(2)},
		scenarioIncidents()[0],
	}

	project := func(lat, lng float64) geometry.Point {
		if lat == 66.6 {
			panic("projection failed")
		}
		return linearProjector(lat, lng)
	}

	scene := newTestBuilder().RebuildArcs(incidents, project)
	require.Len(t, scene.Arcs, 1)
	assert.Equal(t, "with-origin", scene.Arcs[0].IncidentID)
	assert.Equal(t, 0, scene.Arcs[0].Index)
}

func TestRebuildArcs_UsesProjectorEveryCall(t *testing.T) {
	b := newTestBuilder()
	incidents := scenarioIncidents()

	first := b.RebuildArcs(incidents, linearProjector)
	shifted := b.RebuildArcs(incidents, func(lat, lng float64) geometry.Point {
		p := linearProjector(lat, lng)
		return geometry.Point{X: p.X + 100, Y: p.Y}
	})

	require.Len(t, shifted.Arcs, 1)
	assert.Equal(t, first.Arcs[0].Origin.X+100, shifted.Arcs[0].Origin.X)
	assert.NotEqual(t, first.Arcs[0].Path, shifted.Arcs[0].Path)
}

func TestRebuild_Idempotent(t *testing.T) {
	b := newTestBuilder()
	incidents := scenarioIncidents()

	arcs1 := b.RebuildArcs(incidents, linearProjector)
	arcs2 := b.RebuildArcs(incidents, linearProjector)
	markers1 := b.RebuildMarkers(incidents, nil)
	markers2 := b.RebuildMarkers(incidents, nil)

	assert.Equal(t, arcs1, arcs2)
	require.Equal(t, len(markers1), len(markers2))
	for i := range markers1 {
		assert.Equal(t, markers1[i].IncidentID, markers2[i].IncidentID)
		assert.Equal(t, markers1[i].Tier, markers2[i].Tier)
		assert.Equal(t, markers1[i].Popup, markers2[i].Popup)
	}
}

func TestTierFor_Boundary(t *testing.T) {
	assert.Equal(t, TierStandard, TierFor(0))
	assert.Equal(t, TierStandard, TierFor(29))
	assert.Equal(t, TierLarge, TierFor(30))
	assert.Equal(t, TierLarge, TierFor(1000))
}

func TestRebuildMarkers_EscapesText(t *testing.T) {
	incidents := []*models.Incident{
		{
			ID:             "x",
			Title:          `<script>alert("x")</script>`,
			Location:       "Tehran & <b>suburbs</b>",
			Latitude:       35.6,
			Longitude:      51.3,
			Description:    `<img src=x onerror="steal()">`,
			NotableFigures: []string{"<i>General</i>"},
			Source:         "Feed",
			SourceURL:      "javascript:alert(1)",
			Date:           time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC),
		},
	}

	markers := newTestBuilder().RebuildMarkers(incidents, nil)
	require.Len(t, markers, 1)
	popup := markers[0].Popup

	assert.NotContains(t, popup, "<script>")
	assert.NotContains(t, popup, "<img")
	assert.NotContains(t, popup, "<b>suburbs")
	assert.NotContains(t, popup, "<i>General")
	assert.NotContains(t, popup, "javascript:")
	assert.Contains(t, popup, "&lt;script&gt;")
	assert.Contains(t, popup, "Tehran &amp;")
	assert.Contains(t, popup, "2025-06-13")
}

func TestRebuildMarkers_ClickSelects(t *testing.T) {
	var selected []string
	markers := newTestBuilder().RebuildMarkers(scenarioIncidents(), func(id string) {
		selected = append(selected, id)
	})
	require.Len(t, markers, 2)

	markers[1].OnClick()
	markers[0].OnClick()

	assert.Equal(t, []string{"no-origin", "with-origin"}, selected)
}

func TestRebuildMarkers_SkipsInvalidTarget(t *testing.T) {
	incidents := append(scenarioIncidents(), &models.Incident{ID: "bad", Latitude: math.Inf(1)})

	markers := newTestBuilder().RebuildMarkers(incidents, nil)
	assert.Len(t, markers, 2)
}

func TestEncodeSVG(t *testing.T) {
	scene := newTestBuilder().RebuildArcs(scenarioIncidents(), linearProjector)

	var buf bytes.Buffer
	require.NoError(t, EncodeSVG(&buf, scene, 800, 600))
	svg := buf.String()

	assert.True(t, strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`))
	assert.Contains(t, svg, `id="arc-gradient-0"`)
	assert.Contains(t, svg, `id="arc-glow"`)
	assert.Contains(t, svg, `class="arc-glow"`)
	assert.Contains(t, svg, `class="arc-primary"`)
	assert.Contains(t, svg, `class="arc-core"`)
	assert.Contains(t, svg, `<animateMotion dur="2.5s"`)
	assert.Contains(t, svg, `data-incident="with-origin"`)
	assert.Equal(t, 1, strings.Count(svg, `<g class="arc"`))

	// Порядок слоев внутри дуги
	assert.Less(t, strings.Index(svg, "arc-glow\""), strings.Index(svg, "arc-primary"))
	assert.Less(t, strings.Index(svg, "arc-primary"), strings.Index(svg, "arc-core"))
	assert.Less(t, strings.Index(svg, "arc-core"), strings.Index(svg, "arc-projectile"))
	assert.Less(t, strings.Index(svg, "arc-projectile"), strings.Index(svg, "arc-origin"))
}

func TestEncodeSVG_EmptyScene(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeSVG(&buf, nil, 10, 10))
	assert.Contains(t, buf.String(), "<defs>\n</defs>")
	assert.NotContains(t, buf.String(), "<g ")
}
