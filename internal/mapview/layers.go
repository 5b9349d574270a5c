package mapview

import (
	"bytes"

	"github.com/shenikar/warzone_monitor/internal/scene"
)

// MarkerLayer хранит маркеры, привязанные к координатам.
// Положение маркеров пересчитывается картой само, поэтому при смене вида слой не перестраивается.
type MarkerLayer struct {
	markers []scene.Marker
	byID    map[string]int
}

func newMarkerLayer() *MarkerLayer {
	return &MarkerLayer{byID: make(map[string]int)}
}

// ClearLayers удаляет все маркеры
func (l *MarkerLayer) ClearLayers() {
	l.markers = nil
	l.byID = make(map[string]int)
}

// AddMarker добавляет маркер на слой
func (l *MarkerLayer) AddMarker(m scene.Marker) {
	l.byID[m.IncidentID] = len(l.markers)
	l.markers = append(l.markers, m)
}

// Markers возвращает текущие маркеры
func (l *MarkerLayer) Markers() []scene.Marker {
	return l.markers
}

// Len - количество маркеров на слое
func (l *MarkerLayer) Len() int {
	return len(l.markers)
}

// Click имитирует клик по маркеру инцидента. Возвращает false, если маркера нет.
func (l *MarkerLayer) Click(incidentID string) bool {
	i, ok := l.byID[incidentID]
	if !ok || l.markers[i].OnClick == nil {
		return false
	}
	l.markers[i].OnClick()
	return true
}

// OverlayLayer - векторный слой поверх карты, в котором рисуются дуги
type OverlayLayer struct {
	scene  *scene.ArcScene
	width  int
	height int
	draws  int
	sink   func(svg []byte)
}

func newOverlayLayer(sink func(svg []byte)) *OverlayLayer {
	return &OverlayLayer{sink: sink}
}

// Clear выбрасывает текущую сцену вместе с ее ресурсами
func (l *OverlayLayer) Clear() {
	l.scene = nil
}

// Draw рисует сцену размером width x height
func (l *OverlayLayer) Draw(s *scene.ArcScene, width, height int) error {
	l.scene = s
	l.width = width
	l.height = height
	l.draws++
	if l.sink == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := scene.EncodeSVG(&buf, s, width, height); err != nil {
		return err
	}
	l.sink(buf.Bytes())
	return nil
}

// Scene возвращает нарисованную сцену или nil
func (l *OverlayLayer) Scene() *scene.ArcScene {
	return l.scene
}

// Draws - сколько раз слой перерисовывался
func (l *OverlayLayer) Draws() int {
	return l.draws
}
