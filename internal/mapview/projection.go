package mapview

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/shenikar/warzone_monitor/internal/geometry"
)

const (
	// TileSize - размер тайла в пикселях на нулевом масштабе
	TileSize = 256
	// MaxLatitude - предел широты для Web Mercator
	MaxLatitude = 85.0511287798

	originShift = math.Pi * orb.EarthRadius
)

// Transform - текущее состояние вида карты
type Transform struct {
	CenterLat float64 `json:"center_lat"`
	CenterLng float64 `json:"center_lng"`
	Zoom      float64 `json:"zoom"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
}

// worldPixel переводит координаты в пиксели всей карты на масштабе zoom
func worldPixel(lat, lng, zoom float64) geometry.Point {
	lat = clampLat(lat)
	m := project.WGS84.ToMercator(orb.Point{lng, lat})
	scale := TileSize * math.Exp2(zoom)
	return geometry.Point{
		X: (m[0] + originShift) / (2 * originShift) * scale,
		Y: (originShift - m[1]) / (2 * originShift) * scale,
	}
}

// worldToLatLng - обратное преобразование worldPixel
func worldToLatLng(p geometry.Point, zoom float64) (lat, lng float64) {
	scale := TileSize * math.Exp2(zoom)
	m := orb.Point{
		p.X/scale*(2*originShift) - originShift,
		originShift - p.Y/scale*(2*originShift),
	}
	ll := project.Mercator.ToWGS84(m)
	return clampLat(ll[1]), wrapLng(ll[0])
}

// Project переводит координаты в пиксели контейнера для данного вида.
// Центр вида попадает в середину контейнера.
func (t Transform) Project(lat, lng float64) geometry.Point {
	center := worldPixel(t.CenterLat, t.CenterLng, t.Zoom)
	p := worldPixel(lat, lng, t.Zoom)
	return geometry.Point{
		X: p.X - center.X + float64(t.Width)/2,
		Y: p.Y - center.Y + float64(t.Height)/2,
	}
}

// Unproject переводит пиксель контейнера обратно в координаты
func (t Transform) Unproject(p geometry.Point) (lat, lng float64) {
	center := worldPixel(t.CenterLat, t.CenterLng, t.Zoom)
	world := geometry.Point{
		X: p.X + center.X - float64(t.Width)/2,
		Y: p.Y + center.Y - float64(t.Height)/2,
	}
	return worldToLatLng(world, t.Zoom)
}

func clampLat(lat float64) float64 {
	return math.Max(-MaxLatitude, math.Min(MaxLatitude, lat))
}

func wrapLng(lng float64) float64 {
	if lng >= -180 && lng <= 180 {
		return lng
	}
	return math.Mod(math.Mod(lng+180, 360)+360, 360) - 180
}
