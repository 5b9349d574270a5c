package models

import (
	"encoding/json"
	"math"
	"time"
)

// SevereKilledThreshold - порог погибших, начиная с которого инцидент считается крупным
const SevereKilledThreshold = 30

// Incident - зафиксированный удар: цель, потери и, если известно, точка запуска
type Incident struct {
	ID              string    `json:"id"`
	Title           string    `json:"title" validate:"required"`
	Location        string    `json:"location"`
	Latitude        float64   `json:"latitude" validate:"latitude"`
	Longitude       float64   `json:"longitude" validate:"longitude"`
	Date            time.Time `json:"date"`
	Killed          int       `json:"killed" validate:"gte=0"`
	Wounded         int       `json:"wounded" validate:"gte=0"`
	NotableFigures  []string  `json:"notable_figures"`
	Description     string    `json:"description"`
	Source          string    `json:"source"`
	SourceURL       string    `json:"source_url"`
	Attacker        string    `json:"attacker"`
	OriginLocation  string    `json:"origin_location"`
	OriginLatitude  *float64  `json:"origin_latitude" validate:"omitempty,latitude"`
	OriginLongitude *float64  `json:"origin_longitude" validate:"omitempty,longitude"`
}

// HasOrigin сообщает, известна ли точка запуска
func (i *Incident) HasOrigin() bool {
	return i.OriginLatitude != nil && i.OriginLongitude != nil
}

// HasHalfOrigin - задана только одна из координат точки запуска, такая запись некорректна
func (i *Incident) HasHalfOrigin() bool {
	return (i.OriginLatitude == nil) != (i.OriginLongitude == nil)
}

// Origin возвращает координаты точки запуска
func (i *Incident) Origin() (lat, lng float64, ok bool) {
	if !i.HasOrigin() {
		return 0, 0, false
	}
	return *i.OriginLatitude, *i.OriginLongitude, true
}

// IsSevere - инцидент с большим числом погибших
func (i *Incident) IsSevere() bool {
	return i.Killed >= SevereKilledThreshold
}

// HasValidTarget проверяет, что координаты цели конечны и в допустимых пределах
func (i *Incident) HasValidTarget() bool {
	return validCoord(i.Latitude, 90) && validCoord(i.Longitude, 180)
}

func validCoord(v, limit float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -limit && v <= limit
}

// UnmarshalJSON нормализует пару координат точки запуска: половинчатая пара отбрасывается
func (i *Incident) UnmarshalJSON(data []byte) error {
	type alias Incident
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*i = Incident(raw)
	if i.HasHalfOrigin() {
		i.OriginLatitude = nil
		i.OriginLongitude = nil
	}
	return nil
}

// Float возвращает указатель на значение, удобно для необязательных координат
func Float(v float64) *float64 {
	return &v
}
