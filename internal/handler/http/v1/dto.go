package v1

import "time"

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Location        string    `json:"location"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Date            time.Time `json:"date"`
	Killed          int       `json:"killed"`
	Wounded         int       `json:"wounded"`
	NotableFigures  []string  `json:"notable_figures"`
	Description     string    `json:"description"`
	Source          string    `json:"source"`
	SourceURL       string    `json:"source_url"`
	Attacker        string    `json:"attacker,omitempty"`
	OriginLocation  string    `json:"origin_location,omitempty"`
	OriginLatitude  *float64  `json:"origin_latitude"`
	OriginLongitude *float64  `json:"origin_longitude"`
}

// IntegrationResponse DTO источника новостей
// @Description DTO источника новостей
type IntegrationResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

// ToggleIntegrationRequest DTO для включения и отключения источника
// @Description DTO для включения и отключения источника
type ToggleIntegrationRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// StatsResponse DTO для ответа со статистикой
// @Description DTO для ответа со статистикой
type StatsResponse struct {
	TotalIncidents int        `json:"total_incidents"`
	TotalKilled    int        `json:"total_killed"`
	TotalWounded   int        `json:"total_wounded"`
	SourcesCount   int        `json:"sources_count"`
	LastUpdated    *time.Time `json:"last_updated,omitempty"`
}

// ScrapeResponse DTO с итогом сбора новостей
// @Description DTO с итогом сбора новостей
type ScrapeResponse struct {
	Status       string `json:"status"`
	NewIncidents int    `json:"new_incidents"`
	Message      string `json:"message"`
}

// ErrorResponse DTO ошибки
type ErrorResponse struct {
	Error string `json:"error"`
}
