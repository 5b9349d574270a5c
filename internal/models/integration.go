package models

import "time"

// Integration - источник новостей, который можно включать и отключать
type Integration struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

// Stats - агрегированная статистика по инцидентам
type Stats struct {
	TotalIncidents int        `json:"total_incidents"`
	TotalKilled    int        `json:"total_killed"`
	TotalWounded   int        `json:"total_wounded"`
	SourcesCount   int        `json:"sources_count"`
	LastUpdated    *time.Time `json:"last_updated,omitempty"`
}

// ScrapeResult - итог запуска сбора новостей
type ScrapeResult struct {
	Status       string `json:"status"`
	NewIncidents int    `json:"new_incidents"`
	Message      string `json:"message"`
}
