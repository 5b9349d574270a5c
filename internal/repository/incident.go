package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/shenikar/warzone_monitor/internal/models"
	"github.com/shenikar/warzone_monitor/internal/service"
)

const incidentsCacheKey = "incidents:all"

const incidentColumns = `
	id::text,
	title,
	location,
	latitude,
	longitude,
	date,
	killed,
	wounded,
	notable_figures,
	description,
	source,
	source_url,
	attacker,
	origin_location,
	origin_latitude,
	origin_longitude`

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.IncidentRepository {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

// ListIncidents возвращает все инциденты, новые первыми
func (r *IncidentRepository) ListIncidents(ctx context.Context) ([]*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents ORDER BY date DESC, created_at DESC;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// GetByID возвращает инцидент по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id string) (*models.Incident, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrNotFound)
	}

	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1;`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, parsed))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// MergeIncidents добавляет инциденты, пропуская дубликаты по заголовку без учета регистра и пробелов.
// Возвращает число добавленных записей.
func (r *IncidentRepository) MergeIncidents(ctx context.Context, incidents []*models.Incident) (int, error) {
	if len(incidents) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO incidents (
			id, title, location, latitude, longitude, date, killed, wounded, notable_figures,
			description, source, source_url, attacker, origin_location, origin_latitude, origin_longitude
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT ((lower(btrim(title)))) DO NOTHING;
	`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin merge transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, inc := range incidents {
		id, err := uuid.Parse(inc.ID)
		if err != nil {
			id = uuid.New()
		}
		figures := inc.NotableFigures
		if figures == nil {
			figures = []string{}
		}
		batch.Queue(query,
			id,
			strings.TrimSpace(inc.Title),
			inc.Location,
			inc.Latitude,
			inc.Longitude,
			inc.Date,
			inc.Killed,
			inc.Wounded,
			figures,
			inc.Description,
			inc.Source,
			inc.SourceURL,
			inc.Attacker,
			inc.OriginLocation,
			inc.OriginLatitude,
			inc.OriginLongitude,
		)
	}

	results := tx.SendBatch(ctx, batch)
	added := 0
	for range incidents {
		cmdTag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, fmt.Errorf("failed to insert incident: %w", err)
		}
		added += int(cmdTag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to close merge batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit merge transaction: %w", err)
	}
	return added, nil
}

// GetStats возвращает агрегаты по всем инцидентам
func (r *IncidentRepository) GetStats(ctx context.Context) (*models.Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(killed), 0),
			COALESCE(SUM(wounded), 0),
			COUNT(DISTINCT source)
		FROM incidents;
	`
	stats := &models.Stats{}
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalIncidents,
		&stats.TotalKilled,
		&stats.TotalWounded,
		&stats.SourcesCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get incident stats: %w", err)
	}
	return stats, nil
}

// GetIncidentsFromCache пытается получить список инцидентов из Redis
func (r *IncidentRepository) GetIncidentsFromCache(ctx context.Context) ([]*models.Incident, error) {
	val, err := r.redisClient.Get(ctx, incidentsCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incidents from cache: %w", err)
	}

	var incidents []*models.Incident
	if err := json.Unmarshal(val, &incidents); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incidents from cache: %w", err)
	}
	return incidents, nil
}

// SetIncidentsCache сохраняет список инцидентов в Redis
func (r *IncidentRepository) SetIncidentsCache(ctx context.Context, incidents []*models.Incident) error {
	val, err := json.Marshal(incidents)
	if err != nil {
		return fmt.Errorf("failed to marshal incidents for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, incidentsCacheKey, val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incidents in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentsCache удаляет список инцидентов из Redis кэша
func (r *IncidentRepository) InvalidateIncidentsCache(ctx context.Context) error {
	if err := r.redisClient.Del(ctx, incidentsCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incidents cache: %w", err)
	}
	return nil
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	err := row.Scan(
		&incident.ID,
		&incident.Title,
		&incident.Location,
		&incident.Latitude,
		&incident.Longitude,
		&incident.Date,
		&incident.Killed,
		&incident.Wounded,
		&incident.NotableFigures,
		&incident.Description,
		&incident.Source,
		&incident.SourceURL,
		&incident.Attacker,
		&incident.OriginLocation,
		&incident.OriginLatitude,
		&incident.OriginLongitude,
	)
	if err != nil {
		return nil, err
	}
	return incident, nil
}
