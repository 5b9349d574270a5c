package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/warzone_monitor/internal/models"
)

var (
	// ErrNotFound - запись не найдена
	ErrNotFound = errors.New("not found")
	// ErrUnknownIntegration - источник новостей с таким id не зарегистрирован
	ErrUnknownIntegration = errors.New("unknown integration")
)

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	ListIncidents(ctx context.Context) ([]*models.Incident, error)
	GetByID(ctx context.Context, id string) (*models.Incident, error)
	MergeIncidents(ctx context.Context, incidents []*models.Incident) (int, error)
	GetStats(ctx context.Context) (*models.Stats, error)
	GetIncidentsFromCache(ctx context.Context) ([]*models.Incident, error)
	SetIncidentsCache(ctx context.Context, incidents []*models.Incident) error
	InvalidateIncidentsCache(ctx context.Context) error
}

// Scraper определяет контракт шлюза источников новостей
type Scraper interface {
	ScrapeAll(ctx context.Context) []*models.Incident
	List() []*models.Integration
	SetEnabled(id string, enabled bool) (*models.Integration, error)
}

// IncidentService определяет контракт бизнес-логики инцидентов
type IncidentService interface {
	ListIncidents(ctx context.Context) ([]*models.Incident, error)
	GetIncident(ctx context.Context, id string) (*models.Incident, error)
	GetStats(ctx context.Context) (*models.Stats, error)
	Scrape(ctx context.Context) (*models.ScrapeResult, error)
	ListIntegrations(ctx context.Context) []*models.Integration
	SetIntegrationEnabled(ctx context.Context, id string, enabled bool) (*models.Integration, error)
}

type incidentService struct {
	repo     IncidentRepository
	scraper  Scraper
	logger   *logrus.Logger
	validate *validator.Validate
	now      func() time.Time

	mu          sync.RWMutex
	lastUpdated time.Time
}

func NewIncidentService(repo IncidentRepository, scraper Scraper, logger *logrus.Logger) IncidentService {
	return &incidentService{
		repo:        repo,
		scraper:     scraper,
		logger:      logger,
		validate:    validator.New(),
		now:         time.Now,
		lastUpdated: time.Now().UTC(),
	}
}

// ListIncidents возвращает все инциденты, новые первыми. Сначала проверяется кэш.
func (s *incidentService) ListIncidents(ctx context.Context) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListIncidents",
	})

	cached, err := s.repo.GetIncidentsFromCache(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to read incidents from cache")
	}
	if cached != nil {
		log.WithField("count", len(cached)).Debug("Incidents served from cache")
		return cached, nil
	}

	incidents, err := s.repo.ListIncidents(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	if err := s.repo.SetIncidentsCache(ctx, incidents); err != nil {
		log.WithError(err).Warn("Failed to cache incidents")
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return incidents, nil
}

// GetIncident получает инцидент по ID
func (s *incidentService) GetIncident(ctx context.Context, id string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("Incident not found")
		} else {
			log.WithError(err).Error("Failed to get incident in repository")
		}
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}
	return incident, nil
}

// GetStats возвращает агрегированную статистику
func (s *incidentService) GetStats(ctx context.Context) (*models.Stats, error) {
	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		s.logger.WithError(err).WithField("service", "incident").Error("Failed to get stats from repository")
		return nil, fmt.Errorf("service: could not get stats: %w", err)
	}

	s.mu.RLock()
	lastUpdated := s.lastUpdated
	s.mu.RUnlock()
	stats.LastUpdated = &lastUpdated
	return stats, nil
}

// Scrape опрашивает включенные источники и добавляет новые инциденты
func (s *incidentService) Scrape(ctx context.Context) (*models.ScrapeResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "Scrape",
	})
	log.Info("Starting scrape")

	scraped := s.scraper.ScrapeAll(ctx)
	valid := make([]*models.Incident, 0, len(scraped))
	for _, inc := range scraped {
		if err := s.checkIncident(inc); err != nil {
			log.WithError(err).WithField("title", inc.Title).Warn("Skipping invalid incident")
			continue
		}
		valid = append(valid, inc)
	}

	added, err := s.repo.MergeIncidents(ctx, valid)
	if err != nil {
		log.WithError(err).Error("Failed to merge incidents")
		return nil, fmt.Errorf("service: could not merge incidents: %w", err)
	}

	if added > 0 {
		if err := s.repo.InvalidateIncidentsCache(ctx); err != nil {
			log.WithError(err).Warn("Failed to invalidate incidents cache")
		}
	}

	s.mu.Lock()
	s.lastUpdated = s.now().UTC()
	s.mu.Unlock()

	log.WithFields(logrus.Fields{
		"scraped": len(scraped),
		"added":   added,
	}).Info("Scrape completed")

	return &models.ScrapeResult{
		Status:       "success",
		NewIncidents: added,
		Message:      fmt.Sprintf("Scrape completed. %d new incidents added.", added),
	}, nil
}

// checkIncident проверяет инцидент перед сохранением и выдает ему id при необходимости
func (s *incidentService) checkIncident(inc *models.Incident) error {
	if inc == nil {
		return errors.New("nil incident")
	}
	if strings.TrimSpace(inc.Title) == "" {
		return errors.New("empty title")
	}
	if inc.HasHalfOrigin() {
		return errors.New("origin coordinates must be set together")
	}
	if err := s.validate.Struct(inc); err != nil {
		return err
	}
	if _, err := uuid.Parse(inc.ID); err != nil {
		inc.ID = uuid.NewString()
	}
	if inc.Date.IsZero() {
		inc.Date = s.now().UTC()
	}
	return nil
}

// ListIntegrations возвращает зарегистрированные источники
func (s *incidentService) ListIntegrations(ctx context.Context) []*models.Integration {
	return s.scraper.List()
}

// SetIntegrationEnabled включает или отключает источник
func (s *incidentService) SetIntegrationEnabled(ctx context.Context, id string, enabled bool) (*models.Integration, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":        "incident",
		"method":         "SetIntegrationEnabled",
		"integration_id": id,
		"enabled":        enabled,
	})

	integration, err := s.scraper.SetEnabled(id, enabled)
	if err != nil {
		log.WithError(err).Warn("Failed to toggle integration")
		return nil, fmt.Errorf("service: could not toggle integration: %w", err)
	}

	log.Info("Integration toggled")
	return integration, nil
}
