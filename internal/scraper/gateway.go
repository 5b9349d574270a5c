// Package scraper собирает инциденты из новостных источников.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/shenikar/warzone_monitor/internal/models"
	"github.com/shenikar/warzone_monitor/internal/service"
)

// Gateway - реестр источников. Каждый источник можно включить или отключить во время работы.
type Gateway struct {
	sources []Source
	client  *http.Client
	logger  *logrus.Logger

	mu      sync.RWMutex
	enabled map[string]bool
}

// NewGateway создает шлюз; все источники включены
func NewGateway(client *http.Client, logger *logrus.Logger, sources ...Source) *Gateway {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	enabled := make(map[string]bool, len(sources))
	for _, s := range sources {
		enabled[s.ID()] = true
	}
	return &Gateway{
		sources: sources,
		client:  client,
		logger:  logger,
		enabled: enabled,
	}
}

// List возвращает описание источников и их состояние в порядке регистрации
func (g *Gateway) List() []*models.Integration {
	g.mu.RLock()
	defer g.mu.RUnlock()

	integrations := make([]*models.Integration, 0, len(g.sources))
	for _, s := range g.sources {
		integrations = append(integrations, g.integration(s))
	}
	return integrations
}

func (g *Gateway) integration(s Source) *models.Integration {
	return &models.Integration{
		ID:          s.ID(),
		Name:        s.Name(),
		Description: s.Description(),
		Enabled:     g.enabled[s.ID()],
	}
}

// SetEnabled включает или отключает источник
func (g *Gateway) SetEnabled(id string, enabled bool) (*models.Integration, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, s := range g.sources {
		if s.ID() != id {
			continue
		}
		g.enabled[id] = enabled
		g.logger.WithFields(logrus.Fields{
			"component": "scraper",
			"source":    id,
			"enabled":   enabled,
		}).Info("Source toggled")
		return g.integration(s), nil
	}
	return nil, fmt.Errorf("scraper: %w: %s", service.ErrUnknownIntegration, id)
}

func (g *Gateway) active() []Source {
	g.mu.RLock()
	defer g.mu.RUnlock()

	active := make([]Source, 0, len(g.sources))
	for _, s := range g.sources {
		if g.enabled[s.ID()] {
			active = append(active, s)
		}
	}
	return active
}

// ScrapeAll опрашивает включенные источники параллельно.
// Ошибки источников только логируются; результат очищен от дубликатов по заголовку.
func (g *Gateway) ScrapeAll(ctx context.Context) []*models.Incident {
	log := g.logger.WithFields(logrus.Fields{
		"component": "scraper",
		"method":    "ScrapeAll",
	})

	active := g.active()
	if len(active) == 0 {
		log.Warn("No sources enabled, nothing to scrape")
		return nil
	}

	results := make([][]*models.Incident, len(active))
	var group errgroup.Group
	for i, s := range active {
		group.Go(func() error {
			found, err := s.Scrape(ctx, g.client)
			if err != nil {
				log.WithError(err).WithField("source", s.ID()).Warn("Source failed")
				return nil
			}
			results[i] = found
			return nil
		})
	}
	_ = group.Wait()

	incidents := dedupe(results...)
	log.WithFields(logrus.Fields{
		"sources":   len(active),
		"incidents": len(incidents),
	}).Info("Scrape finished")
	return incidents
}

// ScrapeOne опрашивает один источник независимо от его состояния
func (g *Gateway) ScrapeOne(ctx context.Context, id string) ([]*models.Incident, error) {
	for _, s := range g.sources {
		if s.ID() == id {
			found, err := s.Scrape(ctx, g.client)
			if err != nil {
				return nil, fmt.Errorf("scraper: source %s failed: %w", id, err)
			}
			return dedupe(found), nil
		}
	}
	return nil, fmt.Errorf("scraper: %w: %s", service.ErrUnknownIntegration, id)
}

// dedupe оставляет первый инцидент с каждым заголовком без учета регистра и пробелов
func dedupe(groups ...[]*models.Incident) []*models.Incident {
	seen := make(map[string]bool)
	incidents := make([]*models.Incident, 0)
	for _, group := range groups {
		for _, inc := range group {
			if inc == nil {
				continue
			}
			key := strings.ToLower(strings.TrimSpace(inc.Title))
			if seen[key] {
				continue
			}
			seen[key] = true
			incidents = append(incidents, inc)
		}
	}
	return incidents
}
