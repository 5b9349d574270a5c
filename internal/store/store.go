// Package store - реактивное хранилище состояния клиента карты: список инцидентов,
// выбранный инцидент, флаги загрузки и ошибки, интеграции.
// Подписчики уведомляются через планировщик цикла отображения.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/warzone_monitor/internal/eventloop"
	"github.com/shenikar/warzone_monitor/internal/models"
)

// API определяет контракт внешнего API инцидентов
type API interface {
	ListIncidents(ctx context.Context) ([]*models.Incident, error)
	TriggerScrape(ctx context.Context) (*models.ScrapeResult, error)
	ListIntegrations(ctx context.Context) ([]*models.Integration, error)
	ToggleIntegration(ctx context.Context, id string, enabled bool) (*models.Integration, error)
}

// Topic - вид изменения состояния
type Topic int

const (
	TopicIncidents Topic = iota
	TopicSelection
	TopicStatus
	TopicIntegrations
)

// Totals - агрегаты для заголовка и строки статуса
type Totals struct {
	Incidents int `json:"incidents"`
	Killed    int `json:"killed"`
	Wounded   int `json:"wounded"`
}

// Store хранит состояние и уведомляет подписчиков об изменениях.
// Список инцидентов только заменяется целиком и никогда не изменяется на месте.
type Store struct {
	api    API
	sched  eventloop.Scheduler
	logger *logrus.Logger

	mu           sync.RWMutex
	incidents    []*models.Incident
	version      uint64
	selectedID   string
	loading      bool
	errMsg       string
	integrations []*models.Integration

	subsMu sync.Mutex
	subs   map[Topic]map[int]func()
	nextID int
}

// New создает хранилище
func New(api API, sched eventloop.Scheduler, logger *logrus.Logger) *Store {
	return &Store{
		api:    api,
		sched:  sched,
		logger: logger,
		subs:   make(map[Topic]map[int]func()),
	}
}

// Subscribe подписывает fn на изменения topic. Возвращает функцию отписки.
// После отписки fn не вызывается, даже если уведомление уже стоит в очереди.
func (s *Store) Subscribe(topic Topic, fn func()) (unsubscribe func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	s.nextID++
	id := s.nextID
	if s.subs[topic] == nil {
		s.subs[topic] = make(map[int]func())
	}
	s.subs[topic][id] = fn

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs[topic], id)
	}
}

// Subscribers - число подписчиков на topic
func (s *Store) Subscribers(topic Topic) int {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	return len(s.subs[topic])
}

func (s *Store) notify(topic Topic) {
	s.subsMu.Lock()
	ids := make([]int, 0, len(s.subs[topic]))
	for id := range s.subs[topic] {
		ids = append(ids, id)
	}
	s.subsMu.Unlock()

	for _, id := range ids {
		id := id
		s.sched.Post(func() {
			s.subsMu.Lock()
			fn, ok := s.subs[topic][id]
			s.subsMu.Unlock()
			if ok {
				fn()
			}
		})
	}
}

// Incidents возвращает текущий список инцидентов. Срез нельзя изменять.
func (s *Store) Incidents() []*models.Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.incidents
}

// Snapshot возвращает список вместе с номером версии; версия меняется при каждой замене списка
func (s *Store) Snapshot() ([]*models.Incident, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.incidents, s.version
}

// ReplaceIncidents заменяет список целиком
func (s *Store) ReplaceIncidents(incidents []*models.Incident) {
	s.mu.Lock()
	s.incidents = incidents
	s.version++
	s.mu.Unlock()
	s.notify(TopicIncidents)
}

// Select выбирает инцидент по id; пустая строка снимает выбор
func (s *Store) Select(id string) {
	s.mu.Lock()
	s.selectedID = id
	s.mu.Unlock()
	s.notify(TopicSelection)
}

// SelectedID возвращает id выбранного инцидента
func (s *Store) SelectedID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedID
}

// Selected возвращает выбранный инцидент или nil, если его нет в текущем списке
func (s *Store) Selected() *models.Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedID == "" {
		return nil
	}
	for _, inc := range s.incidents {
		if inc != nil && inc.ID == s.selectedID {
			return inc
		}
	}
	return nil
}

// Totals считает агрегаты по текущему списку
func (s *Store) Totals() Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := Totals{Incidents: len(s.incidents)}
	for _, inc := range s.incidents {
		if inc == nil {
			continue
		}
		t.Killed += inc.Killed
		t.Wounded += inc.Wounded
	}
	return t
}

// Loading сообщает, идет ли загрузка
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error возвращает сообщение о последней ошибке загрузки
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// Integrations возвращает текущий список интеграций
func (s *Store) Integrations() []*models.Integration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.integrations
}

// FetchIncidents загружает список инцидентов. При ошибке прежний список сохраняется.
func (s *Store) FetchIncidents(ctx context.Context) error {
	log := s.logger.WithFields(logrus.Fields{
		"component": "store",
		"method":    "FetchIncidents",
	})

	s.setStatus(true, s.Error())

	incidents, err := s.api.ListIncidents(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to fetch incidents")
		s.setStatus(false, "Failed to load incidents: "+err.Error())
		return fmt.Errorf("store: could not fetch incidents: %w", err)
	}

	s.ReplaceIncidents(incidents)
	s.setStatus(false, "")
	log.WithField("count", len(incidents)).Info("Incidents fetched")
	return nil
}

// TriggerScrape запрашивает сбор новостей и после успеха заново загружает инциденты
func (s *Store) TriggerScrape(ctx context.Context) (*models.ScrapeResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"component": "store",
		"method":    "TriggerScrape",
	})

	s.setStatus(true, s.Error())
	result, err := s.api.TriggerScrape(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to trigger scrape")
		s.setStatus(false, "Failed to trigger scrape: "+err.Error())
		return nil, fmt.Errorf("store: could not trigger scrape: %w", err)
	}
	if result == nil {
		result = &models.ScrapeResult{Status: "success"}
	}
	log.WithField("new_incidents", result.NewIncidents).Info("Scrape completed")

	if err := s.FetchIncidents(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// FetchIntegrations загружает интеграции. Ошибка только логируется.
func (s *Store) FetchIntegrations(ctx context.Context) {
	integrations, err := s.api.ListIntegrations(ctx)
	if err != nil {
		s.logger.WithError(err).WithField("component", "store").Warn("Failed to fetch integrations")
		return
	}

	s.mu.Lock()
	s.integrations = integrations
	s.mu.Unlock()
	s.notify(TopicIntegrations)
}

// ToggleIntegration включает или отключает интеграцию. Ошибка только логируется.
func (s *Store) ToggleIntegration(ctx context.Context, id string, enabled bool) {
	log := s.logger.WithFields(logrus.Fields{
		"component":      "store",
		"method":         "ToggleIntegration",
		"integration_id": id,
		"enabled":        enabled,
	})

	updated, err := s.api.ToggleIntegration(ctx, id, enabled)
	if err != nil {
		log.WithError(err).Warn("Failed to toggle integration")
		return
	}

	s.mu.Lock()
	next := make([]*models.Integration, 0, len(s.integrations))
	for _, it := range s.integrations {
		if it.ID != id {
			next = append(next, it)
			continue
		}
		if updated == nil {
			copied := *it
			copied.Enabled = enabled
			updated = &copied
		}
		next = append(next, updated)
	}
	s.integrations = next
	s.mu.Unlock()

	log.Info("Integration toggled")
	s.notify(TopicIntegrations)
}

func (s *Store) setStatus(loading bool, errMsg string) {
	s.mu.Lock()
	s.loading = loading
	s.errMsg = errMsg
	s.mu.Unlock()
	s.notify(TopicStatus)
}
