package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shenikar/warzone_monitor/internal/models"
	"github.com/shenikar/warzone_monitor/internal/service/mocks"
)

// newTestIncidentService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestIncidentService(t *testing.T) (*incidentService, *mocks.MockIncidentRepository, *mocks.MockScraper) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	scraperMock := mocks.NewMockScraper(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	service := NewIncidentService(repoMock, scraperMock, logger)
	return service.(*incidentService), repoMock, scraperMock
}

func TestListIncidents_Success_FromCache(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	expected := []*models.Incident{{ID: uuid.NewString(), Title: "Инцидент из кеша"}}

	// Ожидания
	repoMock.EXPECT().GetIncidentsFromCache(ctx).Return(expected, nil).Times(1)
	repoMock.EXPECT().ListIncidents(gomock.Any()).Times(0)

	// Действие
	incidents, err := service.ListIncidents(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, incidents)
}

func TestListIncidents_Success_FromDB(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	expected := []*models.Incident{{ID: uuid.NewString(), Title: "Инцидент из БД"}}

	// Ожидания
	// 1. Промах кеша
	repoMock.EXPECT().GetIncidentsFromCache(ctx).Return(nil, nil).Times(1)
	// 2. Попадание в БД
	repoMock.EXPECT().ListIncidents(ctx).Return(expected, nil).Times(1)
	// 3. Сохранение в кеш
	repoMock.EXPECT().SetIncidentsCache(ctx, expected).Return(nil).Times(1)

	// Действие
	incidents, err := service.ListIncidents(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, incidents)
}

func TestListIncidents_CacheErrorFallsBackToDB(t *testing.T) {
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	expected := []*models.Incident{}

	repoMock.EXPECT().GetIncidentsFromCache(ctx).Return(nil, errors.New("redis down")).Times(1)
	repoMock.EXPECT().ListIncidents(ctx).Return(expected, nil).Times(1)
	repoMock.EXPECT().SetIncidentsCache(ctx, expected).Return(errors.New("redis down")).Times(1)

	incidents, err := service.ListIncidents(ctx)

	require.NoError(t, err)
	assert.Empty(t, incidents)
}

func TestListIncidents_RepositoryError(t *testing.T) {
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	repoErr := errors.New("database unavailable")

	repoMock.EXPECT().GetIncidentsFromCache(ctx).Return(nil, nil).Times(1)
	repoMock.EXPECT().ListIncidents(ctx).Return(nil, repoErr).Times(1)
	repoMock.EXPECT().SetIncidentsCache(gomock.Any(), gomock.Any()).Times(0)

	incidents, err := service.ListIncidents(ctx)

	require.Error(t, err)
	assert.Nil(t, incidents)
	assert.ErrorIs(t, err, repoErr)
}

func TestGetIncident_NotFound(t *testing.T) {
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	id := uuid.NewString()

	repoMock.EXPECT().GetByID(ctx, id).Return(nil, fmt.Errorf("incident with id %s: %w", id, ErrNotFound)).Times(1)

	incident, err := service.GetIncident(ctx, id)

	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetIncident_Success(t *testing.T) {
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	expected := &models.Incident{ID: uuid.NewString(), Title: "Strike"}

	repoMock.EXPECT().GetByID(ctx, expected.ID).Return(expected, nil).Times(1)

	incident, err := service.GetIncident(ctx, expected.ID)

	require.NoError(t, err)
	assert.Equal(t, expected, incident)
}

func TestGetStats_AddsLastUpdated(t *testing.T) {
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	updated := time.Date(2025, 6, 13, 12, 0, 0, 0, time.UTC)
	service.lastUpdated = updated

	repoMock.EXPECT().GetStats(ctx).Return(&models.Stats{TotalIncidents: 3, TotalKilled: 40, SourcesCount: 2}, nil).Times(1)

	stats, err := service.GetStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalIncidents)
	assert.Equal(t, 40, stats.TotalKilled)
	require.NotNil(t, stats.LastUpdated)
	assert.Equal(t, updated, *stats.LastUpdated)
}

func TestScrape_MergesValidIncidents(t *testing.T) {
	// Подготовка
	service, repoMock, scraperMock := newTestIncidentService(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 14, 8, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	scraped := []*models.Incident{
		{Title: "Strike on Tehran", Latitude: 35.69, Longitude: 51.39, Killed: 12},
		{Title: "Half origin", Latitude: 32, Longitude: 51, OriginLatitude: models.Float(31)},
		{Title: "Bad latitude", Latitude: 120, Longitude: 51},
		{Title: "   ", Latitude: 30, Longitude: 50},
		{Title: "Negative killed", Latitude: 30, Longitude: 50, Killed: -1},
		nil,
	}
	var merged []*models.Incident

	// Ожидания
	scraperMock.EXPECT().ScrapeAll(ctx).Return(scraped).Times(1)
	repoMock.EXPECT().MergeIncidents(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, incidents []*models.Incident) (int, error) {
			merged = incidents
			return 1, nil
		}).Times(1)
	repoMock.EXPECT().InvalidateIncidentsCache(ctx).Return(nil).Times(1)

	// Действие
	result, err := service.Scrape(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, 1, result.NewIncidents)
	assert.Equal(t, "Scrape completed. 1 new incidents added.", result.Message)

	require.Len(t, merged, 1)
	assert.Equal(t, "Strike on Tehran", merged[0].Title)
	_, parseErr := uuid.Parse(merged[0].ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, now, merged[0].Date)
	assert.Equal(t, now, service.lastUpdated)
}

func TestScrape_NothingAddedKeepsCache(t *testing.T) {
	service, repoMock, scraperMock := newTestIncidentService(t)
	ctx := context.Background()

	scraperMock.EXPECT().ScrapeAll(ctx).Return(nil).Times(1)
	repoMock.EXPECT().MergeIncidents(ctx, gomock.Len(0)).Return(0, nil).Times(1)
	repoMock.EXPECT().InvalidateIncidentsCache(gomock.Any()).Times(0)

	result, err := service.Scrape(ctx)

	require.NoError(t, err)
	assert.Zero(t, result.NewIncidents)
}

func TestScrape_MergeError(t *testing.T) {
	service, repoMock, scraperMock := newTestIncidentService(t)
	ctx := context.Background()
	mergeErr := errors.New("constraint violation")

	scraperMock.EXPECT().ScrapeAll(ctx).Return([]*models.Incident{{Title: "Strike", Latitude: 30, Longitude: 50}}).Times(1)
	repoMock.EXPECT().MergeIncidents(ctx, gomock.Any()).Return(0, mergeErr).Times(1)

	result, err := service.Scrape(ctx)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, mergeErr)
}

func TestSetIntegrationEnabled(t *testing.T) {
	service, _, scraperMock := newTestIncidentService(t)
	ctx := context.Background()
	updated := &models.Integration{ID: "bbc", Name: "BBC News", Enabled: false}

	scraperMock.EXPECT().SetEnabled("bbc", false).Return(updated, nil).Times(1)
	scraperMock.EXPECT().SetEnabled("nope", true).Return(nil, fmt.Errorf("%w: nope", ErrUnknownIntegration)).Times(1)

	integration, err := service.SetIntegrationEnabled(ctx, "bbc", false)
	require.NoError(t, err)
	assert.Equal(t, updated, integration)

	_, err = service.SetIntegrationEnabled(ctx, "nope", true)
	assert.ErrorIs(t, err, ErrUnknownIntegration)
}

func TestListIntegrations(t *testing.T) {
	service, _, scraperMock := newTestIncidentService(t)
	expected := []*models.Integration{{ID: "bbc", Enabled: true}}

	scraperMock.EXPECT().List().Return(expected).Times(1)

	assert.Equal(t, expected, service.ListIntegrations(context.Background()))
}
