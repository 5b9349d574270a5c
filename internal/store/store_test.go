package store

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shenikar/warzone_monitor/internal/eventloop"
	"github.com/shenikar/warzone_monitor/internal/models"
	"github.com/shenikar/warzone_monitor/internal/store/mocks"
)

// newTestStore — вспомогательная функция для создания хранилища с мок-API
func newTestStore(t *testing.T) (*Store, *mocks.MockAPI) {
	ctrl := gomock.NewController(t)
	apiMock := mocks.NewMockAPI(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	return New(apiMock, eventloop.Immediate{}, logger), apiMock
}

func testIncidents() []*models.Incident {
	return []*models.Incident{
		{ID: "a", Title: "Strike A", Latitude: 32, Longitude: 44, Killed: 50, Wounded: 10,
			OriginLatitude: models.Float(35), OriginLongitude: models.Float(45)},
		{ID: "b", Title: "Strike B", Latitude: 30, Longitude: 50, Killed: 5, Wounded: 2},
	}
}

func TestFetchIncidents_Success(t *testing.T) {
	// Подготовка
	store, apiMock := newTestStore(t)
	ctx := context.Background()
	incidents := testIncidents()
	notified := 0
	store.Subscribe(TopicIncidents, func() { notified++ })

	// Ожидания
	apiMock.EXPECT().ListIncidents(ctx).Return(incidents, nil).Times(1)

	// Действие
	err := store.FetchIncidents(ctx)

	// Проверки
	require.NoError(t, err)
	list, version := store.Snapshot()
	assert.Equal(t, incidents, list)
	assert.Equal(t, uint64(1), version)
	assert.Equal(t, 1, notified)
	assert.False(t, store.Loading())
	assert.Empty(t, store.Error())
}

func TestFetchIncidents_FailureKeepsPreviousList(t *testing.T) {
	// Подготовка
	store, apiMock := newTestStore(t)
	ctx := context.Background()
	incidents := testIncidents()
	store.ReplaceIncidents(incidents)
	notified := 0
	store.Subscribe(TopicIncidents, func() { notified++ })

	// Ожидания
	apiMock.EXPECT().ListIncidents(ctx).Return(nil, errors.New("connection refused")).Times(1)

	// Действие
	err := store.FetchIncidents(ctx)

	// Проверки
	require.Error(t, err)
	assert.ErrorContains(t, err, "could not fetch incidents")
	list, version := store.Snapshot()
	assert.Equal(t, incidents, list)
	assert.Equal(t, uint64(1), version)
	assert.Zero(t, notified)
	assert.Contains(t, store.Error(), "connection refused")
	assert.False(t, store.Loading())
}

func TestFetchIncidents_SuccessClearsError(t *testing.T) {
	store, apiMock := newTestStore(t)
	ctx := context.Background()

	gomock.InOrder(
		apiMock.EXPECT().ListIncidents(ctx).Return(nil, errors.New("boom")),
		apiMock.EXPECT().ListIncidents(ctx).Return(testIncidents(), nil),
	)

	require.Error(t, store.FetchIncidents(ctx))
	require.NotEmpty(t, store.Error())
	require.NoError(t, store.FetchIncidents(ctx))
	assert.Empty(t, store.Error())
}

func TestTriggerScrape_RefetchesOnSuccess(t *testing.T) {
	store, apiMock := newTestStore(t)
	ctx := context.Background()

	gomock.InOrder(
		apiMock.EXPECT().TriggerScrape(ctx).Return(&models.ScrapeResult{Status: "success", NewIncidents: 2}, nil),
		apiMock.EXPECT().ListIncidents(ctx).Return(testIncidents(), nil),
	)

	result, err := store.TriggerScrape(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, result.NewIncidents)
	assert.Len(t, store.Incidents(), 2)
}

func TestTriggerScrape_FailureSkipsRefetch(t *testing.T) {
	store, apiMock := newTestStore(t)
	ctx := context.Background()

	apiMock.EXPECT().TriggerScrape(ctx).Return(nil, errors.New("503")).Times(1)
	apiMock.EXPECT().ListIncidents(gomock.Any()).Times(0)

	result, err := store.TriggerScrape(ctx)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, store.Error(), "503")
}

func TestSelect_AbsentIDResolvesToNil(t *testing.T) {
	store, _ := newTestStore(t)
	store.ReplaceIncidents(testIncidents())

	assert.NotPanics(t, func() { store.Select("missing") })
	assert.Equal(t, "missing", store.SelectedID())
	assert.Nil(t, store.Selected())

	store.Select("b")
	require.NotNil(t, store.Selected())
	assert.Equal(t, "b", store.Selected().ID)

	store.Select("")
	assert.Nil(t, store.Selected())
}

func TestSelect_NotifiesSubscribers(t *testing.T) {
	store, _ := newTestStore(t)
	var seen []string
	unsubscribe := store.Subscribe(TopicSelection, func() { seen = append(seen, store.SelectedID()) })

	store.Select("a")
	store.Select("b")
	unsubscribe()
	store.Select("c")

	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Zero(t, store.Subscribers(TopicSelection))
}

func TestNotify_SkipsSubscriberRemovedWhileQueued(t *testing.T) {
	queue := &queuedScheduler{}
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	store := New(nil, queue, logger)

	calls := 0
	unsubscribe := store.Subscribe(TopicIncidents, func() { calls++ })
	store.ReplaceIncidents(testIncidents())
	unsubscribe()
	queue.drain()

	assert.Zero(t, calls)
}

func TestTotals(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Equal(t, Totals{}, store.Totals())

	store.ReplaceIncidents(testIncidents())
	assert.Equal(t, Totals{Incidents: 2, Killed: 55, Wounded: 12}, store.Totals())
}

func TestIntegrations_FetchAndToggle(t *testing.T) {
	store, apiMock := newTestStore(t)
	ctx := context.Background()
	integrations := []*models.Integration{
		{ID: "bbc", Name: "BBC News", Enabled: true},
		{ID: "cnn", Name: "CNN", Enabled: true},
	}

	apiMock.EXPECT().ListIntegrations(ctx).Return(integrations, nil).Times(1)
	apiMock.EXPECT().ToggleIntegration(ctx, "cnn", false).
		Return(&models.Integration{ID: "cnn", Name: "CNN", Enabled: false}, nil).Times(1)

	store.FetchIntegrations(ctx)
	store.ToggleIntegration(ctx, "cnn", false)

	got := store.Integrations()
	require.Len(t, got, 2)
	assert.True(t, got[0].Enabled)
	assert.False(t, got[1].Enabled)
	// Исходный срез не изменяется
	assert.True(t, integrations[1].Enabled)
}

func TestIntegrations_FailuresAreNotFatal(t *testing.T) {
	store, apiMock := newTestStore(t)
	ctx := context.Background()
	existing := []*models.Integration{{ID: "bbc", Enabled: true}}

	apiMock.EXPECT().ListIntegrations(ctx).Return(existing, nil)
	apiMock.EXPECT().ToggleIntegration(ctx, "bbc", false).Return(nil, errors.New("unauthorized"))
	apiMock.EXPECT().ListIntegrations(ctx).Return(nil, errors.New("timeout"))

	store.FetchIntegrations(ctx)
	assert.NotPanics(t, func() {
		store.ToggleIntegration(ctx, "bbc", false)
		store.FetchIntegrations(ctx)
	})
	assert.Equal(t, existing, store.Integrations())
	assert.Empty(t, store.Error())
}

func TestSnapshot_ConcurrentReaders(t *testing.T) {
	store, _ := newTestStore(t)
	first := testIncidents()
	second := testIncidents()[:1]
	store.ReplaceIncidents(first)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				list := store.Incidents()
				assert.True(t, len(list) == 1 || len(list) == 2)
			}
		}()
	}
	for j := 0; j < 100; j++ {
		if j%2 == 0 {
			store.ReplaceIncidents(second)
		} else {
			store.ReplaceIncidents(first)
		}
	}
	wg.Wait()
}

// queuedScheduler откладывает задачи до явного вызова drain
type queuedScheduler struct {
	tasks []func()
}

func (q *queuedScheduler) Post(fn func()) bool {
	q.tasks = append(q.tasks, fn)
	return true
}

func (q *queuedScheduler) drain() {
	tasks := q.tasks
	q.tasks = nil
	for _, fn := range tasks {
		fn()
	}
}
