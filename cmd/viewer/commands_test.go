package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shenikar/warzone_monitor/internal/eventloop"
	"github.com/shenikar/warzone_monitor/internal/models"
	"github.com/shenikar/warzone_monitor/internal/store"
	"github.com/shenikar/warzone_monitor/internal/store/mocks"
)

type fakeView struct {
	calls []string
	err   error
}

func (f *fakeView) Pan(_ context.Context, dx, dy float64) error {
	f.calls = append(f.calls, "pan")
	return f.err
}

func (f *fakeView) SetZoom(_ context.Context, zoom float64) error {
	f.calls = append(f.calls, "zoom")
	return f.err
}

func (f *fakeView) Resize(_ context.Context, width, height int) error {
	f.calls = append(f.calls, "resize")
	return f.err
}

type fakeStats struct {
	stats *models.Stats
	err   error
}

func (f fakeStats) GetStats(context.Context) (*models.Stats, error) {
	return f.stats, f.err
}

func newTestConsole(t *testing.T) (*console, *mocks.MockAPI, *fakeView, *bytes.Buffer) {
	ctrl := gomock.NewController(t)
	apiMock := mocks.NewMockAPI(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	view := &fakeView{}
	out := &bytes.Buffer{}
	con := &console{
		store:  store.New(apiMock, eventloop.Immediate{}, logger),
		stats:  fakeStats{stats: &models.Stats{TotalIncidents: 7, TotalKilled: 40, SourcesCount: 3}},
		view:   view,
		out:    out,
		logger: logger,
	}
	return con, apiMock, view, out
}

func consoleIncidents() []*models.Incident {
	return []*models.Incident{
		{ID: "a", Title: "Strike on Haifa", Date: time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), Killed: 31,
			OriginLocation: "Tabriz", OriginLatitude: models.Float(38), OriginLongitude: models.Float(46)},
		{ID: "b", Title: "Explosion", Date: time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC), Killed: 2},
	}
}

func TestConsole_RefreshListSelect(t *testing.T) {
	con, apiMock, _, out := newTestConsole(t)
	ctx := context.Background()

	apiMock.EXPECT().ListIncidents(gomock.Any()).Return(consoleIncidents(), nil).Times(1)

	con.run(ctx, strings.NewReader("refresh\nselect a\nlist\nquit\nlist\n"))

	text := out.String()
	assert.Contains(t, text, "2 incidents")
	assert.Contains(t, text, "* a  2025-06-14")
	assert.Contains(t, text, "<- Tabriz")
	// После quit команды не выполняются
	assert.Equal(t, 1, strings.Count(text, "Explosion"))
}

func TestConsole_SelectUnknown(t *testing.T) {
	con, _, _, out := newTestConsole(t)

	require.NoError(t, con.exec(context.Background(), "select zzz"))
	assert.Contains(t, out.String(), "no incident zzz")

	require.NoError(t, con.exec(context.Background(), "select none"))
	assert.Nil(t, con.store.Selected())
}

func TestConsole_ViewCommands(t *testing.T) {
	con, _, view, _ := newTestConsole(t)
	ctx := context.Background()

	require.NoError(t, con.exec(ctx, "pan 10 -5"))
	require.NoError(t, con.exec(ctx, "zoom 6"))
	require.NoError(t, con.exec(ctx, "resize 800 600"))
	assert.Equal(t, []string{"pan", "zoom", "resize"}, view.calls)

	assert.Error(t, con.exec(ctx, "pan 10"))
	assert.Error(t, con.exec(ctx, "zoom high"))
	assert.Len(t, view.calls, 3)
}

func TestConsole_ViewRejectsNonFinite(t *testing.T) {
	con, _, view, out := newTestConsole(t)
	ctx := context.Background()

	for _, line := range []string{"pan nan 0", "pan 0 +Inf", "zoom inf", "zoom NaN", "resize 800 -inf"} {
		err := con.exec(ctx, line)
		require.Error(t, err, line)
		assert.Contains(t, err.Error(), "not a finite number", line)
	}
	assert.Empty(t, view.calls)

	con.run(ctx, strings.NewReader("zoom nan\n"))
	assert.Contains(t, out.String(), "error: usage: zoom <level>")
	assert.Empty(t, view.calls)
}

func TestConsole_ViewErrorReported(t *testing.T) {
	con, _, view, out := newTestConsole(t)
	view.err = errors.New("map size must be positive")

	con.run(context.Background(), strings.NewReader("resize 0 0\n"))
	assert.Contains(t, out.String(), "error: map size must be positive")
}

func TestConsole_Scrape(t *testing.T) {
	con, apiMock, _, out := newTestConsole(t)

	apiMock.EXPECT().TriggerScrape(gomock.Any()).
		Return(&models.ScrapeResult{Status: "success", NewIncidents: 1, Message: "Scrape completed. 1 new incidents added."}, nil).Times(1)
	apiMock.EXPECT().ListIncidents(gomock.Any()).Return(consoleIncidents(), nil).Times(1)

	require.NoError(t, con.exec(context.Background(), "scrape"))
	assert.Contains(t, out.String(), "1 new incidents added")
	assert.Len(t, con.store.Incidents(), 2)
}

func TestConsole_IntegrationsAndToggle(t *testing.T) {
	con, apiMock, _, out := newTestConsole(t)
	ctx := context.Background()

	apiMock.EXPECT().ListIntegrations(gomock.Any()).Return([]*models.Integration{
		{ID: "bbc", Name: "BBC News", Enabled: true},
	}, nil).Times(1)
	apiMock.EXPECT().ToggleIntegration(gomock.Any(), "bbc", false).
		Return(&models.Integration{ID: "bbc", Name: "BBC News", Enabled: false}, nil).Times(1)

	require.NoError(t, con.exec(ctx, "integrations"))
	assert.Contains(t, out.String(), "bbc          on  BBC News")

	out.Reset()
	require.NoError(t, con.exec(ctx, "toggle bbc off"))
	assert.Contains(t, out.String(), "bbc          off BBC News")

	assert.Error(t, con.exec(ctx, "toggle bbc maybe"))
}

func TestConsole_Stats(t *testing.T) {
	con, _, _, out := newTestConsole(t)

	require.NoError(t, con.exec(context.Background(), "stats"))
	assert.Contains(t, out.String(), "loaded: incidents=0")
	assert.Contains(t, out.String(), "server: incidents=7 killed=40 wounded=0 sources=3")
}

func TestConsole_UnknownCommand(t *testing.T) {
	con, _, _, _ := newTestConsole(t)

	err := con.exec(context.Background(), "launch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
	assert.NoError(t, con.exec(context.Background(), "   "))
}
