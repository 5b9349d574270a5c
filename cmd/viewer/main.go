package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/warzone_monitor/internal/apiclient"
	"github.com/shenikar/warzone_monitor/internal/camera"
	"github.com/shenikar/warzone_monitor/internal/config"
	"github.com/shenikar/warzone_monitor/internal/eventloop"
	"github.com/shenikar/warzone_monitor/internal/mapview"
	"github.com/shenikar/warzone_monitor/internal/scene"
	"github.com/shenikar/warzone_monitor/internal/store"
	"github.com/shenikar/warzone_monitor/internal/viewsync"
	"github.com/shenikar/warzone_monitor/pkg/logger"
)

// loopMap выполняет операции с картой в цикле отображения
type loopMap struct {
	loop *eventloop.Loop
	m    *mapview.Map
}

func (l *loopMap) do(ctx context.Context, fn func(m *mapview.Map) error) error {
	if l.m == nil {
		return errors.New("map is not loaded")
	}
	var err error
	if doErr := l.loop.Do(ctx, func() { err = fn(l.m) }); doErr != nil {
		return doErr
	}
	return err
}

func (l *loopMap) Pan(ctx context.Context, dx, dy float64) error {
	return l.do(ctx, func(m *mapview.Map) error { return m.Pan(dx, dy) })
}

func (l *loopMap) SetZoom(ctx context.Context, zoom float64) error {
	return l.do(ctx, func(m *mapview.Map) error { return m.SetZoom(zoom) })
}

func (l *loopMap) Resize(ctx context.Context, width, height int) error {
	return l.do(ctx, func(m *mapview.Map) error { return m.Resize(width, height) })
}

// overlayFile записывает SVG слоя дуг в файл через временный файл и переименование
func overlayFile(path string, log *logrus.Logger) func(svg []byte) {
	return func(svg []byte) {
		tmp, err := os.CreateTemp(filepath.Dir(path), ".overlay-*.svg")
		if err != nil {
			log.WithError(err).Error("Failed to create overlay file")
			return
		}
		if _, err := tmp.Write(svg); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			log.WithError(err).Error("Failed to write overlay file")
			return
		}
		tmp.Close()
		if err := os.Rename(tmp.Name(), path); err != nil {
			os.Remove(tmp.Name())
			log.WithError(err).Error("Failed to replace overlay file")
		}
	}
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadViewerConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// stdout занят ответами на команды
	log := logger.NewWithOutput(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := eventloop.New(256)
	go loop.Run(ctx)
	defer loop.Stop()

	client := apiclient.New(cfg.APIBaseURL, cfg.APIKey, log, apiclient.Options{Timeout: cfg.APITimeout})
	st := store.New(client, loop, log)

	view := &loopMap{loop: loop}
	load := mapview.Loader(loop, log, mapview.Options{
		CenterLat:   cfg.CenterLat,
		CenterLng:   cfg.CenterLng,
		Zoom:        cfg.Zoom,
		Width:       cfg.Width,
		Height:      cfg.Height,
		OverlaySink: overlayFile(cfg.OutputPath, log),
	})
	loader := viewsync.FromMapview(func(ctx context.Context) (*mapview.Map, error) {
		m, err := load(ctx)
		view.m = m
		return m, err
	})

	syncer := viewsync.New(st, scene.NewBuilder(log, cfg.CurveSamples), loop, loader, log, viewsync.Options{
		ThrottleInterval: cfg.ThrottleInterval,
	})
	cam := camera.New(st, syncer, log, camera.Options{
		SelectZoom:  cfg.SelectZoom,
		FlyDuration: cfg.FlyDuration,
	})

	// Ошибка первой загрузки не фатальна: карта запускается с пустым списком
	if err := st.FetchIncidents(ctx); err != nil {
		log.WithError(err).Warn("Initial incident load failed")
	}
	st.FetchIntegrations(ctx)

	if err := syncer.Start(ctx); err != nil {
		log.Fatalf("Failed to start map: %v", err)
	}
	log.WithField("output", cfg.OutputPath).Info("Viewer started, type help for commands")

	con := &console{
		store:  st,
		stats:  client,
		view:   view,
		out:    os.Stdout,
		logger: log,
	}
	done := make(chan struct{})
	go func() {
		con.run(ctx, os.Stdin)
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}

	cam.Close()
	disposeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	// После остановки цикла освобождаем карту в текущей горутине
	if err := loop.Do(disposeCtx, syncer.Dispose); err != nil {
		syncer.Dispose()
	}
	log.Info("Viewer stopped")
}
