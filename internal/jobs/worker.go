package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/warzone_monitor/internal/models"
)

// Scraper выполняет сбор новостей и слияние результатов
type Scraper interface {
	Scrape(ctx context.Context) (*models.ScrapeResult, error)
}

// WorkerConfig - параметры воркера
type WorkerConfig struct {
	Interval   time.Duration
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
}

// Worker ставит задания по расписанию и выполняет задания из очереди
type Worker struct {
	redisClient *redis.Client
	publisher   Publisher
	scraper     Scraper
	logger      *logrus.Logger
	cfg         WorkerConfig
	sleep       func(ctx context.Context, d time.Duration)
}

// NewWorker создает новый Worker
func NewWorker(redisClient *redis.Client, publisher Publisher, scraper Scraper, logger *logrus.Logger, cfg WorkerConfig) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 5 * time.Second
	}
	return &Worker{
		redisClient: redisClient,
		publisher:   publisher,
		scraper:     scraper,
		logger:      logger,
		cfg:         cfg,
		sleep:       sleepContext,
	}
}

// Start запускает горутины расписания и обработки очереди
func (w *Worker) Start(ctx context.Context) {
	w.logger.WithField("interval", w.cfg.Interval.String()).Info("Starting scrape worker...")
	go w.schedule(ctx)
	go w.consume(ctx)
}

// schedule ставит задание сразу и затем каждые Interval.
// Задание по расписанию ставит только реплика, занявшая слот интервала.
func (w *Worker) schedule(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.enqueue(ctx, "startup")
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			w.tick(ctx, now)
		}
	}
}

func (w *Worker) tick(ctx context.Context, now time.Time) {
	slot := now.UTC().Truncate(w.cfg.Interval)
	claimed, err := w.publisher.ClaimTick(ctx, slot, w.cfg.Interval)
	if err != nil {
		w.logger.WithError(err).Warn("Failed to claim schedule slot, enqueueing anyway")
	} else if !claimed {
		w.logger.WithField("slot", slot.Format(time.RFC3339)).Debug("Schedule slot taken by another replica")
		return
	}
	w.enqueue(ctx, "schedule")
}

func (w *Worker) enqueue(ctx context.Context, trigger string) {
	job := NewScrapeJob(trigger)
	if err := w.publisher.Publish(ctx, job); err != nil {
		w.logger.WithError(err).WithField("trigger", trigger).Error("Failed to enqueue scrape job")
		return
	}
	w.logger.WithFields(logrus.Fields{"job_id": job.ID, "trigger": trigger}).Debug("Scrape job enqueued")
}

func (w *Worker) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping scrape worker.")
			return
		default:
			// BRPOP - блокирующее извлечение из хвоста списка, 0 означает бесконечное ожидание
			result, err := w.redisClient.BRPop(ctx, 0, scrapeQueueKey).Result()
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				w.logger.WithError(err).Error("Failed to pop scrape job from Redis")
				w.sleep(ctx, w.cfg.BaseDelay)
				continue
			}

			// result[0] - ключ, result[1] - значение
			var job ScrapeJob
			if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
				w.logger.WithError(err).Error("Failed to unmarshal scrape job from Redis")
				continue
			}

			w.Process(ctx, job)
		}
	}
}

// Process выполняет задание, повторяя попытки с экспоненциальной задержкой.
// Возвращает false, если все попытки завершились ошибкой.
func (w *Worker) Process(ctx context.Context, job ScrapeJob) bool {
	log := w.logger.WithFields(logrus.Fields{
		"job_id":  job.ID,
		"trigger": job.Trigger,
	})
	log.Debug("Processing scrape job...")

	delay := w.cfg.BaseDelay
	for i := 0; i < w.cfg.MaxRetries; i++ {
		jobCtx, cancel := context.WithTimeout(ctx, w.cfg.Timeout)
		result, err := w.scraper.Scrape(jobCtx)
		cancel()
		if err == nil {
			if result != nil {
				log = log.WithField("new_incidents", result.NewIncidents)
			}
			log.Info("Scrape job completed")
			return true
		}
		if ctx.Err() != nil {
			return false
		}

		log.WithError(err).Warnf("Scrape job failed. Retrying in %v. Retries left: %d", delay, w.cfg.MaxRetries-1-i)
		if i < w.cfg.MaxRetries-1 {
			w.sleep(ctx, delay)
			delay *= 2 // Экспоненциальная задержка
		}
	}

	log.Errorf("Scrape job failed after %d attempts.", w.cfg.MaxRetries)
	return false
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
