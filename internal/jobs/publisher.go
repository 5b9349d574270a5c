// Package jobs - очередь заданий на сбор новостей в Redis и воркер, который их выполняет.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	scrapeQueueKey = "scrape_jobs"
	tickKeyPrefix  = "scrape_jobs:tick:"
)

// ScrapeJob - задание на сбор новостей
type ScrapeJob struct {
	ID          string    `json:"id"`
	Trigger     string    `json:"trigger"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewScrapeJob создает задание с новым id
func NewScrapeJob(trigger string) ScrapeJob {
	return ScrapeJob{
		ID:          uuid.NewString(),
		Trigger:     trigger,
		RequestedAt: time.Now().UTC(),
	}
}

// Publisher - интерфейс для постановки заданий в очередь
type Publisher interface {
	Publish(ctx context.Context, job ScrapeJob) error
	// ClaimTick занимает слот расписания; true получает только первый из реплик
	ClaimTick(ctx context.Context, slot time.Time, ttl time.Duration) (bool, error)
}

// RedisPublisher - реализация Publisher, использующая Redis
type RedisPublisher struct {
	redisClient *redis.Client
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
	}
}

// Publish добавляет задание в очередь Redis
func (p *RedisPublisher) Publish(ctx context.Context, job ScrapeJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal scrape job: %w", err)
	}

	// LPUSH в голову списка, воркер забирает задания с хвоста
	if err := p.redisClient.LPush(ctx, scrapeQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish scrape job to Redis: %w", err)
	}
	return nil
}

// ClaimTick занимает слот расписания через SETNX с истечением через ttl
func (p *RedisPublisher) ClaimTick(ctx context.Context, slot time.Time, ttl time.Duration) (bool, error) {
	key := tickKeyPrefix + strconv.FormatInt(slot.Unix(), 10)
	ok, err := p.redisClient.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim schedule slot in Redis: %w", err)
	}
	return ok, nil
}
