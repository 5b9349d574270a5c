// Package apiclient - HTTP-клиент API инцидентов для клиента карты
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/warzone_monitor/internal/models"
)

// ErrStatus - сервер ответил статусом вне диапазона 2xx
var ErrStatus = errors.New("unexpected response status")

var errDecode = errors.New("invalid response body")

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	defaultBaseDelay  = 500 * time.Millisecond
	maxErrorBody      = 512
)

// Options - параметры клиента; нулевые значения заменяются значениями по умолчанию
type Options struct {
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
}

// Client обращается к /api/v1. GET-запросы повторяются при сетевых ошибках и ответах 5xx.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
	maxRetries int
	baseDelay  time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// New создает клиент. baseURL указывает на корень API, например http://localhost:8080/api/v1
func New(baseURL, apiKey string, logger *logrus.Logger, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = defaultBaseDelay
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		logger:     logger,
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.BaseDelay,
		sleep:      sleepContext,
	}
}

// ListIncidents загружает все инциденты, новые первыми
func (c *Client) ListIncidents(ctx context.Context) ([]*models.Incident, error) {
	var incidents []*models.Incident
	if err := c.get(ctx, "/incidents", &incidents); err != nil {
		return nil, err
	}
	return incidents, nil
}

// GetStats загружает агрегированную статистику
func (c *Client) GetStats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	if err := c.get(ctx, "/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// TriggerScrape запускает сбор новостей. Запрос не повторяется.
func (c *Client) TriggerScrape(ctx context.Context) (*models.ScrapeResult, error) {
	var result models.ScrapeResult
	if err := c.send(ctx, http.MethodPost, "/scrape", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListIntegrations загружает список источников новостей
func (c *Client) ListIntegrations(ctx context.Context) ([]*models.Integration, error) {
	var integrations []*models.Integration
	if err := c.get(ctx, "/integrations", &integrations); err != nil {
		return nil, err
	}
	return integrations, nil
}

// ToggleIntegration включает или отключает источник
func (c *Client) ToggleIntegration(ctx context.Context, id string, enabled bool) (*models.Integration, error) {
	body, err := json.Marshal(map[string]bool{"enabled": enabled})
	if err != nil {
		return nil, fmt.Errorf("apiclient: could not encode toggle request: %w", err)
	}
	var integration models.Integration
	if err := c.send(ctx, http.MethodPatch, "/integrations/"+url.PathEscape(id), body, &integration); err != nil {
		return nil, err
	}
	return &integration, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	log := c.logger.WithFields(logrus.Fields{
		"component": "apiclient",
		"path":      path,
	})

	delay := c.baseDelay
	var err error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		err = c.send(ctx, http.MethodGet, path, nil, out)
		if err == nil || !retryable(err) || attempt == c.maxRetries {
			break
		}
		log.WithError(err).WithField("attempt", attempt).Warnf("Request failed, retrying in %v", delay)
		if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
			return sleepErr
		}
		delay *= 2
	}
	return err
}

type statusError struct {
	method string
	path   string
	code   int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("apiclient: %s %s: %s %d: %s", e.method, e.path, ErrStatus, e.code, e.body)
}

func (e *statusError) Is(target error) bool {
	return target == ErrStatus
}

// StatusCode возвращает HTTP-статус из ошибки клиента или 0
func StatusCode(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.code
	}
	return 0
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, errDecode) {
		return false
	}
	code := StatusCode(err)
	return code == 0 || code >= http.StatusInternalServerError
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("apiclient: could not create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &statusError{method: method, path: path, code: resp.StatusCode, body: string(bytes.TrimSpace(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("apiclient: %s: %w: %w", path, errDecode, err)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
