package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - конфигурация сервера инцидентов
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cache Config
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Scraper Config
	ScrapeInterval time.Duration `env:"SCRAPE_INTERVAL" envDefault:"1h"`
	ScrapeTimeout  time.Duration `env:"SCRAPE_TIMEOUT" envDefault:"30s"`
	MigrationsPath string        `env:"MIGRATIONS_PATH" envDefault:"file://migrations"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// ViewerConfig - конфигурация клиента карты
type ViewerConfig struct {
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:8080/api/v1"`
	APIKey     string        `env:"API_KEY"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
	LogLevel   string        `env:"LOG_LEVEL" envDefault:"info"`

	// Map Config
	CenterLat float64 `env:"MAP_CENTER_LAT" envDefault:"32"`
	CenterLng float64 `env:"MAP_CENTER_LNG" envDefault:"48"`
	Zoom      float64 `env:"MAP_ZOOM" envDefault:"5"`
	Width     int     `env:"MAP_WIDTH" envDefault:"1280"`
	Height    int     `env:"MAP_HEIGHT" envDefault:"800"`

	// Overlay Config
	CurveSamples     int           `env:"CURVE_SAMPLES" envDefault:"60"`
	ThrottleInterval time.Duration `env:"THROTTLE_INTERVAL" envDefault:"0"`
	SelectZoom       float64       `env:"SELECT_ZOOM" envDefault:"7"`
	FlyDuration      time.Duration `env:"FLY_DURATION" envDefault:"1.5s"`
	OutputPath       string        `env:"VIEWER_OUTPUT" envDefault:"overlay.svg"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		CacheTTL:       getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		ScrapeInterval: getEnvAsDuration("SCRAPE_INTERVAL", time.Hour),
		ScrapeTimeout:  getEnvAsDuration("SCRAPE_TIMEOUT", 30*time.Second),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

// LoadViewerConfig загружает конфигурацию клиента карты
func LoadViewerConfig() (*ViewerConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &ViewerConfig{
		APIBaseURL:       strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080/api/v1"), "/"),
		APIKey:           os.Getenv("API_KEY"),
		APITimeout:       getEnvAsDuration("API_TIMEOUT", 30*time.Second),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CenterLat:        getEnvAsFloat("MAP_CENTER_LAT", 32),
		CenterLng:        getEnvAsFloat("MAP_CENTER_LNG", 48),
		Zoom:             getEnvAsFloat("MAP_ZOOM", 5),
		Width:            getEnvAsInt("MAP_WIDTH", 1280),
		Height:           getEnvAsInt("MAP_HEIGHT", 800),
		CurveSamples:     getEnvAsInt("CURVE_SAMPLES", 60),
		ThrottleInterval: getEnvAsDuration("THROTTLE_INTERVAL", 0),
		SelectZoom:       getEnvAsFloat("SELECT_ZOOM", 7),
		FlyDuration:      getEnvAsDuration("FLY_DURATION", 1500*time.Millisecond),
		OutputPath:       getEnv("VIEWER_OUTPUT", "overlay.svg"),
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("MAP_WIDTH and MAP_HEIGHT must be positive")
	}

	return cfg, nil
}

func loadDotEnv() error {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}
	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat возвращает значение переменной окружения как float64 или значение по умолчанию
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
