// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "FOCUSFLOW"

type Config struct {
	Server    ServerConfig    `yaml:"server" split_words:"true"`
	Logging   LoggingConfig   `yaml:"logging" split_words:"true"`
	Timer     TimerConfig     `yaml:"timer" split_words:"true"`
	Storage   StorageConfig   `yaml:"storage" split_words:"true"`
	AI        AIConfig        `yaml:"ai" split_words:"true"`
	CORS      CORSConfig      `yaml:"cors" split_words:"true"`
	RateLimit RateLimitConfig `yaml:"rate_limit" split_words:"true"`
}

type ServerConfig struct {
	Port string `yaml:"port" split_words:"true"`
	Host string `yaml:"host" split_words:"true"`
}

type LoggingConfig struct {
	Development bool `yaml:"development" split_words:"true"`
}

type TimerConfig struct {
	TickInterval time.Duration `yaml:"tick_interval" split_words:"true"`
	MinDelta     time.Duration `yaml:"min_delta" split_words:"true"`
}

type StorageConfig struct {
	Type     string         `yaml:"type" split_words:"true"` // "memory", "local", "postgres" или "s3"
	Key      string         `yaml:"key" split_words:"true"`
	Local    LocalConfig    `yaml:"local" split_words:"true"`
	Postgres DatabaseConfig `yaml:"postgres" split_words:"true"`
	S3       S3Config       `yaml:"s3" split_words:"true"`
}

type LocalConfig struct {
	BaseDir string `yaml:"base_dir" split_words:"true"`
}

type DatabaseConfig struct {
	URL            string        `yaml:"url" split_words:"true"`
	MaxConnections int           `yaml:"max_connections" split_words:"true"`
	MinConnections int           `yaml:"min_connections" split_words:"true"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" split_words:"true"`
}

type S3Config struct {
	Bucket string `yaml:"bucket" split_words:"true"`
	Prefix string `yaml:"prefix" split_words:"true"`
	Region string `yaml:"region" split_words:"true"`
}

type AIConfig struct {
	APIKey   string        `yaml:"api_key" split_words:"true"`
	Model    string        `yaml:"model" split_words:"true"`
	Timeout  time.Duration `yaml:"timeout" split_words:"true"`
	Endpoint string        `yaml:"endpoint" split_words:"true"` // пусто - публичный endpoint Gemini
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" split_words:"true"`
}

type RateLimitConfig struct {
	RPM int `yaml:"rpm" split_words:"true"`
}

const (
	StorageMemory   = "memory"
	StorageLocal    = "local"
	StoragePostgres = "postgres"
	StorageS3       = "s3"
)

func Default() *Config {
	return &Config{
		Server:  ServerConfig{Host: "", Port: "8080"},
		Logging: LoggingConfig{Development: true},
		Timer: TimerConfig{
			TickInterval: time.Second,
			MinDelta:     100 * time.Millisecond,
		},
		Storage: StorageConfig{
			Type:  StorageLocal,
			Key:   "focusflow_tasks_data_v2",
			Local: LocalConfig{BaseDir: ".focusflow"},
			Postgres: DatabaseConfig{
				MaxConnections: 10,
				MinConnections: 2,
				IdleTimeout:    5 * time.Minute,
			},
			S3: S3Config{Prefix: "focusflow/", Region: "eu-central-1"},
		},
		AI: AIConfig{
			Model:   "gemini-3-flash-preview",
			Timeout: 20 * time.Second,
		},
		CORS:      CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimit: RateLimitConfig{RPM: 100},
	}
}

// Load читает config.yml поверх значений по умолчанию, затем переменные окружения FOCUSFLOW_*.
// Отсутствие файла не ошибка.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("не могу открыть %s: %w", path, err)
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("чтение переменных окружения: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Type {
	case StorageMemory, StorageLocal:
	case StoragePostgres:
		if c.Storage.Postgres.URL == "" {
			return errors.New("storage.postgres.url обязателен для postgres")
		}
	case StorageS3:
		if c.Storage.S3.Bucket == "" {
			return errors.New("storage.s3.bucket обязателен для s3")
		}
	default:
		return fmt.Errorf("неизвестный тип хранилища %q", c.Storage.Type)
	}
	if c.Timer.TickInterval <= 0 {
		return errors.New("timer.tick_interval должен быть положительным")
	}
	if c.Storage.Key == "" {
		return errors.New("storage.key не может быть пустым")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
