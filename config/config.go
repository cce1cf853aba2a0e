package config

import (
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Port int `env:"PORT" envDefault:"8000"`

		// Origins allowed to call the API from the host chat application
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	}

	// Provider configuration. An empty APIKey selects the demo dataset.
	Provider struct {
		APIKey      string        `env:"RAPIDAPI_KEY"`
		Host        string        `env:"RAPIDAPI_HOST" envDefault:"zillow-com1.p.rapidapi.com"`
		BaseURL     string        `env:"PROVIDER_BASE_URL" envDefault:"https://zillow-com1.p.rapidapi.com"`
		Timeout     time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s"`
		RadiusMiles float64       `env:"SEARCH_RADIUS_MILES" envDefault:"2"`

		// Resolved locations are cached here; empty keeps the cache in memory
		LocationCachePath string `env:"LOCATION_CACHE_PATH" envDefault:"database/location_cache.json"`
	}

	Database struct {
		// Empty disables the invocation log
		Path string `env:"DATABASE_PATH" envDefault:"database/tools.db"`

		// Invocations older than this are pruned; zero keeps everything
		RetentionDays int `env:"INVOCATION_RETENTION_DAYS" envDefault:"30"`

		// Cron spec for the retention job
		RetentionSchedule string `env:"RETENTION_SCHEDULE" envDefault:"@hourly"`
	}

	// BatchProcessing configures how invocation records are written
	BatchProcessing struct {
		// Maximum number of invocations to accumulate before writing
		MaxBatchSize int `env:"BATCH_MAX_SIZE" envDefault:"50"`

		// Maximum time to wait before writing a non-full batch (in seconds)
		MaxBatchWaitTime int `env:"BATCH_WAIT_TIME" envDefault:"5"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"1"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL" envDefault:"info"`
	}
}

// UsingDemoProvider is true when no provider credential was supplied.
func (c *Config) UsingDemoProvider() bool {
	return c.Provider.APIKey == ""
}

// LoadConfig reads the environment, after loading envFiles (default ".env")
// when they exist.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load(envFiles...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
