package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const configPathEnv = "NEWSROOM_CONFIG"

type Config struct {
	Port        string   `yaml:"port"`
	DatabaseURL string   `yaml:"databaseUrl"`
	RedisURL    string   `yaml:"redisUrl"`
	NatsURL     string   `yaml:"natsUrl"`
	JWTSecret   string   `yaml:"-"`
	CronSecret  string   `yaml:"-"`
	LogLevel    string   `yaml:"logLevel"`
	CORSOrigins []string `yaml:"corsOrigins"`

	Views           ViewsConfig           `yaml:"views"`
	Scheduler       SchedulerConfig       `yaml:"scheduler"`
	Cache           CacheConfig           `yaml:"cache"`
	Recommendations RecommendationsConfig `yaml:"recommendations"`
	Auth            AuthConfig            `yaml:"auth"`
}

type ViewsConfig struct {
	BatchSize     int           `yaml:"batchSize"`
	FlushInterval time.Duration `yaml:"flushInterval"`
}

type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type CacheConfig struct {
	ArticlesTTL time.Duration `yaml:"articlesTtl"`
	UnreadTTL   time.Duration `yaml:"unreadTtl"`
}

type RecommendationsConfig struct {
	HalfLifeDays  float64            `yaml:"halfLifeDays"`
	WindowDays    int                `yaml:"windowDays"`
	TopCategories int                `yaml:"topCategories"`
	Weights       map[string]float64 `yaml:"weights"`
}

type AuthConfig struct {
	TokenTTL time.Duration `yaml:"tokenTtl"`
}

func Default() Config {
	return Config{
		Port:        "8080",
		LogLevel:    "info",
		CORSOrigins: []string{"*"},
		Views: ViewsConfig{
			BatchSize:     50,
			FlushInterval: 30 * time.Second,
		},
		Scheduler: SchedulerConfig{Interval: time.Minute},
		Cache: CacheConfig{
			ArticlesTTL: 60 * time.Second,
			UnreadTTL:   10 * time.Second,
		},
		Recommendations: RecommendationsConfig{
			HalfLifeDays:  7,
			WindowDays:    14,
			TopCategories: 3,
			Weights: map[string]float64{
				"view":    1,
				"like":    3,
				"save":    5,
				"share":   4,
				"comment": 4,
			},
		},
		Auth: AuthConfig{TokenTTL: 7 * 24 * time.Hour},
	}
}

// Load reads the optional YAML file named by NEWSROOM_CONFIG on top of the
// defaults and then applies environment overrides.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := parseInto(&cfg, raw); err != nil {
			return cfg, err
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// parseInto decodes over cfg; yaml.v3 merges into existing maps so default
// weights survive a partial override.
func parseInto(cfg *Config, raw []byte) error {
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		c.NatsURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("CRON_SECRET"); v != "" {
		c.CronSecret = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("VIEW_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Views.BatchSize = n
		}
	}
	if v := os.Getenv("VIEW_FLUSH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Views.FlushInterval = d
		}
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	if c.Views.BatchSize <= 0 {
		errs = append(errs, errors.New("views.batchSize must be positive"))
	}
	for name, d := range map[string]time.Duration{
		"views.flushInterval": c.Views.FlushInterval,
		"scheduler.interval":  c.Scheduler.Interval,
		"cache.articlesTtl":   c.Cache.ArticlesTTL,
		"cache.unreadTtl":     c.Cache.UnreadTTL,
		"auth.tokenTtl":       c.Auth.TokenTTL,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	if c.Recommendations.TopCategories <= 0 {
		errs = append(errs, errors.New("recommendations.topCategories must be positive"))
	}
	if c.Recommendations.HalfLifeDays <= 0 {
		errs = append(errs, errors.New("recommendations.halfLifeDays must be positive"))
	}
	if c.Recommendations.WindowDays <= 0 {
		errs = append(errs, errors.New("recommendations.windowDays must be positive"))
	}
	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
