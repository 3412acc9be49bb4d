// README: Config loader: built-in defaults, optional YAML file, .env, then process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		InternalToken  string   `yaml:"internal_token"`
	} `yaml:"http"`
	DB struct {
		DSN string `yaml:"dsn"`
	} `yaml:"db"`
	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`
	AI struct {
		Provider    string `yaml:"provider"`
		GeminiKey   string `yaml:"gemini_key"`
		GeminiModel string `yaml:"gemini_model"`
		OpenAIKey   string `yaml:"openai_key"`
		OpenAIModel string `yaml:"openai_model"`
		ChatMode    string `yaml:"chat_mode"`
	} `yaml:"ai"`
	Maps struct {
		PlacesKey string `yaml:"places_key"`
		Language  string `yaml:"language"`
	} `yaml:"maps"`
	Weather struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"weather"`
	Cache struct {
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Quota struct {
		Monthly int `yaml:"monthly"`
	} `yaml:"quota"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	var cfg Config
	cfg.HTTP.Addr = ":8000"
	cfg.HTTP.AllowedOrigins = []string{
		"https://www.planmate.site",
		"http://localhost:5173",
		"http://127.0.0.1:5173",
	}
	cfg.AI.Provider = "gemini"
	cfg.AI.GeminiModel = "gemini-2.5-flash"
	cfg.AI.OpenAIModel = "gpt-4o-mini"
	cfg.AI.ChatMode = "tools"
	cfg.Maps.Language = "ko"
	cfg.Cache.TTL = 24 * time.Hour
	cfg.RateLimit.RPS = 5
	cfg.RateLimit.Burst = 10
	return cfg
}

// Load builds the configuration. Missing API keys are not errors; the
// features that need them degrade instead.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv("PLANMATE_CONFIG_FILE"); path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return cfg, err
		}
	}

	// .env is optional and never overrides variables already set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("config: load .env: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.HTTP.Addr = ":" + port
	}
	cfg.HTTP.Addr = envOrDefault("PLANMATE_HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.AllowedOrigins = envOrDefaultList("PLANMATE_ALLOWED_ORIGINS", cfg.HTTP.AllowedOrigins)
	cfg.HTTP.InternalToken = envOrDefault("PLANMATE_INTERNAL_TOKEN", cfg.HTTP.InternalToken)
	cfg.DB.DSN = envOrDefault("PLANMATE_DB_DSN", cfg.DB.DSN)
	cfg.Redis.Addr = envOrDefault("PLANMATE_REDIS_ADDR", cfg.Redis.Addr)
	cfg.AI.Provider = strings.ToLower(envOrDefault("PLANMATE_LLM_PROVIDER", cfg.AI.Provider))
	cfg.AI.GeminiKey = envOrDefault("GEMINI_API_KEY", cfg.AI.GeminiKey)
	cfg.AI.GeminiModel = envOrDefault("PLANMATE_GEMINI_MODEL", cfg.AI.GeminiModel)
	cfg.AI.OpenAIKey = envOrDefault("OPENAI_API_KEY", cfg.AI.OpenAIKey)
	cfg.AI.OpenAIModel = envOrDefault("PLANMATE_OPENAI_MODEL", cfg.AI.OpenAIModel)
	cfg.AI.ChatMode = strings.ToLower(envOrDefault("PLANMATE_CHAT_MODE", cfg.AI.ChatMode))
	cfg.Maps.PlacesKey = envOrDefault("GOOGLE_PLACES_API_KEY", cfg.Maps.PlacesKey)
	cfg.Weather.APIKey = envOrDefault("OPENWEATHER_API_KEY", cfg.Weather.APIKey)
	cfg.Cache.TTL = envOrDefaultDuration("PLANMATE_CACHE_TTL", cfg.Cache.TTL)
	cfg.Quota.Monthly = envOrDefaultInt("PLANMATE_AI_MONTHLY_QUOTA", cfg.Quota.Monthly)
	cfg.RateLimit.RPS = envOrDefaultFloat("PLANMATE_RATE_LIMIT_RPS", cfg.RateLimit.RPS)
	cfg.RateLimit.Burst = envOrDefaultInt("PLANMATE_RATE_LIMIT_BURST", cfg.RateLimit.Burst)

	return cfg, cfg.Validate()
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	switch c.AI.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("config: unknown LLM provider %q", c.AI.Provider)
	}
	switch c.AI.ChatMode {
	case "tools", "structured":
	default:
		return fmt.Errorf("config: unknown chat mode %q", c.AI.ChatMode)
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("config: rate limit must not be negative")
	}
	if c.Quota.Monthly < 0 {
		return fmt.Errorf("config: monthly quota must not be negative")
	}
	return nil
}

func loadYAML(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envOrDefaultList(key string, def []string) []string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
