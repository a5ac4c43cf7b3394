package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// NoAPIKey is the placeholder used when no Groq credential can be resolved.
// Providers refuse to issue requests with it.
const NoAPIKey = "NOKEY"

type Config struct {
	Addr  string `env:"ADDR" envDefault:":8080"`
	Debug bool   `env:"DEBUG" envDefault:"false"`

	SessionSecret string        `env:"SESSION_SECRET" envDefault:"dev-secret-change-me"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// Account store
	StoreBackend string        `env:"STORE_BACKEND" envDefault:"file"` // file | db
	UsersFile    string        `env:"USERS_FILE" envDefault:"users.json"`
	UserCacheTTL time.Duration `env:"USER_CACHE_TTL" envDefault:"5m"`
	DBDriver     string        `env:"DB_DRIVER" envDefault:"sqlite"` // sqlite | mysql
	DBDSN        string        `env:"DB_DSN" envDefault:"martin.db"`

	GuestCleanupInterval int `env:"GUEST_CLEANUP_INTERVAL" envDefault:"10"`
	HistoryLimit         int `env:"HISTORY_LIMIT" envDefault:"5"`

	// AI provider
	AIProvider     string  `env:"AI_PROVIDER" envDefault:"groq"`
	GroqBaseURL    string  `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	GroqAPIKey     string  `env:"GROQ_API_KEY"`
	GroqAPIKeyFile string  `env:"GROQ_API_KEY_FILE" envDefault:"/run/secrets/groq_api_key"`
	Model          string  `env:"MODEL" envDefault:"llama-3.1-8b-instant"`
	Temperature    float32 `env:"TEMPERATURE" envDefault:"0.7"`
	OllamaBaseURL  string  `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaModel    string  `env:"OLLAMA_MODEL" envDefault:"llama3:latest"`

	ModelCacheTTL time.Duration `env:"MODEL_CACHE_TTL" envDefault:"1h"`

	// Redis (optional; empty addr keeps the model cache in process memory)
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.GroqAPIKey = resolveGroqKey(cfg.GroqAPIKey, cfg.GroqAPIKeyFile)
	return cfg, nil
}

// resolveGroqKey looks for the credential in order of preference:
// environment, secret file, then the NoAPIKey placeholder.
func resolveGroqKey(fromEnv, file string) string {
	if k := strings.TrimSpace(fromEnv); k != "" {
		return k
	}
	if file != "" {
		if b, err := os.ReadFile(file); err == nil {
			if k := strings.TrimSpace(string(b)); k != "" {
				return k
			}
		}
	}
	return NoAPIKey
}
