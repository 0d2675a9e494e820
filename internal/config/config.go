// Package config loads the service configuration from defaults, an optional
// TOML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of structured environment overrides. Sections are
// separated by a double underscore: GAAYATRI_LLM__API_KEY sets llm.api_key.
const EnvPrefix = "GAAYATRI_"

// DefaultAPIURL is the Groq chat completions endpoint.
const DefaultAPIURL = "https://api.groq.com/openai/v1/chat/completions"

// Config holds the service configuration.
type Config struct {
	Server struct {
		Port            int           `koanf:"port"`
		ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	} `koanf:"server"`

	Database struct {
		DSN string `koanf:"dsn"`
	} `koanf:"database"`

	Auth struct {
		JWTSecret  string `koanf:"jwt_secret"`
		FarmerRole string `koanf:"farmer_role"`
	} `koanf:"auth"`

	LLM struct {
		// Mode "MOCK" swaps in the offline echo client.
		Mode         string        `koanf:"mode"`
		APIURL       string        `koanf:"api_url"`
		APIKey       string        `koanf:"api_key"`
		Model        string        `koanf:"model"`
		Timeout      time.Duration `koanf:"timeout"`
		Temperature  float64       `koanf:"temperature"`
		MaxTokens    int           `koanf:"max_tokens"`
		HistoryLimit int           `koanf:"history_limit"`
	} `koanf:"llm"`

	Embedding struct {
		Provider  string        `koanf:"provider"`
		Model     string        `koanf:"model"`
		URL       string        `koanf:"url"`
		APIKey    string        `koanf:"api_key"`
		Threshold float64       `koanf:"threshold"`
		Timeout   time.Duration `koanf:"timeout"`
	} `koanf:"embedding"`

	Geo struct {
		APIURL        string        `koanf:"api_url"`
		APIKey        string        `koanf:"api_key"`
		Timeout       time.Duration `koanf:"timeout"`
		RatePerSecond float64       `koanf:"rate_per_second"`
		Burst         int           `koanf:"burst"`
	} `koanf:"geo"`

	WS struct {
		ReadTimeout    time.Duration `koanf:"read_timeout"`
		WriteTimeout   time.Duration `koanf:"write_timeout"`
		PingInterval   time.Duration `koanf:"ping_interval"`
		MaxMessageSize int64         `koanf:"max_message_size"`
	} `koanf:"ws"`

	Log struct {
		Level  string `koanf:"level"`
		Pretty bool   `koanf:"pretty"`
	} `koanf:"log"`
}

var defaults = map[string]interface{}{
	"server.port":             8080,
	"server.shutdown_timeout": "10s",
	"database.dsn":            "file:gaayatri.db?cache=shared&mode=rwc",
	"auth.farmer_role":        "farmer",
	"llm.api_url":             DefaultAPIURL,
	"llm.timeout":             "20s",
	"llm.temperature":         0.7,
	"llm.max_tokens":          512,
	"llm.history_limit":       8,
	"embedding.provider":      "none",
	"embedding.model":         "all-minilm",
	"embedding.threshold":     0.65,
	"embedding.timeout":       "5s",
	"geo.timeout":             "5s",
	"geo.rate_per_second":     5,
	"geo.burst":               5,
	"ws.read_timeout":         "60s",
	"ws.write_timeout":        "10s",
	"ws.ping_interval":        "30s",
	"ws.max_message_size":     65536,
	"log.level":               "info",
}

// legacyEnv maps the variable names of earlier deployments onto config keys.
// When several names target one key the first one set wins.
var legacyEnv = []struct {
	key   string
	names []string
}{
	{"llm.api_url", []string{"CHATBOT_API_URL"}},
	{"llm.api_key", []string{"CHATBOT_API_KEY", "GROQ_API_KEY"}},
	{"llm.model", []string{"CHATBOT_MODEL"}},
	{"embedding.model", []string{"CHATBOT_EMBED_MODEL"}},
	{"embedding.api_key", []string{"HUGGINGFACE_API_TOKEN", "SENTENCE_TRANSFORMERS_API_KEY"}},
	{"embedding.threshold", []string{"ALLOWED_SIMILARITY"}},
	{"geo.api_url", []string{"GEOIP_API_URL"}},
	{"geo.api_key", []string{"GEOIP_API_KEY"}},
	{"database.dsn", []string{"DATABASE_URL"}},
	{"auth.jwt_secret", []string{"JWT_SECRET"}},
	{"log.level", []string{"LOG_LEVEL"}},
}

// Load reads configuration in increasing precedence: defaults, the TOML file
// at configPath (if non-empty), legacy environment names, then
// GAAYATRI_-prefixed variables. A .env file in the working directory is
// loaded into the environment first; variables already set are kept.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	}

	for _, legacy := range legacyEnv {
		for _, name := range legacy.names {
			if val := strings.TrimSpace(os.Getenv(name)); val != "" {
				if err := k.Set(legacy.key, val); err != nil {
					return nil, fmt.Errorf("error applying %s: %w", name, err)
				}
				break
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}
