package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultConfigFile = "./config/config.yaml"

type Postgres struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (p Postgres) ConnStr() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s", p.Host, p.User, p.Password, p.DBName, p.Port, p.SSLMode)
}

// Catalog selects where restaurant records are read from at startup.
type Catalog struct {
	Source string `mapstructure:"source"` // csv or postgres
	Path   string `mapstructure:"path"`
}

type LLM struct {
	Provider    string  `mapstructure:"provider"` // ollama, openai or gemini
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"apiKey"`
	BaseURL     string  `mapstructure:"baseURL"`
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"topP"`
	MaxTokens   int     `mapstructure:"maxTokens"`
}

type Recommender struct {
	CompletionTimeout time.Duration `mapstructure:"completionTimeout"`
}

type Server struct {
	Port      int       `mapstructure:"port"`
	Host      string    `mapstructure:"host"`
	RateLimit RateLimit `mapstructure:"rateLimit"`
}

// RateLimit bounds POST /api/recommend across all clients. Zero requests disables it.
type RateLimit struct {
	Requests int           `mapstructure:"requests"`
	Interval time.Duration `mapstructure:"interval"`
}

func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

type Config struct {
	Postgres    Postgres    `mapstructure:"postgres"`
	Catalog     Catalog     `mapstructure:"catalog"`
	LLM         LLM         `mapstructure:"llm"`
	Recommender Recommender `mapstructure:"recommender"`
	Server      Server      `mapstructure:"server"`
	Log         Log         `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.database", "restaurants")
	v.SetDefault("postgres.sslmode", "disable")

	v.SetDefault("catalog.source", "csv")
	v.SetDefault("catalog.path", "./data/zomato_cleaned.csv")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.apiKey", "")
	v.SetDefault("llm.baseURL", "")
	v.SetDefault("llm.temperature", 0.75)
	v.SetDefault("llm.topP", 0.95)
	v.SetDefault("llm.maxTokens", 512)

	v.SetDefault("recommender.completionTimeout", 30*time.Second)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.rateLimit.requests", 30)
	v.SetDefault("server.rateLimit.interval", time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads defaults, then the optional YAML file at path, then the environment.
// A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("llm.apiKey", "LLM_APIKEY", "LLM_API_KEY", "GEMINI_API_KEY", "GROQ_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind llm api key env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Catalog.Source {
	case "csv":
		if c.Catalog.Path == "" {
			return errors.New("catalog.path is required for the csv source")
		}
	case "postgres":
	default:
		return fmt.Errorf("unknown catalog.source %q", c.Catalog.Source)
	}

	switch c.LLM.Provider {
	case "ollama", "openai", "gemini":
	default:
		return fmt.Errorf("unknown llm.provider %q", c.LLM.Provider)
	}

	if c.Server.RateLimit.Requests > 0 && c.Server.RateLimit.Interval <= 0 {
		return errors.New("server.rateLimit.interval must be positive when requests is set")
	}

	if c.Recommender.CompletionTimeout <= 0 {
		return errors.New("recommender.completionTimeout must be positive")
	}

	return nil
}

// LoadConfig loads from CONFIG_FILE (or the default path) and exits on failure.
func LoadConfig() *Config {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = DefaultConfigFile
	}

	cfg, err := Load(path)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}
