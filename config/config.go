package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort         string        `mapstructure:"APP_PORT"`
	Env             string        `mapstructure:"ENV"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	AllowedOrigins  string        `mapstructure:"ALLOWED_ORIGINS"`
	TrustedProxies  string        `mapstructure:"TRUSTED_PROXIES"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	// Webhook rate limiting.
	RateLimitMax    int           `mapstructure:"RATE_LIMIT_MAX"`
	RateLimitWindow time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`

	// Redis configuration. An empty address keeps contexts in memory.
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	RedisPassword  string        `mapstructure:"REDIS_PASSWORD"`
	RedisContextDB int           `mapstructure:"REDIS_CONTEXT_DB"`
	ContextTTL     time.Duration `mapstructure:"CONTEXT_TTL"`
	ContextLife    int           `mapstructure:"CONTEXT_LIFESPAN"`

	// Confirmed booking hand-off queue.
	BookingQueueEnabled bool  `mapstructure:"BOOKING_QUEUE_ENABLED"`
	RedisQueueDB        int   `mapstructure:"REDIS_QUEUE_DB"`
	BookingLedgerSize   int64 `mapstructure:"BOOKING_LEDGER_SIZE"`

	// NLU configuration.
	NLUProvider  string `mapstructure:"NLU_PROVIDER"`
	ProjectID    string `mapstructure:"PROJECT_ID"`
	JSONFilePath string `mapstructure:"JSON_FILE_PATH"`
	LanguageCode string `mapstructure:"LANGUAGE_CODE"`
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`
}

var AppConfig Config

func setDefaults() {
	viper.SetDefault("APP_PORT", "5000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("ALLOWED_ORIGINS", "")
	viper.SetDefault("TRUSTED_PROXIES", "")
	viper.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	viper.SetDefault("RATE_LIMIT_MAX", 100)
	viper.SetDefault("RATE_LIMIT_WINDOW", 15*time.Minute)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CONTEXT_DB", 0)
	viper.SetDefault("CONTEXT_TTL", 30*time.Minute)
	viper.SetDefault("CONTEXT_LIFESPAN", 5)
	viper.SetDefault("BOOKING_QUEUE_ENABLED", false)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("BOOKING_LEDGER_SIZE", 1000)
	viper.SetDefault("NLU_PROVIDER", "dialogflow")
	viper.SetDefault("PROJECT_ID", "")
	viper.SetDefault("JSON_FILE_PATH", "")
	viper.SetDefault("LANGUAGE_CODE", "en-US")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-flash")
}

func LoadConfig() {
	// A local .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Origins splits ALLOWED_ORIGINS into a list. An empty value allows every origin.
func (c Config) Origins() []string {
	origins := splitList(c.AllowedOrigins)
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Proxies lists the reverse proxies whose forwarding headers are trusted when
// resolving client IPs. Empty means none.
func (c Config) Proxies() []string {
	return splitList(c.TrustedProxies)
}
