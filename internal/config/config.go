package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Ai        AIConfig
	Providers ProviderConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	LLMTraceLogPath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Store      string // "postgres", "mongo" or "memory"
	Connection string
	MongoURI   string
	MongoDB    string
}

type APIKeys struct {
	Tavily       string
	OpenWeather  string
	GoogleGemini string
	HuggingFace  string
	OpenAI       string
}

type AIConfig struct {
	LLMProvider   string // "ollama", "huggingface", "gemini", "openai"
	LLMModel      string
	OllamaBaseURL string
	LLMTimeout    time.Duration
}

type ProviderConfig struct {
	BookingServiceURL string
	BookingJWTSecret  string
	Timeout           time.Duration
	BookingTimeout    time.Duration
	SearchRatePerSec  int
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "7005"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			LLMTraceLogPath:    getEnv("LLM_TRACE_LOG_PATH", "logs/llm_extraction.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Store:      getEnv("CONVERSATION_STORE", "memory"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			MongoURI:   getEnv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDB:    getEnv("MONGO_DB", "travel_concierge"),
		},
		Keys: APIKeys{
			Tavily:       getEnv("TAVILY_API_KEY", ""),
			OpenWeather:  getEnv("OPEN_WEATHER_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:      getEnv("LLM_MODEL", "phi3:mini"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMTimeout:    getEnvAsDuration("LLM_TIMEOUT", 5*time.Minute),
		},
		Providers: ProviderConfig{
			BookingServiceURL: getEnv("BOOKING_SERVICE_URL", "http://localhost:5000"),
			BookingJWTSecret:  getEnv("BOOKING_JWT_SECRET", ""),
			Timeout:           getEnvAsDuration("PROVIDER_TIMEOUT", 15*time.Second),
			BookingTimeout:    getEnvAsDuration("BOOKING_TIMEOUT", 5*time.Second),
			SearchRatePerSec:  getEnvAsInt("SEARCH_RATE_PER_SECOND", 5),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("90s", "5m") or bare seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
