package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppEnv   string
	LogLevel string
	LogJSON  bool

	SpotPort string
	PlanPort string
	UserPort string

	MongoURI         string
	MongoDB          string
	MongoCollections MongoCollections

	RedisAddr     string // empty disables the popular-spots cache
	RedisPassword string
	RedisDB       int

	OpenAIAPIKey string
	OpenAIModel  string

	FoursquareAPIKey  string
	FoursquareBaseURL string

	JWTSecret string
	JWTExpiry time.Duration

	SpotStaleAfter  time.Duration
	PopularCacheTTL time.Duration
	TempUserTTL     time.Duration
	CleanupInterval time.Duration

	StartupRetries    int
	StartupRetryDelay time.Duration

	AllowedOrigins []string // CORS allowed origins

	// TrustProxyHeaders takes the client address from X-Forwarded-For / X-Real-Ip.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

// MongoCollections holds the MongoDB collection name for each entity.
type MongoCollections struct {
	Spots     string
	Plans     string
	Users     string
	TempUsers string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogJSON:  getEnvBool("LOG_JSON", true),

		SpotPort: getEnv("SPOTDISCOVERY_PORT", "5001"),
		PlanPort: getEnv("TRAVELPLANNING_PORT", "5002"),
		UserPort: getEnv("USER_PORT", "5003"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "travel_advisor"),
		MongoCollections: MongoCollections{
			Spots:     getEnv("MONGO_COLLECTION_SPOTS", "spots"),
			Plans:     getEnv("MONGO_COLLECTION_PLANS", "travelplans"),
			Users:     getEnv("MONGO_COLLECTION_USERS", "users"),
			TempUsers: getEnv("MONGO_COLLECTION_TEMP_USERS", "tempusers"),
		},

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", os.Getenv("OpenAI_API_KEY")),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-3.5-turbo-instruct"),

		FoursquareAPIKey:  getEnv("FSQ_API_KEY", ""),
		FoursquareBaseURL: getEnv("FSQ_BASE_URL", "https://api.foursquare.com/v3"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: getEnvDuration("JWT_EXPIRY", time.Hour),

		SpotStaleAfter:  getEnvDuration("SPOT_STALE_AFTER", 24*time.Hour),
		PopularCacheTTL: getEnvDuration("POPULAR_CACHE_TTL", 24*time.Hour),
		TempUserTTL:     getEnvDuration("TEMP_USER_TTL", 24*time.Hour),
		CleanupInterval: getEnvDuration("CLEANUP_INTERVAL", 24*time.Hour),

		StartupRetries:    getEnvInt("STARTUP_RETRIES", 3),
		StartupRetryDelay: getEnvDuration("STARTUP_RETRY_DELAY", 2*time.Second),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),

		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("90s", "24h").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
