package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	Storage                 string // "postgres" or "memory"
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	FirebaseCredentialsPath string
	AuthMode                string // "jwt" or "firebase"
	JWTSecret               string
	LoginURL                string
	FeedCacheTTL            time.Duration
	FeedCacheSize           int
	MaxImageBytes           int64
	LogLevel                string

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

// Load reads the configuration from the environment, after loading a .env
// file if there is one.
func Load() *Config {
	envFileLoaded := godotenv.Load() == nil

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		Storage:                 getEnv("STORAGE", "postgres"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "yatube"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		AuthMode:                getEnv("AUTH_MODE", "jwt"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		LoginURL:                getEnv("LOGIN_URL", "/auth/login/"),
		FeedCacheTTL:            getDuration("FEED_CACHE_TTL", 20*time.Second),
		FeedCacheSize:           getInt("FEED_CACHE_SIZE", 128),
		MaxImageBytes:           int64(getInt("MAX_IMAGE_BYTES", 5<<20)),
		LogLevel:                getEnv("LOG_LEVEL", ""),
	}
	cfg.EnvFileLoaded = envFileLoaded
	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return d
}
