package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port              string
	MongoURI          string
	MongoDatabase     string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	JWTSecret         string
	JWTTTL            time.Duration
	AppTimezone       string
	CacheTTL          time.Duration
	CloudinaryURL     string
	JobsEnabled       bool
	MigrationsEnabled bool
	LoginMaxAttempts  int
	LogLevel          string
	LogFormat         string
	CORSOrigins       []string
}

var (
	instance *Config
	once     sync.Once
)

// Get loads the configuration once; a missing .env only warns.
func Get() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logrus.Warnf("no .env file loaded: %v", err)
		}
		instance = Load()
	})
	return instance
}

// Load reads the configuration from the current environment.
func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getEnv("MONGO_DATABASE", "workforce360"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTTTL:            time.Duration(getEnvAsInt("JWT_TTL_HOURS", 24)) * time.Hour,
		AppTimezone:       getEnv("APP_TIMEZONE", "UTC"),
		CacheTTL:          time.Duration(getEnvAsInt("CACHE_TTL_MINUTES", 30)) * time.Minute,
		CloudinaryURL:     getEnv("CLOUDINARY_URL", ""),
		JobsEnabled:       getEnvAsBool("JOBS_ENABLED", true),
		MigrationsEnabled: getEnvAsBool("MIGRATIONS_ENABLED", true),
		LoginMaxAttempts:  getEnvAsInt("LOGIN_MAX_ATTEMPTS", 3),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		CORSOrigins:       getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsInt(name string, defaultVal int) int {
	valStr := getEnv(name, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsList(name string, defaultVal []string) []string {
	valStr := strings.TrimSpace(getEnv(name, ""))
	if valStr == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
