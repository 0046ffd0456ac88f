package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port           string
	StoreDriver    string
	MongoURI       string
	DBName         string
	UsersSeedFile  string
	JWTSecret      string
	RequestTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RoleCacheTTL  time.Duration

	ImageDriver    string
	PublicDir      string
	PublicBaseURL  string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string
	MinioPublicURL string

	GeocoderDriver string
	GoogleAPIKey   string
	GeocodeCountry string
	GeocodeTable   string
}

// Load reads .env (if present) and the process environment into AppEnv.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] [INFO] .env not loaded:", err)
	}
	AppEnv = FromEnv()
}

func FromEnv() Config {
	return Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		StoreDriver:    strings.ToLower(getEnvOrDefault("STORE_DRIVER", "mongo")),
		MongoURI:       getEnvOrDefault("MONGO_URI", ""),
		DBName:         getEnvOrDefault("DB_NAME", "renthub"),
		UsersSeedFile:  getEnvOrDefault("USERS_SEED_FILE", ""),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", ""),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 5, time.Second),

		RedisAddr:     getEnvOrDefault("REDIS_ADDR", ""),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		RoleCacheTTL:  getDurationEnv("ROLE_CACHE_TTL", 30, time.Minute),

		ImageDriver:    strings.ToLower(getEnvOrDefault("IMAGE_DRIVER", "disk")),
		PublicDir:      getEnvOrDefault("PUBLIC_DIR", "./public"),
		PublicBaseURL:  getEnvOrDefault("PUBLIC_BASE_URL", "/public"),
		MinioEndpoint:  getEnvOrDefault("MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnvOrDefault("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnvOrDefault("MINIO_SECRET_KEY", ""),
		MinioUseSSL:    getBoolEnv("MINIO_USE_SSL", false),
		MinioBucket:    getEnvOrDefault("MINIO_BUCKET", "property-images"),
		MinioPublicURL: getEnvOrDefault("MINIO_PUBLIC_URL", ""),

		GeocoderDriver: strings.ToLower(getEnvOrDefault("GEOCODER_DRIVER", "google")),
		GoogleAPIKey:   getEnvOrDefault("GOOGLE_MAPS_API_KEY", ""),
		GeocodeCountry: getEnvOrDefault("GEOCODE_COUNTRY", "Canada"),
		GeocodeTable:   getEnvOrDefault("GEOCODE_TABLE", ""),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
