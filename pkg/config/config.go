package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	MongoURI                string
	MongoDatabase           string
	JWTSecret               string
	TokenTTLHours           int
	AuthProvider            string // "jwt" or "firebase"
	FirebaseCredentialsPath string
	BodyLimit               string
	LogLevel                string
	LogPath                 string
}

func Load() *Config {
	// Load environment variables from .env file, if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		MongoURI:                getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:           getEnv("MONGO_DATABASE", "socialite"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		TokenTTLHours:           getEnvInt("TOKEN_TTL_HOURS", 72),
		AuthProvider:            getEnv("AUTH_PROVIDER", "jwt"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		BodyLimit:               getEnv("BODY_LIMIT", "2M"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogPath:                 getEnv("LOG_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
