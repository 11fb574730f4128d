package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all environment-driven settings for the server.
type Config struct {
	MongoURI  string
	MongoDB   string
	RedisAddr string
	HTTPPort  string

	JWTSecret string

	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string
	S3Bucket     string

	ExpoPushURL string
}

// Load reads configuration from the environment, falling back to
// development defaults. A .env file is honored if present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}

	return &Config{
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "lingoclass"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:  getEnv("PORT", "8080"),

		JWTSecret: getEnv("JWT_SECRET", "super-secret-key-change-in-production"),

		AWSRegion:    getEnv("AWS_REGION", "eu-central-1"),
		AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		S3Bucket:     getEnv("S3_BUCKET", "lingoclass-uploads"),

		ExpoPushURL: getEnv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
