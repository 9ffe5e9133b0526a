package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	// TaskEngine selects the storage backend: relational, document or
	// cloud-document.
	TaskEngine string

	// EncryptionKey is the hex-encoded AES-256 key sealing sensitive task
	// fields at rest.
	EncryptionKey string

	DbHost     string
	DbPort     string
	DbUser     string
	DbPassword string
	DbName     string
	DbParams   string

	MongoURI      string
	MongoDatabase string

	CosmosEndpoint  string
	CosmosKey       string
	CosmosDatabase  string
	CosmosContainer string

	TrustedProxies []string
}

func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		AppPort:       getEnv("APP_PORT", "8080"),
		TaskEngine:    getEnv("TASK_ENGINE", "relational"),
		EncryptionKey: os.Getenv("ENCRYPTION_KEY"),

		DbHost:     getEnv("MYSQL_HOST", "db"),
		DbPort:     getEnv("MYSQL_PORT", "3306"),
		DbUser:     getEnv("MYSQL_USER", "tasks"),
		DbPassword: getEnv("MYSQL_PASSWORD", "tasks"),
		DbName:     getEnv("MYSQL_DATABASE", "tasks"),
		DbParams:   getEnv("MYSQL_PARAMS", "parseTime=true&multiStatements=true"),

		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "tasks"),

		CosmosEndpoint:  os.Getenv("COSMOS_ENDPOINT"),
		CosmosKey:       os.Getenv("COSMOS_KEY"),
		CosmosDatabase:  getEnv("COSMOS_DATABASE", "tasks"),
		CosmosContainer: getEnv("COSMOS_CONTAINER", "tasks"),

		TrustedProxies: parseTrustedProxies(os.Getenv("TRUSTED_PROXIES")),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseTrustedProxies(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	proxies := make([]string, 0, len(parts))
	for _, part := range parts {
		proxy := strings.TrimSpace(part)
		if proxy == "" {
			continue
		}
		proxies = append(proxies, proxy)
	}

	if len(proxies) == 0 {
		return nil
	}

	return proxies
}
