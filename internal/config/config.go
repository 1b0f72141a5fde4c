package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/videotube/account-service/pkg/config"
)

// AccountConfig extends GlobalConfig with everything the account service
// needs: datastore, token secrets, asset-store credentials. Constructed once
// at process start; business logic never reads the environment directly.
type AccountConfig struct {
	config.GlobalConfig
	CORSOrigin                   string
	PostgresDSN                  string
	AccessTokenSecret            string
	RefreshTokenSecret           string
	AzureStorageConnectionString string
	BlobContainerName            string
	RedisAddr                    string
	RedisPassword                string
	TempDir                      string
}

func LoadAccountConfig() *AccountConfig {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}
	return &AccountConfig{
		GlobalConfig:                 *config.LoadGlobalConfig(),
		CORSOrigin:                   getEnvDefault("CORS_ORIGIN", "*"),
		PostgresDSN:                  getEnv("POSTGRES_DSN"),
		AccessTokenSecret:            getEnv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret:           getEnv("REFRESH_TOKEN_SECRET"),
		AzureStorageConnectionString: getEnv("AZURE_STORAGE_CONNECTION_STRING"),
		BlobContainerName:            getEnv("BLOB_CONTAINER_NAME"),
		RedisAddr:                    getEnvDefault("REDIS_ADDR", ""),
		RedisPassword:                getEnvDefault("REDIS_PASSWORD", ""),
		TempDir:                      getEnvDefault("TEMP_DIR", "./public/temp"),
	}
}

// getEnv retrieves the value of the environment variable named by the key.
func getEnv(key string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	} else {
		panic("critical config missing: " + key)
	}
}

func getEnvDefault(key, def string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return def
}
