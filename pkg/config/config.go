package config

import (
	"os"
	"strconv"
)

type GlobalConfig struct {
	AccessTokenTTL  int // in minutes
	RefreshTokenTTL int // in minutes
	ServerPort      string
}

func LoadGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		AccessTokenTTL:  getEnvInt("ACCESS_TOKEN_TTL_MIN", 30),
		RefreshTokenTTL: getEnvInt("REFRESH_TOKEN_TTL_MIN", 14400), // 10 days
		ServerPort:      getEnv("SERVER_PORT"),
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

// getEnvInt reads an integer environment variable, falling back to def when
// unset or malformed.
func getEnvInt(key string, def int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return def
}
