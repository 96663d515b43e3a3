// Package config loads runtime configuration from the environment.
package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            int
	BackendURL      string
	StorePath       string
	DeepSeekAPIKey  string
	DeepSeekBaseURL string
	Model           string
	SecretPassword  string
}

func Load() Config {
	return Config{
		Port:            envInt("PORT", 5000),
		BackendURL:      envStr("CLINIC_BACKEND_URL", "http://127.0.0.1:5000"),
		StorePath:       envStr("CLINIC_STORE_PATH", ""),
		DeepSeekAPIKey:  envStr("DEEPSEEK_API_KEY", ""),
		DeepSeekBaseURL: envStr("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
		Model:           envStr("CLINIC_MODEL", "deepseek-chat"),
		SecretPassword:  envStr("SECRET_PASSWORD", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
