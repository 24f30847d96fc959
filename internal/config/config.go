package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App   AppConfig
	Store StoreConfig
	Agent AgentConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type StoreConfig struct {
	// CharactersDir holds one *.json file per character profile.
	CharactersDir string
	// SettingsDir is the root storage directory; settings files are
	// config.json or config.<label>.json directly inside it.
	SettingsDir string
}

type AgentConfig struct {
	// BaseURL of the external agent server (the /prompt and /character/gen API).
	BaseURL string
	Timeout time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
		},
		Store: StoreConfig{
			CharactersDir: getEnv("CHARACTERS_DIR", "./characters"),
			SettingsDir:   getEnv("SETTINGS_DIR", "."),
		},
		Agent: AgentConfig{
			BaseURL: getEnv("AGENT_BASE_URL", "http://localhost:3001"),
			Timeout: time.Duration(getEnvAsInt("AGENT_TIMEOUT_SECONDS", 120)) * time.Second,
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
