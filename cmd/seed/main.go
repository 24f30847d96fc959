package main

import (
	"context"
	"log"
	"os"

	"agent-dashboard-be/internal/config"
	"agent-dashboard-be/internal/pkg/logger"
	"agent-dashboard-be/internal/repository/implementation"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// Seeds a sample character profile and a default settings file so the
// dashboard has something to show on a fresh checkout.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	cfg := config.Load()
	ctx := context.Background()
	sysLogger := logger.NewNopLogger()

	color.Cyan("🌱 Seeding dashboard storage\n")

	if err := os.MkdirAll(cfg.Store.CharactersDir, 0o755); err != nil {
		color.Red("Failed to create characters directory: %v", err)
		os.Exit(1)
	}

	characterRepo := implementation.NewCharacterRepository(cfg.Store.CharactersDir, sysLogger)
	sample := map[string]any{
		"path_name":    "sample.json",
		"alias":        "Sage",
		"bio":          "A patient mentor who answers with calm, practical advice.",
		"adjectives":   []any{"thoughtful", "dry-witted"},
		"lore":         []any{"Spent a decade maintaining lighthouse radios."},
		"styles":       []any{"short sentences", "no exclamation marks"},
		"topics":       []any{"radio", "weather", "navigation"},
		"inspirations": []any{"old field manuals"},
	}

	color.Yellow("\n[1] Writing sample character")
	if _, err := characterRepo.Save(ctx, "sample.json", sample); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Wrote %s/sample.json", cfg.Store.CharactersDir)

	color.Yellow("\n[2] Writing default settings")
	settingsRepo := implementation.NewSettingsRepository(cfg.Store.SettingsDir, sysLogger)
	if _, err := settingsRepo.Create(ctx, "config.json"); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Wrote %s/config.json", cfg.Store.SettingsDir)

	color.Cyan("\n✅ Done")
}
