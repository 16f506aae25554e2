package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"pulse/internal/app"
)

func main() {
	// Local development convenience, missing .env is fine
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded environment from .env")
	}

	application, err := app.NewApplication()
	if err != nil {
		slog.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
