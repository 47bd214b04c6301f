// Package main Embedding Service API
// @title Embedding Service API
// @version 1.0
// @description Fixed-length text embeddings from a pretrained transformer encoder
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/DjordjeVuckovic/embed-service/docs"
	"github.com/DjordjeVuckovic/embed-service/internal/api/server"
	"github.com/DjordjeVuckovic/embed-service/internal/embedding"
	"github.com/DjordjeVuckovic/embed-service/internal/model"
	"github.com/DjordjeVuckovic/embed-service/internal/router"
	"github.com/labstack/echo/v4"
)

func main() {
	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	cfg, err := NewAppConfig().Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.LogLevel)

	svc := embedding.NewService(embedding.WithMaxConcurrency(cfg.MaxConcurrency))

	s := server.New(sCfg, svc).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/ready").
		SetupMetrics("/metrics").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Embedding Service is running")
	})

	router.NewEmbedRouter(s.Echo, svc).Bind()

	handle, err := model.Load(s.Context(), *cfg.Model)
	if err != nil {
		slog.Error("Failed to load model", "error", err)
		os.Exit(1)
	}
	if err := svc.MarkReady(handle); err != nil {
		slog.Error("Failed to mark service ready", "error", err)
		os.Exit(1)
	}

	err = s.Start(func(ctx context.Context) error {
		slog.Info("Releasing model runtime...")
		return svc.Close()
	})
	if err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}
