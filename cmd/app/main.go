package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"CasaLinkAPI/internal/adapter"
	"CasaLinkAPI/internal/bootstrap"
	"CasaLinkAPI/internal/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.LoadAppConfig()

	redisAdapter, err := adapter.NewRedisAdapter(cfg)
	if err != nil {
		slog.Error("Failed to initialize Redis, continuing without cache", "error", err)
		redisAdapter = nil
	}

	storeHTTPClient := config.NewStoreHTTPClient(cfg)
	validate := config.NewValidator()
	chiMux := config.NewChi(cfg)

	bootstrap.Init(cfg, validate, storeHTTPClient, redisAdapter, chiMux)

	addr := fmt.Sprintf(":%s", cfg.AppPort)
	slog.Info("Starting CasaLinkAPI", "port", cfg.AppPort)

	if err := http.ListenAndServe(addr, chiMux); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
