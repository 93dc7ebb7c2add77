package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"CasaLinkAPI/internal/adapter"
	"CasaLinkAPI/internal/config"
	"CasaLinkAPI/internal/scheduler"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.LoadAppConfig()

	storeHTTPClient := config.NewStoreHTTPClient(cfg)
	propertyAdapter := adapter.NewPropertyThreadAdapter(cfg, storeHTTPClient)
	communityAdapter := adapter.NewCommunityThreadAdapter(cfg, storeHTTPClient)

	s := scheduler.New(cfg, propertyAdapter, communityAdapter)
	s.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	s.Stop()
}
