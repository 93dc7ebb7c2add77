package config

import (
	"net/http"
	"time"
)

// NewStoreHTTPClient is shared by both thread store adapters. The timeout is
// the sole cancellation mechanism for store calls; expired requests surface
// as a retryable unavailable error, never as a fatal state.
func NewStoreHTTPClient(cfg *AppConfig) *http.Client {
	return &http.Client{
		Timeout: time.Duration(cfg.StoreTimeoutSeconds) * time.Second,
	}
}
