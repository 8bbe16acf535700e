package server

import "github.com/aman-zulfiqar/solana-wallet-tracker/internal/pipeline"

// ErrorResponse is the standardized error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Details any    `json:"details,omitempty"` // dev mode only
}

// HealthResponse is the health check response.
type HealthResponse struct {
	OK bool `json:"ok"`
}

// IngestResponse is the summary returned for one webhook batch.
type IngestResponse struct {
	Success bool `json:"success"`
	pipeline.IngestResult
}
