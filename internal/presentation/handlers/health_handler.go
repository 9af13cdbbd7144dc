package handlers

import (
	"context"
	"net/http"
)

// BlockNumberer reports the chain head, used as a liveness check of the node.
type BlockNumberer interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	BlockNumber uint64 `json:"blockNumber,omitempty"`
	Error       string `json:"error,omitempty"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	version string
	chain   BlockNumberer
}

// NewHealthHandler creates a new health handler. chain may be nil.
func NewHealthHandler(version string, chain BlockNumberer) *HealthHandler {
	return &HealthHandler{version: version, chain: chain}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Version: h.version}
	if h.chain == nil {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	block, err := h.chain.BlockNumber(r.Context())
	if err != nil {
		resp.Status = "degraded"
		resp.Error = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.BlockNumber = block
	writeJSON(w, http.StatusOK, resp)
}
