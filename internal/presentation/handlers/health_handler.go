package handlers

import (
	"net/http"

	"github.com/bimakw/amm-sdk/internal/amm"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Protocol string `json:"protocol"`
	Chain    string `json:"chain,omitempty"`
	Factory  string `json:"factory"`
	Router   string `json:"router"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	version  string
	protocol *amm.Protocol
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, protocol *amm.Protocol) *HealthHandler {
	return &HealthHandler{version: version, protocol: protocol}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Version:  h.version,
		Protocol: string(h.protocol.Type()),
		Factory:  h.protocol.Factory().Address().Hex(),
		Router:   h.protocol.Router().Address().Hex(),
	}
	if chain, ok := h.protocol.Chain(); ok {
		resp.Chain = chain.String()
	}
	writeJSON(w, http.StatusOK, resp)
}
