package handlers

import (
	"fmt"
	"net/http"

	"github.com/bimakw/amm-sdk/internal/amm"
	"github.com/bimakw/amm-sdk/internal/domain/entities"
	"github.com/bimakw/amm-sdk/internal/domain/services"
)

// DefaultSlippage is used when a swap request omits slippage (0.5%)
const DefaultSlippage = 0.005

// SwapHandler quotes and builds swaps
type SwapHandler struct {
	builder *services.BuilderService
	tokens  tokens
}

// NewSwapHandler creates a new swap handler
func NewSwapHandler(builder *services.BuilderService, registry *entities.TokenRegistry) *SwapHandler {
	return &SwapHandler{
		builder: builder,
		tokens:  tokens{registry: registry},
	}
}

// SwapRequest represents a swap request. Kind is "exact_in" (default) or
// "exact_out"; Slippage is a fraction, e.g. 0.01 for 1%.
type SwapRequest struct {
	Path     []string `json:"path"`
	Amount   string   `json:"amount"`
	Kind     string   `json:"kind"`
	Slippage *float64 `json:"slippage,omitempty"`
	To       string   `json:"to"`
	Deadline string   `json:"deadline"`
}

// Swap handles POST /api/v1/swap
func (h *SwapHandler) Swap(w http.ResponseWriter, r *http.Request) {
	var req SwapRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	params, err := h.params(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	res, err := h.builder.Swap(r.Context(), params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *SwapHandler) params(req SwapRequest) (amm.SwapParams, error) {
	var p amm.SwapParams

	kind, err := entities.ParseAmountKind(req.Kind)
	if err != nil {
		return p, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	p.Path = make(entities.SwapPath, len(req.Path))
	for i, s := range req.Path {
		if p.Path[i], err = h.tokens.resolve("path", s); err != nil {
			return p, err
		}
	}

	// the fixed side names the token a decimal amount is denominated in
	fixed := p.Path.First()
	if kind == entities.AmountExactOut {
		fixed = p.Path.Last()
	}
	value, err := h.tokens.amount("amount", req.Amount, fixed, false)
	if err != nil {
		return p, err
	}
	p.Amount = entities.Amount{Kind: kind, Value: value}

	p.SlippageTolerance = DefaultSlippage
	if req.Slippage != nil {
		p.SlippageTolerance = *req.Slippage
	}
	if p.To, err = parseAddress("to", req.To); err != nil {
		return p, err
	}
	p.Deadline, err = parseDeadline(req.Deadline)
	return p, err
}
