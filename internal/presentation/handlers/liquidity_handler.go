package handlers

import (
	"net/http"

	"github.com/bimakw/amm-sdk/internal/amm"
	"github.com/bimakw/amm-sdk/internal/domain/entities"
	"github.com/bimakw/amm-sdk/internal/domain/services"
)

// LiquidityHandler builds addLiquidity and removeLiquidity calls
type LiquidityHandler struct {
	builder *services.BuilderService
	tokens  tokens
}

// NewLiquidityHandler creates a new liquidity handler
func NewLiquidityHandler(builder *services.BuilderService, registry *entities.TokenRegistry) *LiquidityHandler {
	return &LiquidityHandler{
		builder: builder,
		tokens:  tokens{registry: registry},
	}
}

// AddLiquidityRequest represents an addLiquidity request. Amounts are base
// units, or decimal quantities for registered tokens; missing minimums default
// to zero.
type AddLiquidityRequest struct {
	TokenA         string `json:"tokenA"`
	TokenB         string `json:"tokenB"`
	AmountADesired string `json:"amountADesired"`
	AmountBDesired string `json:"amountBDesired"`
	AmountAMin     string `json:"amountAMin"`
	AmountBMin     string `json:"amountBMin"`
	To             string `json:"to"`
	Deadline       string `json:"deadline"`
}

// RemoveLiquidityRequest represents a removeLiquidity request
type RemoveLiquidityRequest struct {
	TokenA     string `json:"tokenA"`
	TokenB     string `json:"tokenB"`
	Liquidity  string `json:"liquidity"`
	AmountAMin string `json:"amountAMin"`
	AmountBMin string `json:"amountBMin"`
	To         string `json:"to"`
	Deadline   string `json:"deadline"`
}

// Add handles POST /api/v1/liquidity/add
func (h *LiquidityHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddLiquidityRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	params, err := h.addParams(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	call, err := h.builder.AddLiquidity(params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, call)
}

// Remove handles POST /api/v1/liquidity/remove
func (h *LiquidityHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req RemoveLiquidityRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	params, err := h.removeParams(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	call, err := h.builder.RemoveLiquidity(params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, call)
}

func (h *LiquidityHandler) addParams(req AddLiquidityRequest) (amm.AddLiquidityParams, error) {
	var (
		p   amm.AddLiquidityParams
		err error
	)
	if p.TokenA, err = h.tokens.resolve("tokenA", req.TokenA); err != nil {
		return p, err
	}
	if p.TokenB, err = h.tokens.resolve("tokenB", req.TokenB); err != nil {
		return p, err
	}
	if p.AmountADesired, err = h.tokens.amount("amountADesired", req.AmountADesired, p.TokenA, false); err != nil {
		return p, err
	}
	if p.AmountBDesired, err = h.tokens.amount("amountBDesired", req.AmountBDesired, p.TokenB, false); err != nil {
		return p, err
	}
	if p.AmountAMin, err = h.tokens.amount("amountAMin", req.AmountAMin, p.TokenA, true); err != nil {
		return p, err
	}
	if p.AmountBMin, err = h.tokens.amount("amountBMin", req.AmountBMin, p.TokenB, true); err != nil {
		return p, err
	}
	if p.To, err = parseAddress("to", req.To); err != nil {
		return p, err
	}
	p.Deadline, err = parseDeadline(req.Deadline)
	return p, err
}

func (h *LiquidityHandler) removeParams(req RemoveLiquidityRequest) (amm.RemoveLiquidityParams, error) {
	var (
		p   amm.RemoveLiquidityParams
		err error
	)
	if p.TokenA, err = h.tokens.resolve("tokenA", req.TokenA); err != nil {
		return p, err
	}
	if p.TokenB, err = h.tokens.resolve("tokenB", req.TokenB); err != nil {
		return p, err
	}
	if p.Liquidity, err = parseAmount("liquidity", req.Liquidity, false); err != nil {
		return p, err
	}
	if p.AmountAMin, err = h.tokens.amount("amountAMin", req.AmountAMin, p.TokenA, true); err != nil {
		return p, err
	}
	if p.AmountBMin, err = h.tokens.amount("amountBMin", req.AmountBMin, p.TokenB, true); err != nil {
		return p, err
	}
	if p.To, err = parseAddress("to", req.To); err != nil {
		return p, err
	}
	p.Deadline, err = parseDeadline(req.Deadline)
	return p, err
}
