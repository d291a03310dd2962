package handlers

import (
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bimakw/amm-sdk/internal/domain/entities"
	"github.com/bimakw/amm-sdk/internal/domain/services"
)

// PairHandler handles pool derivation and creation requests
type PairHandler struct {
	builder *services.BuilderService
	tokens  tokens
}

// NewPairHandler creates a new pair handler
func NewPairHandler(builder *services.BuilderService, registry *entities.TokenRegistry) *PairHandler {
	return &PairHandler{
		builder: builder,
		tokens:  tokens{registry: registry},
	}
}

// CreatePairRequest represents a createPair request
type CreatePairRequest struct {
	TokenA string  `json:"tokenA"`
	TokenB string  `json:"tokenB"`
	Fee    *uint32 `json:"fee,omitempty"`
}

// GetPair handles GET /api/v1/pairs/{tokenA}/{tokenB}
func (h *PairHandler) GetPair(w http.ResponseWriter, r *http.Request) {
	tokenA, err := h.tokens.resolve("tokenA", chi.URLParam(r, "tokenA"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	tokenB, err := h.tokens.resolve("tokenB", chi.URLParam(r, "tokenB"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var fee *uint32
	if s := r.URL.Query().Get("fee"); s != "" {
		v, err := strconv.ParseUint(s, 10, 24)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_fee", "fee must be an integer below 2^24")
			return
		}
		f := uint32(v)
		fee = &f
	}

	info, err := h.builder.DerivePair(r.Context(), tokenA, tokenB, fee)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// CreatePair handles POST /api/v1/pairs
func (h *PairHandler) CreatePair(w http.ResponseWriter, r *http.Request) {
	var req CreatePairRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	tokenA, err := h.tokens.resolve("tokenA", req.TokenA)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	tokenB, err := h.tokens.resolve("tokenB", req.TokenB)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	call, err := h.builder.CreatePair(r.Context(), tokenA, tokenB, req.Fee)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, call)
}

// PairCountResponse is the number of pairs a factory has created
type PairCountResponse struct {
	Count string `json:"count"`
}

// PairCount handles GET /api/v1/pairs/count
func (h *PairHandler) PairCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.builder.PairCount(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PairCountResponse{Count: n.String()})
}

// PoolsCreated handles GET /api/v1/pools/created?from=&to=
func (h *PairHandler) PoolsCreated(w http.ResponseWriter, r *http.Request) {
	from, err := blockParam(r, "from")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	to, err := blockParam(r, "to")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pools, err := h.builder.PoolsCreated(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pools)
}

// blockParam returns nil for a missing bound, leaving the range open
func blockParam(r *http.Request, name string) (*big.Int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a block number", errBadRequest, name)
	}
	return new(big.Int).SetUint64(v), nil
}
