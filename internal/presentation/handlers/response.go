package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/amm-sdk/internal/amm"
	"github.com/bimakw/amm-sdk/internal/domain/entities"
)

// DefaultDeadline is added to the current time when a request omits deadline
const DefaultDeadline = 20 * time.Minute

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// writeServiceError maps builder errors to a status. Caller input problems
// are 400, everything from the chain side is 502.
func writeServiceError(w http.ResponseWriter, err error) {
	kind := amm.ErrorKind(err)
	switch {
	case errors.Is(err, errBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	case amm.IsValidation(err):
		writeError(w, http.StatusBadRequest, kind, err.Error())
	case kind == "insufficient_liquidity":
		writeError(w, http.StatusUnprocessableEntity, kind, err.Error())
	default:
		writeError(w, http.StatusBadGateway, kind, err.Error())
	}
}

func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// tokens resolves hex addresses and registered symbols
type tokens struct {
	registry *entities.TokenRegistry
}

func (t tokens) resolve(field, s string) (common.Address, error) {
	if t.registry != nil {
		if addr, ok := t.registry.Resolve(s); ok {
			return addr, nil
		}
	} else if common.IsHexAddress(s) {
		return common.HexToAddress(s), nil
	}
	return common.Address{}, fmt.Errorf("%w: %s %q is neither an address nor a known symbol", errBadRequest, field, s)
}

// amount parses a base-10 integer, or a decimal quantity such as "1.5" of a
// registered token, into base units.
func (t tokens) amount(field, s string, token common.Address, optional bool) (*big.Int, error) {
	if !strings.Contains(s, ".") {
		return parseAmount(field, s, optional)
	}
	if t.registry == nil {
		return nil, fmt.Errorf("%w: %s must be a base-10 integer", errBadRequest, field)
	}
	tok, ok := t.registry.GetByAddress(token)
	if !ok {
		return nil, fmt.Errorf("%w: %s: decimals of %s unknown, give base units", errBadRequest, field, token.Hex())
	}
	v, err := tok.ParseUnits(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errBadRequest, field, err)
	}
	return v, checkUint256(field, v)
}

func parseAddress(field, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %s is not a valid address", errBadRequest, field)
	}
	return common.HexToAddress(s), nil
}

// parseAmount parses a base-10 integer. Empty strings are allowed when
// optional is set and yield zero.
func parseAmount(field, s string, optional bool) (*big.Int, error) {
	if s == "" && optional {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a base-10 integer", errBadRequest, field)
	}
	return v, checkUint256(field, v)
}

// checkUint256 rejects values calldata cannot carry
func checkUint256(field string, v *big.Int) error {
	if v.BitLen() > 256 {
		return fmt.Errorf("%w: %s exceeds uint256", amm.ErrInvalidAmount, field)
	}
	return nil
}

func parseDeadline(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(time.Now().Add(DefaultDeadline).Unix()), nil
	}
	return parseAmount("deadline", s, false)
}
