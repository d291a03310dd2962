package amm

import (
	"errors"
)

var (
	ErrInvalidPath           = errors.New("invalid swap path")
	ErrInvalidSlippage       = errors.New("invalid slippage tolerance")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidFee            = errors.New("invalid fee tier")
	ErrIdenticalAddresses    = errors.New("identical token addresses")
	ErrUnknownDeployment     = errors.New("unknown deployment")
	ErrUnsupportedProtocol   = errors.New("operation not supported by protocol")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrInvalidQuote          = errors.New("invalid quote")
)

// ErrorKind maps an error to a stable label for metrics and API responses.
// Anything that is not a validation failure is reported as "transport".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidPath):
		return "invalid_path"
	case errors.Is(err, ErrInvalidSlippage):
		return "invalid_slippage"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrInvalidFee):
		return "invalid_fee"
	case errors.Is(err, ErrIdenticalAddresses):
		return "identical_addresses"
	case errors.Is(err, ErrUnknownDeployment):
		return "unknown_deployment"
	case errors.Is(err, ErrUnsupportedProtocol):
		return "unsupported"
	case errors.Is(err, ErrInsufficientLiquidity):
		return "insufficient_liquidity"
	case errors.Is(err, ErrInvalidQuote):
		return "invalid_quote"
	default:
		return "transport"
	}
}

// IsValidation reports whether err was caused by the caller's input rather
// than by the chain or the transport.
func IsValidation(err error) bool {
	switch ErrorKind(err) {
	case "", "transport", "insufficient_liquidity", "invalid_quote":
		return false
	}
	return true
}
