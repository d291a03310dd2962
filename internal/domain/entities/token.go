package entities

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Token is an ERC-20 as API callers name it. Pools and routers only see the
// address; symbol and decimals are for input and display.
type Token struct {
	Address  common.Address `json:"address"`
	Symbol   string         `json:"symbol"`
	Name     string         `json:"name"`
	Decimals uint8          `json:"decimals"`
}

func (t Token) String() string {
	if t.Symbol == "" {
		return t.Address.Hex()
	}
	return t.Symbol
}

// ParseUnits converts a decimal quantity such as "1.5" into base units.
// More fractional digits than Decimals is an error, not a rounding.
func (t Token) ParseUnits(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > int(t.Decimals) {
		return nil, fmt.Errorf("%s has %d decimals, got %q", t, t.Decimals, s)
	}
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("invalid %s amount %q", t, s)
	}

	digits := whole + frac + strings.Repeat("0", int(t.Decimals)-len(frac))
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok || strings.ContainsAny(digits, "+-") {
		return nil, fmt.Errorf("invalid %s amount %q", t, s)
	}
	return v, nil
}

// FormatUnits renders base units as a decimal quantity without trailing zeros
func (t Token) FormatUnits(v *big.Int) string {
	if v == nil {
		return "0"
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(t.Decimals)), nil)
	q, r := new(big.Int).QuoRem(new(big.Int).Abs(v), scale, new(big.Int))

	out := q.String()
	if r.Sign() != 0 {
		frac := r.String()
		frac = strings.Repeat("0", int(t.Decimals)-len(frac)) + frac
		out += "." + strings.TrimRight(frac, "0")
	}
	if v.Sign() < 0 {
		out = "-" + out
	}
	return out
}

// Mainnet tokens known without a token file. WETH is also the native wrapper
// of the mainnet V2 routers.
var (
	WETH = Token{
		Address:  common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
		Symbol:   "WETH",
		Name:     "Wrapped Ether",
		Decimals: 18,
	}
	USDC = Token{
		Address:  common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
		Symbol:   "USDC",
		Name:     "USD Coin",
		Decimals: 6,
	}
	USDT = Token{
		Address:  common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"),
		Symbol:   "USDT",
		Name:     "Tether USD",
		Decimals: 6,
	}
	DAI = Token{
		Address:  common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"),
		Symbol:   "DAI",
		Name:     "Dai Stablecoin",
		Decimals: 18,
	}
)
