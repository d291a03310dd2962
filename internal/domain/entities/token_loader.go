package entities

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// tokenFile is the layout of tokens.json
type tokenFile struct {
	Tokens []struct {
		Address  string `json:"address"`
		Symbol   string `json:"symbol"`
		Name     string `json:"name"`
		Decimals *uint8 `json:"decimals"`
	} `json:"tokens"`
}

// TokenRegistry resolves token symbols used by API callers to addresses.
// It is filled at startup and read-only afterwards.
type TokenRegistry struct {
	byAddress map[common.Address]Token
	bySymbol  map[string]common.Address
}

func NewTokenRegistry() *TokenRegistry {
	return &TokenRegistry{
		byAddress: make(map[common.Address]Token),
		bySymbol:  make(map[string]common.Address),
	}
}

// DefaultRegistry returns a registry with the mainnet tokens built in
func DefaultRegistry() *TokenRegistry {
	r := NewTokenRegistry()
	for _, t := range []Token{WETH, USDC, USDT, DAI} {
		r.Register(t)
	}
	return r
}

// LoadFromFile reads a tokens.json file, see Load
func (r *TokenRegistry) LoadFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open token file: %w", err)
	}
	defer f.Close()
	return r.Load(f)
}

// Load registers every token of a tokens.json document. Nothing is
// registered when any entry is invalid.
func (r *TokenRegistry) Load(src io.Reader) error {
	var doc tokenFile
	if err := json.NewDecoder(src).Decode(&doc); err != nil {
		return fmt.Errorf("parse token file: %w", err)
	}

	tokens := make([]Token, 0, len(doc.Tokens))
	for i, e := range doc.Tokens {
		switch {
		case !common.IsHexAddress(e.Address):
			return fmt.Errorf("token %d (%s): invalid address %q", i, e.Symbol, e.Address)
		case strings.TrimSpace(e.Symbol) == "":
			return fmt.Errorf("token %d: symbol missing", i)
		case e.Decimals == nil:
			return fmt.Errorf("token %d (%s): decimals missing", i, e.Symbol)
		}
		tokens = append(tokens, Token{
			Address:  common.HexToAddress(e.Address),
			Symbol:   strings.TrimSpace(e.Symbol),
			Name:     e.Name,
			Decimals: *e.Decimals,
		})
	}

	for _, t := range tokens {
		r.Register(t)
	}
	return nil
}

// Register adds a token, replacing any token with the same address or symbol
func (r *TokenRegistry) Register(token Token) {
	if old, ok := r.byAddress[token.Address]; ok {
		delete(r.bySymbol, strings.ToUpper(old.Symbol))
	}
	if addr, ok := r.bySymbol[strings.ToUpper(token.Symbol)]; ok {
		delete(r.byAddress, addr)
	}
	r.byAddress[token.Address] = token
	r.bySymbol[strings.ToUpper(token.Symbol)] = token.Address
}

func (r *TokenRegistry) GetByAddress(addr common.Address) (Token, bool) {
	token, ok := r.byAddress[addr]
	return token, ok
}

// GetBySymbol looks a symbol up case-insensitively
func (r *TokenRegistry) GetBySymbol(symbol string) (Token, bool) {
	addr, ok := r.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return Token{}, false
	}
	return r.byAddress[addr], true
}

// Lookup returns the registered token named by a hex address or a symbol
func (r *TokenRegistry) Lookup(s string) (Token, bool) {
	s = strings.TrimSpace(s)
	if common.IsHexAddress(s) {
		return r.GetByAddress(common.HexToAddress(s))
	}
	return r.GetBySymbol(s)
}

// Resolve accepts any hex address or a registered symbol
func (r *TokenRegistry) Resolve(s string) (common.Address, bool) {
	s = strings.TrimSpace(s)
	if common.IsHexAddress(s) {
		return common.HexToAddress(s), true
	}
	token, ok := r.GetBySymbol(s)
	return token.Address, ok
}

func (r *TokenRegistry) Count() int {
	return len(r.byAddress)
}
