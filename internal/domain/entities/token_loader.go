package entities

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// TokensConfig is the layout of a tokens.json file.
type TokensConfig struct {
	Tokens []Token `json:"tokens"`
}

// TokenRegistry indexes known tokens by address and symbol. Lookups are
// case-insensitive on both keys.
type TokenRegistry struct {
	mu        sync.RWMutex
	byAddress map[string]Token
	bySymbol  map[string]Token
	all       []Token
}

// NewTokenRegistry creates an empty registry.
func NewTokenRegistry() *TokenRegistry {
	return &TokenRegistry{
		byAddress: make(map[string]Token),
		bySymbol:  make(map[string]Token),
	}
}

// LoadFromFile registers every token listed in a JSON config file.
func (r *TokenRegistry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read token config: %w", err)
	}

	var config TokensConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse token config: %w", err)
	}

	for _, token := range config.Tokens {
		if token.Address == "" {
			return fmt.Errorf("token %q has no address", token.Symbol)
		}
		r.Register(token)
	}
	return nil
}

// Register adds or replaces a token.
func (r *TokenRegistry) Register(token Token) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byAddress[strings.ToLower(token.Address)] = token
	if token.Symbol != "" {
		r.bySymbol[strings.ToUpper(token.Symbol)] = token
	}
	r.all = append(r.all, token)
}

// GetByAddress returns a token by its address.
func (r *TokenRegistry) GetByAddress(addr string) (Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	token, ok := r.byAddress[strings.ToLower(addr)]
	return token, ok
}

// GetBySymbol returns a token by its symbol.
func (r *TokenRegistry) GetBySymbol(symbol string) (Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	token, ok := r.bySymbol[strings.ToUpper(symbol)]
	return token, ok
}

// Resolve maps a symbol or an address to a token address. Unknown values are
// returned unchanged so raw addresses always pass through.
func (r *TokenRegistry) Resolve(symbolOrAddress string) string {
	if token, ok := r.GetBySymbol(symbolOrAddress); ok {
		return token.Address
	}
	return symbolOrAddress
}

// GetAll returns a copy of all registered tokens.
func (r *TokenRegistry) GetAll() []Token {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Token, len(r.all))
	copy(out, r.all)
	return out
}

// Count returns the number of registered tokens.
func (r *TokenRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.all)
}

// DefaultRegistry returns a registry with the hardcoded mainnet tokens.
// Use this as fallback if no token file is configured.
func DefaultRegistry() *TokenRegistry {
	r := NewTokenRegistry()
	r.Register(WETH)
	r.Register(USDC)
	r.Register(USDT)
	r.Register(DAI)
	return r
}
