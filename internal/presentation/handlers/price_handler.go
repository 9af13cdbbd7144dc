package handlers

import (
	"context"
	"math/big"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
)

// PriceSource reports the spot price of a pool.
type PriceSource interface {
	GetPoolPrice(ctx context.Context, tokenA, tokenB string) (*entities.PoolPrice, error)
}

type PriceHandler struct {
	prices PriceSource
	tokens *entities.TokenRegistry
}

func NewPriceHandler(prices PriceSource, tokens *entities.TokenRegistry) *PriceHandler {
	return &PriceHandler{
		prices: prices,
		tokens: tokens,
	}
}

type PriceResponse struct {
	Pair       string `json:"pair"`
	TokenA     string `json:"tokenA"`
	TokenB     string `json:"tokenB"`
	ReserveA   string `json:"reserveA"`
	ReserveB   string `json:"reserveB"`
	PriceAPerB string `json:"priceAPerB"`
	PriceBPerA string `json:"priceBPerA"`
	UpdatedAt  string `json:"updatedAt"`
}

// GetPrice handles GET /api/v1/price?tokenA=&tokenB=
func (h *PriceHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	tokenA := r.URL.Query().Get("tokenA")
	tokenB := r.URL.Query().Get("tokenB")
	if tokenA == "" || tokenB == "" {
		writeError(w, http.StatusBadRequest, "missing_params", "tokenA and tokenB are required")
		return
	}

	price, err := h.prices.GetPoolPrice(r.Context(), h.tokens.Resolve(tokenA), h.tokens.Resolve(tokenB))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PriceResponse{
		Pair:       price.PairAddress,
		TokenA:     price.TokenA,
		TokenB:     price.TokenB,
		ReserveA:   amountString(price.ReserveA),
		ReserveB:   amountString(price.ReserveB),
		PriceAPerB: formatPrice(price.PriceAPerB),
		PriceBPerA: formatPrice(price.PriceBPerA),
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
	})
}

// formatPrice formats a price with 18 decimals to a human-readable string
func formatPrice(price *big.Int) string {
	if price == nil {
		return "0"
	}
	return decimal.NewFromBigInt(price, -18).String()
}
