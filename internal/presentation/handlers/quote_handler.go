package handlers

import (
	"context"
	"math/big"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
)

// Quoter prices swaps along a token path.
type Quoter interface {
	GetQuote(ctx context.Context, tradeType entities.TradeType, path []string, amount *big.Int, slippageBps uint16) (*entities.SwapQuote, error)
}

// QuoteHandler handles quote requests
type QuoteHandler struct {
	quoter Quoter
	tokens *entities.TokenRegistry
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoter Quoter, tokens *entities.TokenRegistry) *QuoteHandler {
	return &QuoteHandler{
		quoter: quoter,
		tokens: tokens,
	}
}

// QuoteResponse represents a quote response
type QuoteResponse struct {
	TradeType    string     `json:"tradeType"`
	TokenIn      string     `json:"tokenIn"`
	TokenOut     string     `json:"tokenOut"`
	AmountIn     string     `json:"amountIn"`
	AmountOut    string     `json:"amountOut"`
	MinAmountOut string     `json:"minAmountOut,omitempty"`
	MaxAmountIn  string     `json:"maxAmountIn,omitempty"`
	SlippageBps  uint16     `json:"slippageBps"`
	FeeBps       uint16     `json:"feeBps"`
	FeeAmount    string     `json:"feeAmount"`
	PriceImpact  string     `json:"priceImpact"`
	Route        []RouteHop `json:"route"`
	Deadline     int64      `json:"deadline"`
}

// RouteHop represents a hop in the route
type RouteHop struct {
	TokenIn     string `json:"tokenIn"`
	TokenOut    string `json:"tokenOut"`
	AmountIn    string `json:"amountIn"`
	AmountOut   string `json:"amountOut"`
	Fee         uint16 `json:"fee"`
	FeeAmount   string `json:"feeAmount"`
	PriceImpact string `json:"priceImpact"`
}

// GetQuote handles GET /api/v1/quote?path=A,B[,C]&amount=&type=&slippage=
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pathStr := q.Get("path")
	amountStr := q.Get("amount")

	if pathStr == "" || amountStr == "" {
		writeError(w, http.StatusBadRequest, "missing_params", "path and amount are required")
		return
	}

	tradeType := entities.ExactIn
	switch q.Get("type") {
	case "", string(entities.ExactIn):
	case string(entities.ExactOut):
		tradeType = entities.ExactOut
	default:
		writeError(w, http.StatusBadRequest, "invalid_type", "type must be exactIn or exactOut")
		return
	}

	amount, ok := parseAmount(amountStr)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_amount", "amount must be a non-negative integer")
		return
	}

	// Default slippage 50 bps = 0.5%
	slippageBps, ok := parseBps(q.Get("slippage"), 50)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_slippage", "slippage must be 0-10000 basis points")
		return
	}

	parts := strings.Split(pathStr, ",")
	path := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			writeError(w, http.StatusBadRequest, "invalid_path", "path contains an empty token")
			return
		}
		path = append(path, h.tokens.Resolve(p))
	}

	quote, err := h.quoter.GetQuote(r.Context(), tradeType, path, amount, slippageBps)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, buildQuoteResponse(quote, slippageBps))
}

func buildQuoteResponse(quote *entities.SwapQuote, slippageBps uint16) QuoteResponse {
	route := make([]RouteHop, 0, len(quote.Hops))
	for _, hop := range quote.Hops {
		route = append(route, RouteHop{
			TokenIn:     hop.TokenIn,
			TokenOut:    hop.TokenOut,
			AmountIn:    amountString(hop.AmountIn),
			AmountOut:   amountString(hop.AmountOut),
			Fee:         hop.FeeBps,
			FeeAmount:   amountString(hop.FeeAmount),
			PriceImpact: formatBps(hop.PriceImpactBps),
		})
	}

	return QuoteResponse{
		TradeType:    string(quote.TradeType),
		TokenIn:      quote.TokenIn,
		TokenOut:     quote.TokenOut,
		AmountIn:     amountString(quote.AmountIn),
		AmountOut:    amountString(quote.AmountOut),
		MinAmountOut: amountString(quote.AmountOutMin),
		MaxAmountIn:  amountString(quote.AmountInMax),
		SlippageBps:  slippageBps,
		FeeBps:       quote.FeeBps,
		FeeAmount:    amountString(quote.FeeAmount),
		PriceImpact:  formatBps(quote.PriceImpactBps),
		Route:        route,
		Deadline:     quote.Deadline,
	}
}

// formatBps renders basis points as a percentage, 109 -> "1.09%".
func formatBps(bps uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(bps), -2).StringFixed(2) + "%"
}
