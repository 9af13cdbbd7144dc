package handlers

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
	"github.com/bimakw/amm-quoter/internal/domain/services"
)

// LiquidityQuoter prices deposits and withdrawals.
type LiquidityQuoter interface {
	GetAddLiquidityQuote(ctx context.Context, tokenA, tokenB string, amountADesired, amountBDesired *big.Int) (*entities.LiquidityQuote, error)
	GetRemoveLiquidityQuote(ctx context.Context, pair string, liquidity *big.Int) (*entities.RemoveLiquidityQuote, error)
}

// LiquiditySubmitter builds and submits router transactions.
type LiquiditySubmitter interface {
	AddLiquidity(ctx context.Context, p services.AddLiquidityParams) (*services.SubmitResult, error)
	RemoveLiquidity(ctx context.Context, p services.RemoveLiquidityParams) (*services.SubmitResult, error)
}

// LiquidityHandler serves add/remove liquidity quotes and simulations.
type LiquidityHandler struct {
	quoter    LiquidityQuoter
	submitter LiquiditySubmitter
	tokens    *entities.TokenRegistry
}

func NewLiquidityHandler(quoter LiquidityQuoter, submitter LiquiditySubmitter, tokens *entities.TokenRegistry) *LiquidityHandler {
	return &LiquidityHandler{
		quoter:    quoter,
		submitter: submitter,
		tokens:    tokens,
	}
}

// AddLiquidityRequest is the body of POST /liquidity/add/simulate.
// Amounts are base-10 integer strings; empty minimums mean zero.
type AddLiquidityRequest struct {
	TokenA         string `json:"tokenA"`
	TokenB         string `json:"tokenB"`
	AmountADesired string `json:"amountADesired"`
	AmountBDesired string `json:"amountBDesired"`
	AmountAMin     string `json:"amountAMin"`
	AmountBMin     string `json:"amountBMin"`
	To             string `json:"to"`
	Deadline       int64  `json:"deadline"`
}

// RemoveLiquidityRequest is the body of POST /liquidity/remove/simulate.
type RemoveLiquidityRequest struct {
	TokenA     string `json:"tokenA"`
	TokenB     string `json:"tokenB"`
	Liquidity  string `json:"liquidity"`
	AmountAMin string `json:"amountAMin"`
	AmountBMin string `json:"amountBMin"`
	To         string `json:"to"`
	Deadline   int64  `json:"deadline"`
}

// GetAddQuote handles GET /api/v1/liquidity/add?tokenA=&tokenB=&amountA=&amountB=
func (h *LiquidityHandler) GetAddQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tokenA, tokenB := q.Get("tokenA"), q.Get("tokenB")
	if tokenA == "" || tokenB == "" || q.Get("amountA") == "" {
		writeError(w, http.StatusBadRequest, "missing_params", "tokenA, tokenB, and amountA are required")
		return
	}

	amountA, ok := parseAmount(q.Get("amountA"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_amount", "amountA must be a non-negative integer")
		return
	}
	var amountB *big.Int
	if s := q.Get("amountB"); s != "" {
		if amountB, ok = parseAmount(s); !ok {
			writeError(w, http.StatusBadRequest, "invalid_amount", "amountB must be a non-negative integer")
			return
		}
	}

	quote, err := h.quoter.GetAddLiquidityQuote(r.Context(), h.tokens.Resolve(tokenA), h.tokens.Resolve(tokenB), amountA, amountB)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// GetRemoveQuote handles GET /api/v1/liquidity/remove?pair=&liquidity=
func (h *LiquidityHandler) GetRemoveQuote(w http.ResponseWriter, r *http.Request) {
	pair := r.URL.Query().Get("pair")
	if pair == "" || r.URL.Query().Get("liquidity") == "" {
		writeError(w, http.StatusBadRequest, "missing_params", "pair and liquidity are required")
		return
	}
	liquidity, ok := parseAmount(r.URL.Query().Get("liquidity"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_amount", "liquidity must be a non-negative integer")
		return
	}

	quote, err := h.quoter.GetRemoveLiquidityQuote(r.Context(), pair, liquidity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// SimulateAdd handles POST /api/v1/liquidity/add/simulate
func (h *LiquidityHandler) SimulateAdd(w http.ResponseWriter, r *http.Request) {
	var req AddLiquidityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	amounts, ok := parseAmounts(req.AmountADesired, req.AmountBDesired, req.AmountAMin, req.AmountBMin)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_amount", "amounts must be non-negative integers")
		return
	}

	result, err := h.submitter.AddLiquidity(r.Context(), services.AddLiquidityParams{
		TokenA:         h.tokens.Resolve(req.TokenA),
		TokenB:         h.tokens.Resolve(req.TokenB),
		AmountADesired: amounts[0],
		AmountBDesired: amounts[1],
		AmountAMin:     amounts[2],
		AmountBMin:     amounts[3],
		To:             req.To,
		Deadline:       req.Deadline,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SimulateRemove handles POST /api/v1/liquidity/remove/simulate
func (h *LiquidityHandler) SimulateRemove(w http.ResponseWriter, r *http.Request) {
	var req RemoveLiquidityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	amounts, ok := parseAmounts(req.Liquidity, req.AmountAMin, req.AmountBMin)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_amount", "amounts must be non-negative integers")
		return
	}

	result, err := h.submitter.RemoveLiquidity(r.Context(), services.RemoveLiquidityParams{
		TokenA:     h.tokens.Resolve(req.TokenA),
		TokenB:     h.tokens.Resolve(req.TokenB),
		Liquidity:  amounts[0],
		AmountAMin: amounts[1],
		AmountBMin: amounts[2],
		To:         req.To,
		Deadline:   req.Deadline,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// parseAmounts parses optional amount strings; empty ones become nil.
func parseAmounts(values ...string) ([]*big.Int, bool) {
	out := make([]*big.Int, len(values))
	for i, s := range values {
		if s == "" {
			continue
		}
		v, ok := parseAmount(s)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
