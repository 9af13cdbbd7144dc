package entities

import "math/big"

// TradeType selects which side of a swap the caller fixes.
type TradeType string

const (
	ExactIn  TradeType = "exactIn"
	ExactOut TradeType = "exactOut"
)

// HopResult is the outcome of a single pool hop within a route.
type HopResult struct {
	TokenIn        string   `json:"tokenIn"`
	TokenOut       string   `json:"tokenOut"`
	AmountIn       *big.Int `json:"amountIn"`
	AmountOut      *big.Int `json:"amountOut"`
	FeeBps         uint16   `json:"feeBps"`
	FeeAmount      *big.Int `json:"feeAmount"` // in TokenIn units
	PriceImpactBps uint64   `json:"priceImpactBps"`
}

// SwapQuote is an advisory quote for a direct or multi-hop swap.
type SwapQuote struct {
	TradeType      TradeType   `json:"tradeType"`
	TokenIn        string      `json:"tokenIn"`
	TokenOut       string      `json:"tokenOut"`
	AmountIn       *big.Int    `json:"amountIn"`
	AmountOut      *big.Int    `json:"amountOut"`
	AmountOutMin   *big.Int    `json:"amountOutMin"`
	AmountInMax    *big.Int    `json:"amountInMax"`
	FeeBps         uint16      `json:"feeBps"`
	FeeAmount      *big.Int    `json:"feeAmount"` // in TokenIn units
	PriceImpactBps uint64      `json:"priceImpactBps"`
	Path           []string    `json:"path"`
	Hops           []HopResult `json:"hops"`
	Deadline       int64       `json:"deadline"`
}

// RouteResult is the pure evaluation of a path before slippage and deadline
// are applied.
type RouteResult struct {
	AmountIn       *big.Int
	AmountOut      *big.Int
	FeeAmount      *big.Int
	PriceImpactBps uint64
	Hops           []HopResult
}
