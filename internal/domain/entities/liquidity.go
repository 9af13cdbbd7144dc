package entities

import "math/big"

// LiquidityQuote is the advisory result of an add-liquidity request.
type LiquidityQuote struct {
	PairAddress       string   `json:"pairAddress,omitempty"`
	FirstDeposit      bool     `json:"firstDeposit"`
	AmountA           *big.Int `json:"amountA"`
	AmountB           *big.Int `json:"amountB"`
	EstimatedLPTokens *big.Int `json:"estimatedLPTokens"`
	ShareOfPool       float64  `json:"shareOfPool"`
	PriceAPerB        *big.Int `json:"priceAPerB"` // scaled by PriceScale
	PriceBPerA        *big.Int `json:"priceBPerA"` // scaled by PriceScale
}

// RemoveLiquidityQuote is the underlying value released by burning LP tokens.
type RemoveLiquidityQuote struct {
	PairAddress    string   `json:"pairAddress"`
	LPTokenAddress string   `json:"lpTokenAddress"`
	Token0         string   `json:"token0"`
	Token1         string   `json:"token1"`
	Liquidity      *big.Int `json:"liquidity"`
	TotalSupply    *big.Int `json:"totalSupply"`
	Amount0        *big.Int `json:"amount0"`
	Amount1        *big.Int `json:"amount1"`
	Share          float64  `json:"share"`
}

// Position is an owner's LP holding in a pool valued at current reserves.
type Position struct {
	PairAddress    string   `json:"pairAddress"`
	LPTokenAddress string   `json:"lpTokenAddress"`
	Owner          string   `json:"owner"`
	Token0         string   `json:"token0"`
	Token1         string   `json:"token1"`
	Balance        *big.Int `json:"balance"`
	TotalSupply    *big.Int `json:"totalSupply"`
	Share          float64  `json:"share"`
	Token0Amount   *big.Int `json:"token0Amount"`
	Token1Amount   *big.Int `json:"token1Amount"`
}

// PoolPrice is the instantaneous price of a pool in caller token order.
type PoolPrice struct {
	PairAddress string   `json:"pairAddress"`
	TokenA      string   `json:"tokenA"`
	TokenB      string   `json:"tokenB"`
	ReserveA    *big.Int `json:"reserveA"`
	ReserveB    *big.Int `json:"reserveB"`
	PriceAPerB  *big.Int `json:"priceAPerB"`
	PriceBPerA  *big.Int `json:"priceBPerA"`
}
