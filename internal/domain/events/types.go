// Package events decodes pool contract events out of Soroban transaction
// metadata into typed pool-state events.
package events

import "math/big"

// Kind names a pool event variant. It matches the symbol the pool contract
// puts in the first topic.
type Kind string

const (
	KindMint Kind = "mint"
	KindBurn Kind = "burn"
	KindSwap Kind = "swap"
	KindSync Kind = "sync"
)

// PairEvent is one of MintEvent, BurnEvent, SwapEvent or SyncEvent.
type PairEvent interface {
	Kind() Kind
	pairEvent()
}

// MintEvent is emitted when liquidity is deposited.
type MintEvent struct {
	Sender    string   `json:"sender"`
	Amount0   *big.Int `json:"amount0"`
	Amount1   *big.Int `json:"amount1"`
	Liquidity *big.Int `json:"liquidity"`
}

// BurnEvent is emitted when liquidity is withdrawn to To.
type BurnEvent struct {
	Sender    string   `json:"sender"`
	Amount0   *big.Int `json:"amount0"`
	Amount1   *big.Int `json:"amount1"`
	Liquidity *big.Int `json:"liquidity"`
	To        string   `json:"to"`
}

// SwapEvent is emitted for every trade against the pool.
type SwapEvent struct {
	Sender    string   `json:"sender"`
	TokenIn   string   `json:"tokenIn"`
	TokenOut  string   `json:"tokenOut"`
	AmountIn  *big.Int `json:"amountIn"`
	AmountOut *big.Int `json:"amountOut"`
}

// SyncEvent carries the pool reserves after a state change.
type SyncEvent struct {
	Reserve0 *big.Int `json:"reserve0"`
	Reserve1 *big.Int `json:"reserve1"`
}

func (MintEvent) Kind() Kind { return KindMint }
func (BurnEvent) Kind() Kind { return KindBurn }
func (SwapEvent) Kind() Kind { return KindSwap }
func (SyncEvent) Kind() Kind { return KindSync }

func (MintEvent) pairEvent() {}
func (BurnEvent) pairEvent() {}
func (SwapEvent) pairEvent() {}
func (SyncEvent) pairEvent() {}
