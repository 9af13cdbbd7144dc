package services

import (
	"context"
	"math/big"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
)

// PoolView reads the state of a single pool.
type PoolView interface {
	GetReserves(ctx context.Context, pair string) (entities.Reserves, error)
	GetTokens(ctx context.Context, pair string) (token0, token1 string, err error)
	GetLPTokenAddress(ctx context.Context, pair string) (string, error)
}

// LPTokenView reads the LP token of a pool.
type LPTokenView interface {
	BalanceOf(ctx context.Context, lpToken, owner string) (*big.Int, error)
	TotalSupply(ctx context.Context, lpToken string) (*big.Int, error)
}

// PoolRegistry locates pools. GetPair reports found=false when no pool exists
// for the unordered pair.
type PoolRegistry interface {
	GetPair(ctx context.Context, tokenA, tokenB string) (pair string, found bool, err error)
	GetAllPairs(ctx context.Context) ([]string, error)
}

// AddLiquidityParams are the router arguments of a deposit.
type AddLiquidityParams struct {
	TokenA         string
	TokenB         string
	AmountADesired *big.Int
	AmountBDesired *big.Int
	AmountAMin     *big.Int
	AmountBMin     *big.Int
	To             string
	Deadline       int64
}

// RemoveLiquidityParams are the router arguments of a withdrawal.
type RemoveLiquidityParams struct {
	TokenA     string
	TokenB     string
	Liquidity  *big.Int
	AmountAMin *big.Int
	AmountBMin *big.Int
	To         string
	Deadline   int64
}

// TxParams is a built but unsigned transaction.
type TxParams struct {
	From string `json:"from"`
	To   string `json:"to"`
	Data []byte `json:"data"`
}

// SubmitResult is what the submission backend reports for a transaction.
type SubmitResult struct {
	Success bool   `json:"success"`
	TxHash  string `json:"txHash,omitempty"`
	Data    []byte `json:"data,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// RouterBuilder encodes liquidity router calls.
type RouterBuilder interface {
	BuildAddLiquidity(ctx context.Context, p AddLiquidityParams) (TxParams, error)
	BuildRemoveLiquidity(ctx context.Context, p RemoveLiquidityParams) (TxParams, error)
}

// TxSubmitter hands a built transaction to the network.
type TxSubmitter interface {
	SubmitTransaction(ctx context.Context, tx TxParams) (SubmitResult, error)
}

// DeadlineFunc returns the default deadline, as a unix timestamp, for a new
// quote or transaction.
type DeadlineFunc func() int64
