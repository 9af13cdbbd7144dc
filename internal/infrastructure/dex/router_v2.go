package dex

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/amm-quoter/internal/domain/services"
)

// UniswapV2Router02Address is the mainnet Uniswap V2 router.
var UniswapV2Router02Address = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")

const routerV2ABI = `[
	{"type":"function","name":"addLiquidity","stateMutability":"nonpayable","inputs":[
		{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"},
		{"name":"amountADesired","type":"uint256"},{"name":"amountBDesired","type":"uint256"},
		{"name":"amountAMin","type":"uint256"},{"name":"amountBMin","type":"uint256"},
		{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],
	 "outputs":[{"name":"amountA","type":"uint256"},{"name":"amountB","type":"uint256"},{"name":"liquidity","type":"uint256"}]},
	{"type":"function","name":"removeLiquidity","stateMutability":"nonpayable","inputs":[
		{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"},
		{"name":"liquidity","type":"uint256"},
		{"name":"amountAMin","type":"uint256"},{"name":"amountBMin","type":"uint256"},
		{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],
	 "outputs":[{"name":"amountA","type":"uint256"},{"name":"amountB","type":"uint256"}]}
]`

// UniswapV2RouterBuilder encodes Uniswap V2 router liquidity calls. The
// recipient is also used as the sender.
type UniswapV2RouterBuilder struct {
	router common.Address
	abi    abi.ABI
}

func NewUniswapV2RouterBuilder(router common.Address) (*UniswapV2RouterBuilder, error) {
	parsed, err := abi.JSON(strings.NewReader(routerV2ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse router abi: %w", err)
	}
	return &UniswapV2RouterBuilder{router: router, abi: parsed}, nil
}

func (b *UniswapV2RouterBuilder) BuildAddLiquidity(ctx context.Context, p services.AddLiquidityParams) (services.TxParams, error) {
	tokenA, tokenB, to, err := parseCallAddresses(p.TokenA, p.TokenB, p.To)
	if err != nil {
		return services.TxParams{}, err
	}

	data, err := b.abi.Pack("addLiquidity",
		tokenA, tokenB,
		orZero(p.AmountADesired), orZero(p.AmountBDesired),
		orZero(p.AmountAMin), orZero(p.AmountBMin),
		to, big.NewInt(p.Deadline),
	)
	if err != nil {
		return services.TxParams{}, fmt.Errorf("failed to encode addLiquidity: %w", err)
	}
	return services.TxParams{From: to.Hex(), To: b.router.Hex(), Data: data}, nil
}

func (b *UniswapV2RouterBuilder) BuildRemoveLiquidity(ctx context.Context, p services.RemoveLiquidityParams) (services.TxParams, error) {
	tokenA, tokenB, to, err := parseCallAddresses(p.TokenA, p.TokenB, p.To)
	if err != nil {
		return services.TxParams{}, err
	}

	data, err := b.abi.Pack("removeLiquidity",
		tokenA, tokenB,
		orZero(p.Liquidity),
		orZero(p.AmountAMin), orZero(p.AmountBMin),
		to, big.NewInt(p.Deadline),
	)
	if err != nil {
		return services.TxParams{}, fmt.Errorf("failed to encode removeLiquidity: %w", err)
	}
	return services.TxParams{From: to.Hex(), To: b.router.Hex(), Data: data}, nil
}

func parseCallAddresses(tokenA, tokenB, to string) (common.Address, common.Address, common.Address, error) {
	a, err := parseAddress(tokenA)
	if err != nil {
		return common.Address{}, common.Address{}, common.Address{}, err
	}
	b, err := parseAddress(tokenB)
	if err != nil {
		return common.Address{}, common.Address{}, common.Address{}, err
	}
	recipient, err := parseAddress(to)
	if err != nil {
		return common.Address{}, common.Address{}, common.Address{}, err
	}
	return a, b, recipient, nil
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
