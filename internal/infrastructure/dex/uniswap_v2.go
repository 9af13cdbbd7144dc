package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
	ethclient "github.com/bimakw/amm-quoter/internal/infrastructure/ethereum"
)

// UniswapV2 ABI function signatures (keccak256 hash of function signature)
var (
	// getReserves() returns (uint112 reserve0, uint112 reserve1, uint32 blockTimestampLast)
	getReservesSelector = common.Hex2Bytes("0902f1ac")
	// token0() returns (address)
	token0Selector = common.Hex2Bytes("0dfe1681")
	// token1() returns (address)
	token1Selector = common.Hex2Bytes("d21220a7")
	// getPair(address,address) returns (address)
	getPairSelector = common.Hex2Bytes("e6a43905")
	// allPairsLength() returns (uint256)
	allPairsLengthSelector = common.Hex2Bytes("574f2ba3")
	// allPairs(uint256) returns (address)
	allPairsSelector = common.Hex2Bytes("1e3dd18b")
	// balanceOf(address) returns (uint256)
	balanceOfSelector = common.Hex2Bytes("70a08231")
	// totalSupply() returns (uint256)
	totalSupplySelector = common.Hex2Bytes("18160ddd")
)

// UniswapV2FactoryAddress is the mainnet Uniswap V2 factory.
var UniswapV2FactoryAddress = common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f")

// UniswapV2Reader reads pools of a Uniswap V2 compatible factory. It serves
// as PoolRegistry, PoolView and LPTokenView; a V2 pair is its own LP token.
type UniswapV2Reader struct {
	ethClient *ethclient.Client
	factory   common.Address
	maxPairs  int
}

// NewUniswapV2Reader creates a reader for factory. GetAllPairs lists at most
// maxPairs pairs, oldest first; maxPairs <= 0 lists all of them.
func NewUniswapV2Reader(ethClient *ethclient.Client, factory common.Address, maxPairs int) *UniswapV2Reader {
	return &UniswapV2Reader{
		ethClient: ethClient,
		factory:   factory,
		maxPairs:  maxPairs,
	}
}

// GetPair returns the pair address for two tokens
func (c *UniswapV2Reader) GetPair(ctx context.Context, tokenA, tokenB string) (string, bool, error) {
	a, err := parseAddress(tokenA)
	if err != nil {
		return "", false, err
	}
	b, err := parseAddress(tokenB)
	if err != nil {
		return "", false, err
	}

	// Sort tokens (Uniswap V2 convention)
	token0, token1 := sortTokens(a, b)

	// Encode getPair(token0, token1)
	data := make([]byte, 68)
	copy(data[0:4], getPairSelector)
	copy(data[16:36], token0.Bytes())
	copy(data[48:68], token1.Bytes())

	result, err := c.ethClient.Call(ctx, ethclient.Call{To: c.factory, Data: data})
	if err != nil {
		return "", false, fmt.Errorf("failed to get pair address: %w", err)
	}

	pairAddress, err := decodeAddress(result)
	if err != nil {
		return "", false, err
	}
	if pairAddress == ethclient.ZeroAddress {
		return "", false, nil
	}
	return pairAddress.Hex(), true, nil
}

// GetAllPairs lists the factory's pairs in creation order
func (c *UniswapV2Reader) GetAllPairs(ctx context.Context) ([]string, error) {
	result, err := c.ethClient.Call(ctx, ethclient.Call{To: c.factory, Data: allPairsLengthSelector})
	if err != nil {
		return nil, fmt.Errorf("failed to get pair count: %w", err)
	}
	count, err := decodeUint(result)
	if err != nil {
		return nil, err
	}

	n := count.Uint64()
	if c.maxPairs > 0 && (!count.IsUint64() || n > uint64(c.maxPairs)) {
		n = uint64(c.maxPairs)
	}

	calls := make([]ethclient.Call, n)
	for i := range calls {
		data := make([]byte, 36)
		copy(data[0:4], allPairsSelector)
		new(big.Int).SetUint64(uint64(i)).FillBytes(data[4:36])
		calls[i] = ethclient.Call{To: c.factory, Data: data}
	}

	results, err := c.ethClient.Multicall(ctx, calls)
	if err != nil {
		return nil, fmt.Errorf("failed to list pairs: %w", err)
	}

	pairs := make([]string, len(results))
	for i, r := range results {
		addr, err := decodeAddress(r)
		if err != nil {
			return nil, err
		}
		pairs[i] = addr.Hex()
	}
	return pairs, nil
}

// GetReserves fetches reserves from a pair
func (c *UniswapV2Reader) GetReserves(ctx context.Context, pair string) (entities.Reserves, error) {
	pairAddress, err := parseAddress(pair)
	if err != nil {
		return entities.Reserves{}, err
	}

	result, err := c.ethClient.Call(ctx, ethclient.Call{To: pairAddress, Data: getReservesSelector})
	if err != nil {
		return entities.Reserves{}, fmt.Errorf("failed to get reserves: %w", err)
	}

	if len(result) < 64 {
		return entities.Reserves{}, fmt.Errorf("invalid reserves response length")
	}

	return entities.Reserves{
		Reserve0: new(big.Int).SetBytes(result[0:32]),
		Reserve1: new(big.Int).SetBytes(result[32:64]),
	}, nil
}

// GetTokens returns token0 and token1 of a pair
func (c *UniswapV2Reader) GetTokens(ctx context.Context, pair string) (string, string, error) {
	pairAddress, err := parseAddress(pair)
	if err != nil {
		return "", "", err
	}

	results, err := c.ethClient.Multicall(ctx, []ethclient.Call{
		{To: pairAddress, Data: token0Selector},
		{To: pairAddress, Data: token1Selector},
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to get pair tokens: %w", err)
	}

	token0, err := decodeAddress(results[0])
	if err != nil {
		return "", "", err
	}
	token1, err := decodeAddress(results[1])
	if err != nil {
		return "", "", err
	}
	return token0.Hex(), token1.Hex(), nil
}

// GetLPTokenAddress returns the LP token of a pair, which is the pair itself.
func (c *UniswapV2Reader) GetLPTokenAddress(ctx context.Context, pair string) (string, error) {
	pairAddress, err := parseAddress(pair)
	if err != nil {
		return "", err
	}
	return pairAddress.Hex(), nil
}

// BalanceOf returns the LP token balance of owner
func (c *UniswapV2Reader) BalanceOf(ctx context.Context, lpToken, owner string) (*big.Int, error) {
	token, err := parseAddress(lpToken)
	if err != nil {
		return nil, err
	}
	holder, err := parseAddress(owner)
	if err != nil {
		return nil, err
	}

	data := make([]byte, 36)
	copy(data[0:4], balanceOfSelector)
	copy(data[16:36], holder.Bytes())

	result, err := c.ethClient.Call(ctx, ethclient.Call{To: token, Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return decodeUint(result)
}

// TotalSupply returns the LP token supply
func (c *UniswapV2Reader) TotalSupply(ctx context.Context, lpToken string) (*big.Int, error) {
	token, err := parseAddress(lpToken)
	if err != nil {
		return nil, err
	}

	result, err := c.ethClient.Call(ctx, ethclient.Call{To: token, Data: totalSupplySelector})
	if err != nil {
		return nil, fmt.Errorf("failed to get total supply: %w", err)
	}
	return decodeUint(result)
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, entities.NewValidationError("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func decodeAddress(result []byte) (common.Address, error) {
	if len(result) < 32 {
		return common.Address{}, fmt.Errorf("invalid response length")
	}
	return common.BytesToAddress(result[12:32]), nil
}

func decodeUint(result []byte) (*big.Int, error) {
	if len(result) < 32 {
		return nil, fmt.Errorf("invalid response length")
	}
	return new(big.Int).SetBytes(result[0:32]), nil
}

// sortTokens sorts two addresses in ascending numeric order (Uniswap V2 convention)
func sortTokens(tokenA, tokenB common.Address) (common.Address, common.Address) {
	if tokenA.Cmp(tokenB) < 0 {
		return tokenA, tokenB
	}
	return tokenB, tokenA
}
