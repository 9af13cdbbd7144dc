package services

import (
	"context"
	"errors"
	"math/big"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bimakw/amm-quoter/internal/domain/amm"
	"github.com/bimakw/amm-quoter/internal/domain/entities"
	"github.com/bimakw/amm-quoter/internal/infrastructure/cache"
)

func newTestLiquidityService(chain *fakeChain) *LiquidityService {
	return NewLiquidityService(chain, chain, chain, cache.NewInMemoryLPTokenCache(), zap.NewNop(), nil)
}

func TestLiquidityService_FirstDeposit(t *testing.T) {
	svc := newTestLiquidityService(newFakeChain())

	quote, err := svc.GetAddLiquidityQuote(context.Background(), weth, usdc, big.NewInt(2_500_000), nil)
	require.NoError(t, err)

	assert.True(t, quote.FirstDeposit)
	assert.Empty(t, quote.PairAddress)
	assert.Equal(t, "2500000", quote.AmountA.String())
	assert.Equal(t, "2500000", quote.AmountB.String())
	assert.Equal(t, "2499000", quote.EstimatedLPTokens.String())
	assert.Equal(t, 1.0, quote.ShareOfPool)
	assert.Equal(t, 0, amm.PriceScale.Cmp(quote.PriceAPerB))
	assert.Equal(t, 0, amm.PriceScale.Cmp(quote.PriceBPerA))
}

func TestLiquidityService_FirstDepositUsesDesiredB(t *testing.T) {
	svc := newTestLiquidityService(newFakeChain())

	quote, err := svc.GetAddLiquidityQuote(context.Background(), weth, usdc, big.NewInt(1_000_000), big.NewInt(4_000_000))
	require.NoError(t, err)
	assert.Equal(t, "4000000", quote.AmountB.String())
	assert.Equal(t, "1999000", quote.EstimatedLPTokens.String())
}

func TestLiquidityService_FirstDepositTooSmall(t *testing.T) {
	svc := newTestLiquidityService(newFakeChain())

	_, err := svc.GetAddLiquidityQuote(context.Background(), weth, usdc, big.NewInt(1000), nil)
	assert.ErrorIs(t, err, entities.ErrInsufficientMinted)
}

func TestLiquidityService_EmptyPoolIsFirstDeposit(t *testing.T) {
	chain := newFakeChain()
	chain.addPool("0xpool", weth, usdc, 0, 0, 0)
	svc := newTestLiquidityService(chain)

	quote, err := svc.GetAddLiquidityQuote(context.Background(), weth, usdc, big.NewInt(2_500_000), nil)
	require.NoError(t, err)
	assert.True(t, quote.FirstDeposit)
	assert.Equal(t, "0xpool", quote.PairAddress)
	assert.Equal(t, "2499000", quote.EstimatedLPTokens.String())
}

func TestLiquidityService_ProportionalDeposit(t *testing.T) {
	testCases := []struct {
		name   string
		tokenA string
		tokenB string
	}{
		// weth sorts after usdc case-insensitively, so the first case maps
		// tokenA onto token1.
		{"tokenA is token1", weth, usdc},
		{"tokenA is token0", usdc, weth},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			chain := newFakeChain()
			chain.addPool("0xpool", tc.tokenA, tc.tokenB, 100_000, 200_000, 150_000)
			svc := newTestLiquidityService(chain)

			quote, err := svc.GetAddLiquidityQuote(context.Background(), tc.tokenA, tc.tokenB, big.NewInt(10_000), big.NewInt(1))
			require.NoError(t, err)

			assert.False(t, quote.FirstDeposit)
			assert.Equal(t, "0xpool", quote.PairAddress)
			assert.Equal(t, "10000", quote.AmountA.String())
			assert.Equal(t, "20000", quote.AmountB.String())
			assert.Equal(t, "15000", quote.EstimatedLPTokens.String())
			assert.InDelta(t, 0.0909, quote.ShareOfPool, 0.0001)
			assert.Equal(t, "2000000000000000000", quote.PriceAPerB.String())
			assert.Equal(t, "500000000000000000", quote.PriceBPerA.String())
		})
	}
}

func TestLiquidityService_AddQuoteValidation(t *testing.T) {
	svc := newTestLiquidityService(newFakeChain())

	_, err := svc.GetAddLiquidityQuote(context.Background(), weth, usdc, big.NewInt(0), nil)
	assert.ErrorIs(t, err, entities.ErrAmountNotPositive)

	_, err = svc.GetAddLiquidityQuote(context.Background(), weth, weth, big.NewInt(10), nil)
	assert.ErrorIs(t, err, entities.ErrIdenticalTokens)
}

func TestLiquidityService_GetPosition(t *testing.T) {
	chain := newFakeChain()
	chain.addPool("0xpool", usdc, weth, 1_000_000, 2_000_000, 1_000_000)
	chain.setBalance("0xpool", "alice", 100_000)
	svc := newTestLiquidityService(chain)

	pos, err := svc.GetPosition(context.Background(), "0xpool", "alice")
	require.NoError(t, err)

	assert.Equal(t, "0xpool", pos.PairAddress)
	assert.Equal(t, "lp-0xpool", pos.LPTokenAddress)
	assert.Equal(t, "alice", pos.Owner)
	assert.Equal(t, usdc, pos.Token0)
	assert.Equal(t, weth, pos.Token1)
	assert.Equal(t, "100000", pos.Balance.String())
	assert.Equal(t, "1000000", pos.TotalSupply.String())
	assert.InDelta(t, 0.1, pos.Share, 1e-12)
	assert.Equal(t, "100000", pos.Token0Amount.String())
	assert.Equal(t, "200000", pos.Token1Amount.String())
}

func TestLiquidityService_GetPositionEmptySupply(t *testing.T) {
	chain := newFakeChain()
	chain.addPool("0xpool", usdc, weth, 1_000_000, 2_000_000, 0)
	chain.setBalance("0xpool", "alice", 100_000)
	svc := newTestLiquidityService(chain)

	pos, err := svc.GetPosition(context.Background(), "0xpool", "alice")
	require.NoError(t, err)
	assert.Zero(t, pos.Share)
	assert.Equal(t, "0", pos.Token0Amount.String())
	assert.Equal(t, "0", pos.Token1Amount.String())
}

func TestLiquidityService_LPTokenResolvedOnce(t *testing.T) {
	chain := newFakeChain()
	chain.addPool("0xpool", usdc, weth, 1_000_000, 2_000_000, 1_000_000)
	svc := newTestLiquidityService(chain)

	for i := 0; i < 3; i++ {
		_, err := svc.GetPosition(context.Background(), "0xpool", "alice")
		require.NoError(t, err)
	}
	_, err := svc.GetRemoveLiquidityQuote(context.Background(), "0xpool", big.NewInt(10))
	require.NoError(t, err)

	assert.Equal(t, 1, chain.lookups("0xpool"))
}

func TestLiquidityService_ConcurrentPositions(t *testing.T) {
	chain := newFakeChain()
	chain.addPool("0xpool", usdc, weth, 1_000_000, 2_000_000, 1_000_000)
	svc := newTestLiquidityService(chain)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GetPosition(context.Background(), "0xpool", "alice")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Lookups are not de-duplicated, but once cached no more are issued.
	n := chain.lookups("0xpool")
	assert.GreaterOrEqual(t, n, 1)
	_, err := svc.GetPosition(context.Background(), "0xpool", "alice")
	require.NoError(t, err)
	assert.Equal(t, n, chain.lookups("0xpool"))
}

func TestLiquidityService_GetRemoveLiquidityQuote(t *testing.T) {
	chain := newFakeChain()
	chain.addPool("0xpool", usdc, weth, 1_000_000, 2_000_000, 1_000_000)
	svc := newTestLiquidityService(chain)

	quote, err := svc.GetRemoveLiquidityQuote(context.Background(), "0xpool", big.NewInt(100_000))
	require.NoError(t, err)
	assert.Equal(t, "100000", quote.Amount0.String())
	assert.Equal(t, "200000", quote.Amount1.String())
	assert.InDelta(t, 0.1, quote.Share, 1e-12)
	assert.Equal(t, "lp-0xpool", quote.LPTokenAddress)

	chain.addPool("0xempty", dai, weth, 0, 0, 0)
	_, err = svc.GetRemoveLiquidityQuote(context.Background(), "0xempty", big.NewInt(100))
	assert.ErrorIs(t, err, entities.ErrNothingToRedeem)

	_, err = svc.GetRemoveLiquidityQuote(context.Background(), "0xpool", big.NewInt(-1))
	assert.ErrorIs(t, err, entities.ErrAmountNotPositive)
}

func TestLiquidityService_CollaboratorErrorUnwrapped(t *testing.T) {
	chain := newFakeChain()
	chain.addPool("0xpool", usdc, weth, 1_000_000, 2_000_000, 1_000_000)
	rpcErr := errors.New("connection refused")
	chain.supplyErr = rpcErr
	svc := newTestLiquidityService(chain)

	_, err := svc.GetPosition(context.Background(), "0xpool", "alice")
	assert.Same(t, rpcErr, err)

	_, err = svc.GetAddLiquidityQuote(context.Background(), usdc, weth, big.NewInt(1000), nil)
	assert.Same(t, rpcErr, err)
}

func TestLiquidityService_GetPositions(t *testing.T) {
	chain := newFakeChain()
	chain.addPool("0xpool1", usdc, weth, 1_000_000, 2_000_000, 1_000_000)
	chain.addPool("0xpool2", dai, weth, 5_000_000, 1_000_000, 2_000_000)
	chain.addPool("0xpool3", dai, usdc, 5_000_000, 5_000_000, 5_000_000)
	chain.setBalance("0xpool1", "alice", 100_000)
	chain.setBalance("0xpool3", "alice", 500_000)
	svc := newTestLiquidityService(chain)

	positions, err := svc.GetPositions(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, "0xpool1", positions[0].PairAddress)
	assert.Equal(t, "0xpool3", positions[1].PairAddress)
	assert.Equal(t, "500000", positions[1].Token0Amount.String())

	positions, err = svc.GetPositions(context.Background(), "bob")
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestLiquidityService_GetPoolPrice(t *testing.T) {
	chain := newFakeChain()
	chain.addPool("0xpool", weth, usdc, 100_000, 200_000, 150_000)
	svc := newTestLiquidityService(chain)

	price, err := svc.GetPoolPrice(context.Background(), weth, usdc)
	require.NoError(t, err)
	assert.Equal(t, "100000", price.ReserveA.String())
	assert.Equal(t, "200000", price.ReserveB.String())
	assert.Equal(t, "2000000000000000000", price.PriceAPerB.String())
	assert.Equal(t, "500000000000000000", price.PriceBPerA.String())

	_, err = svc.GetPoolPrice(context.Background(), weth, dai)
	assert.ErrorIs(t, err, entities.ErrPoolNotFound)
}

func TestLiquidityService_GetPositionsBoundsReads(t *testing.T) {
	chain := manyPoolsChain(40)
	chain.setBalance("0xpool07", "alice", 10)
	chain.setBalance("0xpool33", "alice", 20)
	view := newGatedView(chain)
	svc := NewLiquidityService(view, chain, chain, cache.NewInMemoryLPTokenCache(), zap.NewNop(), nil)

	base := runtime.NumGoroutine()
	done := make(chan []entities.Position)
	go func() {
		positions, err := svc.GetPositions(context.Background(), "alice")
		assert.NoError(t, err)
		done <- positions
	}()

	require.Eventually(t, func() bool { return view.inFlight() == maxPoolReads }, time.Second, time.Millisecond)
	assert.LessOrEqual(t, runtime.NumGoroutine()-base, maxPoolReads+5)

	close(view.gate)
	positions := <-done
	require.Len(t, positions, 2)
	assert.Equal(t, "0xpool07", positions[0].PairAddress)
	assert.Equal(t, "0xpool33", positions[1].PairAddress)
	assert.Equal(t, maxPoolReads, view.peak())
}
