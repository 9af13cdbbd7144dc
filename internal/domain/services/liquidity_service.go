package services

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"go.uber.org/zap"

	"github.com/bimakw/amm-quoter/internal/domain/amm"
	"github.com/bimakw/amm-quoter/internal/domain/entities"
	"github.com/bimakw/amm-quoter/internal/infrastructure/cache"
)

// LiquidityService quotes deposits and withdrawals and values LP positions.
//
// LP token addresses are memoized per pool in lpCache for the lifetime of the
// service. Resolution is not single-flight: concurrent first lookups of the
// same pool may each query PoolView before one of them fills the cache.
type LiquidityService struct {
	pools    PoolView
	lpTokens LPTokenView
	registry PoolRegistry
	lpCache  cache.LPTokenCache
	logger   *zap.Logger
	metrics  *Metrics
}

func NewLiquidityService(pools PoolView, lpTokens LPTokenView, registry PoolRegistry, lpCache cache.LPTokenCache, logger *zap.Logger, metrics *Metrics) *LiquidityService {
	if lpCache == nil {
		lpCache = cache.NewInMemoryLPTokenCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiquidityService{
		pools:    pools,
		lpTokens: lpTokens,
		registry: registry,
		lpCache:  lpCache,
		logger:   logger,
		metrics:  metrics,
	}
}

// GetAddLiquidityQuote quotes a deposit of amountADesired of tokenA.
// amountBDesired may be nil; it only sizes the token B leg of a first
// deposit.
func (s *LiquidityService) GetAddLiquidityQuote(ctx context.Context, tokenA, tokenB string, amountADesired, amountBDesired *big.Int) (q *entities.LiquidityQuote, err error) {
	done := s.metrics.track("add_liquidity")
	defer func() { done(err) }()

	if amountADesired == nil || amountADesired.Sign() <= 0 {
		return nil, entities.ErrAmountNotPositive
	}
	if entities.SameToken(tokenA, tokenB) {
		return nil, entities.ErrIdenticalTokens
	}

	pair, found, err := s.registry.GetPair(ctx, tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	if !found {
		return firstDepositQuote("", amountADesired, amountBDesired)
	}

	reserves, err := s.pools.GetReserves(ctx, pair)
	if err != nil {
		return nil, err
	}
	if reserves.Reserve0.Sign() == 0 && reserves.Reserve1.Sign() == 0 {
		return firstDepositQuote(pair, amountADesired, amountBDesired)
	}

	reserveA, reserveB, err := s.orientReserves(ctx, pair, tokenA, reserves)
	if err != nil {
		return nil, err
	}

	amountB, err := amm.Quote(amountADesired, reserveA, reserveB)
	if err != nil {
		return nil, err
	}

	lpToken, err := s.lpTokenAddress(ctx, pair)
	if err != nil {
		return nil, err
	}
	totalSupply, err := s.lpTokens.TotalSupply(ctx, lpToken)
	if err != nil {
		return nil, err
	}

	liquidity, err := amm.ProportionalLiquidity(amountADesired, reserveA, totalSupply)
	if err != nil {
		return nil, err
	}
	priceAPerB, err := amm.SpotPrice(reserveB, reserveA)
	if err != nil {
		return nil, err
	}
	priceBPerA, err := amm.SpotPrice(reserveA, reserveB)
	if err != nil {
		return nil, err
	}

	return &entities.LiquidityQuote{
		PairAddress:       pair,
		AmountA:           new(big.Int).Set(amountADesired),
		AmountB:           amountB,
		EstimatedLPTokens: liquidity,
		ShareOfPool:       amm.Ratio(liquidity, new(big.Int).Add(totalSupply, liquidity)),
		PriceAPerB:        priceAPerB,
		PriceBPerA:        priceBPerA,
	}, nil
}

func firstDepositQuote(pair string, amountA, amountBDesired *big.Int) (*entities.LiquidityQuote, error) {
	amountB := amountA
	if amountBDesired != nil {
		amountB = amountBDesired
	}
	liquidity, err := amm.FirstDepositLiquidity(amountA, amountB)
	if err != nil {
		return nil, err
	}
	return &entities.LiquidityQuote{
		PairAddress:       pair,
		FirstDeposit:      true,
		AmountA:           new(big.Int).Set(amountA),
		AmountB:           new(big.Int).Set(amountB),
		EstimatedLPTokens: liquidity,
		ShareOfPool:       1.0,
		PriceAPerB:        new(big.Int).Set(amm.PriceScale),
		PriceBPerA:        new(big.Int).Set(amm.PriceScale),
	}, nil
}

// GetRemoveLiquidityQuote values burning liquidity LP tokens of pair.
func (s *LiquidityService) GetRemoveLiquidityQuote(ctx context.Context, pair string, liquidity *big.Int) (q *entities.RemoveLiquidityQuote, err error) {
	done := s.metrics.track("remove_liquidity")
	defer func() { done(err) }()

	if liquidity == nil || liquidity.Sign() <= 0 {
		return nil, entities.ErrAmountNotPositive
	}

	lpToken, err := s.lpTokenAddress(ctx, pair)
	if err != nil {
		return nil, err
	}
	totalSupply, err := s.lpTokens.TotalSupply(ctx, lpToken)
	if err != nil {
		return nil, err
	}
	reserves, err := s.pools.GetReserves(ctx, pair)
	if err != nil {
		return nil, err
	}
	token0, token1, err := s.pools.GetTokens(ctx, pair)
	if err != nil {
		return nil, err
	}

	amount0, amount1, err := amm.RedeemAmounts(liquidity, totalSupply, reserves.Reserve0, reserves.Reserve1)
	if err != nil {
		return nil, err
	}

	return &entities.RemoveLiquidityQuote{
		PairAddress:    pair,
		LPTokenAddress: lpToken,
		Token0:         token0,
		Token1:         token1,
		Liquidity:      new(big.Int).Set(liquidity),
		TotalSupply:    totalSupply,
		Amount0:        amount0,
		Amount1:        amount1,
		Share:          amm.Ratio(liquidity, totalSupply),
	}, nil
}

// GetPosition values owner's LP balance in pair at current reserves.
func (s *LiquidityService) GetPosition(ctx context.Context, pair, owner string) (p *entities.Position, err error) {
	done := s.metrics.track("position")
	defer func() { done(err) }()

	return s.position(ctx, pair, owner)
}

func (s *LiquidityService) position(ctx context.Context, pair, owner string) (*entities.Position, error) {
	lpToken, err := s.lpTokenAddress(ctx, pair)
	if err != nil {
		return nil, err
	}
	balance, err := s.lpTokens.BalanceOf(ctx, lpToken, owner)
	if err != nil {
		return nil, err
	}
	totalSupply, err := s.lpTokens.TotalSupply(ctx, lpToken)
	if err != nil {
		return nil, err
	}
	reserves, err := s.pools.GetReserves(ctx, pair)
	if err != nil {
		return nil, err
	}
	token0, token1, err := s.pools.GetTokens(ctx, pair)
	if err != nil {
		return nil, err
	}

	share, amount0, amount1 := amm.PositionValue(balance, totalSupply, reserves.Reserve0, reserves.Reserve1)
	return &entities.Position{
		PairAddress:    pair,
		LPTokenAddress: lpToken,
		Owner:          owner,
		Token0:         token0,
		Token1:         token1,
		Balance:        balance,
		TotalSupply:    totalSupply,
		Share:          share,
		Token0Amount:   amount0,
		Token1Amount:   amount1,
	}, nil
}

// GetPositions returns every position of owner with a non-zero balance,
// in registry order.
func (s *LiquidityService) GetPositions(ctx context.Context, owner string) (ps []entities.Position, err error) {
	done := s.metrics.track("positions")
	defer func() { done(err) }()

	pairs, err := s.registry.GetAllPairs(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*entities.Position, len(pairs))
	errs := make([]error, len(pairs))
	var wg sync.WaitGroup

	// Acquire before spawning so a large registry never has more than
	// maxPoolReads goroutines in flight.
	semaphore := make(chan struct{}, maxPoolReads)

	for i, pair := range pairs {
		semaphore <- struct{}{}
		wg.Add(1)
		go func(idx int, pair string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			results[idx], errs[idx] = s.position(ctx, pair, owner)
		}(i, pair)
	}

	wg.Wait()

	positions := make([]entities.Position, 0)
	for i, p := range results {
		if errs[i] != nil {
			return nil, errs[i]
		}
		if p.Balance.Sign() > 0 {
			positions = append(positions, *p)
		}
	}
	return positions, nil
}

// GetPoolPrice returns the spot price of the tokenA/tokenB pool in caller
// token order.
func (s *LiquidityService) GetPoolPrice(ctx context.Context, tokenA, tokenB string) (p *entities.PoolPrice, err error) {
	done := s.metrics.track("price")
	defer func() { done(err) }()

	if entities.SameToken(tokenA, tokenB) {
		return nil, entities.ErrIdenticalTokens
	}

	pair, found, err := s.registry.GetPair(ctx, tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s/%s", entities.ErrPoolNotFound, tokenA, tokenB)
	}

	reserves, err := s.pools.GetReserves(ctx, pair)
	if err != nil {
		return nil, err
	}
	reserveA, reserveB, err := s.orientReserves(ctx, pair, tokenA, reserves)
	if err != nil {
		return nil, err
	}

	priceAPerB, err := amm.SpotPrice(reserveB, reserveA)
	if err != nil {
		return nil, err
	}
	priceBPerA, err := amm.SpotPrice(reserveA, reserveB)
	if err != nil {
		return nil, err
	}

	return &entities.PoolPrice{
		PairAddress: pair,
		TokenA:      tokenA,
		TokenB:      tokenB,
		ReserveA:    reserveA,
		ReserveB:    reserveB,
		PriceAPerB:  priceAPerB,
		PriceBPerA:  priceBPerA,
	}, nil
}

// orientReserves maps pool reserves onto (tokenA, tokenB) order.
func (s *LiquidityService) orientReserves(ctx context.Context, pair, tokenA string, reserves entities.Reserves) (reserveA, reserveB *big.Int, err error) {
	token0, token1, err := s.pools.GetTokens(ctx, pair)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case entities.SameToken(tokenA, token0):
		return reserves.Reserve0, reserves.Reserve1, nil
	case entities.SameToken(tokenA, token1):
		return reserves.Reserve1, reserves.Reserve0, nil
	}
	return nil, nil, fmt.Errorf("%w: %s is not traded by %s", entities.ErrPairMismatch, tokenA, pair)
}

// lpTokenAddress resolves the LP token of pair through the cache. Cache
// backend failures degrade to a direct lookup.
func (s *LiquidityService) lpTokenAddress(ctx context.Context, pair string) (string, error) {
	lpToken, ok, err := s.lpCache.Get(ctx, pair)
	if err != nil {
		s.logger.Warn("lp token cache read failed", zap.String("pair", pair), zap.Error(err))
	} else if ok {
		return lpToken, nil
	}

	lpToken, err = s.pools.GetLPTokenAddress(ctx, pair)
	if err != nil {
		return "", err
	}
	if err := s.lpCache.Set(ctx, pair, lpToken); err != nil {
		s.logger.Warn("lp token cache write failed", zap.String("pair", pair), zap.Error(err))
	}
	return lpToken, nil
}
