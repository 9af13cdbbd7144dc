package services

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"go.uber.org/zap"

	"github.com/bimakw/amm-quoter/internal/domain/amm"
	"github.com/bimakw/amm-quoter/internal/domain/entities"
)

// RouterService quotes direct and multi-hop swaps along a caller-chosen path.
type RouterService struct {
	registry PoolRegistry
	pools    PoolView
	feeBps   uint16
	deadline DeadlineFunc
	logger   *zap.Logger
	metrics  *Metrics
}

// NewRouterService creates a new router service charging feeBps per hop
func NewRouterService(registry PoolRegistry, pools PoolView, feeBps uint16, deadline DeadlineFunc, logger *zap.Logger, metrics *Metrics) *RouterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RouterService{
		registry: registry,
		pools:    pools,
		feeBps:   feeBps,
		deadline: deadline,
		logger:   logger,
		metrics:  metrics,
	}
}

// GetQuote dispatches on tradeType. amount is the input for ExactIn and the
// desired output for ExactOut.
func (s *RouterService) GetQuote(ctx context.Context, tradeType entities.TradeType, path []string, amount *big.Int, slippageBps uint16) (*entities.SwapQuote, error) {
	switch tradeType {
	case entities.ExactIn, "":
		return s.QuoteExactIn(ctx, path, amount, slippageBps)
	case entities.ExactOut:
		return s.QuoteExactOut(ctx, path, amount, slippageBps)
	}
	return nil, entities.NewValidationError("unknown trade type %q", tradeType)
}

// QuoteExactIn quotes selling amountIn of path[0] for path[len(path)-1].
func (s *RouterService) QuoteExactIn(ctx context.Context, path []string, amountIn *big.Int, slippageBps uint16) (q *entities.SwapQuote, err error) {
	done := s.metrics.track("exact_in")
	defer func() { done(err) }()

	if slippageBps > amm.BasisPoints {
		return nil, entities.ErrInvalidSlippage
	}
	pairs, err := s.fetchPairs(ctx, path)
	if err != nil {
		return nil, err
	}

	result, err := amm.EvaluateExactIn(path, pairs, amountIn, s.feeBps)
	if err != nil {
		return nil, err
	}
	amountOutMin, err := amm.MinimumOut(result.AmountOut, slippageBps)
	if err != nil {
		return nil, err
	}

	quote := s.buildQuote(entities.ExactIn, path, result)
	quote.AmountOutMin = amountOutMin
	quote.AmountInMax = new(big.Int).Set(result.AmountIn)

	s.logger.Debug("exact-in quote",
		zap.Strings("path", path),
		zap.String("amountIn", result.AmountIn.String()),
		zap.String("amountOut", result.AmountOut.String()),
		zap.Uint64("priceImpactBps", result.PriceImpactBps),
	)
	return quote, nil
}

// QuoteExactOut quotes buying amountOut of path[len(path)-1] with path[0].
func (s *RouterService) QuoteExactOut(ctx context.Context, path []string, amountOut *big.Int, slippageBps uint16) (q *entities.SwapQuote, err error) {
	done := s.metrics.track("exact_out")
	defer func() { done(err) }()

	if slippageBps > amm.BasisPoints {
		return nil, entities.ErrInvalidSlippage
	}
	pairs, err := s.fetchPairs(ctx, path)
	if err != nil {
		return nil, err
	}

	result, err := amm.EvaluateExactOut(path, pairs, amountOut, s.feeBps)
	if err != nil {
		return nil, err
	}
	amountInMax, err := amm.MaximumIn(result.AmountIn, slippageBps)
	if err != nil {
		return nil, err
	}

	quote := s.buildQuote(entities.ExactOut, path, result)
	quote.AmountInMax = amountInMax
	quote.AmountOutMin = new(big.Int).Set(result.AmountOut)

	s.logger.Debug("exact-out quote",
		zap.Strings("path", path),
		zap.String("amountIn", result.AmountIn.String()),
		zap.String("amountOut", result.AmountOut.String()),
		zap.Uint64("priceImpactBps", result.PriceImpactBps),
	)
	return quote, nil
}

func (s *RouterService) buildQuote(tradeType entities.TradeType, path []string, result *entities.RouteResult) *entities.SwapQuote {
	var deadline int64
	if s.deadline != nil {
		deadline = s.deadline()
	}
	return &entities.SwapQuote{
		TradeType:      tradeType,
		TokenIn:        path[0],
		TokenOut:       path[len(path)-1],
		AmountIn:       result.AmountIn,
		AmountOut:      result.AmountOut,
		FeeBps:         s.feeBps,
		FeeAmount:      result.FeeAmount,
		PriceImpactBps: result.PriceImpactBps,
		Path:           append([]string(nil), path...),
		Hops:           result.Hops,
		Deadline:       deadline,
	}
}

// fetchPairs reads the reserves of every hop of path concurrently. Reads are
// independent, so hops may observe different blocks.
func (s *RouterService) fetchPairs(ctx context.Context, path []string) ([]entities.TokenPairReserves, error) {
	if len(path) < 2 {
		return nil, entities.ErrInvalidPath
	}
	for i := 0; i+1 < len(path); i++ {
		if entities.SameToken(path[i], path[i+1]) {
			return nil, fmt.Errorf("%w at hop %d: %s", entities.ErrIdenticalTokens, i, path[i])
		}
	}

	hops := len(path) - 1
	pairs := make([]entities.TokenPairReserves, hops)
	errs := make([]error, hops)
	var wg sync.WaitGroup

	for i := 0; i < hops; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			pairs[idx], errs[idx] = s.fetchPair(ctx, path[idx], path[idx+1])
		}(i)
	}

	wg.Wait()

	// Return first error encountered
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return pairs, nil
}

func (s *RouterService) fetchPair(ctx context.Context, tokenA, tokenB string) (entities.TokenPairReserves, error) {
	pair, found, err := s.registry.GetPair(ctx, tokenA, tokenB)
	if err != nil {
		return entities.TokenPairReserves{}, err
	}
	if !found {
		return entities.TokenPairReserves{}, fmt.Errorf("%w: %s/%s", entities.ErrPoolNotFound, tokenA, tokenB)
	}

	reserves, err := s.pools.GetReserves(ctx, pair)
	if err != nil {
		return entities.TokenPairReserves{}, err
	}
	token0, token1, err := s.pools.GetTokens(ctx, pair)
	if err != nil {
		return entities.TokenPairReserves{}, err
	}

	return entities.TokenPairReserves{
		Token0:   token0,
		Token1:   token1,
		Reserve0: reserves.Reserve0,
		Reserve1: reserves.Reserve1,
	}, nil
}
