package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
)

// maxPoolReads bounds the pools read concurrently by listing operations.
const maxPoolReads = 10

// PoolService lists registered pools with their current state.
type PoolService struct {
	registry PoolRegistry
	pools    PoolView
	logger   *zap.Logger
}

func NewPoolService(registry PoolRegistry, pools PoolView, logger *zap.Logger) *PoolService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PoolService{
		registry: registry,
		pools:    pools,
		logger:   logger,
	}
}

// PoolResult is the state of one pool, or the error reading it.
type PoolResult struct {
	Pool  entities.Pool
	Error error
}

// ListPools reads every registered pool, at most maxPoolReads at a time. A pool that fails to
// load is reported in its PoolResult rather than failing the whole listing.
func (s *PoolService) ListPools(ctx context.Context) ([]PoolResult, error) {
	pairs, err := s.registry.GetAllPairs(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]PoolResult, len(pairs))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxPoolReads)

	for i, pair := range pairs {
		semaphore <- struct{}{}
		wg.Add(1)
		go func(idx int, pair string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			pool, err := s.GetPool(ctx, pair)
			if err != nil {
				s.logger.Warn("failed to load pool", zap.String("pair", pair), zap.Error(err))
				results[idx] = PoolResult{Pool: entities.Pool{Address: pair}, Error: err}
				return
			}
			results[idx] = PoolResult{Pool: *pool}
		}(i, pair)
	}

	wg.Wait()
	return results, nil
}

// GetPool reads the tokens and reserves of pair.
func (s *PoolService) GetPool(ctx context.Context, pair string) (*entities.Pool, error) {
	token0, token1, err := s.pools.GetTokens(ctx, pair)
	if err != nil {
		return nil, err
	}
	reserves, err := s.pools.GetReserves(ctx, pair)
	if err != nil {
		return nil, err
	}
	return &entities.Pool{
		Address: pair,
		TokenPairReserves: entities.TokenPairReserves{
			Token0:   token0,
			Token1:   token1,
			Reserve0: reserves.Reserve0,
			Reserve1: reserves.Reserve1,
		},
	}, nil
}
