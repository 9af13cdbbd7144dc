package services

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
	"github.com/bimakw/amm-quoter/internal/domain/events"
)

// ReserveTracker keeps the latest reserves reported by Sync events per pair
// and serves them ahead of the wrapped PoolView. Pairs it has not seen a Sync
// for are read through.
//
// Events arrive keyed by the emitting pool contract id, which is mapped onto
// the pair address the registry hands to the quoting services.
type ReserveTracker struct {
	PoolView

	decoder *events.Decoder
	pairs   map[string]string
	logger  *zap.Logger

	mu       sync.RWMutex
	reserves map[string]entities.Reserves
}

// NewReserveTracker wraps fallback. pairs maps pool contract ids to pair
// addresses; pools missing from it cannot be ingested.
func NewReserveTracker(fallback PoolView, decoder *events.Decoder, pairs map[string]string, logger *zap.Logger) *ReserveTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	mapped := make(map[string]string, len(pairs))
	for pool, pair := range pairs {
		mapped[pool] = pair
	}
	return &ReserveTracker{
		PoolView: fallback,
		decoder:  decoder,
		pairs:    mapped,
		logger:   logger,
		reserves: make(map[string]entities.Reserves),
	}
}

// PairFor returns the pair address that pool's events update.
func (t *ReserveTracker) PairFor(pool string) (string, bool) {
	pair, ok := t.pairs[pool]
	return pair, ok
}

// Ingest decodes a base64 TransactionMeta for pool and applies its events to
// the mapped pair, which it returns along with the decoded events.
func (t *ReserveTracker) Ingest(pool, metaXDR string) (string, []events.PairEvent, error) {
	pair, ok := t.PairFor(pool)
	if !ok {
		return "", nil, fmt.Errorf("%w: no pair mapped for pool %s", entities.ErrPoolNotFound, pool)
	}
	evs := t.decoder.DecodeBase64(metaXDR, pool)
	t.Apply(pair, evs)
	return pair, evs, nil
}

// Apply folds evs into the tracked state of pair and reports how many Sync
// events were applied. Later events win.
func (t *ReserveTracker) Apply(pair string, evs []events.PairEvent) int {
	key := strings.ToLower(pair)
	applied := 0
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, ev := range evs {
		se, ok := ev.(events.SyncEvent)
		if !ok {
			continue
		}
		t.reserves[key] = entities.Reserves{
			Reserve0: new(big.Int).Set(se.Reserve0),
			Reserve1: new(big.Int).Set(se.Reserve1),
		}
		applied++
	}

	if applied > 0 {
		r := t.reserves[key]
		t.logger.Debug("reserves updated",
			zap.String("pair", pair),
			zap.String("reserve0", r.Reserve0.String()),
			zap.String("reserve1", r.Reserve1.String()),
		)
	}
	return applied
}

// Snapshot returns the tracked reserves of pair, if any.
func (t *ReserveTracker) Snapshot(pair string) (entities.Reserves, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.reserves[strings.ToLower(pair)]
	if !ok {
		return entities.Reserves{}, false
	}
	return entities.Reserves{Reserve0: new(big.Int).Set(r.Reserve0), Reserve1: new(big.Int).Set(r.Reserve1)}, true
}

func (t *ReserveTracker) GetReserves(ctx context.Context, pair string) (entities.Reserves, error) {
	if r, ok := t.Snapshot(pair); ok {
		return r, nil
	}
	return t.PoolView.GetReserves(ctx, pair)
}
