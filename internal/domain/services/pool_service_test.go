package services

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPoolService_ListPools(t *testing.T) {
	chain := twoHopChain()
	svc := NewPoolService(chain, chain, zap.NewNop())

	results, err := svc.ListPools(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		assert.NoError(t, r.Error)
	}
	assert.Equal(t, "0xpool1", results[0].Pool.Address)
	assert.Equal(t, usdc, results[0].Pool.Token0)
	assert.Equal(t, "2000000000", results[0].Pool.Reserve0.String())
	assert.Equal(t, "0xpool2", results[1].Pool.Address)
}

func TestPoolService_ListPoolsBoundsReads(t *testing.T) {
	chain := manyPoolsChain(50)
	view := newGatedView(chain)
	svc := NewPoolService(chain, view, zap.NewNop())

	base := runtime.NumGoroutine()
	done := make(chan []PoolResult)
	go func() {
		results, _ := svc.ListPools(context.Background())
		done <- results
	}()

	require.Eventually(t, func() bool { return view.inFlight() == maxPoolReads }, time.Second, time.Millisecond)
	assert.LessOrEqual(t, runtime.NumGoroutine()-base, maxPoolReads+5)

	close(view.gate)
	results := <-done
	require.Len(t, results, 50)
	assert.Equal(t, maxPoolReads, view.peak())
	for _, r := range results {
		assert.NoError(t, r.Error)
	}
	assert.Equal(t, "0xpool49", results[49].Pool.Address)
}
