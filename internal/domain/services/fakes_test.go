package services

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/bimakw/amm-quoter/internal/domain/entities"
)

// fakeChain is an in-memory PoolView, LPTokenView and PoolRegistry.
type fakeChain struct {
	mu        sync.Mutex
	pairs     map[string]string
	order     []string
	pools     map[string]entities.TokenPairReserves
	lpTokens  map[string]string
	supply    map[string]*big.Int
	balances  map[string]map[string]*big.Int
	lpLookups map[string]int

	reserveErr error
	supplyErr  error
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		pairs:     make(map[string]string),
		pools:     make(map[string]entities.TokenPairReserves),
		lpTokens:  make(map[string]string),
		supply:    make(map[string]*big.Int),
		balances:  make(map[string]map[string]*big.Int),
		lpLookups: make(map[string]int),
	}
}

func registryKey(tokenA, tokenB string) string {
	a, b := entities.SortTokens(tokenA, tokenB)
	return strings.ToLower(a) + "-" + strings.ToLower(b)
}

// addPool registers pair for tokenA/tokenB with reserves in caller order.
func (f *fakeChain) addPool(pair, tokenA, tokenB string, reserveA, reserveB, totalSupply int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pairs[registryKey(tokenA, tokenB)] = pair
	f.order = append(f.order, pair)
	f.pools[pair] = entities.NewTokenPairReserves(tokenA, tokenB, big.NewInt(reserveA), big.NewInt(reserveB))
	lp := "lp-" + pair
	f.lpTokens[pair] = lp
	f.supply[lp] = big.NewInt(totalSupply)
	f.balances[lp] = make(map[string]*big.Int)
}

func (f *fakeChain) setBalance(pair, owner string, balance int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances["lp-"+pair][owner] = big.NewInt(balance)
}

func (f *fakeChain) lookups(pair string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lpLookups[pair]
}

func (f *fakeChain) GetPair(ctx context.Context, tokenA, tokenB string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pair, ok := f.pairs[registryKey(tokenA, tokenB)]
	return pair, ok, nil
}

func (f *fakeChain) GetAllPairs(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.order...), nil
}

func (f *fakeChain) GetReserves(ctx context.Context, pair string) (entities.Reserves, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reserveErr != nil {
		return entities.Reserves{}, f.reserveErr
	}
	p := f.pools[pair]
	return entities.Reserves{Reserve0: new(big.Int).Set(p.Reserve0), Reserve1: new(big.Int).Set(p.Reserve1)}, nil
}

func (f *fakeChain) GetTokens(ctx context.Context, pair string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.pools[pair]
	return p.Token0, p.Token1, nil
}

func (f *fakeChain) GetLPTokenAddress(ctx context.Context, pair string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lpLookups[pair]++
	return f.lpTokens[pair], nil
}

func (f *fakeChain) BalanceOf(ctx context.Context, lpToken, owner string) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.balances[lpToken][owner]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (f *fakeChain) TotalSupply(ctx context.Context, lpToken string) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.supplyErr != nil {
		return nil, f.supplyErr
	}
	return new(big.Int).Set(f.supply[lpToken]), nil
}

// manyPoolsChain registers n independent pools 0xpool00, 0xpool01, ...
func manyPoolsChain(n int) *fakeChain {
	chain := newFakeChain()
	for i := 0; i < n; i++ {
		chain.addPool(fmt.Sprintf("0xpool%02d", i), fmt.Sprintf("0xa%02d", i), fmt.Sprintf("0xb%02d", i), 1000, 1000, 1000)
	}
	return chain
}

// gatedView holds every GetReserves call until gate is closed and records
// how many were waiting at once.
type gatedView struct {
	PoolView
	gate chan struct{}

	mu     sync.Mutex
	active int
	max    int
}

func newGatedView(view PoolView) *gatedView {
	return &gatedView{PoolView: view, gate: make(chan struct{})}
}

func (g *gatedView) GetReserves(ctx context.Context, pair string) (entities.Reserves, error) {
	g.mu.Lock()
	g.active++
	if g.active > g.max {
		g.max = g.active
	}
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.active--
		g.mu.Unlock()
	}()

	<-g.gate
	return g.PoolView.GetReserves(ctx, pair)
}

func (g *gatedView) inFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

func (g *gatedView) peak() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.max
}
