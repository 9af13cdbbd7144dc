package dex

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethclient "github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/bimakw/amm-quoter/internal/infrastructure/ethereum"
)

type callArgs struct {
	To    *common.Address `json:"to"`
	Data  *hexutil.Bytes  `json:"data"`
	Input *hexutil.Bytes  `json:"input"`
}

func (a callArgs) payload() []byte {
	if a.Input != nil {
		return *a.Input
	}
	if a.Data != nil {
		return *a.Data
	}
	return nil
}

type fakePair struct {
	token0, token1     common.Address
	reserve0, reserve1 *big.Int
	totalSupply        *big.Int
	balances           map[common.Address]*big.Int
}

// revertError is reported the way a node reports an execution revert.
type revertError struct{}

func (revertError) Error() string          { return "execution reverted: UniswapV2Router: EXPIRED" }
func (revertError) ErrorCode() int         { return 3 }
func (revertError) ErrorData() interface{} { return "0x08c379a0" }

// fakeEth serves eth_call for a factory, its pairs and a router.
type fakeEth struct {
	mu      sync.Mutex
	factory common.Address
	router  common.Address
	pairs   map[common.Address]*fakePair
	order   []common.Address
	revert  bool
	calls   int
}

func newFakeEth() *fakeEth {
	return &fakeEth{
		factory: common.HexToAddress("0x00000000000000000000000000000000000f0c70"),
		router:  common.HexToAddress("0x0000000000000000000000000000000000007007"),
		pairs:   make(map[common.Address]*fakePair),
	}
}

func (f *fakeEth) addPair(pair, tokenA, tokenB common.Address, reserveA, reserveB, supply int64) *fakePair {
	p := &fakePair{
		token0:      tokenA,
		token1:      tokenB,
		reserve0:    big.NewInt(reserveA),
		reserve1:    big.NewInt(reserveB),
		totalSupply: big.NewInt(supply),
		balances:    make(map[common.Address]*big.Int),
	}
	if tokenB.Cmp(tokenA) < 0 {
		p.token0, p.token1 = tokenB, tokenA
		p.reserve0, p.reserve1 = p.reserve1, p.reserve0
	}
	f.pairs[pair] = p
	f.order = append(f.order, pair)
	return p
}

func word(v *big.Int) []byte {
	return common.LeftPadBytes(v.Bytes(), 32)
}

func addressWord(a common.Address) []byte {
	return common.LeftPadBytes(a.Bytes(), 32)
}

func (f *fakeEth) Call(ctx context.Context, args callArgs, _ *gethrpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	data := args.payload()
	if args.To == nil || len(data) < 4 {
		return nil, errors.New("bad call")
	}
	selector := data[:4]

	if *args.To == f.router {
		if f.revert {
			return nil, revertError{}
		}
		return make([]byte, 96), nil
	}

	if *args.To == f.factory {
		switch {
		case bytes.Equal(selector, getPairSelector):
			a := common.BytesToAddress(data[16:36])
			b := common.BytesToAddress(data[48:68])
			for addr, p := range f.pairs {
				if (p.token0 == a && p.token1 == b) || (p.token0 == b && p.token1 == a) {
					return addressWord(addr), nil
				}
			}
			return make([]byte, 32), nil
		case bytes.Equal(selector, allPairsLengthSelector):
			return word(big.NewInt(int64(len(f.order)))), nil
		case bytes.Equal(selector, allPairsSelector):
			i := new(big.Int).SetBytes(data[4:36]).Int64()
			return addressWord(f.order[i]), nil
		}
		return nil, errors.New("unknown factory method")
	}

	p, ok := f.pairs[*args.To]
	if !ok {
		return nil, errors.New("no contract")
	}
	switch {
	case bytes.Equal(selector, getReservesSelector):
		out := append(word(p.reserve0), word(p.reserve1)...)
		return append(out, make([]byte, 32)...), nil
	case bytes.Equal(selector, token0Selector):
		return addressWord(p.token0), nil
	case bytes.Equal(selector, token1Selector):
		return addressWord(p.token1), nil
	case bytes.Equal(selector, totalSupplySelector):
		return word(p.totalSupply), nil
	case bytes.Equal(selector, balanceOfSelector):
		owner := common.BytesToAddress(data[16:36])
		if b, ok := p.balances[owner]; ok {
			return word(b), nil
		}
		return make([]byte, 32), nil
	}
	return nil, errors.New("unknown pair method")
}

func newInprocClient(t *testing.T, fe *fakeEth) *ethereum.Client {
	t.Helper()
	srv := gethrpc.NewServer()
	// Register under the standard "eth" namespace so methods map to eth_*
	if err := srv.RegisterName("eth", fe); err != nil {
		t.Fatalf("register rpc service: %v", err)
	}
	t.Cleanup(srv.Stop)
	c := gethrpc.DialInProc(srv)
	client := ethereum.NewClientFromEth(gethclient.NewClient(c), big.NewInt(1))
	t.Cleanup(client.Close)
	return client
}
