package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// DefaultCallConcurrency bounds the in-flight eth_calls of one Multicall.
const DefaultCallConcurrency = 10

// Call is a read-only contract call at the latest block.
type Call struct {
	To   common.Address
	Data []byte
}

// Client is a read-only JSON-RPC client for contract state.
type Client struct {
	eth         *ethclient.Client
	chainID     *big.Int
	concurrency int
}

// NewClient dials rpcURL and reads the chain id. The dial is bounded by ctx
// and at most ten seconds.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("read chain id: %w", err)
	}

	return NewClientFromEth(eth, chainID), nil
}

// NewClientFromEth wraps an already connected client.
func NewClientFromEth(eth *ethclient.Client, chainID *big.Int) *Client {
	return &Client{
		eth:         eth,
		chainID:     chainID,
		concurrency: DefaultCallConcurrency,
	}
}

func (c *Client) Close() {
	c.eth.Close()
}

func (c *Client) ChainID() *big.Int {
	return c.chainID
}

// BlockNumber returns the current chain head.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return c.eth.BlockNumber(ctx)
}

// CallContract executes msg against the latest block.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	return c.eth.CallContract(ctx, msg, nil)
}

// Call executes a single contract call.
func (c *Client) Call(ctx context.Context, call Call) ([]byte, error) {
	to := call.To
	return c.CallContract(ctx, ethereum.CallMsg{To: &to, Data: call.Data})
}

// Multicall runs calls concurrently, at most DefaultCallConcurrency at a
// time; results[i] answers calls[i]. On failure it returns the error of the
// lowest failing index. Calls not yet started when ctx ends are not issued.
func (c *Client) Multicall(ctx context.Context, calls []Call) ([][]byte, error) {
	results := make([][]byte, len(calls))
	errs := make([]error, len(calls))
	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup

launch:
	for i, call := range calls {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			for j := i; j < len(calls); j++ {
				errs[j] = ctx.Err()
			}
			break launch
		}

		wg.Add(1)
		go func(idx int, call Call) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx], errs[idx] = c.Call(ctx, call)
		}(i, call)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("call %d to %s: %w", i, calls[i].To.Hex(), err)
		}
	}
	return results, nil
}

// ZeroAddress is returned by factories for pairs that do not exist.
var ZeroAddress = common.Address{}
