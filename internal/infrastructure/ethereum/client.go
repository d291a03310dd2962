package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/bimakw/amm-sdk/internal/domain/entities"
)

// maxConcurrentCalls bounds the fan-out of Multicall
const maxConcurrentCalls = 10

// Client is the chain handle shared by factories, routers and their callers.
// It is safe for concurrent use.
type Client struct {
	client  *ethclient.Client
	chainID *big.Int
	mu      sync.RWMutex
}

// NewClient dials rpcURL and discovers the chain id
func NewClient(rpcURL string) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}
	return NewClientWithRPC(ctx, rpcClient)
}

// NewClientWithRPC wraps an established RPC connection
func NewClientWithRPC(ctx context.Context, rpcClient *rpc.Client) (*Client, error) {
	client := ethclient.NewClient(rpcClient)

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("fetch chain id: %w", err)
	}

	return &Client{
		client:  client,
		chainID: chainID,
	}, nil
}

// Close closes the underlying client connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client.Close()
}

// ChainID returns the chain id reported when the client connected
func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

func (c *Client) Chain() entities.Chain {
	return entities.ChainFromID(c.chainID)
}

// CallContract executes an eth_call against the latest block
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client.CallContract(ctx, msg, nil)
}

// BlockNumber returns the current block number
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client.BlockNumber(ctx)
}

// FilterLogs returns the logs matching q
func (c *Client) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client.FilterLogs(ctx, q)
}

// Multicall runs several eth_calls concurrently and returns their results in
// order. Used to fetch reserves of every hop of a path at once.
func (c *Client) Multicall(ctx context.Context, calls []ethereum.CallMsg) ([][]byte, error) {
	results := make([][]byte, len(calls))
	errs := make([]error, len(calls))
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, maxConcurrentCalls)

	for i, call := range calls {
		wg.Add(1)
		go func(idx int, msg ethereum.CallMsg) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result, err := c.CallContract(ctx, msg)
			results[idx] = result
			errs[idx] = err
		}(i, call)
	}

	wg.Wait()

	// Return first error encountered
	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
