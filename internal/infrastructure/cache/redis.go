package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	"github.com/bimakw/amm-sdk/internal/domain/entities"
)

// Cache stores quoted swap amounts for a short time. A miss is reported as
// nil amounts and a nil error.
type Cache interface {
	GetAmounts(ctx context.Context, key string) ([]*big.Int, error)
	SetAmounts(ctx context.Context, key string, amounts []*big.Int, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisCache implements Cache using Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetAmounts retrieves cached amounts
func (c *RedisCache) GetAmounts(ctx context.Context, key string) ([]*big.Int, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, err
	}
	return decodeAmounts(data)
}

// SetAmounts caches amounts with TTL
func (c *RedisCache) SetAmounts(ctx context.Context, key string, amounts []*big.Int, ttl time.Duration) error {
	data, err := encodeAmounts(amounts)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes a key from cache
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// amounts are stored as a JSON array of decimal strings
func encodeAmounts(amounts []*big.Int) ([]byte, error) {
	strs := make([]string, len(amounts))
	for i, a := range amounts {
		if a == nil {
			return nil, fmt.Errorf("amount %d is nil", i)
		}
		strs[i] = a.String()
	}
	return json.Marshal(strs)
}

func decodeAmounts(data []byte) ([]*big.Int, error) {
	var strs []string
	if err := json.Unmarshal(data, &strs); err != nil {
		return nil, err
	}
	amounts := make([]*big.Int, len(strs))
	for i, s := range strs {
		a, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("invalid cached amount %q", s)
		}
		amounts[i] = a
	}
	return amounts, nil
}

// QuoteCacheKey generates a cache key for a quote
func QuoteCacheKey(source common.Address, kind entities.AmountKind, amount *big.Int, path entities.SwapPath) string {
	return fmt.Sprintf("quote:%s:%s:%s:%s", source.Hex(), kind, amount, path)
}

// InMemoryCache implements Cache using in-memory storage (for testing/development)
type InMemoryCache struct {
	mu     sync.Mutex
	quotes map[string]*cachedAmounts
}

type cachedAmounts struct {
	amounts   []*big.Int
	expiresAt time.Time
}

// NewInMemoryCache creates a new in-memory cache
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		quotes: make(map[string]*cachedAmounts),
	}
}

func (c *InMemoryCache) GetAmounts(ctx context.Context, key string) ([]*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.quotes[key]; ok {
		if time.Now().Before(cached.expiresAt) {
			return copyAmounts(cached.amounts), nil
		}
		delete(c.quotes, key)
	}
	return nil, nil
}

func (c *InMemoryCache) SetAmounts(ctx context.Context, key string, amounts []*big.Int, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.quotes[key] = &cachedAmounts{
		amounts:   copyAmounts(amounts),
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.quotes, key)
	return nil
}

func copyAmounts(amounts []*big.Int) []*big.Int {
	out := make([]*big.Int, len(amounts))
	for i, a := range amounts {
		out[i] = new(big.Int).Set(a)
	}
	return out
}
