// Package cache keeps read models in redis. Keys embed the version counters
// of the collections a read depends on, so bumping a collection's version
// makes every cached read of it unreachable.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Unload-CM/dmc-erp/internal/config"
	"github.com/redis/go-redis/v9"
)

// Store is the cache surface services depend on.
type Store interface {
	// Get decodes the cached value into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Bump invalidates every key built from collection.
	Bump(ctx context.Context, collection string) error
	// Key builds a key from name and the current versions of collections.
	Key(ctx context.Context, name string, collections ...string) (string, error)
}

const keyPrefix = "dmc-erp:"

// RedisStore is a Store backed by go-redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisClient connects and pings.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *RedisStore) Bump(ctx context.Context, collection string) error {
	return s.client.Incr(ctx, versionKey(collection)).Err()
}

func (s *RedisStore) Key(ctx context.Context, name string, collections ...string) (string, error) {
	if len(collections) == 0 {
		return keyPrefix + name, nil
	}
	keys := make([]string, len(collections))
	for i, c := range collections {
		keys[i] = versionKey(c)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return "", fmt.Errorf("cache versions: %w", err)
	}
	return buildKey(name, collections, vals), nil
}

func versionKey(collection string) string {
	return keyPrefix + "ver:" + collection
}

func buildKey(name string, collections []string, versions []interface{}) string {
	var b strings.Builder
	b.WriteString(keyPrefix)
	b.WriteString(name)
	for i, c := range collections {
		v := "0"
		if i < len(versions) && versions[i] != nil {
			v = fmt.Sprint(versions[i])
		}
		b.WriteString(":" + c + "@" + v)
	}
	return b.String()
}

// Nop never hits. Used when redis is disabled.
type Nop struct{}

func (Nop) Get(context.Context, string, interface{}) (bool, error)          { return false, nil }
func (Nop) Set(context.Context, string, interface{}, time.Duration) error   { return nil }
func (Nop) Bump(context.Context, string) error                              { return nil }
func (Nop) Key(_ context.Context, name string, _ ...string) (string, error) { return name, nil }

// Memory is an in-process Store without expiry, used in tests.
type Memory struct {
	mu       sync.Mutex
	data     map[string][]byte
	versions map[string]int64
}

func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}, versions: map[string]int64{}}
}

func (m *Memory) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	data, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) Bump(_ context.Context, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versions[collection]++
	return nil
}

func (m *Memory) Key(_ context.Context, name string, collections ...string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vals := make([]interface{}, len(collections))
	for i, c := range collections {
		vals[i] = strconv.FormatInt(m.versions[c], 10)
	}
	return buildKey(name, collections, vals), nil
}
