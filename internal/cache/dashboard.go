package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/config"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"
)

const (
	keyPrefix          = "dgm"
	dashboardKeyPrefix = keyPrefix + ":dashboard"
	filtersKeyPrefix   = keyPrefix + ":filters"
	scanBatchSize      = 100
)

// DashboardCache stores rendered dashboards and filter options per DGM.
type DashboardCache interface {
	GetDashboard(ctx context.Context, filter domain.DashboardFilter) (*domain.Dashboard, bool, error)
	SetDashboard(ctx context.Context, filter domain.DashboardFilter, dashboard *domain.Dashboard) error
	GetFilterOptions(ctx context.Context, owner string) (*domain.FilterOptions, bool, error)
	SetFilterOptions(ctx context.Context, owner string, opts *domain.FilterOptions) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

// NewDashboardCache connects to Redis when caching is enabled and falls back
// to a cache that never hits otherwise.
func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisDashboardCache(client, ttl), nil
}

// NewRedisDashboardCache wraps an existing client.
func NewRedisDashboardCache(client *redis.Client, ttl time.Duration) DashboardCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisDashboardCache{client: client, ttl: ttl}
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) GetDashboard(ctx context.Context, filter domain.DashboardFilter) (*domain.Dashboard, bool, error) {
	var dashboard domain.Dashboard
	ok, err := c.get(ctx, buildDashboardKey(filter), &dashboard)
	if !ok || err != nil {
		return nil, false, err
	}
	return &dashboard, true, nil
}

func (c *redisDashboardCache) SetDashboard(ctx context.Context, filter domain.DashboardFilter, dashboard *domain.Dashboard) error {
	return c.set(ctx, buildDashboardKey(filter), dashboard)
}

func (c *redisDashboardCache) GetFilterOptions(ctx context.Context, owner string) (*domain.FilterOptions, bool, error) {
	var opts domain.FilterOptions
	ok, err := c.get(ctx, buildFiltersKey(owner), &opts)
	if !ok || err != nil {
		return nil, false, err
	}
	return &opts, true, nil
}

func (c *redisDashboardCache) SetFilterOptions(ctx context.Context, owner string, opts *domain.FilterOptions) error {
	return c.set(ctx, buildFiltersKey(owner), opts)
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, keyPrefix+":", scanBatchSize)
}

func (c *redisDashboardCache) get(ctx context.Context, key string, dest interface{}) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return true, nil
}

func (c *redisDashboardCache) set(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (n *noopDashboardCache) GetDashboard(ctx context.Context, filter domain.DashboardFilter) (*domain.Dashboard, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetDashboard(ctx context.Context, filter domain.DashboardFilter, dashboard *domain.Dashboard) error {
	return nil
}

func (n *noopDashboardCache) GetFilterOptions(ctx context.Context, owner string) (*domain.FilterOptions, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetFilterOptions(ctx context.Context, owner string, opts *domain.FilterOptions) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// buildDashboardKey hashes the normalized filter so selection order and
// duplicates do not split the cache.
func buildDashboardKey(filter domain.DashboardFilter) string {
	return fmt.Sprintf("%s:%s", dashboardKeyPrefix, hashParts(filterParts(filter.Normalized())))
}

func buildFiltersKey(owner string) string {
	return fmt.Sprintf("%s:%s", filtersKeyPrefix, hashParts([]string{"owner=" + strings.TrimSpace(owner)}))
}

func filterParts(f domain.DashboardFilter) []string {
	stores := append([]string(nil), f.Stores...)
	categories := append([]string(nil), f.Categories...)
	sort.Strings(stores)
	sort.Strings(categories)

	return []string{
		"owner=" + f.Owner,
		"stores=" + strings.Join(stores, ","),
		"categories=" + strings.Join(categories, ","),
	}
}

func hashParts(parts []string) string {
	hash := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hash[:])
}
