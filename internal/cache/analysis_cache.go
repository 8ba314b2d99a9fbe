package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/replenishment/internal/config"
	"github.com/andresuchdata/replenishment/internal/domain"
	"github.com/andresuchdata/replenishment/internal/inventory"
)

const (
	analysisKeyPrefix     = "inventory:analysis"
	analysisScanBatchSize = 100
)

// AnalysisCache memoizes analysis results by upload content and parameters.
type AnalysisCache interface {
	Get(ctx context.Context, key string) (*domain.AnalysisResult, bool, error)
	Set(ctx context.Context, key string, result *domain.AnalysisResult) error
	InvalidateAll(ctx context.Context) error
}

type redisAnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopAnalysisCache struct{}

func NewAnalysisCache(cfg config.CacheConfig) (AnalysisCache, error) {
	if !cfg.Enabled {
		return &noopAnalysisCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisAnalysisCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopAnalysisCache() AnalysisCache {
	return &noopAnalysisCache{}
}

func (c *redisAnalysisCache) Get(ctx context.Context, key string) (*domain.AnalysisResult, bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode analysis cache: %w", err)
	}

	return &result, true, nil
}

func (c *redisAnalysisCache) Set(ctx context.Context, key string, result *domain.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode analysis cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisAnalysisCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, analysisKeyPrefix, analysisScanBatchSize)
}

func (n *noopAnalysisCache) Get(ctx context.Context, key string) (*domain.AnalysisResult, bool, error) {
	return nil, false, nil
}

func (n *noopAnalysisCache) Set(ctx context.Context, key string, result *domain.AnalysisResult) error {
	return nil
}

func (n *noopAnalysisCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// AnalysisKey hashes everything that changes an analysis: the file type, its
// bytes, the column map and the parameters.
func AnalysisKey(filename string, data []byte, columnMap map[string]string, params inventory.ReplenishmentParams, basis domain.ValueBasis, scenario *inventory.Scenario) string {
	h := sha1.New()
	h.Write([]byte(strings.ToLower(filepath.Ext(filename))))
	h.Write([]byte{0})
	h.Write(data)
	h.Write([]byte{0})

	parts := []string{
		fmt.Sprintf("sf=%g", params.SafetyFactor),
		fmt.Sprintf("s=%g", params.OrderingCost),
		fmt.Sprintf("h=%g", params.HoldingCost),
		"basis=" + string(basis),
	}
	if scenario != nil {
		parts = append(parts, fmt.Sprintf("scenario=%g/%g/%g", scenario.PriceAdjustmentPct, scenario.DemandGrowthPct, scenario.CostReductionPct))
	}
	parts = append(parts, "columns="+joinMap(columnMap))
	h.Write([]byte(strings.Join(parts, "|")))

	return fmt.Sprintf("%s:%s", analysisKeyPrefix, hex.EncodeToString(h.Sum(nil)))
}

func joinMap(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + m[k]
	}
	return strings.Join(pairs, ",")
}
