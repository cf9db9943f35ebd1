package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"workshopzones/internal/model"
)

// DefaultAnalysisTTL bounds how long a computed analysis is reused
const DefaultAnalysisTTL = 10 * time.Minute

// AnalysisCache handles Redis operations for computed group analyses.
// Entries are keyed by workshop and roster fingerprint, so a changed roster
// or scoring configuration never hits a stale result.
type AnalysisCache interface {
	Get(ctx context.Context, groupID, fingerprint string) (*model.GroupAnalysisResult, error)
	Set(ctx context.Context, fingerprint string, result *model.GroupAnalysisResult) error
}

type analysisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewAnalysisCache creates a new analysis cache. ttl <= 0 selects DefaultAnalysisTTL.
func NewAnalysisCache(client redis.Cmdable, ttl time.Duration) AnalysisCache {
	if ttl <= 0 {
		ttl = DefaultAnalysisTTL
	}
	return &analysisCache{
		client: client,
		ttl:    ttl,
	}
}

// Key helpers
func analysisKey(groupID, fingerprint string) string {
	return fmt.Sprintf("workshop:%s:analysis:%s", groupID, fingerprint)
}

func (c *analysisCache) Get(ctx context.Context, groupID, fingerprint string) (*model.GroupAnalysisResult, error) {
	data, err := c.client.Get(ctx, analysisKey(groupID, fingerprint)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result model.GroupAnalysisResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *analysisCache) Set(ctx context.Context, fingerprint string, result *model.GroupAnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, analysisKey(result.GroupID, fingerprint), data, c.ttl).Err()
}
