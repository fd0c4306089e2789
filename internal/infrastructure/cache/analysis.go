package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/callguardhq/callguard/internal/domain/entities"
)

// DefaultAnalysisTTL bounds how long a cached analysis result is served
// before callers fall back to the database
const DefaultAnalysisTTL = 15 * time.Minute

// AnalysisCache caches analysis results per call so repeated dashboard
// reads skip the issue-table query
type AnalysisCache struct {
	store Store
	ttl   time.Duration
}

// NewAnalysisCache creates an analysis result cache on top of a Store
func NewAnalysisCache(store Store) *AnalysisCache {
	return &AnalysisCache{
		store: store,
		ttl:   DefaultAnalysisTTL,
	}
}

func analysisKey(callID uuid.UUID) string {
	return fmt.Sprintf("analysis:%s", callID)
}

// SetResult caches the analysis result for a call
func (c *AnalysisCache) SetResult(ctx context.Context, callID uuid.UUID, result *entities.AnalysisResult) error {
	if result == nil {
		return nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}
	return c.store.Set(ctx, analysisKey(callID), string(data), c.ttl)
}

// GetResult returns the cached analysis result for a call, or nil on miss
func (c *AnalysisCache) GetResult(ctx context.Context, callID uuid.UUID) (*entities.AnalysisResult, error) {
	data, found, err := c.store.Get(ctx, analysisKey(callID))
	if err != nil || !found {
		return nil, err
	}
	var result entities.AnalysisResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		// A corrupt entry is treated as a miss
		return nil, nil
	}
	return &result, nil
}

// Invalidate drops the cached result for a call
func (c *AnalysisCache) Invalidate(ctx context.Context, callID uuid.UUID) error {
	return c.store.Delete(ctx, analysisKey(callID))
}
