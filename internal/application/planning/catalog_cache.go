package planning

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/andrescamacho/prun-ccc/internal/adapters/metrics"
	"github.com/andrescamacho/prun-ccc/internal/application/common"
	"github.com/andrescamacho/prun-ccc/internal/domain/construction"
)

const catalogKey = "catalog"

// CatalogCache fetches the building catalog once and keeps it for the process lifetime.
// Concurrent first callers share one in-flight fetch. Failures are not cached.
type CatalogCache struct {
	source construction.CatalogSource
	group  singleflight.Group

	mu      sync.RWMutex
	catalog *construction.Catalog
}

// NewCatalogCache creates a cache in front of source
func NewCatalogCache(source construction.CatalogSource) *CatalogCache {
	return &CatalogCache{source: source}
}

// Get returns the cached catalog, fetching it on first use
func (c *CatalogCache) Get(ctx context.Context) (*construction.Catalog, error) {
	if catalog := c.cached(); catalog != nil {
		metrics.RecordCatalogLookup(true)
		return catalog, nil
	}
	metrics.RecordCatalogLookup(false)

	// The shared fetch outlives any single caller's cancellation
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(catalogKey, func() (interface{}, error) {
		if catalog := c.cached(); catalog != nil {
			return catalog, nil
		}

		buildings, warnings, err := c.source.FetchBuildings(fetchCtx)
		if err != nil {
			return nil, err
		}

		catalog := construction.NewCatalogWithWarnings(buildings, warnings)
		c.mu.Lock()
		c.catalog = catalog
		c.mu.Unlock()

		logger := common.LoggerFromContext(fetchCtx)
		logger.Log("info", "building catalog loaded", map[string]interface{}{
			"buildings": catalog.Len(),
			"skipped":   len(warnings),
		})
		for _, w := range warnings {
			logger.Log("warn", w.Message, map[string]interface{}{
				"kind":    string(w.Kind),
				"subject": w.Subject,
			})
		}
		return catalog, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("failed to load building catalog: %w", res.Err)
		}
		return res.Val.(*construction.Catalog), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Loaded reports whether a catalog is cached
func (c *CatalogCache) Loaded() bool {
	return c.cached() != nil
}

func (c *CatalogCache) cached() *construction.Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalog
}
