// Package geocoding remembers how place names resolve to areas so repeated
// lookups do not spend provider quota.
package geocoding

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"homefront/server/internal/models"
	"homefront/server/internal/provider"
)

// CachedClient is a provider.Client whose ResolveLocation results are kept in
// memory and persisted to a JSON file. Every other call goes straight through.
type CachedClient struct {
	provider.Client
	logger    *logrus.Logger
	cacheFile string
	cache     map[string][]models.LocationCandidate
	cacheLock sync.RWMutex
	saveLock  sync.Mutex
}

// NewCachedClient wraps next. An empty cacheFile keeps the cache in memory only.
func NewCachedClient(next provider.Client, cacheFile string, logger *logrus.Logger) *CachedClient {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	c := &CachedClient{
		Client:    next,
		logger:    logger,
		cacheFile: cacheFile,
		cache:     make(map[string][]models.LocationCandidate),
	}

	if cacheFile != "" {
		if err := os.MkdirAll(filepath.Dir(cacheFile), 0755); err != nil {
			logger.WithError(err).Warn("Could not create location cache directory")
		}
		c.loadCache()
	}

	return c
}

func cacheKey(location string) string {
	return strings.Join(strings.Fields(strings.ToLower(location)), " ")
}

func (c *CachedClient) loadCache() {
	data, err := os.ReadFile(c.cacheFile)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warnf("Could not load location cache: %v", err)
		}
		return
	}

	if err := json.Unmarshal(data, &c.cache); err != nil {
		c.logger.Errorf("Failed to parse location cache: %v", err)
		c.cache = make(map[string][]models.LocationCandidate)
		return
	}

	c.logger.Infof("Loaded %d cached locations", len(c.cache))
}

func (c *CachedClient) saveCache() {
	if c.cacheFile == "" {
		return
	}

	c.saveLock.Lock()
	defer c.saveLock.Unlock()

	c.cacheLock.RLock()
	data, err := json.Marshal(c.cache)
	c.cacheLock.RUnlock()
	if err != nil {
		c.logger.Errorf("Failed to marshal location cache: %v", err)
		return
	}

	// Write then rename so a crash never leaves a truncated cache
	tmp := c.cacheFile + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		c.logger.Errorf("Failed to save location cache: %v", err)
		return
	}
	if err := os.Rename(tmp, c.cacheFile); err != nil {
		c.logger.Errorf("Failed to save location cache: %v", err)
	}
}

// ResolveLocation serves repeated names from the cache. Empty results and
// errors are not cached.
func (c *CachedClient) ResolveLocation(ctx context.Context, location string) ([]models.LocationCandidate, error) {
	key := cacheKey(location)

	c.cacheLock.RLock()
	cached, ok := c.cache[key]
	c.cacheLock.RUnlock()
	if ok {
		c.logger.WithFields(logrus.Fields{
			"location":   location,
			"candidates": len(cached),
			"source":     "cache",
		}).Debug("Resolved location")
		out := make([]models.LocationCandidate, len(cached))
		copy(out, cached)
		return out, nil
	}

	candidates, err := c.Client.ResolveLocation(ctx, location)
	if err != nil || len(candidates) == 0 {
		return candidates, err
	}

	stored := make([]models.LocationCandidate, len(candidates))
	copy(stored, candidates)

	c.cacheLock.Lock()
	c.cache[key] = stored
	c.cacheLock.Unlock()

	c.saveCache()

	return candidates, nil
}

// Len reports how many locations are cached.
func (c *CachedClient) Len() int {
	c.cacheLock.RLock()
	defer c.cacheLock.RUnlock()
	return len(c.cache)
}
