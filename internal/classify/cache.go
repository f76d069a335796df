package classify

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"linklabel/internal/log"
	"linklabel/internal/span"
)

const (
	defaultExpiration = 5 * time.Minute
	cleanupInterval   = 15 * time.Minute
)

// CachedClassifier memoizes Classify results. The same text is
// re-classified on every document rebuild (spans are recomputed from
// scratch), so a short-lived cache saves the rescans when text toggles
// between a handful of values.
type CachedClassifier struct {
	inner Classifier
	cache *gocache.Cache
}

// NewCachedClassifier wraps inner with TTL memoization.
func NewCachedClassifier(inner Classifier) *CachedClassifier {
	return &CachedClassifier{
		inner: inner,
		cache: gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Classify returns cached matches when available, delegating to the
// wrapped classifier otherwise. Errors are never cached.
func (c *CachedClassifier) Classify(text string, kinds []span.Kind) ([]Match, error) {
	key := cacheKey(text, kinds)
	if v, ok := c.cache.Get(key); ok {
		matches, ok := v.([]Match)
		if !ok {
			log.Error(log.CatClassify, "wrong type in classification cache", "key_len", len(key))
		} else {
			log.Debug(log.CatClassify, "classification cache hit", "kinds", len(kinds))
			return matches, nil
		}
	}

	matches, err := c.inner.Classify(text, kinds)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, matches, gocache.DefaultExpiration)
	return matches, nil
}

func cacheKey(text string, kinds []span.Kind) string {
	parts := make([]string, 0, len(kinds)+1)
	for _, k := range kinds {
		parts = append(parts, string(k))
	}
	parts = append(parts, text)
	return strings.Join(parts, "\x00")
}
