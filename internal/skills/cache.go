package skills

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/jonathan/resume-evaluator/internal/types"
)

// Fingerprint returns the SHA256 hex digest used as the cache key for jd.
func Fingerprint(jd string) string {
	sum := sha256.Sum256([]byte(jd))
	return hex.EncodeToString(sum[:])
}

// Cache memoizes extraction results per job description fingerprint.
// Entries are never evicted; a Cache is meant to live for one evaluation session.
type Cache struct {
	extractor *Extractor
	mu        sync.Locker
	entries   map[string]types.JobRequirements
	hits      int
	misses    int
}

// NewCache creates a Cache around extractor. A nil mu uses a fresh sync.Mutex.
func NewCache(extractor *Extractor, mu sync.Locker) *Cache {
	if extractor == nil {
		extractor = NewExtractor(0, nil)
	}
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &Cache{
		extractor: extractor,
		mu:        mu,
		entries:   make(map[string]types.JobRequirements),
	}
}

// Get returns the requirements for jd, extracting them on a miss.
// The lock is held across extraction so concurrent callers never compute the same entry twice.
func (c *Cache) Get(jd string) (types.JobRequirements, bool) {
	key := Fingerprint(jd)

	c.mu.Lock()
	defer c.mu.Unlock()

	if req, ok := c.entries[key]; ok {
		c.hits++
		return req, true
	}

	c.misses++
	req := c.extractor.Extract(jd).Requirements
	req.Fingerprint = key
	c.entries[key] = req
	return req, false
}

// Len returns the number of cached job descriptions.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Misses returns how many lookups required an extraction.
func (c *Cache) Misses() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.misses
}

// Hits returns how many lookups were served from the cache.
func (c *Cache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}
