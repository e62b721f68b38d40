package skills

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLocker records how often the cache takes its lock
type countingLocker struct {
	sync.Mutex
	locks int
}

func (l *countingLocker) Lock() {
	l.Mutex.Lock()
	l.locks++
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("python developer")
	b := Fingerprint("python developer")
	c := Fingerprint("Python developer")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestCache_SecondLookupIsHit(t *testing.T) {
	cache := NewCache(NewExtractor(0, nil), nil)
	jd := "Looking for Python developer with React experience"

	first, hit := cache.Get(jd)
	require.False(t, hit)

	second, hit := cache.Get(jd)
	require.True(t, hit)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Misses())
	assert.Equal(t, 1, cache.Hits())
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, Fingerprint(jd), first.Fingerprint)
}

func TestCache_DistinctTexts(t *testing.T) {
	cache := NewCache(nil, nil)

	_, _ = cache.Get("python")
	_, _ = cache.Get("java")
	_, _ = cache.Get("python")

	assert.Equal(t, 2, cache.Len())
	assert.Equal(t, 2, cache.Misses())
}

func TestCache_UsesInjectedLocker(t *testing.T) {
	locker := &countingLocker{}
	cache := NewCache(nil, locker)

	_, _ = cache.Get("sql")

	assert.Equal(t, 1, locker.locks)
}

func TestCache_ConcurrentGetComputesOnce(t *testing.T) {
	cache := NewCache(nil, nil)
	jd := "Experience with Docker and Kubernetes"

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := cache.Get(jd)
			assert.Contains(t, req.MustHave, "docker")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, cache.Misses())
	assert.Equal(t, 19, cache.Hits())
}

func TestCache_IndependentInstances(t *testing.T) {
	a := NewCache(nil, nil)
	b := NewCache(nil, nil)

	_, _ = a.Get("python")

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len())
}
