package linkcheck

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// probeCache makes sure every distinct URL is probed once per run, even when
// several links pointing at it are checked concurrently.
type probeCache struct {
	group   singleflight.Group
	mu      sync.Mutex
	results map[string]ProbeResult
	probes  atomic.Int64
}

func newProbeCache() *probeCache {
	return &probeCache{results: make(map[string]ProbeResult)}
}

// get returns the cached result for url, calling probe on a miss. Concurrent
// misses for the same url share one call.
func (c *probeCache) get(url string, probe func() ProbeResult) ProbeResult {
	c.mu.Lock()
	cached, ok := c.results[url]
	c.mu.Unlock()
	if ok {
		return cached
	}

	v, _, _ := c.group.Do(url, func() (any, error) {
		// A flight for url may have finished since the lookup above.
		c.mu.Lock()
		if res, ok := c.results[url]; ok {
			c.mu.Unlock()
			return res, nil
		}
		c.mu.Unlock()

		c.probes.Add(1)
		res := probe()
		c.mu.Lock()
		c.results[url] = res
		c.mu.Unlock()
		return res, nil
	})
	return v.(ProbeResult)
}

// count returns how many probes were actually issued.
func (c *probeCache) count() int {
	return int(c.probes.Load())
}
