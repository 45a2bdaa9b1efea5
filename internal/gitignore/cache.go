package gitignore

// DefaultCacheCapacity is the per-pattern cap on memoized match results.
const DefaultCacheCapacity = 10000

type cacheKey struct {
	path  string
	isDir bool
}

// Cache memoizes match results per pattern. Each scan task owns exactly one
// Cache; it is not safe for concurrent use and is discarded together with the
// patterns it indexes.
type Cache struct {
	tables   map[*Pattern]map[cacheKey]bool
	capacity int
	hits     uint64
	misses   uint64
}

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Hits     uint64
	Misses   uint64
	Patterns int
}

// NewCache creates a Cache holding up to capacity entries per pattern.
// Non-positive capacity selects DefaultCacheCapacity.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		tables:   make(map[*Pattern]map[cacheKey]bool),
		capacity: capacity,
	}
}

// Get returns the memoized result for (pattern, path, isDir) and whether one
// was present.
func (c *Cache) Get(p *Pattern, path string, isDir bool) (result, ok bool) {
	table := c.tables[p]
	if table != nil {
		if result, ok = table[cacheKey{path, isDir}]; ok {
			c.hits++
			return result, true
		}
	}
	c.misses++
	return false, false
}

// Set memoizes a match result. When a pattern's table is full it is reset
// wholesale before the insert; there is no per-entry eviction.
func (c *Cache) Set(p *Pattern, path string, isDir, result bool) {
	table := c.tables[p]
	if table == nil {
		table = make(map[cacheKey]bool)
		c.tables[p] = table
	} else if len(table) >= c.capacity {
		table = make(map[cacheKey]bool)
		c.tables[p] = table
	}
	table[cacheKey{path, isDir}] = result
}

// HitRatio returns hits/(hits+misses), or 0 before any access.
func (c *Cache) HitRatio() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits, Misses: c.misses, Patterns: len(c.tables)}
}
