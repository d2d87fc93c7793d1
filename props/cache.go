package props

import "fmt"

// MixtureBackend is a Backend that also resolves explicit mixtures.
type MixtureBackend interface {
	Backend
	PropertiesX(fluid string, composition []float64, spec StateSpec) (PropertyVector, error)
}

type cacheKey struct {
	fluid string
	kind  SpecKind
	p     float64
	value float64
}

type cacheEntry struct {
	pv  PropertyVector
	err error
}

// Cache memoizes lookups against a wrapped backend. One Cache is scoped to a
// single solve and must not be shared across solves or goroutines.
type Cache struct {
	backend MixtureBackend
	entries map[cacheKey]cacheEntry
	hits    int
	misses  int
}

func NewCache(b MixtureBackend) *Cache {
	return &Cache{
		backend: b,
		entries: make(map[cacheKey]cacheEntry),
	}
}

func (c *Cache) Properties(fluid string, spec StateSpec) (PropertyVector, error) {
	return c.PropertiesX(fluid, nil, spec)
}

func (c *Cache) PropertiesX(fluid string, composition []float64, spec StateSpec) (PropertyVector, error) {
	key := cacheKey{fluid: cacheID(fluid, composition), kind: spec.Kind, p: spec.P, value: spec.Value}
	if e, ok := c.entries[key]; ok {
		c.hits++
		return e.pv, e.err
	}
	c.misses++
	pv, err := c.backend.PropertiesX(fluid, composition, spec)
	c.entries[key] = cacheEntry{pv: pv, err: err}
	return pv, err
}

// Stats reports hit/miss counts for a finished solve.
func (c *Cache) Stats() (hits, misses int) { return c.hits, c.misses }

func cacheID(fluid string, composition []float64) string {
	if len(composition) == 0 {
		return fluid
	}
	return fmt.Sprintf("%s%v", fluid, composition)
}
