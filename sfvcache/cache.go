// Package sfvcache memoizes structured field parsing. Servers see the same
// header values over and over; caching the parsed form skips the parse.
//
// Cached values are cloned on the way in and on the way out, so callers may
// edit what they get back.
package sfvcache

import (
	"github.com/dgraph-io/ristretto/v2"

	"github.com/shcv/sfv"
)

type kind byte

const (
	kindItem kind = 'i'
	kindList kind = 'l'
	kindDict kind = 'd'
)

// Config sizes the cache.
type Config struct {
	// MaxCost is the total input bytes retained.
	MaxCost int64
	// NumCounters is the number of keys tracked for admission, ~10x the
	// expected number of entries.
	NumCounters int64
	Metrics     bool
}

// DefaultConfig returns a cache of about 1 MiB of field values.
func DefaultConfig() Config {
	return Config{
		MaxCost:     1 << 20,
		NumCounters: 100_000,
	}
}

// Parser wraps an sfv.Parser with a cache keyed by field type and input.
// Failed parses are not cached.
type Parser struct {
	parser *sfv.Parser
	cache  *ristretto.Cache[string, sfv.FieldValue]
}

// New returns a caching Parser in front of p.
func New(p *sfv.Parser, cfg Config) (*Parser, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, sfv.FieldValue]{
		NumCounters:        cfg.NumCounters,
		MaxCost:            cfg.MaxCost,
		BufferItems:        64,
		Metrics:            cfg.Metrics,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &Parser{parser: p, cache: cache}, nil
}

func cacheKey(k kind, input []byte) string {
	return string(k) + string(input)
}

// ParseItem parses input as an Item, consulting the cache first.
func (c *Parser) ParseItem(input []byte) (sfv.Item, error) {
	key := cacheKey(kindItem, input)
	if v, ok := c.cache.Get(key); ok {
		if it, ok := v.(sfv.Item); ok {
			return it.Clone(), nil
		}
	}
	it, err := c.parser.ParseItem(input)
	if err != nil {
		return sfv.Item{}, err
	}
	c.cache.Set(key, it.Clone(), int64(len(input)))
	return it, nil
}

// ParseList parses input as a List, consulting the cache first.
func (c *Parser) ParseList(input []byte) (sfv.List, error) {
	key := cacheKey(kindList, input)
	if v, ok := c.cache.Get(key); ok {
		if l, ok := v.(sfv.List); ok {
			return l.Clone(), nil
		}
	}
	l, err := c.parser.ParseList(input)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, l.Clone(), int64(len(input)))
	return l, nil
}

// ParseDictionary parses input as a Dictionary, consulting the cache first.
func (c *Parser) ParseDictionary(input []byte) (sfv.Dictionary, error) {
	key := cacheKey(kindDict, input)
	if v, ok := c.cache.Get(key); ok {
		if d, ok := v.(sfv.Dictionary); ok {
			return d.Clone(), nil
		}
	}
	d, err := c.parser.ParseDictionary(input)
	if err != nil {
		return sfv.Dictionary{}, err
	}
	c.cache.Set(key, d.Clone(), int64(len(input)))
	return d, nil
}

// Wait blocks until pending writes are visible to readers.
func (c *Parser) Wait() { c.cache.Wait() }

// Stats returns hits and misses; both are zero unless Config.Metrics is set.
func (c *Parser) Stats() (hits, misses uint64) {
	if c.cache.Metrics == nil {
		return 0, 0
	}
	return c.cache.Metrics.Hits(), c.cache.Metrics.Misses()
}

// Clear drops every cached entry.
func (c *Parser) Clear() { c.cache.Clear() }

// Close stops the cache's background goroutines.
func (c *Parser) Close() { c.cache.Close() }
