// README: Best-effort key/value cache for enrichment results (places, geocodes, price estimates).
package cache

import (
	"context"
	"encoding/json"
	"log"
	"strings"
)

// Cache is an optimization only: a miss, a stale entry or a failed write must
// never change what callers return.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// Key joins the parts into a composite key, e.g. Key("price", name, address, "2").
func Key(parts ...string) string {
	clean := make([]string, len(parts))
	for i, p := range parts {
		clean[i] = strings.ReplaceAll(strings.TrimSpace(p), "|", "/")
	}
	return strings.Join(clean, "|")
}

// GetJSON decodes a cached value into dst. A nil cache always misses.
func GetJSON(ctx context.Context, c Cache, key string, dst any) bool {
	if c == nil {
		return false
	}
	raw, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Printf("[CACHE] drop undecodable entry %q: %v", key, err)
		return false
	}
	return true
}

// SetJSON stores v; encoding failures are logged and ignored.
func SetJSON(ctx context.Context, c Cache, key string, v any) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		log.Printf("[CACHE] encode %q: %v", key, err)
		return
	}
	c.Set(ctx, key, raw)
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Noop) Set(context.Context, string, []byte)        {}
