package collection

import (
	"context"
	"fmt"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"collection-sessions/internal/ports"
	"collection-sessions/internal/types"
)

// Cache computes the collection list at most once and hands out
// independent clones.  Discovery spawns an external process and walks
// the filesystem, so callers share one Cache per process, owned by
// the orchestrator and passed explicitly.
//
// One mutex guards setup, first computation, clearing, and mid-run
// registration.  The lock is held across the blocking discovery call
// on first access; concurrent callers serialize there.
type Cache struct {
	mu sync.Mutex

	configured     bool
	globalCacheDir string
	list           *CollectionList
}

func NewCache() *Cache {
	return &Cache{}
}

// Setup fixes the global cache directory for this Cache.  Calling it
// again with the same directory is a no-op; a different directory is
// a caller bug, since it would silently mix results of differently
// configured runs.
func (c *Cache) Setup(globalCacheDir string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configured && c.globalCacheDir != globalCacheDir {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf(
				"cache was already set up with global cache dir %q, cannot change to %q",
				c.globalCacheDir, globalCacheDir,
			))
	}
	c.configured = true
	c.globalCacheDir = globalCacheDir
	return nil
}

// Get returns the collection list, computing it on first use.  Every
// call returns a fresh clone so callers mutating their copy cannot
// corrupt the shared state.
func (c *Cache) Get(ctx context.Context, runner ports.Runner) (*CollectionList, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.configured {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("cache used before setup")
	}
	if c.list == nil {
		list, err := Collect(ctx, runner, CollectOptions{GlobalCacheDir: c.globalCacheDir})
		if err != nil {
			return nil, err
		}
		c.list = list
	}
	return c.list.Clone(), nil
}

// Clear drops the computed list; the next Get recomputes it.  The
// configured global cache directory is kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = nil
}

// AddCollection loads a just-created collection from disk and
// registers it, so later Get calls see it.  The list must have been
// computed already.
func (c *Cache) AddCollection(directory string, namespace string, name string) (types.CollectionData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.list == nil {
		return types.CollectionData{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("cannot register a collection before the list was computed")
	}
	data, err := LoadFromDisk(directory, LoadOptions{Namespace: namespace, Name: name})
	if err != nil {
		return types.CollectionData{}, err
	}
	if err := c.list.add(data); err != nil {
		return types.CollectionData{}, err
	}
	return data, nil
}
