package app

import (
	"context"

	assert "github.com/ZanzyTHEbar/assert-lib"

	"collection-sessions/internal/collection"
	"collection-sessions/internal/types"
)

type SetupTreeRequest struct {
	Destination      string
	GlobalCacheDir   string
	ExtraCollections []string
	ExtraDepsFiles   []string
	WithCurrent      bool
}

// SetupTree assembles the collection tree for the current collection,
// its dependency closure, and any extra requirements.
func (s Service) SetupTree(ctx context.Context, req SetupTreeRequest) (types.SetupResult, error) {
	assert.NotEmpty(ctx, req.Destination, "destination must be set")

	if err := s.Cache.Setup(req.GlobalCacheDir); err != nil {
		return types.SetupResult{}, err
	}

	extra := append([]string{}, req.ExtraCollections...)
	for _, depsFile := range req.ExtraDepsFiles {
		names, err := s.DepsFiles.Collections(depsFile)
		if err != nil {
			return types.SetupResult{}, err
		}
		extra = append(extra, names...)
	}

	return collection.SetupCollections(ctx, req.Destination, s.Runner, s.Cache, collection.SetupOptions{
		ExtraCollections: extra,
		WithCurrent:      req.WithCurrent,
	})
}

// SetupCurrentTree creates an independent snapshot tree of the current
// collection, discovering it first if needed.
func (s Service) SetupCurrentTree(ctx context.Context, place string, globalCacheDir string) (types.SetupResult, error) {
	assert.NotEmpty(ctx, place, "place must be set")

	if err := s.Cache.Setup(globalCacheDir); err != nil {
		return types.SetupResult{}, err
	}
	all, err := s.Cache.Get(ctx, s.Runner)
	if err != nil {
		return types.SetupResult{}, err
	}
	return collection.SetupCurrentTree(ctx, place, all.Current, s.Runner)
}
