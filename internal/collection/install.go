package collection

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"collection-sessions/internal/paths"
	"collection-sessions/internal/ports"
	"collection-sessions/internal/types"
)

// reservedCacheDirName is never mirrored into the assembled tree; it
// is where downstream tooling keeps its own per-run state.
const reservedCacheDirName = ".nox"

// installCollection places a dependency collection as a symlink.  A
// symlink that already points at the right target is left untouched;
// anything else at the path is removed first.  Keeping matching links
// untouched avoids invalidating downstream incremental caches.
func installCollection(data types.CollectionData, path string) error {
	if info, err := os.Lstat(path); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			target, err := os.Readlink(path)
			if err == nil && target == data.Path {
				return nil
			}
			if err := os.Remove(path); err != nil {
				return err
			}
		} else if err := paths.Remove(path); err != nil {
			return err
		}
	}
	return os.Symlink(data.Path, path)
}

// installCurrentCollection mirrors the current collection as a real
// directory whose immediate children are symlinks into the source.
// Downstream tools can then write under the mirror without touching
// the source tree, and a full recursive copy is avoided.  Stale mirror
// entries are pruned; matching symlinks are left untouched.
func installCurrentCollection(data types.CollectionData, path string) error {
	if info, err := os.Lstat(path); err == nil {
		if info.Mode()&os.ModeSymlink != 0 || !info.IsDir() {
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return err
	}
	present := map[string]struct{}{}
	if entries, err := os.ReadDir(path); err == nil {
		for _, entry := range entries {
			present[entry.Name()] = struct{}{}
		}
	}
	sourceEntries, err := os.ReadDir(data.Path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("cannot read collection source %s", data.Path)).
			WithCause(err)
	}
	for _, entry := range sourceEntries {
		if entry.Name() == reservedCacheDirName {
			continue
		}
		source := filepath.Join(data.Path, entry.Name())
		dest := filepath.Join(path, entry.Name())
		if _, ok := present[entry.Name()]; ok {
			delete(present, entry.Name())
			if info, err := os.Lstat(dest); err == nil && info.Mode()&os.ModeSymlink != 0 {
				if target, err := os.Readlink(dest); err == nil && target == source {
					continue
				}
			}
			if err := paths.Remove(dest); err != nil {
				return err
			}
		}
		if err := os.Symlink(source, dest); err != nil {
			return err
		}
	}
	for name := range present {
		if err := paths.Remove(filepath.Join(path, name)); err != nil {
			return err
		}
	}
	return nil
}

// installCollections materializes every collection under
// root/<namespace>/<name>.  The current collection is mirrored when
// withCurrent is set and skipped otherwise; everything else is
// symlinked.
func installCollections(collections []types.CollectionData, root string, withCurrent bool) error {
	for _, data := range collections {
		if data.Path == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("collection %s has no source path", data.FullName))
		}
		namespaceDir := filepath.Join(root, data.Namespace)
		if err := os.MkdirAll(namespaceDir, 0o755); err != nil {
			return err
		}
		path := filepath.Join(namespaceDir, data.Name)
		if !data.Current {
			if err := installCollection(data, path); err != nil {
				return err
			}
		} else if withCurrent {
			if err := installCurrentCollection(data, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// pruneTree removes entries under root that belong to collections no
// longer in keep, including namespace directories that become empty.
func pruneTree(root string, keep map[string]types.CollectionData) error {
	namespaces, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	for _, namespace := range namespaces {
		namespaceDir := filepath.Join(root, namespace.Name())
		if !namespace.IsDir() {
			if err := paths.Remove(namespaceDir); err != nil {
				return err
			}
			continue
		}
		names, err := os.ReadDir(namespaceDir)
		if err != nil {
			return err
		}
		remaining := len(names)
		for _, name := range names {
			fullName := namespace.Name() + "." + name.Name()
			if _, wanted := keep[fullName]; wanted {
				continue
			}
			if err := paths.Remove(filepath.Join(namespaceDir, name.Name())); err != nil {
				return err
			}
			remaining--
		}
		if remaining == 0 {
			if err := paths.Remove(namespaceDir); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetupOptions configures SetupCollections.
type SetupOptions struct {
	// ExtraCollections are required in addition to the current
	// collection and its dependency closure.
	ExtraCollections []string

	// WithCurrent controls whether the current collection itself is
	// installed into the tree.
	WithCurrent bool
}

// SetupCollections assembles the requested collections and their
// transitive dependencies in a tree under destination.  Either the
// whole closure is materialized or an error is returned; there is no
// partial success.  Re-running after a crash is safe, every operation
// is idempotent given a consistent end state.
func SetupCollections(
	ctx context.Context,
	destination string,
	runner ports.Runner,
	cache *Cache,
	opts SetupOptions,
) (types.SetupResult, error) {
	all, err := cache.Get(ctx, runner)
	if err != nil {
		return types.SetupResult{}, err
	}
	root := filepath.Join(destination, collectionsTreeDirName)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return types.SetupResult{}, err
	}

	current := all.Current
	seed := []types.CollectionData{current}
	for _, name := range opts.ExtraCollections {
		data, found := all.Find(name)
		if !found {
			return types.SetupResult{}, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("cannot find collection %s required for the session!", name))
		}
		seed = append(seed, data)
	}
	toInstall, err := Closure(seed, all)
	if err != nil {
		return types.SetupResult{}, err
	}

	if err := pruneTree(root, toInstall); err != nil {
		return types.SetupResult{}, err
	}
	ordered := make([]types.CollectionData, 0, len(toInstall))
	for _, name := range sortedNames(toInstall) {
		ordered = append(ordered, toInstall[name])
	}
	if err := installCollections(ordered, root, opts.WithCurrent); err != nil {
		return types.SetupResult{}, err
	}

	log.Ctx(ctx).Debug().
		Int("collections", len(ordered)).
		Str("root", root).
		Msg("collection tree assembled")

	result := types.SetupResult{Root: root, CurrentCollection: current}
	if opts.WithCurrent {
		result.CurrentPath = filepath.Join(root, current.Namespace, current.Name)
	}
	return result, nil
}

// SetupCurrentTree sets up a tree containing a fully independent deep
// copy of the current collection only, for steps that must mutate
// collection metadata without touching the source.
func SetupCurrentTree(
	ctx context.Context,
	place string,
	current types.CollectionData,
	runner ports.Runner,
) (types.SetupResult, error) {
	root := filepath.Join(place, collectionsTreeDirName)
	namespaceDir := filepath.Join(root, current.Namespace)
	if err := os.MkdirAll(namespaceDir, 0o755); err != nil {
		return types.SetupResult{}, err
	}
	collectionDir := filepath.Join(namespaceDir, current.Name)
	if err := paths.CopyCollection(ctx, runner, current.Path, collectionDir); err != nil {
		return types.SetupResult{}, err
	}
	return types.SetupResult{
		Root:              root,
		CurrentCollection: current,
		CurrentPath:       collectionDir,
	}, nil
}

func sortedNames(m map[string]types.CollectionData) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
