package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"collection-sessions/internal/ports"
	"collection-sessions/internal/shared"
	"collection-sessions/internal/types"
)

// IgnoreInstalledEnv disables the ansible-galaxy query stage of
// discovery when set to the literal value "true".  Useful for fully
// offline, deterministic runs.
const IgnoreInstalledEnv = "COLLECTION_SESSIONS_IGNORE_INSTALLED_COLLECTIONS"

const collectionsTreeDirName = "ansible_collections"

// extractedCacheDirName is the subdirectory of the global cache that
// holds previously extracted collections in flat namespace.name form.
const extractedCacheDirName = "extracted"

// listTreeSiblings yields the collections found in an
// ansible_collections tree, skipping the ignored directories and any
// entry that does not load as a collection.
func listTreeSiblings(root string, ignore map[string]struct{}) []types.CollectionData {
	var result []types.CollectionData
	namespaces, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	for _, namespace := range namespaces {
		namespaceDir := filepath.Join(root, namespace.Name())
		if !isDirOrSymlink(namespaceDir) {
			continue
		}
		names, err := os.ReadDir(namespaceDir)
		if err != nil {
			continue
		}
		for _, name := range names {
			collectionDir := filepath.Join(namespaceDir, name.Name())
			if _, skip := ignore[collectionDir]; skip {
				continue
			}
			if !isDirOrSymlink(collectionDir) {
				continue
			}
			data, err := LoadFromDisk(collectionDir, LoadOptions{
				Namespace: namespace.Name(),
				Name:      name.Name(),
				Root:      root,
			})
			if err != nil {
				// Discovery is best effort; skip what does not load.
				continue
			}
			result = append(result, data)
		}
	}
	return result
}

// listFlatSiblings yields the collections found as namespace.name
// directories directly inside dir.
func listFlatSiblings(dir string, ignore map[string]struct{}) []types.CollectionData {
	var result []types.CollectionData
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		collectionDir := filepath.Join(dir, entry.Name())
		if _, skip := ignore[collectionDir]; skip {
			continue
		}
		if !isDirOrSymlink(collectionDir) {
			continue
		}
		namespace, name, ok := shared.SplitFullName(entry.Name())
		if !ok {
			continue
		}
		data, err := LoadFromDisk(collectionDir, LoadOptions{
			Namespace: namespace,
			Name:      name,
		})
		if err != nil {
			continue
		}
		result = append(result, data)
	}
	return result
}

// listLocal discovers the current collection at cwd plus its siblings.
// Two layouts are supported: the ansible_collections/<ns>/<name> tree
// (detected from the parent directory names and cross-checked against
// the declared identity, falling back to flat mode on disagreement)
// and a flat directory of namespace.name siblings.
func listLocal(cwd string) ([]types.CollectionData, error) {
	parent := filepath.Dir(cwd)
	grandparent := filepath.Dir(parent)

	root := ""
	if filepath.Base(grandparent) == collectionsTreeDirName && grandparent != parent {
		root = grandparent
	}

	current, err := LoadFromDisk(cwd, LoadOptions{Root: root, Current: true})
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("cannot load current collection's info from %s", cwd)).
			WithCause(err)
	}
	if root != "" {
		if current.Namespace != filepath.Base(parent) || current.Name != filepath.Base(cwd) {
			// Tree position and declared identity disagree: treat the
			// layout as flat rather than erroring.
			root = ""
			current, err = LoadFromDisk(cwd, LoadOptions{Current: true})
			if err != nil {
				return nil, err
			}
		}
	}

	result := []types.CollectionData{current}
	ignore := map[string]struct{}{cwd: {}}
	if root != "" {
		result = append(result, listTreeSiblings(root, ignore)...)
	} else {
		result = append(result, listFlatSiblings(parent, ignore)...)
	}
	return result, nil
}

// galaxyList queries ansible-galaxy for installed collections.  Each
// entry that fails to load individually is skipped; a failing command
// or unparseable output is an error.
func galaxyList(ctx context.Context, runner ports.Runner) ([]types.CollectionData, error) {
	stdout, _, err := runner.Run(ctx, []string{
		"ansible-galaxy", "collection", "list", "--format", "json",
	})
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("error while loading collection list").
			WithCause(err)
	}
	var data map[string]map[string]json.RawMessage
	if err := json.Unmarshal(stdout, &data); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("error while loading collection list").
			WithCause(err)
	}
	var result []types.CollectionData
	for collectionsRoot, collections := range data {
		for fullName := range collections {
			namespace, name, ok := shared.SplitFullName(fullName)
			if !ok {
				continue
			}
			collectionData, err := LoadFromDisk(
				filepath.Join(collectionsRoot, namespace, name),
				LoadOptions{Namespace: namespace, Name: name, Root: collectionsRoot},
			)
			if err != nil {
				// Looks like ansible-galaxy passed crap on to us.
				continue
			}
			result = append(result, collectionData)
		}
	}
	return result, nil
}

// listGlobalCache scans the extracted/ subtree of the global cache
// directory, whose immediate children are flat namespace.name
// collection directories.
func listGlobalCache(globalCacheDir string) []types.CollectionData {
	if globalCacheDir == "" {
		return nil
	}
	return listFlatSiblings(filepath.Join(globalCacheDir, extractedCacheDirName), nil)
}

// CollectionList is an index of discovered collections.  The slice is
// sorted by full name; exactly one entry is the current collection.
type CollectionList struct {
	Collections []types.CollectionData
	Current     types.CollectionData

	byName map[string]types.CollectionData
}

// NewCollectionList builds a list from a full-name map.  Exactly one
// entry must have the Current flag set.
func NewCollectionList(collections map[string]types.CollectionData) (*CollectionList, error) {
	list := &CollectionList{
		byName: make(map[string]types.CollectionData, len(collections)),
	}
	currentFound := false
	for fullName, data := range collections {
		list.byName[fullName] = data
		list.Collections = append(list.Collections, data)
		if data.Current {
			if currentFound {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeFailedPrecondition).
					WithMsg("more than one current collection in list")
			}
			currentFound = true
			list.Current = data
		}
	}
	if !currentFound {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("no current collection in list")
	}
	sort.Slice(list.Collections, func(i, j int) bool {
		return list.Collections[i].FullName < list.Collections[j].FullName
	})
	return list, nil
}

// Find returns the collection with the given full name, or false when
// it is not in the list.  Exact match only.
func (l *CollectionList) Find(fullName string) (types.CollectionData, bool) {
	data, ok := l.byName[fullName]
	return data, ok
}

// Clone returns an independent copy.  Descriptors are immutable and
// shared; the containers are fresh, so mutating the clone cannot
// corrupt the original.
func (l *CollectionList) Clone() *CollectionList {
	clone := &CollectionList{
		Collections: append([]types.CollectionData{}, l.Collections...),
		Current:     l.Current,
		byName:      make(map[string]types.CollectionData, len(l.byName)),
	}
	for fullName, data := range l.byName {
		clone.byName[fullName] = data
	}
	return clone
}

// add registers a collection that was created after discovery ran.
// The full name must not be taken yet.
func (l *CollectionList) add(data types.CollectionData) error {
	if _, exists := l.byName[data.FullName]; exists {
		return errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg(fmt.Sprintf("collection %s is already in the list", data.FullName))
	}
	l.byName[data.FullName] = data
	l.Collections = append(l.Collections, data)
	sort.Slice(l.Collections, func(i, j int) bool {
		return l.Collections[i].FullName < l.Collections[j].FullName
	})
	return nil
}

// CollectOptions configures Collect.
type CollectOptions struct {
	// Dir is the working directory holding the current collection.
	// Empty means the process working directory.
	Dir string

	// GlobalCacheDir enables the global cache scan stage when set.
	GlobalCacheDir string
}

// Collect searches for collections in three stages: local filesystem
// scan, ansible-galaxy query (unless disabled via IgnoreInstalledEnv),
// and global cache scan.  The first stage to find a full name wins.
// The result is not cached; use Cache for that.
func Collect(ctx context.Context, runner ports.Runner, opts CollectOptions) (*CollectionList, error) {
	dir := opts.Dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = cwd
	}

	found := map[string]types.CollectionData{}
	local, err := listLocal(dir)
	if err != nil {
		return nil, err
	}
	for _, data := range local {
		if _, exists := found[data.FullName]; !exists {
			found[data.FullName] = data
		}
	}

	if os.Getenv(IgnoreInstalledEnv) != "true" {
		installed, err := galaxyList(ctx, runner)
		if err != nil {
			return nil, err
		}
		for _, data := range installed {
			// Similar to Ansible, the first match wins.
			if _, exists := found[data.FullName]; !exists {
				found[data.FullName] = data
			}
		}
	} else {
		log.Ctx(ctx).Debug().Msg("skipping installed collections per environment")
	}

	for _, data := range listGlobalCache(opts.GlobalCacheDir) {
		if _, exists := found[data.FullName]; !exists {
			found[data.FullName] = data
		}
	}

	log.Ctx(ctx).Debug().Int("collections", len(found)).Msg("collection discovery finished")
	return NewCollectionList(found)
}
