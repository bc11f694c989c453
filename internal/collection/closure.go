package collection

import (
	"fmt"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"collection-sessions/internal/types"
)

// Closure expands seed with all transitively required collections.
// Expansion is breadth first over declared dependency names in the
// order they were seeded; a dependency missing from the index fails
// immediately, naming both the dependency and the collection that
// required it.
func Closure(seed []types.CollectionData, index *CollectionList) (map[string]types.CollectionData, error) {
	result := make(map[string]types.CollectionData, len(seed))
	worklist := make([]types.CollectionData, 0, len(seed))
	for _, data := range seed {
		if _, exists := result[data.FullName]; exists {
			continue
		}
		result[data.FullName] = data
		worklist = append(worklist, data)
	}
	for len(worklist) > 0 {
		current := worklist[0]
		worklist = worklist[1:]
		for _, dependencyName := range sortedKeys(current.Dependencies) {
			if _, exists := result[dependencyName]; exists {
				continue
			}
			dependency, found := index.Find(dependencyName)
			if !found {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeNotFound).
					WithMsg(fmt.Sprintf(
						"cannot find collection %s, a dependency of %s!",
						dependencyName, current.FullName,
					))
			}
			result[dependencyName] = dependency
			worklist = append(worklist, dependency)
		}
	}
	return result, nil
}

// sortedKeys makes dependency traversal deterministic; Go map
// iteration order is randomized.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
