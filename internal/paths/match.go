// Package paths provides path-set filtering and filesystem copy and
// removal helpers used by tree assembly.
package paths

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// splitSegments splits a relative, cleaned path into its segments.
// "." yields no segments.
func splitSegments(path string) []string {
	cleaned := filepath.ToSlash(filepath.Clean(path))
	if cleaned == "." {
		return nil
	}
	return strings.Split(cleaned, "/")
}

func joinSegments(segments []string) string {
	if len(segments) == 0 {
		return "."
	}
	return filepath.FromSlash(strings.Join(segments, "/"))
}

func commonPrefixLength(first []string, second []string) int {
	max := len(first)
	if len(second) < max {
		max = len(second)
	}
	for i := 0; i < max; i++ {
		if first[i] != second[i] {
			return i
		}
	}
	return max
}

func startsWith(what []string, prefix []string) bool {
	return commonPrefixLength(what, prefix) == len(prefix)
}

type fileInfo struct {
	path  string
	isDir bool
}

// fileSet keeps an ordered, deduplicated set of paths in segment form.
type fileSet struct {
	files [][]string
	infos map[string]fileInfo
}

func newFileSet(paths []string) *fileSet {
	set := &fileSet{infos: map[string]fileInfo{}}
	for _, path := range paths {
		set.add(path)
	}
	return set
}

func (s *fileSet) add(path string) {
	segments := splitSegments(path)
	key := joinSegments(segments)
	if _, ok := s.infos[key]; ok {
		return
	}
	s.files = append(s.files, segments)
	info, err := os.Stat(path)
	s.infos[key] = fileInfo{path: key, isDir: err == nil && info.IsDir()}
}

// subset keeps only the listed files, preserving the set's order.
func (s *fileSet) subset(keep map[string]struct{}) *fileSet {
	result := &fileSet{infos: map[string]fileInfo{}}
	for _, segments := range s.files {
		key := joinSegments(segments)
		if _, ok := keep[key]; !ok {
			continue
		}
		result.files = append(result.files, segments)
		result.infos[key] = s.infos[key]
	}
	return result
}

func (s *fileSet) mergeSet(other *fileSet) {
	for _, segments := range other.files {
		key := joinSegments(segments)
		if _, ok := s.infos[key]; ok {
			continue
		}
		s.files = append(s.files, segments)
		s.infos[key] = other.infos[key]
	}
}

func (s *fileSet) mergePaths(paths []string) {
	for _, path := range paths {
		s.add(path)
	}
}

func (s *fileSet) paths() []string {
	result := make([]string, 0, len(s.files))
	for _, segments := range s.files {
		result = append(result, s.infos[joinSegments(segments)].path)
	}
	return result
}

// extensionChecker tests filenames against a set of extensions given
// without a leading period.
type extensionChecker struct {
	extensions []string
}

func newExtensionChecker(extensions []string) *extensionChecker {
	seen := map[string]struct{}{}
	checker := &extensionChecker{}
	for _, ext := range extensions {
		withDot := "." + ext
		if _, ok := seen[withDot]; ok {
			continue
		}
		seen[withDot] = struct{}{}
		checker.extensions = append(checker.extensions, withDot)
	}
	return checker
}

func (c *extensionChecker) has(filename string) bool {
	for _, ext := range c.extensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

// FileCollector modifies a list of paths by restricting to and/or
// removing paths.  The paths can point to directories or files and
// are interpreted relative to the current working directory.
type FileCollector struct {
	paths *fileSet
}

// NewFileCollector creates a collector over the given paths.
func NewFileCollector(paths []string) *FileCollector {
	return &FileCollector{paths: newFileSet(paths)}
}

// Restrict keeps only paths covered by the given list.  A collector
// path that lies inside a restriction path is kept as is; a
// restriction path that lies inside a collector path replaces it.
func (f *FileCollector) Restrict(paths []string) {
	restrictSet := newFileSet(paths)
	keep := map[string]struct{}{}
	keepRestrict := map[string]struct{}{}
	for _, file := range f.paths.files {
		for _, path := range restrictSet.files {
			cpl := commonPrefixLength(file, path)
			if cpl == len(path) {
				keep[joinSegments(file)] = struct{}{}
				break
			}
			if cpl == len(file) {
				keepRestrict[joinSegments(path)] = struct{}{}
			}
		}
	}
	f.paths = f.paths.subset(keep)
	if len(keepRestrict) > 0 {
		f.paths.mergeSet(restrictSet.subset(keepRestrict))
	}
}

func matchAny(file []string, set *fileSet) bool {
	for _, other := range set.files {
		if startsWith(file, other) {
			return true
		}
	}
	return false
}

// scanRemove expands a directory whose subtree is partially removed,
// returning the surviving paths.  Subtrees untouched by the removal
// set are returned whole; elsewhere individual files are collected,
// honoring the extension filter.
func (f *FileCollector) scanRemove(dir []string, remove *fileSet, extensions *extensionChecker) []string {
	var result []string
	var walk func(root []string)
	walk = func(root []string) {
		if matchAny(root, remove) {
			return
		}
		deeper := false
		for _, check := range remove.files {
			if startsWith(check, root) {
				deeper = true
				break
			}
		}
		if !deeper {
			result = append(result, joinSegments(root))
			return
		}
		entries, err := os.ReadDir(joinSegments(root))
		if err != nil {
			return
		}
		for _, entry := range entries {
			child := append(append([]string{}, root...), entry.Name())
			if entry.IsDir() {
				if entry.Name() == "__pycache__" {
					continue
				}
				walk(child)
				continue
			}
			if extensions != nil && !extensions.has(entry.Name()) {
				continue
			}
			if !matchAny(child, remove) {
				result = append(result, joinSegments(child))
			}
		}
	}
	walk(dir)
	return result
}

// Remove refines the list of paths by removing a given list of paths.
// Directories that are only partially removed are expanded by walking
// the filesystem; during that expansion only files matching one of
// the given extensions (when provided) are retained.
func (f *FileCollector) Remove(paths []string, extensions []string) {
	var checker *extensionChecker
	if extensions != nil {
		checker = newExtensionChecker(extensions)
	}
	removeSet := newFileSet(paths)
	keep := map[string]struct{}{}
	var expanded []string
	for _, file := range f.paths.files {
		key := joinSegments(file)
		info := f.paths.infos[key]
		removeWhole := false
		partial := false
		for _, path := range removeSet.files {
			cpl := commonPrefixLength(file, path)
			if cpl == len(path) {
				removeWhole = true
				break
			}
			if cpl == len(file) {
				partial = true
			}
		}
		if removeWhole {
			continue
		}
		if !info.isDir || !partial {
			keep[key] = struct{}{}
			continue
		}
		expanded = append(expanded, f.scanRemove(file, removeSet, checker)...)
	}
	f.paths = f.paths.subset(keep)
	if len(expanded) > 0 {
		f.paths.mergePaths(expanded)
	}
}

// Paths returns the collected paths in insertion order.
func (f *FileCollector) Paths() []string {
	return f.paths.paths()
}

// SortedPaths returns the collected paths sorted lexicographically.
func (f *FileCollector) SortedPaths() []string {
	result := f.paths.paths()
	sort.Strings(result)
	return result
}

// Existing returns the collected paths that exist on disk.
func (f *FileCollector) Existing() []string {
	var result []string
	for _, path := range f.paths.paths() {
		if _, err := os.Stat(path); err == nil {
			result = append(result, path)
		}
	}
	return result
}
