package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree creates the directory fixture the walking tests run
// against and returns its root.
func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := []string{
		"a",
		"b",
		"c/ca",
		"c/cb",
		"c/__pycache__/x",
		"c/cc/cca",
		"c/cc/ccb",
		"c/cd/cda",
		"c/cd/cdb",
		"d/da",
		"d/db",
		"d/dc/dca",
		"d/dc/dcb",
		"d/dd/dda",
		"d/dd/ddb",
		"e/ea.py",
		"e/eb.txt",
		"e/ec/eca.py",
		"e/ec/ecb.txt",
		"e/ed.py/eda.py",
		"e/ed.py/edb.txt",
		"e/ee.txt/eea.py",
		"e/ee.txt/eeb.txt",
	}
	for _, file := range files {
		path := filepath.Join(root, filepath.FromSlash(file))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}
	return root
}

func TestFileCollectorPaths(t *testing.T) {
	tests := []struct {
		start []string
		want  []string
	}{
		{[]string{"."}, []string{"."}},
		{[]string{".", "."}, []string{"."}},
		{[]string{"foo", "bar", "baz", "bar/"}, []string{"foo", "bar", "baz"}},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("case%d", i), func(t *testing.T) {
			collector := NewFileCollector(tt.start)
			assert.Equal(t, tt.want, collector.Paths())
		})
	}
}

func TestFileCollectorExisting(t *testing.T) {
	t.Chdir(buildTree(t))
	tests := []struct {
		start []string
		want  []string
	}{
		{[]string{"."}, []string{"."}},
		{[]string{"c/cd/cda"}, []string{"c/cd/cda"}},
		{[]string{"foo", "bar", "baz", "a", "c", "c/a", "c/ca"}, []string{"a", "c", "c/ca"}},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("case%d", i), func(t *testing.T) {
			collector := NewFileCollector(tt.start)
			assert.Equal(t, tt.want, collector.Existing())
		})
	}
}

func TestFileCollectorRestrict(t *testing.T) {
	tests := []struct {
		start    []string
		restrict []string
		want     []string
	}{
		{[]string{"."}, []string{"."}, []string{"."}},
		{[]string{"."}, []string{"foo"}, []string{"foo"}},
		{
			[]string{"foo", "bar"},
			[]string{"foo", "bar/baz", "bar/bam", "bam"},
			[]string{"bar/bam", "bar/baz", "foo"},
		},
		{
			[]string{"foo/bam", "foo/bar"},
			[]string{"foo"},
			[]string{"foo/bam", "foo/bar"},
		},
		{
			[]string{"foo"},
			[]string{"foo/bam", "foo/bar"},
			[]string{"foo/bam", "foo/bar"},
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("case%d", i), func(t *testing.T) {
			collector := NewFileCollector(tt.start)
			collector.Restrict(tt.restrict)
			assert.Equal(t, tt.want, collector.SortedPaths())
		})
	}
}

func TestFileCollectorRemove(t *testing.T) {
	t.Chdir(buildTree(t))
	tests := []struct {
		start      []string
		remove     []string
		extensions []string
		want       []string
	}{
		{
			start:  []string{"c"},
			remove: []string{"."},
			want:   []string{},
		},
		{
			start:  []string{"a", "b", "c"},
			remove: []string{"d"},
			want:   []string{"a", "b", "c"},
		},
		{
			start:  []string{"a", "b", "c", "d", "d/da", "d/db", "d/dc/dca"},
			remove: []string{"c/a", "d"},
			want:   []string{"a", "b", "c/ca", "c/cb", "c/cc", "c/cd"},
		},
		{
			start:  []string{"a", "b", "c", "d", "d/da", "d/db", "d/dc/dca"},
			remove: []string{"c/ca", "c/cc", "c/cd/cda", "d/dc"},
			want:   []string{"a", "b", "c/cb", "c/cd/cdb", "d/da", "d/db", "d/dd"},
		},
		{
			start:  []string{"d"},
			remove: []string{"d/da", "d/dc"},
			want:   []string{"d/db", "d/dd"},
		},
		{
			start:      []string{"e"},
			remove:     []string{"e/x"},
			extensions: []string{"py", ".txt"},
			want:       []string{"e/ea.py", "e/ec", "e/ed.py", "e/ee.txt"},
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("case%d", i), func(t *testing.T) {
			collector := NewFileCollector(tt.start)
			collector.Remove(tt.remove, tt.extensions)
			assert.Equal(t, tt.want, collector.SortedPaths())
		})
	}
}
