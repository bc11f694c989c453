package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDepsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "collection-requirements.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDepsFileCollections(t *testing.T) {
	path := writeDepsFile(t, `
collections:
  - community.general
  - name: ansible.posix
  - name: community.crypto
    source: https://galaxy.ansible.com
`)
	adapter := NewDepsFileAdapter()
	names, err := adapter.Collections(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"community.general", "ansible.posix", "community.crypto"}, names)
}

func TestDepsFileMissingIsEmpty(t *testing.T) {
	adapter := NewDepsFileAdapter()
	names, err := adapter.Collections(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDepsFileNoCollectionsKey(t *testing.T) {
	path := writeDepsFile(t, "roles:\n  - some.role\n")
	adapter := NewDepsFileAdapter()
	names, err := adapter.Collections(path)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDepsFileBadEntries(t *testing.T) {
	t.Run("mapping without name", func(t *testing.T) {
		path := writeDepsFile(t, "collections:\n  - source: somewhere\n")
		_, err := NewDepsFileAdapter().Collections(path)
		require.Error(t, err)
		assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
		assert.Contains(t, err.Error(), "collection entry #1")
	})

	t.Run("number entry", func(t *testing.T) {
		path := writeDepsFile(t, "collections:\n  - community.general\n  - 42\n")
		_, err := NewDepsFileAdapter().Collections(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "collection entry #2")
	})

	t.Run("unparseable yaml", func(t *testing.T) {
		path := writeDepsFile(t, ":\n\t:")
		_, err := NewDepsFileAdapter().Collections(path)
		require.Error(t, err)
		assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	})
}
