package collection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collection-sessions/tests/testutil"
)

func TestLoadFromDiskGalaxyYML(t *testing.T) {
	dir := testutil.WriteCollection(t, filepath.Join(t.TempDir(), "col"), "foo", "bar", "1.2.3", map[string]string{
		"community.general": ">=1.0.0",
		"ansible.posix":     "*",
	})

	data, err := LoadFromDisk(dir, LoadOptions{Current: true})
	require.NoError(t, err)
	assert.Equal(t, "foo", data.Namespace)
	assert.Equal(t, "bar", data.Name)
	assert.Equal(t, "foo.bar", data.FullName)
	assert.Equal(t, "1.2.3", data.Version)
	assert.Equal(t, dir, data.Path)
	assert.True(t, data.Current)
	assert.Equal(t, map[string]string{
		"community.general": ">=1.0.0",
		"ansible.posix":     "*",
	}, data.Dependencies)
}

func TestLoadFromDiskManifestFallback(t *testing.T) {
	dir := t.TempDir()
	manifest := `{
		"collection_info": {
			"namespace": "foo",
			"name": "bar",
			"version": "2.0.0",
			"dependencies": {"baz.bam": ">=1.0.0"}
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MANIFEST.json"), []byte(manifest), 0o644))

	data, err := LoadFromDisk(dir, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "foo.bar", data.FullName)
	assert.Equal(t, "2.0.0", data.Version)
	assert.Equal(t, map[string]string{"baz.bam": ">=1.0.0"}, data.Dependencies)
}

func TestLoadFromDiskPrefersGalaxyYML(t *testing.T) {
	dir := testutil.WriteCollection(t, t.TempDir(), "foo", "bar", "1.0.0", nil)
	manifest := `{"collection_info": {"namespace": "other", "name": "thing"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MANIFEST.json"), []byte(manifest), 0o644))

	data, err := LoadFromDisk(dir, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "foo.bar", data.FullName)
}

func TestLoadFromDiskRequireGalaxyYML(t *testing.T) {
	dir := t.TempDir()
	manifest := `{"collection_info": {"namespace": "foo", "name": "bar"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MANIFEST.json"), []byte(manifest), 0o644))

	_, err := LoadFromDisk(dir, LoadOptions{RequireGalaxyYML: true})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "cannot find galaxy.yml")
}

func TestLoadFromDiskMissingDescriptor(t *testing.T) {
	_, err := LoadFromDisk(t.TempDir(), LoadOptions{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestLoadFromDiskIdentityMismatch(t *testing.T) {
	dir := testutil.WriteCollection(t, t.TempDir(), "foo", "bar", "", nil)

	_, err := LoadFromDisk(dir, LoadOptions{Namespace: "other", Name: "bar"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), `contains namespace "foo", but was hoping for "other"`)

	_, err = LoadFromDisk(dir, LoadOptions{Namespace: "foo", Name: "other"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `contains name "bar", but was hoping for "other"`)
}

func TestLoadFromDiskBrokenDescriptors(t *testing.T) {
	t.Run("missing namespace", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "galaxy.yml"), []byte("name: bar\n"), 0o644))
		_, err := LoadFromDisk(dir, LoadOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not contain a namespace")
	})

	t.Run("dependencies not a mapping", func(t *testing.T) {
		dir := t.TempDir()
		galaxy := "namespace: foo\nname: bar\ndependencies:\n  - community.general\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "galaxy.yml"), []byte(galaxy), 0o644))
		_, err := LoadFromDisk(dir, LoadOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dependencies is not a mapping")
	})

	t.Run("unparseable yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "galaxy.yml"), []byte(":\n\t:"), 0o644))
		_, err := LoadFromDisk(dir, LoadOptions{})
		require.Error(t, err)
		assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	})
}
