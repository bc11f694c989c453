package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collection-sessions/internal/adapters"
	"collection-sessions/internal/collection"
	"collection-sessions/tests/testutil"
)

// newTestService builds a service whose runner fails the test on any
// command execution, with discovery pinned to a flat checkout fixture.
func newTestService(t *testing.T) (Service, string) {
	t.Helper()
	t.Setenv(collection.IgnoreInstalledEnv, "true")
	work := t.TempDir()
	checkout := testutil.WriteCollection(t, filepath.Join(work, "checkout"), "foo", "bar", "1.0.0", map[string]string{
		"ns2.dep": ">=1.0.0",
	})
	testutil.WriteCollection(t, filepath.Join(work, "ns2.dep"), "ns2", "dep", "1.2.3", nil)
	testutil.WriteCollection(t, filepath.Join(work, "extra.col"), "extra", "col", "1.0.0", nil)
	t.Chdir(checkout)

	return Service{
		Cache:     collection.NewCache(),
		Runner:    testutil.FailRunner(t),
		DepsFiles: adapters.NewDepsFileAdapter(),
	}, work
}

func TestSetupTree(t *testing.T) {
	service, work := newTestService(t)
	dest := t.TempDir()

	result, err := service.SetupTree(t.Context(), SetupTreeRequest{
		Destination: dest,
		WithCurrent: true,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "ansible_collections"), result.Root)

	target, err := os.Readlink(filepath.Join(result.Root, "ns2", "dep"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, "ns2.dep"), target)
}

func TestSetupTreeWithDepsFile(t *testing.T) {
	service, work := newTestService(t)
	depsFile := filepath.Join(t.TempDir(), "collection-requirements.yml")
	require.NoError(t, os.WriteFile(depsFile, []byte("collections:\n  - extra.col\n"), 0o644))

	dest := t.TempDir()
	result, err := service.SetupTree(t.Context(), SetupTreeRequest{
		Destination:    dest,
		ExtraDepsFiles: []string{depsFile},
		WithCurrent:    true,
	})
	require.NoError(t, err)

	target, err := os.Readlink(filepath.Join(result.Root, "extra", "col"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(work, "extra.col"), target)
}

func TestSetupCurrentTreeService(t *testing.T) {
	service, _ := newTestService(t)
	// The cache discovery must not execute commands, but the deep copy
	// probes git; a failing probe selects the plain copy.
	service.Runner = testutil.RunnerFunc(func(_ context.Context, _ []string) ([]byte, []byte, error) {
		return nil, nil, assert.AnError
	})

	place := t.TempDir()
	result, err := service.SetupCurrentTree(t.Context(), place, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(result.Root, "foo", "bar"), result.CurrentPath)
	info, err := os.Lstat(filepath.Join(result.CurrentPath, "galaxy.yml"))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
}

func TestCheckDependencyConstraints(t *testing.T) {
	service, work := newTestService(t)

	violations, err := service.CheckDependencyConstraints(t.Context(), "")
	require.NoError(t, err)
	assert.Empty(t, violations)

	// Downgrade the dependency below the declared constraint and force
	// rediscovery.
	testutil.WriteCollection(t, filepath.Join(work, "ns2.dep"), "ns2", "dep", "0.9.0", nil)
	service.Cache.Clear()

	violations, err = service.CheckDependencyConstraints(t.Context(), "")
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "foo.bar", violations[0].Collection)
	assert.Equal(t, "ns2.dep", violations[0].Dependency)
	assert.Equal(t, ">=1.0.0", violations[0].Constraint)
	assert.Equal(t, "0.9.0", violations[0].Found)
}
