// Package testutil provides shared test helpers used across
// integration and unit test packages.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// RunnerFunc adapts a plain function to the ports.Runner interface so
// tests can script external command output.
type RunnerFunc func(ctx context.Context, argv []string) ([]byte, []byte, error)

func (f RunnerFunc) Run(ctx context.Context, argv []string) ([]byte, []byte, error) {
	return f(ctx, argv)
}

// FailRunner returns a runner that fails the test when any command is
// executed. Use it where discovery must stay fully offline.
func FailRunner(t *testing.T) RunnerFunc {
	t.Helper()
	return func(_ context.Context, argv []string) ([]byte, []byte, error) {
		t.Fatalf("unexpected command execution: %v", argv)
		return nil, nil, nil
	}
}

// GalaxyRunner returns a runner that answers the ansible-galaxy
// collection list query with the given JSON and rejects anything else.
func GalaxyRunner(t *testing.T, listJSON string) RunnerFunc {
	t.Helper()
	return func(_ context.Context, argv []string) ([]byte, []byte, error) {
		if len(argv) > 0 && argv[0] == "ansible-galaxy" {
			return []byte(listJSON), nil, nil
		}
		t.Fatalf("unexpected command execution: %v", argv)
		return nil, nil, nil
	}
}

// WriteCollection creates dir with a galaxy.yml declaring the given
// collection identity and dependencies, and returns dir.
func WriteCollection(t *testing.T, dir string, namespace string, name string, version string, dependencies map[string]string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	var sb strings.Builder
	fmt.Fprintf(&sb, "namespace: %s\nname: %s\n", namespace, name)
	if version != "" {
		fmt.Fprintf(&sb, "version: %q\n", version)
	}
	if len(dependencies) > 0 {
		sb.WriteString("dependencies:\n")
		keys := make([]string, 0, len(dependencies))
		for key := range dependencies {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(&sb, "  %s: %q\n", key, dependencies[key])
		}
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "galaxy.yml"), []byte(sb.String()), 0o644))
	return dir
}
