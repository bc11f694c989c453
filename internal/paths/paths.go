package paths

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"collection-sessions/internal/ports"
)

// Remove deletes whatever is at path: a symlink is unlinked without
// following it, a directory is removed recursively, a file is
// unlinked.  A missing path is not an error.
func Remove(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Mode()&os.ModeSymlink == 0 && info.IsDir() {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

func copyFile(src string, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copyEntry(src string, dst string, excludeRoot map[string]struct{}, atRoot bool) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		return os.Symlink(target, dst)
	case info.IsDir():
		if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
			return err
		}
		entries, err := os.ReadDir(src)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if atRoot {
				if _, ok := excludeRoot[entry.Name()]; ok {
					continue
				}
			}
			err := copyEntry(
				filepath.Join(src, entry.Name()),
				filepath.Join(dst, entry.Name()),
				excludeRoot,
				false,
			)
			if err != nil {
				return err
			}
		}
		return nil
	default:
		return copyFile(src, dst, info.Mode().Perm())
	}
}

// CopyTree recursively copies src to dst, preserving symlinks as
// symlinks.  Entries of excludeRoot are skipped at the top level only.
func CopyTree(src string, dst string, excludeRoot []string) error {
	exclude := make(map[string]struct{}, len(excludeRoot))
	for _, name := range excludeRoot {
		exclude[name] = struct{}{}
	}
	return copyEntry(src, dst, exclude, true)
}

// GitAwareCopy copies a git work tree from src to dst, including only
// files git knows about (tracked plus untracked-but-not-ignored).
// VCS metadata and ignored files are left behind.
func GitAwareCopy(ctx context.Context, runner ports.Runner, src string, dst string, excludeRoot []string) error {
	stdout, _, err := runner.Run(ctx, []string{
		"git", "-C", src, "ls-files", "-z", "--cached", "--others", "--exclude-standard",
	})
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to list git files in %s", src)).
			WithCause(err)
	}
	exclude := make(map[string]struct{}, len(excludeRoot))
	for _, name := range excludeRoot {
		exclude[name] = struct{}{}
	}
	for _, raw := range bytes.Split(stdout, []byte{0}) {
		if len(raw) == 0 {
			continue
		}
		relative := filepath.FromSlash(string(raw))
		first := relative
		if index := splitFirst(relative); index >= 0 {
			first = relative[:index]
		}
		if _, ok := exclude[first]; ok {
			continue
		}
		source := filepath.Join(src, relative)
		info, err := os.Lstat(source)
		if err != nil {
			// Deleted but still tracked; ls-files can report those.
			continue
		}
		target := filepath.Join(dst, relative)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			linkTarget, err := os.Readlink(source)
			if err != nil {
				return err
			}
			if err := os.Symlink(linkTarget, target); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(source, target, info.Mode().Perm()); err != nil {
			return err
		}
	}
	return nil
}

func splitFirst(path string) int {
	for i := 0; i < len(path); i++ {
		if os.IsPathSeparator(path[i]) {
			return i
		}
	}
	return -1
}

// IsGitWorkTree reports whether path is inside a git work tree.
func IsGitWorkTree(ctx context.Context, runner ports.Runner, path string) bool {
	_, _, err := runner.Run(ctx, []string{
		"git", "-C", path, "rev-parse", "--is-inside-work-tree",
	})
	return err == nil
}

// CopyCollection copies a collection into dst as an independent
// snapshot.  Any pre-existing entry at dst is removed first.  When the
// source is a git work tree the copy honors git's file list; otherwise
// a plain recursive copy is used.  The .nox and .tox tool directories
// are never copied.
func CopyCollection(ctx context.Context, runner ports.Runner, src string, dst string) error {
	if _, err := os.Lstat(src); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("collection source %s does not exist", src)).
			WithCause(err)
	}
	if err := Remove(dst); err != nil {
		return err
	}
	excludeRoot := []string{".nox", ".tox"}
	if IsGitWorkTree(ctx, runner, src) {
		return GitAwareCopy(ctx, runner, src, dst, excludeRoot)
	}
	return CopyTree(src, dst, excludeRoot)
}
