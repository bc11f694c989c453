package ansible

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// CoreSource selects where an ansible-core package is installed from.
type CoreSource string

const (
	// CoreSourceGit installs from a source archive of a git branch.
	CoreSourceGit CoreSource = "git"
	// CoreSourcePyPI installs a released package from PyPI.
	CoreSourcePyPI CoreSource = "pypi"
)

const (
	mainRepo = "ansible/ansible"
	// EOL ansible-core branches are archived here once they leave the
	// main repository.
	eolRepo = "ansible-community/eol-ansible"
)

// pypiPackageName returns the name ansible-core was published under
// for a given version.  The two oldest supported lines predate the
// ansible-core rename.
func pypiPackageName(version Version) string {
	switch version.key() {
	case Version{Major: 2, Minor: 9}:
		return "ansible"
	case Version{Major: 2, Minor: 10}:
		return "ansible-base"
	default:
		return "ansible-core"
	}
}

// LocatorOptions customizes CorePackageName.  Repo and Branch override
// the derived git repository and branch name.
type LocatorOptions struct {
	Source CoreSource
	Repo   string
	Branch string
}

// CorePackageName computes a pip-installable requirement for an
// ansible-core version: either a PyPI version range or a source
// archive URL for a branch on GitHub.
//
// Devel and milestone are never released to PyPI, so they always
// produce an archive locator even when PyPI was requested.  Concrete
// versions at or below the EOL threshold resolve to the archival
// mirror repository.
func CorePackageName(ref CoreVersion, opts LocatorOptions) (string, error) {
	source := opts.Source
	if source == "" {
		source = CoreSourceGit
	}
	if source != CoreSourceGit && source != CoreSourcePyPI {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid ansible-core source %q", source))
	}

	if ref.IsSpecial() {
		branch := opts.Branch
		if branch == "" {
			branch = string(ref.Special)
		}
		repo := opts.Repo
		if repo == "" {
			repo = mainRepo
		}
		return archiveLocator(repo, branch), nil
	}

	version := ref.Version
	if source == CoreSourcePyPI && opts.Branch == "" {
		return fmt.Sprintf(
			"%s>=%s,<%s",
			pypiPackageName(version), version.key(), version.NextMinor(),
		), nil
	}

	branch := opts.Branch
	if branch == "" {
		branch = fmt.Sprintf("stable-%s", version.key())
	}
	repo := opts.Repo
	if repo == "" {
		repo = mainRepo
		if version.key().Compare(eolThreshold) <= 0 {
			repo = eolRepo
		}
	}
	return archiveLocator(repo, branch), nil
}

func archiveLocator(repo string, branch string) string {
	return fmt.Sprintf("https://github.com/%s/archive/%s.tar.gz", repo, branch)
}
