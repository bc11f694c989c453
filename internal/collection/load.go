// Package collection discovers Ansible collections on disk, resolves
// their dependency closures, and assembles isolated collection trees
// for downstream tooling.
package collection

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"collection-sessions/internal/types"
)

const (
	galaxyFileName   = "galaxy.yml"
	manifestFileName = "MANIFEST.json"
)

func parseError(path string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("cannot parse %s", path)).
		WithCause(cause)
}

func loadGalaxyYML(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, parseError(path, err)
	}
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, parseError(path, err)
	}
	if data == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s is not a mapping", path))
	}
	return data, nil
}

func loadManifestCollectionInfo(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, parseError(path, err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, parseError(path, err)
	}
	info, ok := data["collection_info"].(map[string]any)
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s does not contain collection_info", path))
	}
	return info, nil
}

// LoadOptions controls LoadFromDisk.
type LoadOptions struct {
	// Namespace and Name, when set, are cross-checked against the
	// identity declared in the descriptor file.
	Namespace string
	Name      string

	// Root is the ansible_collections directory the collection was
	// found under, when there is one.
	Root string

	// Current marks the loaded collection as the one under test.
	Current bool

	// RequireGalaxyYML refuses the MANIFEST.json fallback.
	RequireGalaxyYML bool
}

// LoadFromDisk reads a collection descriptor from path.  galaxy.yml is
// preferred; MANIFEST.json is accepted as a fallback unless disabled.
func LoadFromDisk(path string, opts LoadOptions) (types.CollectionData, error) {
	galaxyYML := filepath.Join(path, galaxyFileName)
	manifestJSON := filepath.Join(path, manifestFileName)

	var (
		found string
		data  map[string]any
		err   error
	)
	switch {
	case isFile(galaxyYML):
		found = galaxyYML
		data, err = loadGalaxyYML(galaxyYML)
	case opts.RequireGalaxyYML:
		return types.CollectionData{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("cannot find %s in %s", galaxyFileName, path))
	case isFile(manifestJSON):
		found = manifestJSON
		data, err = loadManifestCollectionInfo(manifestJSON)
	default:
		return types.CollectionData{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("cannot find %s or %s in %s", galaxyFileName, manifestFileName, path))
	}
	if err != nil {
		return types.CollectionData{}, err
	}

	namespace, ok := data["namespace"].(string)
	if !ok {
		return types.CollectionData{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s does not contain a namespace", found))
	}
	name, ok := data["name"].(string)
	if !ok {
		return types.CollectionData{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s does not contain a name", found))
	}
	version, _ := data["version"].(string)

	dependencies := map[string]string{}
	if rawDeps, present := data["dependencies"]; present && rawDeps != nil {
		mapping, ok := rawDeps.(map[string]any)
		if !ok {
			return types.CollectionData{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("%s's dependencies is not a mapping", found))
		}
		for depName, constraint := range mapping {
			constraintString, _ := constraint.(string)
			dependencies[depName] = constraintString
		}
	}

	if opts.Namespace != "" && namespace != opts.Namespace {
		return types.CollectionData{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf(
				"%s contains namespace %q, but was hoping for %q",
				found, namespace, opts.Namespace,
			))
	}
	if opts.Name != "" && name != opts.Name {
		return types.CollectionData{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf(
				"%s contains name %q, but was hoping for %q",
				found, name, opts.Name,
			))
	}

	return types.CollectionData{
		CollectionsRootPath: opts.Root,
		Path:                path,
		Namespace:           namespace,
		Name:                name,
		FullName:            namespace + "." + name,
		Version:             version,
		Dependencies:        dependencies,
		Current:             opts.Current,
	}, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDirOrSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Stat(path)
		return err == nil && target.IsDir()
	}
	return info.IsDir()
}
