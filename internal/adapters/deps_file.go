package adapters

import (
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"collection-sessions/internal/ports"
)

// DepsFileAdapter reads extra-dependency YAML files of the form
//
//	collections:
//	  - community.general
//	  - name: ansible.posix
//
// A missing file yields no collections; a malformed entry is an error.
type DepsFileAdapter struct{}

func NewDepsFileAdapter() DepsFileAdapter {
	return DepsFileAdapter{}
}

type depsFile struct {
	Collections []any `yaml:"collections"`
}

func (DepsFileAdapter) Collections(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("error while loading collection dependency file %s", path)).
			WithCause(err)
	}
	var parsed depsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("error while loading collection dependency file %s", path)).
			WithCause(err)
	}
	var result []string
	for index, entry := range parsed.Collections {
		switch value := entry.(type) {
		case string:
			result = append(result, value)
		case map[string]any:
			name, ok := value["name"].(string)
			if !ok {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf(
						"collection entry #%d in %s does not have a 'name' field of type string",
						index+1, path,
					))
			}
			result = append(result, name)
		default:
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf(
					"collection entry #%d in %s must be a string or mapping",
					index+1, path,
				))
		}
	}
	return result, nil
}

var _ ports.DepsFilePort = DepsFileAdapter{}
