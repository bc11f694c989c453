package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"collection-sessions/internal/ansible"
	"collection-sessions/internal/types"
)

type MatrixRequest struct {
	// SessionsFile is a JSON file holding the registered session
	// summary, keyed by registry name.
	SessionsFile string

	MinCore string
	MaxCore string

	// JSONOutput, when set, receives the filtered registry as JSON.
	JSONOutput string

	// GithubOutput, when set, receives one "name=json" line per
	// registry, the format GitHub Actions reads from $GITHUB_OUTPUT.
	GithubOutput string
}

func parseCoreBound(value string, option string) (*ansible.Version, error) {
	if value == "" {
		return nil, nil
	}
	ref, err := ansible.ParseCoreVersion(value)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("%s: invalid ansible-core version %q", option, value)).
			WithCause(err)
	}
	resolved := ansible.Resolve(ref)
	if _, err := ansible.CoreInfoFor(ref); err != nil {
		return nil, err
	}
	return &resolved, nil
}

// FilterMatrix drops sessions whose ansible-core version falls outside
// the given bounds.  Sessions whose ansible-core field is empty or not
// a version (branch names) are kept.
func FilterMatrix(registry types.SessionRegistry, minCore *ansible.Version, maxCore *ansible.Version) types.SessionRegistry {
	result := make(types.SessionRegistry, len(registry))
	for name, sessions := range registry {
		filtered := make([]types.SessionRecord, 0, len(sessions))
		for _, session := range sessions {
			if session.AnsibleCore != "" {
				if ref, err := ansible.ParseCoreVersion(session.AnsibleCore); err == nil {
					version := ansible.Resolve(ref)
					if minCore != nil && version.Compare(*minCore) < 0 {
						continue
					}
					if maxCore != nil && version.Compare(*maxCore) > 0 {
						continue
					}
				}
			}
			filtered = append(filtered, session)
		}
		result[name] = filtered
	}
	return result
}

// Matrix reads the registered session summary, filters it by core
// version, and writes the requested CI outputs.
func (s Service) Matrix(ctx context.Context, req MatrixRequest) (types.SessionRegistry, error) {
	raw, err := os.ReadFile(req.SessionsFile)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("cannot read sessions file %s", req.SessionsFile)).
			WithCause(err)
	}
	var registry types.SessionRegistry
	if err := json.Unmarshal(raw, &registry); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("cannot parse sessions file %s", req.SessionsFile)).
			WithCause(err)
	}

	minCore, err := parseCoreBound(req.MinCore, "--min-core")
	if err != nil {
		return nil, err
	}
	maxCore, err := parseCoreBound(req.MaxCore, "--max-core")
	if err != nil {
		return nil, err
	}
	registry = FilterMatrix(registry, minCore, maxCore)

	if req.JSONOutput != "" {
		encoded, err := json.Marshal(registry)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(req.JSONOutput, encoded, 0o644); err != nil {
			return nil, err
		}
		log.Ctx(ctx).Info().Str("path", req.JSONOutput).Msg("wrote matrix JSON")
	}
	if req.GithubOutput != "" {
		file, err := os.OpenFile(req.GithubOutput, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		for name, sessions := range registry {
			encoded, err := json.Marshal(sessions)
			if err != nil {
				return nil, err
			}
			if _, err := fmt.Fprintf(file, "%s=%s\n", name, encoded); err != nil {
				return nil, err
			}
		}
		log.Ctx(ctx).Info().Str("path", req.GithubOutput).Msg("wrote GitHub output")
	}
	return registry, nil
}
