package app

import (
	"context"
	"sort"

	"github.com/Masterminds/semver/v3"

	"collection-sessions/internal/collection"
	"collection-sessions/internal/types"
)

// CheckDependencyConstraints evaluates the declared dependency
// constraints of the current collection's closure against the
// versions found on disk.  Constraints or versions that do not parse
// as semver are skipped, matching the best-effort character of
// discovery; dependency resolution itself never evaluates constraints.
func (s Service) CheckDependencyConstraints(ctx context.Context, globalCacheDir string) ([]types.ConstraintViolation, error) {
	if err := s.Cache.Setup(globalCacheDir); err != nil {
		return nil, err
	}
	all, err := s.Cache.Get(ctx, s.Runner)
	if err != nil {
		return nil, err
	}
	closure, err := collection.Closure([]types.CollectionData{all.Current}, all)
	if err != nil {
		return nil, err
	}

	var violations []types.ConstraintViolation
	for _, data := range closure {
		for dependencyName, constraintString := range data.Dependencies {
			if constraintString == "" || constraintString == "*" {
				continue
			}
			constraint, err := semver.NewConstraint(constraintString)
			if err != nil {
				continue
			}
			dependency, found := all.Find(dependencyName)
			if !found || dependency.Version == "" {
				continue
			}
			version, err := semver.NewVersion(dependency.Version)
			if err != nil {
				continue
			}
			if !constraint.Check(version) {
				violations = append(violations, types.ConstraintViolation{
					Collection: data.FullName,
					Dependency: dependencyName,
					Constraint: constraintString,
					Found:      dependency.Version,
				})
			}
		}
	}
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Collection != violations[j].Collection {
			return violations[i].Collection < violations[j].Collection
		}
		return violations[i].Dependency < violations[j].Dependency
	})
	return violations, nil
}
