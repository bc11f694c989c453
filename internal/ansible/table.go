package ansible

import (
	"fmt"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// CoreInfo is the support matrix entry for one ansible-core version.
type CoreInfo struct {
	CoreVersion Version

	// ControllerPythons are the Python versions the controller side
	// can run under.
	ControllerPythons []Version

	// RemotePythons are the Python versions supported on targets.
	RemotePythons []Version
}

// EOL reports whether the version is end of life.  The threshold is
// inclusive: the version at the boundary is itself EOL.
func (i CoreInfo) EOL() bool {
	return i.CoreVersion.Compare(eolThreshold) <= 0
}

var (
	// currentDevelVersion and currentMilestoneVersion are what the
	// devel and milestone branches currently correspond to.  They must
	// be bumped together with the table below whenever a new
	// ansible-core version branches off.
	currentDevelVersion     = MustVersion("2.19")
	currentMilestoneVersion = MustVersion("2.19")

	// eolThreshold is the newest ansible-core version that has reached
	// end of life and moved to the archival mirror repository.
	eolThreshold = MustVersion("2.14")
)

// The ansible-core support matrix.  Source of truth is the
// release_and_maintenance appendix of the ansible-documentation
// repository; entries past the current devel version are taken from
// its commented-out future rows.
var supportedCoreVersions = buildTable(map[string][2][]string{
	"2.9":  {{"2.7", "3.5", "3.6", "3.7", "3.8"}, {"2.6", "2.7", "3.5", "3.6", "3.7", "3.8"}},
	"2.10": {{"2.7", "3.5", "3.6", "3.7", "3.8", "3.9"}, {"2.6", "2.7", "3.5", "3.6", "3.7", "3.8", "3.9"}},
	"2.11": {{"2.7", "3.5", "3.6", "3.7", "3.8", "3.9"}, {"2.6", "2.7", "3.5", "3.6", "3.7", "3.8", "3.9"}},
	"2.12": {{"3.8", "3.9", "3.10"}, {"2.6", "2.7", "3.5", "3.6", "3.7", "3.8", "3.9", "3.10"}},
	"2.13": {{"3.8", "3.9", "3.10"}, {"2.7", "3.5", "3.6", "3.7", "3.8", "3.9", "3.10"}},
	"2.14": {{"3.9", "3.10", "3.11"}, {"2.7", "3.5", "3.6", "3.7", "3.8", "3.9", "3.10", "3.11"}},
	"2.15": {{"3.9", "3.10", "3.11"}, {"2.7", "3.5", "3.6", "3.7", "3.8", "3.9", "3.10", "3.11"}},
	"2.16": {{"3.10", "3.11", "3.12"}, {"2.7", "3.6", "3.7", "3.8", "3.9", "3.10", "3.11", "3.12"}},
	"2.17": {{"3.10", "3.11", "3.12"}, {"3.7", "3.8", "3.9", "3.10", "3.11", "3.12"}},
	"2.18": {{"3.11", "3.12", "3.13"}, {"3.8", "3.9", "3.10", "3.11", "3.12", "3.13"}},
	"2.19": {{"3.11", "3.12", "3.13"}, {"3.8", "3.9", "3.10", "3.11", "3.12", "3.13"}},
	"2.20": {{"3.12", "3.13", "3.14"}, {"3.9", "3.10", "3.11", "3.12", "3.13", "3.14"}},
	"2.21": {{"3.12", "3.13", "3.14"}, {"3.9", "3.10", "3.11", "3.12", "3.13", "3.14"}},
	"2.22": {{"3.13", "3.14", "3.15"}, {"3.10", "3.11", "3.12", "3.13", "3.14", "3.15"}},
	"2.23": {{"3.13", "3.14", "3.15"}, {"3.10", "3.11", "3.12", "3.13", "3.14", "3.15"}},
	"2.24": {{"3.14", "3.15", "3.16"}, {"3.11", "3.12", "3.13", "3.14", "3.15", "3.16"}},
	"2.25": {{"3.14", "3.15", "3.16"}, {"3.11", "3.12", "3.13", "3.14", "3.15", "3.16"}},
})

func buildTable(data map[string][2][]string) map[Version]CoreInfo {
	table := make(map[Version]CoreInfo, len(data))
	for coreVersion, pythons := range data {
		version := MustVersion(coreVersion)
		info := CoreInfo{CoreVersion: version}
		for _, python := range pythons[0] {
			info.ControllerPythons = append(info.ControllerPythons, MustVersion(python))
		}
		for _, python := range pythons[1] {
			info.RemotePythons = append(info.RemotePythons, MustVersion(python))
		}
		table[version] = info
	}
	return table
}

// Resolve maps a core version reference to a concrete version: devel
// and milestone resolve via the table constants, concrete references
// pass through unchanged.
func Resolve(ref CoreVersion) Version {
	switch ref.Special {
	case SpecialDevel:
		return currentDevelVersion
	case SpecialMilestone:
		return currentMilestoneVersion
	default:
		return ref.Version
	}
}

// CoreInfoFor looks up the support matrix entry for a core version
// reference.  Unknown versions fail; guessing compatibility for a
// version not in the table would be unsafe.
func CoreInfoFor(ref CoreVersion) (CoreInfo, error) {
	version := Resolve(ref)
	info, ok := supportedCoreVersions[version.key()]
	if !ok {
		return CoreInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("unknown ansible-core version %s", version))
	}
	return info, nil
}

// SupportedVersionsOptions filters the output of SupportedCoreVersions.
// Min and Max clip concrete versions to an inclusive range; Except
// drops individual versions.  Devel and milestone are not subject to
// the range filters and are appended only when requested.
type SupportedVersionsOptions struct {
	Min              *Version
	Max              *Version
	Except           []Version
	IncludeDevel     bool
	IncludeMilestone bool
}

// SupportedCoreVersions enumerates the core versions of the table,
// sorted ascending, filtered per opts, with devel and milestone
// appended when included.
func SupportedCoreVersions(opts SupportedVersionsOptions) []CoreVersion {
	excepted := make(map[Version]struct{}, len(opts.Except))
	for _, version := range opts.Except {
		excepted[version.key()] = struct{}{}
	}

	concrete := make([]Version, 0, len(supportedCoreVersions))
	for version := range supportedCoreVersions {
		if opts.Min != nil && version.Compare(opts.Min.key()) < 0 {
			continue
		}
		if opts.Max != nil && version.Compare(opts.Max.key()) > 0 {
			continue
		}
		if _, ok := excepted[version]; ok {
			continue
		}
		concrete = append(concrete, version)
	}
	sort.Slice(concrete, func(i, j int) bool {
		return concrete[i].Compare(concrete[j]) < 0
	})

	result := make([]CoreVersion, 0, len(concrete)+2)
	for _, version := range concrete {
		result = append(result, CoreVersionOf(version))
	}
	if opts.IncludeDevel {
		result = append(result, CoreVersion{Special: SpecialDevel})
	}
	if opts.IncludeMilestone {
		result = append(result, CoreVersion{Special: SpecialMilestone})
	}
	return result
}
