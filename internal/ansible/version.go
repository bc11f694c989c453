// Package ansible knows which ansible-core versions exist, which
// Python interpreters each of them supports, and where each of them
// can be installed from.
package ansible

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Version is a dotted ansible-core or Python version.  The patch
// component is optional; versions are totally ordered by their numeric
// components with a missing patch comparing as zero.
type Version struct {
	Major int
	Minor int
	Patch int

	// HasPatch records whether the patch component was present in the
	// parsed input, so String can round-trip "2.14" and "2.14.0".
	HasPatch bool
}

// ParseVersion parses "major.minor" or "major.minor.patch".
func ParseVersion(value string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(value), ".")
	if len(parts) != 2 && len(parts) != 3 {
		return Version{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid version %q", value))
	}
	numbers := make([]int, len(parts))
	for i, part := range parts {
		number, err := strconv.Atoi(part)
		if err != nil || number < 0 {
			return Version{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid version %q", value))
		}
		numbers[i] = number
	}
	version := Version{Major: numbers[0], Minor: numbers[1]}
	if len(numbers) == 3 {
		version.Patch = numbers[2]
		version.HasPatch = true
	}
	return version, nil
}

// MustVersion parses a version literal and panics on failure.  Only
// for use with compile-time constants such as the support table.
func MustVersion(value string) Version {
	version, err := ParseVersion(value)
	if err != nil {
		panic(err)
	}
	return version
}

// Compare returns -1, 0, or 1.
func (v Version) Compare(other Version) int {
	pairs := [][2]int{
		{v.Major, other.Major},
		{v.Minor, other.Minor},
		{v.Patch, other.Patch},
	}
	for _, pair := range pairs {
		if pair[0] < pair[1] {
			return -1
		}
		if pair[0] > pair[1] {
			return 1
		}
	}
	return 0
}

func (v Version) String() string {
	if v.HasPatch {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// NextMinor returns the version with the minor component incremented
// and no patch, used for upper bounds of version ranges.
func (v Version) NextMinor() Version {
	return Version{Major: v.Major, Minor: v.Minor + 1}
}

// key normalizes a version for table lookups: patch discarded, since
// the support matrix is keyed by major.minor.
func (v Version) key() Version {
	return Version{Major: v.Major, Minor: v.Minor}
}

// Special is a symbolic reference to a rolling ansible-core tip.
type Special string

const (
	// SpecialNone marks a concrete version reference.
	SpecialNone Special = ""
	// SpecialDevel is the development tip of ansible-core.
	SpecialDevel Special = "devel"
	// SpecialMilestone is the preview/milestone tip of ansible-core.
	SpecialMilestone Special = "milestone"
)

// CoreVersion is either a concrete ansible-core version or one of the
// two symbolic tips.  Symbolic references are not ordered against
// concrete versions; Resolve maps them to a concrete version first.
type CoreVersion struct {
	Special Special
	Version Version
}

// CoreVersionOf wraps a concrete version.
func CoreVersionOf(version Version) CoreVersion {
	return CoreVersion{Version: version}
}

// ParseCoreVersion parses "devel", "milestone", or a dotted version.
func ParseCoreVersion(value string) (CoreVersion, error) {
	switch Special(value) {
	case SpecialDevel:
		return CoreVersion{Special: SpecialDevel}, nil
	case SpecialMilestone:
		return CoreVersion{Special: SpecialMilestone}, nil
	}
	version, err := ParseVersion(value)
	if err != nil {
		return CoreVersion{}, err
	}
	return CoreVersion{Version: version}, nil
}

// IsSpecial reports whether the reference is devel or milestone.
func (c CoreVersion) IsSpecial() bool {
	return c.Special != SpecialNone
}

func (c CoreVersion) String() string {
	if c.IsSpecial() {
		return string(c.Special)
	}
	return c.Version.String()
}
