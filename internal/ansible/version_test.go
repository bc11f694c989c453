package ansible

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input string
		want  Version
	}{
		{"2.14", Version{Major: 2, Minor: 14}},
		{"2.14.0", Version{Major: 2, Minor: 14, Patch: 0, HasPatch: true}},
		{"2.14.3", Version{Major: 2, Minor: 14, Patch: 3, HasPatch: true}},
		{" 3.10 ", Version{Major: 3, Minor: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVersion(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVersionInvalid(t *testing.T) {
	for _, input := range []string{"", "2", "2.x", "2.14.3.1", "-2.14", "2.-1", "devel"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseVersion(input)
			require.Error(t, err)
			assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
		})
	}
}

func TestVersionStringRoundTrip(t *testing.T) {
	for _, input := range []string{"2.14", "2.14.0", "2.14.3"} {
		version, err := ParseVersion(input)
		require.NoError(t, err)
		assert.Equal(t, input, version.String())
	}
}

func TestVersionCompare(t *testing.T) {
	tests := []struct {
		left  string
		right string
		want  int
	}{
		{"2.14", "2.14", 0},
		{"2.14", "2.14.0", 0},
		{"2.14.1", "2.14", 1},
		{"2.14", "2.15", -1},
		{"2.15", "2.14.9", 1},
		{"3.0", "2.99", 1},
	}
	for _, tt := range tests {
		t.Run(tt.left+" vs "+tt.right, func(t *testing.T) {
			assert.Equal(t, tt.want, MustVersion(tt.left).Compare(MustVersion(tt.right)))
		})
	}
}

func TestVersionNextMinor(t *testing.T) {
	assert.Equal(t, "2.15", MustVersion("2.14.3").NextMinor().String())
	assert.Equal(t, "3.11", MustVersion("3.10").NextMinor().String())
}

func TestParseCoreVersion(t *testing.T) {
	devel, err := ParseCoreVersion("devel")
	require.NoError(t, err)
	assert.True(t, devel.IsSpecial())
	assert.Equal(t, "devel", devel.String())

	milestone, err := ParseCoreVersion("milestone")
	require.NoError(t, err)
	assert.True(t, milestone.IsSpecial())
	assert.Equal(t, "milestone", milestone.String())

	concrete, err := ParseCoreVersion("2.17")
	require.NoError(t, err)
	assert.False(t, concrete.IsSpecial())
	assert.Equal(t, "2.17", concrete.String())

	_, err = ParseCoreVersion("trunk")
	require.Error(t, err)
}
