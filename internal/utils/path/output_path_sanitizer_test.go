package pathutils_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/nestoqa/pybundle/internal/utils/path"
)

const stubHomeDirectoryConstant = "/home/builder"

func newSanitizerWithStubHome() *pathutils.OutputPathSanitizer {
	homeExpander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return stubHomeDirectoryConstant, nil
	})
	return pathutils.NewOutputPathSanitizerWithExpander(homeExpander)
}

func TestSanitizeNormalizesCandidatePaths(testInstance *testing.T) {
	testCases := []struct {
		name           string
		candidatePaths []string
		expectedPaths  []string
	}{
		{
			name:           "nil_input",
			candidatePaths: nil,
			expectedPaths:  nil,
		},
		{
			name:           "blank_entries_removed",
			candidatePaths: []string{"  ", "", "dist"},
			expectedPaths:  []string{"dist"},
		},
		{
			name:           "duplicates_collapsed",
			candidatePaths: []string{"dist", " dist ", "build"},
			expectedPaths:  []string{"dist", "build"},
		},
		{
			name:           "home_prefix_expanded",
			candidatePaths: []string{"~/artifacts"},
			expectedPaths:  []string{filepath.Join(stubHomeDirectoryConstant, "artifacts")},
		},
		{
			name:           "all_blank_yields_nil",
			candidatePaths: []string{"", "  "},
			expectedPaths:  nil,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			sanitizer := newSanitizerWithStubHome()
			require.Equal(subtestInstance, testCase.expectedPaths, sanitizer.Sanitize(testCase.candidatePaths))
		})
	}
}

func TestHomeExpanderLeavesRelativePathsUntouched(testInstance *testing.T) {
	homeExpander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return stubHomeDirectoryConstant, nil
	})

	require.Equal(testInstance, "dist", homeExpander.Expand("dist"))
	require.Equal(testInstance, stubHomeDirectoryConstant, homeExpander.Expand("~"))
	require.Equal(testInstance, filepath.Join(stubHomeDirectoryConstant, "dist"), homeExpander.Expand("~/dist"))
}
