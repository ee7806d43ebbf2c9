package artifacts_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nestoqa/pybundle/internal/artifacts"
)

const (
	testDistDirectoryNameConstant  = "dist"
	testWorkDirectoryNameConstant  = "build"
	testSpecFileNameConstant       = "migration.spec"
	testSpecFileContentConstant    = "# -*- mode: python ; coding: utf-8 -*-\n"
	testNestedArtifactNameConstant = "migration"
)

func createArtifactTree(testInstance *testing.T) string {
	testInstance.Helper()

	projectDirectory := testInstance.TempDir()
	distDirectory := filepath.Join(projectDirectory, testDistDirectoryNameConstant)
	workDirectory := filepath.Join(projectDirectory, testWorkDirectoryNameConstant)

	require.NoError(testInstance, os.MkdirAll(distDirectory, 0o755))
	require.NoError(testInstance, os.MkdirAll(workDirectory, 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(distDirectory, testNestedArtifactNameConstant), []byte("binary"), 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(projectDirectory, testSpecFileNameConstant), []byte(testSpecFileContentConstant), 0o644))

	return projectDirectory
}

func TestCleanRemovesExistingArtifacts(testInstance *testing.T) {
	projectDirectory := createArtifactTree(testInstance)
	cleaner := artifacts.NewCleaner(zap.NewNop())

	cleanResult, cleanError := cleaner.Clean(artifacts.CleanOptions{
		ProjectDirectory: projectDirectory,
		DistDirectory:    testDistDirectoryNameConstant,
		WorkDirectory:    testWorkDirectoryNameConstant,
	})

	require.NoError(testInstance, cleanError)
	require.ElementsMatch(
		testInstance,
		[]string{testWorkDirectoryNameConstant, testDistDirectoryNameConstant, testSpecFileNameConstant},
		cleanResult.RemovedPaths,
	)

	require.NoDirExists(testInstance, filepath.Join(projectDirectory, testDistDirectoryNameConstant))
	require.NoDirExists(testInstance, filepath.Join(projectDirectory, testWorkDirectoryNameConstant))
	require.NoFileExists(testInstance, filepath.Join(projectDirectory, testSpecFileNameConstant))
}

func TestCleanIsIdempotent(testInstance *testing.T) {
	projectDirectory := createArtifactTree(testInstance)
	cleaner := artifacts.NewCleaner(zap.NewNop())

	cleanOptions := artifacts.CleanOptions{
		ProjectDirectory: projectDirectory,
		DistDirectory:    testDistDirectoryNameConstant,
		WorkDirectory:    testWorkDirectoryNameConstant,
	}

	firstResult, firstError := cleaner.Clean(cleanOptions)
	require.NoError(testInstance, firstError)
	require.NotEmpty(testInstance, firstResult.RemovedPaths)

	secondResult, secondError := cleaner.Clean(cleanOptions)
	require.NoError(testInstance, secondError)
	require.Empty(testInstance, secondResult.RemovedPaths)
}

func TestCleanToleratesMissingProject(testInstance *testing.T) {
	projectDirectory := filepath.Join(testInstance.TempDir(), "never-created")
	cleaner := artifacts.NewCleaner(zap.NewNop())

	cleanResult, cleanError := cleaner.Clean(artifacts.CleanOptions{
		ProjectDirectory: projectDirectory,
		DistDirectory:    testDistDirectoryNameConstant,
		WorkDirectory:    testWorkDirectoryNameConstant,
	})

	require.NoError(testInstance, cleanError)
	require.Empty(testInstance, cleanResult.RemovedPaths)
}

func TestCleanRemovesAdditionalPaths(testInstance *testing.T) {
	projectDirectory := createArtifactTree(testInstance)
	extraDirectory := filepath.Join(projectDirectory, "__pycache__")
	require.NoError(testInstance, os.MkdirAll(extraDirectory, 0o755))

	cleaner := artifacts.NewCleaner(zap.NewNop())
	cleanResult, cleanError := cleaner.Clean(artifacts.CleanOptions{
		ProjectDirectory: projectDirectory,
		DistDirectory:    testDistDirectoryNameConstant,
		WorkDirectory:    testWorkDirectoryNameConstant,
		AdditionalPaths:  []string{"__pycache__"},
	})

	require.NoError(testInstance, cleanError)
	require.Contains(testInstance, cleanResult.RemovedPaths, "__pycache__")
	require.NoDirExists(testInstance, extraDirectory)
}
