package pipeline_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nestoqa/pybundle/internal/pipeline"
)

func newBuildCommandFixture(testInstance *testing.T, configuration pipeline.CommandConfiguration) (*bytes.Buffer, func(arguments []string) error) {
	testInstance.Helper()

	builder := &pipeline.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() pipeline.CommandConfiguration { return configuration },
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	output := &bytes.Buffer{}
	command.SetOut(output)
	command.SetErr(output)

	return output, func(arguments []string) error {
		command.SetArgs(arguments)
		return command.Execute()
	}
}

func TestBuildCommandDryRunReportsConfiguredDefaults(testInstance *testing.T) {
	output, execute := newBuildCommandFixture(testInstance, pipeline.CommandConfiguration{})

	require.NoError(testInstance, execute([]string{"--dry-run"}))
	require.Equal(testInstance, "Dry run: would build migration from src/main.py\n", output.String())
}

func TestBuildCommandDryRunHonorsFlagOverrides(testInstance *testing.T) {
	output, execute := newBuildCommandFixture(testInstance, pipeline.CommandConfiguration{})

	require.NoError(testInstance, execute([]string{"--dry-run", "--name", "exporter", "--entry-point", "app/run.py"}))
	require.Equal(testInstance, "Dry run: would build exporter from app/run.py\n", output.String())
}

func TestBuildCommandDryRunAppliesProjectManifest(testInstance *testing.T) {
	projectDirectory := testInstance.TempDir()
	manifestPath := filepath.Join(projectDirectory, pipeline.ProjectManifestFileName)
	require.NoError(testInstance, os.WriteFile(manifestPath, []byte("output_name: exporter\n"), 0o644))

	output, execute := newBuildCommandFixture(testInstance, pipeline.CommandConfiguration{})

	require.NoError(testInstance, execute([]string{"--dry-run", "--project-dir", projectDirectory}))
	require.Equal(testInstance, "Dry run: would build exporter from src/main.py\n", output.String())
}

func TestBuildCommandDryRunPrefersFlagsOverProjectManifest(testInstance *testing.T) {
	projectDirectory := testInstance.TempDir()
	manifestPath := filepath.Join(projectDirectory, pipeline.ProjectManifestFileName)
	require.NoError(testInstance, os.WriteFile(manifestPath, []byte("output_name: exporter\n"), 0o644))

	output, execute := newBuildCommandFixture(testInstance, pipeline.CommandConfiguration{})

	require.NoError(testInstance, execute([]string{"--dry-run", "--project-dir", projectDirectory, "--name", "reporter"}))
	require.Equal(testInstance, "Dry run: would build reporter from src/main.py\n", output.String())
}

func TestBuildCommandFailsOnMalformedProjectManifest(testInstance *testing.T) {
	projectDirectory := testInstance.TempDir()
	manifestPath := filepath.Join(projectDirectory, pipeline.ProjectManifestFileName)
	require.NoError(testInstance, os.WriteFile(manifestPath, []byte("output_name: [unclosed\n"), 0o644))

	_, execute := newBuildCommandFixture(testInstance, pipeline.CommandConfiguration{})

	require.Error(testInstance, execute([]string{"--dry-run", "--project-dir", projectDirectory}))
}

func TestBuildCommandRejectsPositionalArguments(testInstance *testing.T) {
	_, execute := newBuildCommandFixture(testInstance, pipeline.CommandConfiguration{})

	require.Error(testInstance, execute([]string{"unexpected"}))
}
