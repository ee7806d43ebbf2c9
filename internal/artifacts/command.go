package artifacts

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	commandUseConstant                = "clean"
	commandShortDescriptionConstant   = "Remove stale build artifacts"
	commandLongDescriptionConstant    = "clean removes the PyInstaller work directory, the dist directory, and generated spec files; missing artifacts are ignored."
	projectDirectoryFlagNameConstant  = "project-dir"
	projectDirectoryFlagUsageConstant = "Project directory containing build artifacts"
	distDirectoryFlagNameConstant     = "dist-dir"
	distDirectoryFlagUsageConstant    = "Directory holding packaged executables"
	cleanFailedErrorTemplateConstant  = "artifact cleanup failed: %w"
	cleanCompletedMessageConstant     = "Artifact cleanup completed"
	logFieldRemovedPathsConstant      = "removed_paths"
	logFieldProjectDirectoryConstant  = "project_directory"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CleanCommandBuilder assembles the clean Cobra command.
type CleanCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the clean command.
func (builder *CleanCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runClean,
	}

	command.Flags().String(projectDirectoryFlagNameConstant, "", projectDirectoryFlagUsageConstant)
	command.Flags().String(distDirectoryFlagNameConstant, "", distDirectoryFlagUsageConstant)

	return command, nil
}

func (builder *CleanCommandBuilder) runClean(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	if command.Flags().Changed(projectDirectoryFlagNameConstant) {
		flagValue, _ := command.Flags().GetString(projectDirectoryFlagNameConstant)
		configuration.ProjectDirectory = flagValue
	}
	if command.Flags().Changed(distDirectoryFlagNameConstant) {
		flagValue, _ := command.Flags().GetString(distDirectoryFlagNameConstant)
		configuration.DistDirectory = flagValue
	}
	configuration = configuration.Sanitize()

	logger := builder.resolveLogger()
	cleaner := NewCleaner(logger)

	cleanResult, cleanError := cleaner.Clean(CleanOptions{
		ProjectDirectory: configuration.ProjectDirectory,
		DistDirectory:    configuration.DistDirectory,
		WorkDirectory:    configuration.WorkDirectory,
		AdditionalPaths:  configuration.AdditionalPaths,
	})
	if cleanError != nil {
		return fmt.Errorf(cleanFailedErrorTemplateConstant, cleanError)
	}

	logger.Info(
		cleanCompletedMessageConstant,
		zap.String(logFieldProjectDirectoryConstant, configuration.ProjectDirectory),
		zap.Strings(logFieldRemovedPathsConstant, cleanResult.RemovedPaths),
	)

	return nil
}

func (builder *CleanCommandBuilder) resolveLogger() *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

func (builder *CleanCommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}

	provided := builder.ConfigurationProvider()
	return provided.Sanitize()
}
