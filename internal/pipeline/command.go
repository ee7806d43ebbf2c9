package pipeline

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nestoqa/pybundle/internal/artifacts"
	"github.com/nestoqa/pybundle/internal/execshell"
	"github.com/nestoqa/pybundle/internal/packager"
	"github.com/nestoqa/pybundle/internal/pythondeps"
	"github.com/nestoqa/pybundle/internal/ui"
	"github.com/nestoqa/pybundle/internal/utils"
)

const (
	commandUseConstant              = "build"
	commandShortDescriptionConstant = "Install dependencies, clean artifacts, and package the entry point"
	commandLongDescriptionConstant  = "build installs Python dependencies from the requirements manifest, removes stale build output, runs PyInstaller in single-file mode, and reports the produced executable."

	entryPointFlagNameConstant        = "entry-point"
	entryPointFlagUsageConstant       = "Python entry point to package"
	outputNameFlagNameConstant        = "name"
	outputNameFlagUsageConstant       = "Name of the produced executable"
	manifestFlagNameConstant          = "manifest"
	manifestFlagUsageConstant         = "Path to the pip requirements manifest"
	distDirectoryFlagNameConstant     = "dist-dir"
	distDirectoryFlagUsageConstant    = "Directory receiving the packaged executable"
	projectDirectoryFlagNameConstant  = "project-dir"
	projectDirectoryFlagUsageConstant = "Project directory containing the source tree"
	dryRunFlagNameConstant            = "dry-run"
	dryRunFlagUsageConstant           = "Report the planned build without running any step"

	buildFailedErrorTemplateConstant = "build failed: %w"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// HumanReadableLoggingProvider reports whether command events should be rendered for console consumption.
type HumanReadableLoggingProvider func() bool

// CommandBuilder assembles the build Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	HumanReadableLoggingProvider HumanReadableLoggingProvider
}

// Build constructs the build command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runBuild,
	}

	command.Flags().String(entryPointFlagNameConstant, "", entryPointFlagUsageConstant)
	command.Flags().String(outputNameFlagNameConstant, "", outputNameFlagUsageConstant)
	command.Flags().String(manifestFlagNameConstant, "", manifestFlagUsageConstant)
	command.Flags().String(distDirectoryFlagNameConstant, "", distDirectoryFlagUsageConstant)
	command.Flags().String(projectDirectoryFlagNameConstant, "", projectDirectoryFlagUsageConstant)
	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) runBuild(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	if command.Flags().Changed(projectDirectoryFlagNameConstant) {
		flagValue, _ := command.Flags().GetString(projectDirectoryFlagNameConstant)
		configuration.ProjectDirectory = flagValue
		configuration = configuration.Sanitize()
	}

	projectManifest, manifestPresent, manifestError := LoadProjectManifest(configuration.ProjectDirectory)
	if manifestError != nil {
		return fmt.Errorf(buildFailedErrorTemplateConstant, manifestError)
	}
	if manifestPresent {
		configuration = projectManifest.ApplyTo(configuration)
	}

	configuration = applyFlagOverrides(command, configuration).Sanitize()
	dryRunRequested, _ := command.Flags().GetBool(dryRunFlagNameConstant)

	logger := builder.resolveLogger()
	service, serviceError := builder.assembleService(command, logger)
	if serviceError != nil {
		return fmt.Errorf(buildFailedErrorTemplateConstant, serviceError)
	}

	_, buildError := service.Execute(command.Context(), BuildOptions{
		ProjectDirectory: configuration.ProjectDirectory,
		EntryPoint:       configuration.EntryPoint,
		OutputName:       configuration.OutputName,
		ManifestPath:     configuration.ManifestPath,
		DistDirectory:    configuration.DistDirectory,
		WorkDirectory:    configuration.WorkDirectory,
		ExtraArguments:   configuration.ExtraArguments,
		AdditionalPaths:  configuration.AdditionalPaths,
		DryRun:           dryRunRequested,
	})
	if buildError != nil {
		return fmt.Errorf(buildFailedErrorTemplateConstant, buildError)
	}

	return nil
}

func applyFlagOverrides(command *cobra.Command, configuration CommandConfiguration) CommandConfiguration {
	overridden := configuration
	if command.Flags().Changed(entryPointFlagNameConstant) {
		flagValue, _ := command.Flags().GetString(entryPointFlagNameConstant)
		overridden.EntryPoint = flagValue
	}
	if command.Flags().Changed(outputNameFlagNameConstant) {
		flagValue, _ := command.Flags().GetString(outputNameFlagNameConstant)
		overridden.OutputName = flagValue
	}
	if command.Flags().Changed(manifestFlagNameConstant) {
		flagValue, _ := command.Flags().GetString(manifestFlagNameConstant)
		overridden.ManifestPath = flagValue
	}
	if command.Flags().Changed(distDirectoryFlagNameConstant) {
		flagValue, _ := command.Flags().GetString(distDirectoryFlagNameConstant)
		overridden.DistDirectory = flagValue
	}
	return overridden
}

func (builder *CommandBuilder) assembleService(command *cobra.Command, logger *zap.Logger) (*Service, error) {
	shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if executorError != nil {
		return nil, executorError
	}
	if builder.humanReadableLoggingEnabled() {
		shellExecutor.SetCommandEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}

	dependencyInstaller, installerError := pythondeps.NewInstaller(logger, shellExecutor)
	if installerError != nil {
		return nil, installerError
	}

	executablePackager, packagerError := packager.NewPackager(logger, shellExecutor)
	if packagerError != nil {
		return nil, packagerError
	}

	return NewService(ServiceDependencies{
		Logger:              logger,
		DependencyInstaller: dependencyInstaller,
		ArtifactCleaner:     artifacts.NewCleaner(logger),
		Packager:            executablePackager,
		Output:              utils.NewFlushingWriter(command.OutOrStdout()),
	})
}

func (builder *CommandBuilder) humanReadableLoggingEnabled() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}

	provided := builder.ConfigurationProvider()
	return provided.Sanitize()
}
