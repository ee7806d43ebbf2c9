package cli

import (
	"errors"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/nestoqa/pybundle/internal/artifacts"
	"github.com/nestoqa/pybundle/internal/pipeline"
	"github.com/nestoqa/pybundle/internal/utils"
)

const (
	applicationNameConstant             = "pybundle"
	applicationShortDescriptionConstant = "Package Python projects into single-file executables"
	applicationLongDescriptionConstant  = "pybundle installs Python dependencies, clears stale build output, and drives PyInstaller to produce a single-file executable from a configured entry point."

	configurationNameConstant = "config"
	configurationTypeConstant = "yaml"
	environmentPrefixConstant = "PYBUNDLE"

	configurationFlagNameConstant  = "config"
	configurationFlagUsageConstant = "Path to the configuration file"
	logLevelFlagNameConstant       = "log-level"
	logLevelFlagUsageConstant      = "Log level (debug, info, warn, error)"
	logFormatFlagNameConstant      = "log-format"
	logFormatFlagUsageConstant     = "Log format (structured, console)"

	commonLogLevelConfigurationKeyConstant  = "common.log_level"
	commonLogFormatConfigurationKeyConstant = "common.log_format"
	buildConfigurationKeyPrefixConstant     = "tools.build"
	cleanConfigurationKeyPrefixConstant     = "tools.clean"

	currentDirectorySearchPathConstant = "."
)

// CommonConfiguration captures settings shared by every subcommand.
type CommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ToolsConfiguration groups per-subcommand configuration sections.
type ToolsConfiguration struct {
	Build pipeline.CommandConfiguration  `mapstructure:"build"`
	Clean artifacts.CommandConfiguration `mapstructure:"clean"`
}

// ApplicationConfiguration mirrors the layout of the configuration file.
type ApplicationConfiguration struct {
	Common CommonConfiguration `mapstructure:"common"`
	Tools  ToolsConfiguration  `mapstructure:"tools"`
}

// Application owns the root command, resolved configuration, and shared logger.
type Application struct {
	rootCommand     *cobra.Command
	configuration   ApplicationConfiguration
	logger          *zap.Logger
	loggerFactory   *utils.LoggerFactory
	contextAccessor utils.CommandContextAccessor
}

// Execute runs the pybundle application against os.Args.
func Execute() error {
	application, creationError := NewApplication()
	if creationError != nil {
		return creationError
	}
	return application.Execute()
}

// NewApplication assembles the root command together with its subcommands.
func NewApplication() (*Application, error) {
	application := &Application{
		loggerFactory:   utils.NewLoggerFactory(),
		logger:          zap.NewNop(),
		contextAccessor: utils.NewCommandContextAccessor(),
	}

	rootCommand := &cobra.Command{
		Use:               applicationNameConstant,
		Short:             applicationShortDescriptionConstant,
		Long:              applicationLongDescriptionConstant,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: application.initialize,
	}

	rootCommand.PersistentFlags().String(configurationFlagNameConstant, "", configurationFlagUsageConstant)
	rootCommand.PersistentFlags().String(logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	rootCommand.PersistentFlags().String(logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	buildCommandBuilder := &pipeline.CommandBuilder{
		LoggerProvider:               application.currentLogger,
		ConfigurationProvider:        application.buildConfiguration,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
	}
	buildCommand, buildCommandError := buildCommandBuilder.Build()
	if buildCommandError != nil {
		return nil, buildCommandError
	}
	rootCommand.AddCommand(buildCommand)

	cleanCommandBuilder := &artifacts.CleanCommandBuilder{
		LoggerProvider:        application.currentLogger,
		ConfigurationProvider: application.cleanConfiguration,
	}
	cleanCommand, cleanCommandError := cleanCommandBuilder.Build()
	if cleanCommandError != nil {
		return nil, cleanCommandError
	}
	rootCommand.AddCommand(cleanCommand)

	application.rootCommand = rootCommand
	return application, nil
}

// Execute runs the root command and flushes buffered log output afterwards.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	application.syncLogger()
	return executionError
}

// RootCommand exposes the assembled Cobra command tree.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

func (application *Application) initialize(command *cobra.Command, arguments []string) error {
	configurationFilePath, _ := command.Flags().GetString(configurationFlagNameConstant)

	configurationLoader := utils.NewConfigurationLoader(utils.ConfigurationLoaderParameters{
		ConfigurationName:     configurationNameConstant,
		ConfigurationType:     configurationTypeConstant,
		EnvironmentPrefix:     environmentPrefixConstant,
		SearchPaths:           []string{currentDirectorySearchPathConstant},
		EmbeddedConfiguration: embeddedDefaultConfiguration,
	})

	var resolvedConfiguration ApplicationConfiguration
	_, loadError := configurationLoader.LoadConfiguration(
		configurationFilePath,
		defaultConfigurationValues(),
		&resolvedConfiguration,
	)
	if loadError != nil {
		return loadError
	}

	application.applyLoggingFlagOverrides(command, &resolvedConfiguration)
	application.configuration = resolvedConfiguration

	logger, loggerError := application.loggerFactory.CreateLogger(
		utils.LogLevel(resolvedConfiguration.Common.LogLevel),
		utils.LogFormat(resolvedConfiguration.Common.LogFormat),
	)
	if loggerError != nil {
		return loggerError
	}
	application.logger = logger

	commandContext := application.contextAccessor.WithConfigurationFilePath(command.Context(), configurationFilePath)
	commandContext = application.contextAccessor.WithLogLevel(commandContext, resolvedConfiguration.Common.LogLevel)
	command.SetContext(commandContext)

	return nil
}

func (application *Application) applyLoggingFlagOverrides(command *cobra.Command, configuration *ApplicationConfiguration) {
	if flagValue, flagChanged := changedFlagValue(command.Flags(), logLevelFlagNameConstant); flagChanged {
		configuration.Common.LogLevel = flagValue
	}
	if flagValue, flagChanged := changedFlagValue(command.Flags(), logFormatFlagNameConstant); flagChanged {
		configuration.Common.LogFormat = flagValue
	}
}

func changedFlagValue(flagSet *pflag.FlagSet, flagName string) (string, bool) {
	if flagSet == nil || !flagSet.Changed(flagName) {
		return "", false
	}
	flagValue, flagError := flagSet.GetString(flagName)
	if flagError != nil {
		return "", false
	}
	return flagValue, true
}

func (application *Application) currentLogger() *zap.Logger {
	return application.logger
}

func (application *Application) buildConfiguration() pipeline.CommandConfiguration {
	return application.configuration.Tools.Build
}

func (application *Application) cleanConfiguration() artifacts.CommandConfiguration {
	return application.configuration.Tools.Clean
}

func (application *Application) humanReadableLoggingEnabled() bool {
	return strings.EqualFold(application.configuration.Common.LogFormat, string(utils.LogFormatConsole))
}

// Syncing stderr fails with ENOTSUP or EINVAL on some platforms; those are harmless.
func (application *Application) syncLogger() {
	if application.logger == nil {
		return
	}
	syncError := application.logger.Sync()
	if syncError == nil {
		return
	}
	if errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL) {
		return
	}
	_, _ = os.Stderr.WriteString(syncError.Error())
}

func defaultConfigurationValues() map[string]any {
	defaultValues := map[string]any{
		commonLogLevelConfigurationKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigurationKeyConstant: string(utils.LogFormatConsole),
	}
	for defaultKey, defaultValue := range pipeline.DefaultConfigurationValues(buildConfigurationKeyPrefixConstant) {
		defaultValues[defaultKey] = defaultValue
	}
	for defaultKey, defaultValue := range artifacts.DefaultConfigurationValues(cleanConfigurationKeyPrefixConstant) {
		defaultValues[defaultKey] = defaultValue
	}
	return defaultValues
}
