package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	loggerNotConfiguredMessageConstant        = "shell executor requires a logger"
	commandRunnerNotConfiguredMessageConstant = "shell executor requires a command runner"
	commandStartedLogMessageConstant          = "executing command"
	commandCompletedLogMessageConstant        = "command completed"
	commandExecutionFailedLogMessageConstant  = "command execution failed"
	logFieldCommandNameConstant               = "command_name"
	logFieldCommandArgumentsConstant          = "command_arguments"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldExitCodeConstant                  = "exit_code"
	commandFailedErrorTemplateConstant        = "%s failed with exit code %d%s"
	commandExecutionErrorTemplateConstant     = "%s failed: %v"
	commandFailedStderrSuffixTemplateConstant = ": %s"
	commandLabelSeparatorConstant             = " "
	externalToolPipStringConstant             = "pip"
	externalToolPyInstallerStringConstant     = "pyinstaller"
	externalToolPythonStringConstant          = "python3"
)

// Exported sentinel errors describing executor construction failures.
var (
	ErrLoggerNotConfigured        = errors.New(loggerNotConfiguredMessageConstant)
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
)

// CommandName identifies a supported executable.
type CommandName string

// Supported tool enumerations.
const (
	CommandPip         CommandName = CommandName(externalToolPipStringConstant)
	CommandPyInstaller CommandName = CommandName(externalToolPyInstallerStringConstant)
	CommandPython      CommandName = CommandName(externalToolPythonStringConstant)
)

// CommandDetails describes a tool invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand combines a CommandName with specific invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner represents the ability to run shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError describes a command that completed with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error renders the failed command including its exit code and captured standard error.
func (failure CommandFailedError) Error() string {
	return fmt.Sprintf(
		commandFailedErrorTemplateConstant,
		describeCommand(failure.Command),
		failure.Result.ExitCode,
		formatStandardErrorSuffix(failure.Result.StandardError),
	)
}

// CommandExecutionError describes a command that could not be executed at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error renders the command that could not be spawned together with the underlying cause.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, describeCommand(failure.Command), failure.Cause)
}

// Unwrap exposes the underlying execution failure.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor runs external commands through a CommandRunner with structured logging and lifecycle events.
type ShellExecutor struct {
	logger        *zap.Logger
	commandRunner CommandRunner
	eventObserver CommandEventObserver
}

// NewShellExecutor constructs a ShellExecutor backed by the provided logger and runner.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	return &ShellExecutor{
		logger:        logger,
		commandRunner: commandRunner,
		eventObserver: noopCommandEventObserver{},
	}, nil
}

// SetCommandEventObserver replaces the observer notified about command lifecycle events.
func (executor *ShellExecutor) SetCommandEventObserver(observer CommandEventObserver) {
	if executor == nil {
		return
	}
	if observer == nil {
		executor.eventObserver = noopCommandEventObserver{}
		return
	}
	executor.eventObserver = observer
}

// Execute runs an arbitrary shell command and reports non-zero exits as CommandFailedError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.eventObserver.CommandStarted(command)
	executor.logger.Debug(
		commandStartedLogMessageConstant,
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldCommandArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executor.eventObserver.CommandExecutionFailed(command, runError)
		executor.logger.Error(
			commandExecutionFailedLogMessageConstant,
			zap.String(logFieldCommandNameConstant, string(command.Name)),
			zap.Error(runError),
		)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.eventObserver.CommandCompleted(command, executionResult)
	executor.logger.Debug(
		commandCompletedLogMessageConstant,
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
	)

	if executionResult.ExitCode != 0 {
		return executionResult, CommandFailedError{Command: command, Result: executionResult}
	}

	return executionResult, nil
}

// ExecutePip runs pip with the provided details.
func (executor *ShellExecutor) ExecutePip(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandPip, Details: details})
}

// ExecutePyInstaller runs PyInstaller with the provided details.
func (executor *ShellExecutor) ExecutePyInstaller(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandPyInstaller, Details: details})
}

// ExecutePython runs the Python interpreter with the provided details.
func (executor *ShellExecutor) ExecutePython(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandPython, Details: details})
}

func describeCommand(command ShellCommand) string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(commandParts, commandLabelSeparatorConstant)
}

func formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return ""
	}
	return fmt.Sprintf(commandFailedStderrSuffixTemplateConstant, trimmedStandardError)
}
