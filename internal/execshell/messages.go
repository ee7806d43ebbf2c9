package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	pipInstallSubcommandNameConstant = "install"
	pipRequirementFlagConstant       = "--requirement"
	pipRequirementShortFlagConstant  = "-r"
	pyinstallerNameFlagConstant      = "--name"
	flagPrefixConstant               = "-"
)

const (
	pipInstallStartTemplateConstant            = "Installing dependencies from %s"
	pipInstallSuccessTemplateConstant          = "Installed dependencies from %s"
	pipInstallFailureTemplateConstant          = "Failed to install dependencies from %s (exit code %d%s)"
	pipInstallExecutionFailureTemplateConstant = "Unable to install dependencies from %s: %s"
	bundleStartTemplateConstant                = "Bundling %s into single-file executable %s"
	bundleSuccessTemplateConstant              = "Bundled %s into single-file executable %s"
	bundleFailureTemplateConstant              = "Failed to bundle %s into %s (exit code %d%s)"
	bundleExecutionFailureTemplateConstant     = "Unable to bundle %s into %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandPip:
		return formatter.describePipMessage(command, result, failure, stage)
	case CommandPyInstaller:
		return formatter.describePyInstallerMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describePipMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 || strings.TrimSpace(arguments[0]) != pipInstallSubcommandNameConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	manifestPath := findFlagValue(arguments, pipRequirementFlagConstant)
	if len(manifestPath) == 0 {
		manifestPath = findFlagValue(arguments, pipRequirementShortFlagConstant)
	}
	if len(manifestPath) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(pipInstallStartTemplateConstant, manifestPath)
	case messageStageSuccess:
		return fmt.Sprintf(pipInstallSuccessTemplateConstant, manifestPath)
	case messageStageFailure:
		return fmt.Sprintf(pipInstallFailureTemplateConstant, manifestPath, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(pipInstallExecutionFailureTemplateConstant, manifestPath, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describePyInstallerMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	outputName := formatter.ensureValue(findFlagValue(arguments, pyinstallerNameFlagConstant))
	entryPoint := formatter.ensureValue(formatter.extractLastNonFlagArgument(arguments))

	if outputName == fallbackUnknownValueLabelConstant && entryPoint == fallbackUnknownValueLabelConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(bundleStartTemplateConstant, entryPoint, outputName)
	case messageStageSuccess:
		return fmt.Sprintf(bundleSuccessTemplateConstant, entryPoint, outputName)
	case messageStageFailure:
		return fmt.Sprintf(bundleFailureTemplateConstant, entryPoint, outputName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(bundleExecutionFailureTemplateConstant, entryPoint, outputName, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) extractLastNonFlagArgument(arguments []string) string {
	for index := len(arguments) - 1; index >= 0; index-- {
		trimmed := strings.TrimSpace(arguments[index])
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		if index > 0 && isFlagExpectingValue(strings.TrimSpace(arguments[index-1])) {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func isFlagExpectingValue(argument string) bool {
	switch argument {
	case pyinstallerNameFlagConstant, pipRequirementFlagConstant, pipRequirementShortFlagConstant, "--distpath", "--workpath", "--specpath":
		return true
	default:
		return false
	}
}

func findFlagValue(arguments []string, flag string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == flag && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return emptyStringConstant
}
