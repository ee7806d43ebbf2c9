package packager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/nestoqa/pybundle/internal/execshell"
)

const (
	singleFileFlagConstant          = "--onefile"
	outputNameFlagConstant          = "--name"
	distPathFlagConstant            = "--distpath"
	workPathFlagConstant            = "--workpath"
	specPathFlagConstant            = "--specpath"
	specPathCurrentDirConstant      = "."
	windowsExecutableSuffixConstant = ".exe"
	windowsOperatingSystemConstant  = "windows"

	packagingErrorTemplateConstant      = "packaging %s failed: %v"
	executorRequiredMessageConstant     = "packager requires a command executor"
	entryPointRequiredMessageConstant   = "packaging requires an entry point"
	outputNameRequiredMessageConstant   = "packaging requires an output name"
	entryPointStatErrorTemplateConstant = "unable to inspect entry point %s: %w"
	packagingStartedMessageConstant     = "packaging entry point"
	packagingCompletedMessageConstant   = "packaging completed"
	logFieldEntryPointConstant          = "entry_point"
	logFieldOutputNameConstant          = "output_name"
	logFieldExecutablePathConstant      = "executable_path"
)

// ErrEntryPointNotFound indicates the configured entry point does not exist.
var ErrEntryPointNotFound = errors.New("entry point not found")

// ErrEntryPointIsDirectory indicates the configured entry point is a directory.
var ErrEntryPointIsDirectory = errors.New("entry point is a directory")

// ErrExecutableNotProduced indicates PyInstaller reported success without writing the expected binary.
var ErrExecutableNotProduced = errors.New("expected executable was not produced")

// PackagingError describes a failure to bundle the entry point into an executable.
type PackagingError struct {
	EntryPoint string
	Cause      error
}

// Error describes the packaging failure.
func (packagingError PackagingError) Error() string {
	return fmt.Sprintf(packagingErrorTemplateConstant, packagingError.EntryPoint, packagingError.Cause)
}

// Unwrap exposes the underlying failure cause.
func (packagingError PackagingError) Unwrap() error {
	return packagingError.Cause
}

// CommandExecutor runs PyInstaller invocations.
type CommandExecutor interface {
	ExecutePyInstaller(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// PackageOptions describes a single packaging run.
type PackageOptions struct {
	ProjectDirectory string
	EntryPoint       string
	OutputName       string
	DistDirectory    string
	WorkDirectory    string
	ExtraArguments   []string
}

// PackageResult reports where the produced executable landed.
type PackageResult struct {
	ExecutablePath string
}

// Packager bundles Python entry points into single-file executables.
type Packager struct {
	logger   *zap.Logger
	executor CommandExecutor
}

// NewPackager constructs a Packager with the provided logger and executor.
func NewPackager(logger *zap.Logger, executor CommandExecutor) (*Packager, error) {
	if executor == nil {
		return nil, errors.New(executorRequiredMessageConstant)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Packager{logger: logger, executor: executor}, nil
}

// Package runs PyInstaller in single-file mode and verifies the produced binary.
func (packagerInstance *Packager) Package(executionContext context.Context, options PackageOptions) (PackageResult, error) {
	trimmedEntryPoint := strings.TrimSpace(options.EntryPoint)
	if len(trimmedEntryPoint) == 0 {
		return PackageResult{}, errors.New(entryPointRequiredMessageConstant)
	}
	trimmedOutputName := strings.TrimSpace(options.OutputName)
	if len(trimmedOutputName) == 0 {
		return PackageResult{}, errors.New(outputNameRequiredMessageConstant)
	}

	if validationError := packagerInstance.validateEntryPoint(options.ProjectDirectory, trimmedEntryPoint); validationError != nil {
		return PackageResult{}, PackagingError{EntryPoint: trimmedEntryPoint, Cause: validationError}
	}

	packagerInstance.logger.Info(
		packagingStartedMessageConstant,
		zap.String(logFieldEntryPointConstant, trimmedEntryPoint),
		zap.String(logFieldOutputNameConstant, trimmedOutputName),
	)

	commandDetails := execshell.CommandDetails{
		Arguments:        packagerInstance.buildArguments(trimmedEntryPoint, trimmedOutputName, options),
		WorkingDirectory: options.ProjectDirectory,
	}

	if _, executionError := packagerInstance.executor.ExecutePyInstaller(executionContext, commandDetails); executionError != nil {
		return PackageResult{}, PackagingError{EntryPoint: trimmedEntryPoint, Cause: executionError}
	}

	executablePath := packagerInstance.expectedExecutablePath(options.DistDirectory, trimmedOutputName)
	verificationPath := executablePath
	if !filepath.IsAbs(verificationPath) && len(strings.TrimSpace(options.ProjectDirectory)) > 0 {
		verificationPath = filepath.Join(options.ProjectDirectory, executablePath)
	}
	if _, statError := os.Stat(verificationPath); statError != nil {
		if errors.Is(statError, os.ErrNotExist) {
			return PackageResult{}, PackagingError{EntryPoint: trimmedEntryPoint, Cause: ErrExecutableNotProduced}
		}
		return PackageResult{}, PackagingError{EntryPoint: trimmedEntryPoint, Cause: statError}
	}

	packagerInstance.logger.Info(
		packagingCompletedMessageConstant,
		zap.String(logFieldExecutablePathConstant, executablePath),
	)

	return PackageResult{ExecutablePath: executablePath}, nil
}

func (packagerInstance *Packager) validateEntryPoint(projectDirectory string, entryPoint string) error {
	resolvedEntryPoint := entryPoint
	if !filepath.IsAbs(resolvedEntryPoint) && len(strings.TrimSpace(projectDirectory)) > 0 {
		resolvedEntryPoint = filepath.Join(projectDirectory, entryPoint)
	}

	entryPointInfo, statError := os.Stat(resolvedEntryPoint)
	if statError != nil {
		if errors.Is(statError, os.ErrNotExist) {
			return ErrEntryPointNotFound
		}
		return fmt.Errorf(entryPointStatErrorTemplateConstant, entryPoint, statError)
	}
	if entryPointInfo.IsDir() {
		return ErrEntryPointIsDirectory
	}
	return nil
}

func (packagerInstance *Packager) buildArguments(entryPoint string, outputName string, options PackageOptions) []string {
	arguments := []string{
		singleFileFlagConstant,
		outputNameFlagConstant, outputName,
	}
	if trimmedDistDirectory := strings.TrimSpace(options.DistDirectory); len(trimmedDistDirectory) > 0 {
		arguments = append(arguments, distPathFlagConstant, trimmedDistDirectory)
	}
	if trimmedWorkDirectory := strings.TrimSpace(options.WorkDirectory); len(trimmedWorkDirectory) > 0 {
		arguments = append(arguments, workPathFlagConstant, trimmedWorkDirectory)
	}
	arguments = append(arguments, specPathFlagConstant, specPathCurrentDirConstant)
	arguments = append(arguments, options.ExtraArguments...)
	arguments = append(arguments, entryPoint)
	return arguments
}

func (packagerInstance *Packager) expectedExecutablePath(distDirectory string, outputName string) string {
	executableName := outputName
	if runtime.GOOS == windowsOperatingSystemConstant {
		executableName += windowsExecutableSuffixConstant
	}

	trimmedDistDirectory := strings.TrimSpace(distDirectory)
	if len(trimmedDistDirectory) == 0 {
		return executableName
	}
	return filepath.Join(trimmedDistDirectory, executableName)
}
