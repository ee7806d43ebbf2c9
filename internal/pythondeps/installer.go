package pythondeps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/nestoqa/pybundle/internal/execshell"
)

const (
	pipInstallSubcommandConstant            = "install"
	pipRequirementFlagConstant              = "--requirement"
	installerExecutorMissingMessageConstant = "dependency installer requires a pip executor"
	manifestNotFoundMessageConstant         = "dependency manifest not found"
	manifestPathRequiredMessageConstant     = "dependency manifest path must be provided"
	manifestIsDirectoryMessageConstant      = "dependency manifest path refers to a directory"
	dependencyInstallErrorTemplateConstant  = "dependency install from %s failed: %v"
	installingDependenciesMessageConstant   = "installing dependencies"
	dependenciesInstalledMessageConstant    = "dependencies installed"
	logFieldManifestPathConstant            = "manifest_path"
	logFieldProjectDirectoryConstant        = "project_directory"
)

// Exported sentinel errors describing manifest validation failures.
var (
	ErrManifestNotFound     = errors.New(manifestNotFoundMessageConstant)
	ErrManifestPathRequired = errors.New(manifestPathRequiredMessageConstant)
	ErrManifestIsDirectory  = errors.New(manifestIsDirectoryMessageConstant)

	errInstallerExecutorMissing = errors.New(installerExecutorMissingMessageConstant)
)

// DependencyInstallError describes a failed dependency installation step.
type DependencyInstallError struct {
	ManifestPath string
	Cause        error
}

// Error renders the manifest path together with the underlying cause.
func (installError DependencyInstallError) Error() string {
	return fmt.Sprintf(dependencyInstallErrorTemplateConstant, installError.ManifestPath, installError.Cause)
}

// Unwrap exposes the underlying installation failure.
func (installError DependencyInstallError) Unwrap() error {
	return installError.Cause
}

// CommandExecutor abstracts pip invocation for the installer.
type CommandExecutor interface {
	ExecutePip(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// InstallOptions configures a dependency installation run.
type InstallOptions struct {
	ProjectDirectory string
	ManifestPath     string
}

// Installer installs dependencies listed in a requirements manifest using pip.
type Installer struct {
	logger   *zap.Logger
	executor CommandExecutor
}

// NewInstaller constructs an Installer around the provided executor.
func NewInstaller(logger *zap.Logger, executor CommandExecutor) (*Installer, error) {
	if executor == nil {
		return nil, errInstallerExecutorMissing
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Installer{logger: logger, executor: executor}, nil
}

// Install validates the manifest and runs pip install against it.
//
// A manifest that exists but lists no dependencies is valid; pip treats it as
// a no-op. A missing manifest aborts before pip is invoked.
func (installer *Installer) Install(executionContext context.Context, options InstallOptions) error {
	manifestPath := strings.TrimSpace(options.ManifestPath)
	if len(manifestPath) == 0 {
		return DependencyInstallError{ManifestPath: manifestPath, Cause: ErrManifestPathRequired}
	}

	resolvedManifestPath := manifestPath
	if !filepath.IsAbs(resolvedManifestPath) && len(options.ProjectDirectory) > 0 {
		resolvedManifestPath = filepath.Join(options.ProjectDirectory, manifestPath)
	}

	manifestInfo, statError := os.Stat(resolvedManifestPath)
	if statError != nil {
		if errors.Is(statError, os.ErrNotExist) {
			return DependencyInstallError{ManifestPath: manifestPath, Cause: ErrManifestNotFound}
		}
		return DependencyInstallError{ManifestPath: manifestPath, Cause: statError}
	}
	if manifestInfo.IsDir() {
		return DependencyInstallError{ManifestPath: manifestPath, Cause: ErrManifestIsDirectory}
	}

	installer.logger.Debug(
		installingDependenciesMessageConstant,
		zap.String(logFieldManifestPathConstant, manifestPath),
		zap.String(logFieldProjectDirectoryConstant, options.ProjectDirectory),
	)

	_, executionError := installer.executor.ExecutePip(executionContext, execshell.CommandDetails{
		Arguments:        []string{pipInstallSubcommandConstant, pipRequirementFlagConstant, manifestPath},
		WorkingDirectory: options.ProjectDirectory,
	})
	if executionError != nil {
		return DependencyInstallError{ManifestPath: manifestPath, Cause: executionError}
	}

	installer.logger.Debug(
		dependenciesInstalledMessageConstant,
		zap.String(logFieldManifestPathConstant, manifestPath),
	)

	return nil
}
