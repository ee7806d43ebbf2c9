package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/nestoqa/pybundle/internal/artifacts"
	"github.com/nestoqa/pybundle/internal/packager"
	"github.com/nestoqa/pybundle/internal/pythondeps"
)

const (
	dependenciesMissingMessageConstant  = "pipeline requires a dependency installer, an artifact cleaner, and a packager"
	invalidOptionsErrorTemplateConstant = "invalid build options: %s"
	successMessageTemplateConstant      = "Build succeeded. Executable available at %s\n"
	dryRunMessageTemplateConstant       = "Dry run: would build %s from %s\n"
	buildStartedMessageConstant         = "starting build pipeline"
	buildCompletedMessageConstant       = "build pipeline completed"
	entryPointRequiredReasonConstant    = "entry point must be provided"
	outputNameRequiredReasonConstant    = "output name must be provided"
	manifestRequiredReasonConstant      = "dependency manifest path must be provided"
	logFieldEntryPointConstant          = "entry_point"
	logFieldOutputNameConstant          = "output_name"
	logFieldExecutablePathConstant      = "executable_path"
	logFieldProjectDirectoryConstant    = "project_directory"
)

// InvalidOptionsError reports build options that fail validation before any step runs.
type InvalidOptionsError struct {
	Reason string
}

// Error renders the validation failure reason.
func (optionsError InvalidOptionsError) Error() string {
	return fmt.Sprintf(invalidOptionsErrorTemplateConstant, optionsError.Reason)
}

// DependencyInstaller installs Python dependencies from a requirements manifest.
type DependencyInstaller interface {
	Install(executionContext context.Context, options pythondeps.InstallOptions) error
}

// ArtifactCleaner removes stale build output before packaging.
type ArtifactCleaner interface {
	Clean(options artifacts.CleanOptions) (artifacts.CleanResult, error)
}

// ExecutablePackager bundles the entry point into a single-file executable.
type ExecutablePackager interface {
	Package(executionContext context.Context, options packager.PackageOptions) (packager.PackageResult, error)
}

// ServiceDependencies enumerates the collaborators required by the pipeline service.
type ServiceDependencies struct {
	Logger              *zap.Logger
	DependencyInstaller DependencyInstaller
	ArtifactCleaner     ArtifactCleaner
	Packager            ExecutablePackager
	Output              io.Writer
}

// BuildOptions configures a single pipeline run.
type BuildOptions struct {
	ProjectDirectory string
	EntryPoint       string
	OutputName       string
	ManifestPath     string
	DistDirectory    string
	WorkDirectory    string
	ExtraArguments   []string
	AdditionalPaths  []string
	DryRun           bool
}

// BuildResult reports the outcome of a successful pipeline run.
type BuildResult struct {
	ExecutablePath string
	RemovedPaths   []string
}

// Service executes the dependency install, cleanup, and packaging steps in strict order.
type Service struct {
	logger              *zap.Logger
	dependencyInstaller DependencyInstaller
	artifactCleaner     ArtifactCleaner
	executablePackager  ExecutablePackager
	output              io.Writer
}

// NewService validates dependencies and constructs the pipeline service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.DependencyInstaller == nil || dependencies.ArtifactCleaner == nil || dependencies.Packager == nil {
		return nil, errors.New(dependenciesMissingMessageConstant)
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	output := dependencies.Output
	if output == nil {
		output = io.Discard
	}

	return &Service{
		logger:              logger,
		dependencyInstaller: dependencies.DependencyInstaller,
		artifactCleaner:     dependencies.ArtifactCleaner,
		executablePackager:  dependencies.Packager,
		output:              output,
	}, nil
}

// Execute runs the pipeline steps in order, aborting on the first failure.
//
// The success message is written only after every step finished, so a failed
// run stops short of it and surfaces the failing step's error instead.
func (service *Service) Execute(executionContext context.Context, options BuildOptions) (BuildResult, error) {
	if validationError := validateBuildOptions(options); validationError != nil {
		return BuildResult{}, validationError
	}

	service.logger.Info(
		buildStartedMessageConstant,
		zap.String(logFieldProjectDirectoryConstant, options.ProjectDirectory),
		zap.String(logFieldEntryPointConstant, options.EntryPoint),
		zap.String(logFieldOutputNameConstant, options.OutputName),
	)

	if options.DryRun {
		fmt.Fprintf(service.output, dryRunMessageTemplateConstant, options.OutputName, options.EntryPoint)
		return BuildResult{}, nil
	}

	installError := service.dependencyInstaller.Install(executionContext, pythondeps.InstallOptions{
		ProjectDirectory: options.ProjectDirectory,
		ManifestPath:     options.ManifestPath,
	})
	if installError != nil {
		return BuildResult{}, installError
	}

	cleanResult, cleanError := service.artifactCleaner.Clean(artifacts.CleanOptions{
		ProjectDirectory: options.ProjectDirectory,
		DistDirectory:    options.DistDirectory,
		WorkDirectory:    options.WorkDirectory,
		AdditionalPaths:  options.AdditionalPaths,
	})
	if cleanError != nil {
		return BuildResult{}, cleanError
	}

	packageResult, packageError := service.executablePackager.Package(executionContext, packager.PackageOptions{
		ProjectDirectory: options.ProjectDirectory,
		EntryPoint:       options.EntryPoint,
		OutputName:       options.OutputName,
		DistDirectory:    options.DistDirectory,
		WorkDirectory:    options.WorkDirectory,
		ExtraArguments:   options.ExtraArguments,
	})
	if packageError != nil {
		return BuildResult{}, packageError
	}

	service.logger.Info(
		buildCompletedMessageConstant,
		zap.String(logFieldExecutablePathConstant, packageResult.ExecutablePath),
	)
	fmt.Fprintf(service.output, successMessageTemplateConstant, packageResult.ExecutablePath)

	return BuildResult{
		ExecutablePath: packageResult.ExecutablePath,
		RemovedPaths:   cleanResult.RemovedPaths,
	}, nil
}

func validateBuildOptions(options BuildOptions) error {
	if len(strings.TrimSpace(options.EntryPoint)) == 0 {
		return InvalidOptionsError{Reason: entryPointRequiredReasonConstant}
	}
	if len(strings.TrimSpace(options.OutputName)) == 0 {
		return InvalidOptionsError{Reason: outputNameRequiredReasonConstant}
	}
	if len(strings.TrimSpace(options.ManifestPath)) == 0 {
		return InvalidOptionsError{Reason: manifestRequiredReasonConstant}
	}
	return nil
}
