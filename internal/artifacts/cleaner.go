package artifacts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	pathutils "github.com/nestoqa/pybundle/internal/utils/path"
)

const (
	specFileGlobPatternConstant          = "*.spec"
	artifactRemovalErrorTemplateConstant = "unable to remove build artifact %s: %w"
	specFileGlobErrorTemplateConstant    = "unable to enumerate spec files in %s: %w"
	removedArtifactMessageConstant       = "removed build artifact"
	logFieldArtifactPathConstant         = "artifact_path"
)

var cleanerOutputPathSanitizer = pathutils.NewOutputPathSanitizer()

// CleanOptions describes the artifact locations to remove.
type CleanOptions struct {
	ProjectDirectory string
	DistDirectory    string
	WorkDirectory    string
	AdditionalPaths  []string
}

// CleanResult reports which artifacts existed and were removed.
type CleanResult struct {
	RemovedPaths []string
}

// Cleaner deletes stale build output directories and PyInstaller spec files.
type Cleaner struct {
	logger *zap.Logger
}

// NewCleaner constructs a Cleaner with the provided logger.
func NewCleaner(logger *zap.Logger) *Cleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cleaner{logger: logger}
}

// Clean removes the configured artifact paths and root-level spec files.
//
// Absence of any artifact is not an error; running Clean twice in succession
// yields the same final tree.
func (cleaner *Cleaner) Clean(options CleanOptions) (CleanResult, error) {
	candidatePaths := cleanerOutputPathSanitizer.Sanitize(append(
		[]string{options.WorkDirectory, options.DistDirectory},
		options.AdditionalPaths...,
	))

	specFilePaths, specFileError := cleaner.enumerateSpecFiles(options.ProjectDirectory)
	if specFileError != nil {
		return CleanResult{}, specFileError
	}
	candidatePaths = append(candidatePaths, specFilePaths...)

	removedPaths := make([]string, 0, len(candidatePaths))
	for _, candidatePath := range candidatePaths {
		resolvedPath := cleaner.resolvePath(options.ProjectDirectory, candidatePath)

		if _, statError := os.Stat(resolvedPath); statError != nil {
			if errors.Is(statError, os.ErrNotExist) {
				continue
			}
			return CleanResult{}, fmt.Errorf(artifactRemovalErrorTemplateConstant, candidatePath, statError)
		}

		if removalError := os.RemoveAll(resolvedPath); removalError != nil {
			return CleanResult{}, fmt.Errorf(artifactRemovalErrorTemplateConstant, candidatePath, removalError)
		}

		cleaner.logger.Debug(removedArtifactMessageConstant, zap.String(logFieldArtifactPathConstant, candidatePath))
		removedPaths = append(removedPaths, candidatePath)
	}

	return CleanResult{RemovedPaths: removedPaths}, nil
}

func (cleaner *Cleaner) enumerateSpecFiles(projectDirectory string) ([]string, error) {
	globRoot := strings.TrimSpace(projectDirectory)
	if len(globRoot) == 0 {
		globRoot = "."
	}

	specFileMatches, globError := filepath.Glob(filepath.Join(globRoot, specFileGlobPatternConstant))
	if globError != nil {
		return nil, fmt.Errorf(specFileGlobErrorTemplateConstant, globRoot, globError)
	}

	specFilePaths := make([]string, 0, len(specFileMatches))
	for _, specFileMatch := range specFileMatches {
		relativePath, relativeError := filepath.Rel(globRoot, specFileMatch)
		if relativeError != nil {
			relativePath = specFileMatch
		}
		specFilePaths = append(specFilePaths, relativePath)
	}

	return specFilePaths, nil
}

func (cleaner *Cleaner) resolvePath(projectDirectory string, candidatePath string) string {
	if filepath.IsAbs(candidatePath) || len(strings.TrimSpace(projectDirectory)) == 0 {
		return candidatePath
	}
	return filepath.Join(projectDirectory, candidatePath)
}
