package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ProjectManifestFileName is the per-project override file discovered in the project directory.
	ProjectManifestFileName = "pybundle.yaml"

	projectManifestReadErrorTemplateConstant  = "unable to read project manifest %s: %w"
	projectManifestParseErrorTemplateConstant = "unable to parse project manifest %s: %w"
)

// ProjectManifest carries per-project build overrides stored alongside the source tree.
type ProjectManifest struct {
	EntryPoint      string   `yaml:"entry_point"`
	OutputName      string   `yaml:"output_name"`
	ManifestPath    string   `yaml:"manifest"`
	DistDirectory   string   `yaml:"dist_dir"`
	WorkDirectory   string   `yaml:"work_dir"`
	ExtraArguments  []string `yaml:"pyinstaller_args"`
	AdditionalPaths []string `yaml:"additional_paths"`
}

// LoadProjectManifest reads pybundle.yaml from the project directory.
//
// A missing manifest is not an error; a present but unparsable manifest is.
func LoadProjectManifest(projectDirectory string) (ProjectManifest, bool, error) {
	manifestDirectory := strings.TrimSpace(projectDirectory)
	if len(manifestDirectory) == 0 {
		manifestDirectory = defaultProjectDirectoryConstant
	}
	manifestPath := filepath.Join(manifestDirectory, ProjectManifestFileName)

	manifestContent, readError := os.ReadFile(manifestPath)
	if readError != nil {
		if errors.Is(readError, os.ErrNotExist) {
			return ProjectManifest{}, false, nil
		}
		return ProjectManifest{}, false, fmt.Errorf(projectManifestReadErrorTemplateConstant, manifestPath, readError)
	}

	var manifest ProjectManifest
	if unmarshalError := yaml.Unmarshal(manifestContent, &manifest); unmarshalError != nil {
		return ProjectManifest{}, false, fmt.Errorf(projectManifestParseErrorTemplateConstant, manifestPath, unmarshalError)
	}

	return manifest, true, nil
}

// ApplyTo overlays non-empty manifest values onto the provided configuration.
func (manifest ProjectManifest) ApplyTo(configuration CommandConfiguration) CommandConfiguration {
	merged := configuration
	if trimmedEntryPoint := strings.TrimSpace(manifest.EntryPoint); len(trimmedEntryPoint) > 0 {
		merged.EntryPoint = trimmedEntryPoint
	}
	if trimmedOutputName := strings.TrimSpace(manifest.OutputName); len(trimmedOutputName) > 0 {
		merged.OutputName = trimmedOutputName
	}
	if trimmedManifestPath := strings.TrimSpace(manifest.ManifestPath); len(trimmedManifestPath) > 0 {
		merged.ManifestPath = trimmedManifestPath
	}
	if trimmedDistDirectory := strings.TrimSpace(manifest.DistDirectory); len(trimmedDistDirectory) > 0 {
		merged.DistDirectory = trimmedDistDirectory
	}
	if trimmedWorkDirectory := strings.TrimSpace(manifest.WorkDirectory); len(trimmedWorkDirectory) > 0 {
		merged.WorkDirectory = trimmedWorkDirectory
	}
	if len(manifest.ExtraArguments) > 0 {
		merged.ExtraArguments = trimArguments(manifest.ExtraArguments)
	}
	if len(manifest.AdditionalPaths) > 0 {
		merged.AdditionalPaths = trimArguments(manifest.AdditionalPaths)
	}
	return merged
}
