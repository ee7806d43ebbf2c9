package pipeline

import "strings"

const (
	defaultProjectDirectoryConstant = "."
	defaultEntryPointConstant       = "src/main.py"
	defaultOutputNameConstant       = "migration"
	defaultManifestPathConstant     = "requirements.txt"
	defaultDistDirectoryConstant    = "dist"
	defaultWorkDirectoryConstant    = "build"

	projectDirectoryConfigKeySuffixConstant = ".project_dir"
	entryPointConfigKeySuffixConstant       = ".entry_point"
	outputNameConfigKeySuffixConstant       = ".output_name"
	manifestPathConfigKeySuffixConstant     = ".manifest"
	distDirectoryConfigKeySuffixConstant    = ".dist_dir"
	workDirectoryConfigKeySuffixConstant    = ".work_dir"
)

// CommandConfiguration captures persisted configuration for the build pipeline.
type CommandConfiguration struct {
	ProjectDirectory string   `mapstructure:"project_dir"`
	EntryPoint       string   `mapstructure:"entry_point"`
	OutputName       string   `mapstructure:"output_name"`
	ManifestPath     string   `mapstructure:"manifest"`
	DistDirectory    string   `mapstructure:"dist_dir"`
	WorkDirectory    string   `mapstructure:"work_dir"`
	ExtraArguments   []string `mapstructure:"pyinstaller_args"`
	AdditionalPaths  []string `mapstructure:"additional_paths"`
}

// DefaultCommandConfiguration returns baseline configuration values for the build pipeline.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ProjectDirectory: defaultProjectDirectoryConstant,
		EntryPoint:       defaultEntryPointConstant,
		OutputName:       defaultOutputNameConstant,
		ManifestPath:     defaultManifestPathConstant,
		DistDirectory:    defaultDistDirectoryConstant,
		WorkDirectory:    defaultWorkDirectoryConstant,
	}
}

// DefaultConfigurationValues exposes build defaults keyed for configuration loading.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + projectDirectoryConfigKeySuffixConstant: defaultProjectDirectoryConstant,
		configurationKeyPrefix + entryPointConfigKeySuffixConstant:       defaultEntryPointConstant,
		configurationKeyPrefix + outputNameConfigKeySuffixConstant:       defaultOutputNameConstant,
		configurationKeyPrefix + manifestPathConfigKeySuffixConstant:     defaultManifestPathConstant,
		configurationKeyPrefix + distDirectoryConfigKeySuffixConstant:    defaultDistDirectoryConstant,
		configurationKeyPrefix + workDirectoryConfigKeySuffixConstant:    defaultWorkDirectoryConstant,
	}
}

// Sanitize trims configured values and restores defaults for empty entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.ProjectDirectory = valueOrDefault(configuration.ProjectDirectory, defaultProjectDirectoryConstant)
	sanitized.EntryPoint = valueOrDefault(configuration.EntryPoint, defaultEntryPointConstant)
	sanitized.OutputName = valueOrDefault(configuration.OutputName, defaultOutputNameConstant)
	sanitized.ManifestPath = valueOrDefault(configuration.ManifestPath, defaultManifestPathConstant)
	sanitized.DistDirectory = valueOrDefault(configuration.DistDirectory, defaultDistDirectoryConstant)
	sanitized.WorkDirectory = valueOrDefault(configuration.WorkDirectory, defaultWorkDirectoryConstant)
	sanitized.ExtraArguments = trimArguments(configuration.ExtraArguments)
	sanitized.AdditionalPaths = trimArguments(configuration.AdditionalPaths)
	return sanitized
}

// trimArguments drops blank entries while preserving order and duplicates.
func trimArguments(candidateArguments []string) []string {
	trimmedArguments := make([]string, 0, len(candidateArguments))
	for _, candidateArgument := range candidateArguments {
		trimmedArgument := strings.TrimSpace(candidateArgument)
		if len(trimmedArgument) == 0 {
			continue
		}
		trimmedArguments = append(trimmedArguments, trimmedArgument)
	}
	if len(trimmedArguments) == 0 {
		return nil
	}
	return trimmedArguments
}

func valueOrDefault(candidateValue string, defaultValue string) string {
	trimmedValue := strings.TrimSpace(candidateValue)
	if len(trimmedValue) == 0 {
		return defaultValue
	}
	return trimmedValue
}
