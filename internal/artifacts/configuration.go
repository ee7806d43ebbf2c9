package artifacts

import (
	"strings"

	pathutils "github.com/nestoqa/pybundle/internal/utils/path"
)

const (
	defaultProjectDirectoryConstant = "."
	defaultDistDirectoryConstant    = "dist"
	defaultWorkDirectoryConstant    = "build"

	projectDirectoryConfigKeySuffixConstant = ".project_dir"
	distDirectoryConfigKeySuffixConstant    = ".dist_dir"
	workDirectoryConfigKeySuffixConstant    = ".work_dir"
)

var cleanConfigurationPathSanitizer = pathutils.NewOutputPathSanitizer()

// CommandConfiguration captures persisted configuration for artifact cleanup.
type CommandConfiguration struct {
	ProjectDirectory string   `mapstructure:"project_dir"`
	DistDirectory    string   `mapstructure:"dist_dir"`
	WorkDirectory    string   `mapstructure:"work_dir"`
	AdditionalPaths  []string `mapstructure:"additional_paths"`
}

// DefaultCommandConfiguration returns baseline configuration values for artifact cleanup.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ProjectDirectory: defaultProjectDirectoryConstant,
		DistDirectory:    defaultDistDirectoryConstant,
		WorkDirectory:    defaultWorkDirectoryConstant,
	}
}

// DefaultConfigurationValues exposes cleanup defaults keyed for configuration loading.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + projectDirectoryConfigKeySuffixConstant: defaultProjectDirectoryConstant,
		configurationKeyPrefix + distDirectoryConfigKeySuffixConstant:    defaultDistDirectoryConstant,
		configurationKeyPrefix + workDirectoryConfigKeySuffixConstant:    defaultWorkDirectoryConstant,
	}
}

// Sanitize trims configured values and restores defaults for empty entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.ProjectDirectory = valueOrDefault(configuration.ProjectDirectory, defaultProjectDirectoryConstant)
	sanitized.DistDirectory = valueOrDefault(configuration.DistDirectory, defaultDistDirectoryConstant)
	sanitized.WorkDirectory = valueOrDefault(configuration.WorkDirectory, defaultWorkDirectoryConstant)
	sanitized.AdditionalPaths = cleanConfigurationPathSanitizer.Sanitize(configuration.AdditionalPaths)
	return sanitized
}

func valueOrDefault(candidateValue string, defaultValue string) string {
	trimmedValue := strings.TrimSpace(candidateValue)
	if len(trimmedValue) == 0 {
		return defaultValue
	}
	return trimmedValue
}
