package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	environmentKeySeparatorOldConstant          = "."
	environmentKeySeparatorNewConstant          = "_"
	configurationReadErrorTemplateConstant      = "failed to read configuration: %w"
	configurationUnmarshalErrorTemplateConstant = "failed to parse configuration: %w"
	embeddedConfigurationErrorTemplateConstant  = "failed to merge embedded configuration: %w"
)

// ConfigurationLoaderParameters describes how a ConfigurationLoader locates and decodes configuration.
type ConfigurationLoaderParameters struct {
	ConfigurationName     string
	ConfigurationType     string
	EnvironmentPrefix     string
	SearchPaths           []string
	EmbeddedConfiguration []byte
}

// ConfigurationLoader wraps Viper to merge embedded defaults, configuration files, and environment overrides.
type ConfigurationLoader struct {
	parameters             ConfigurationLoaderParameters
	environmentKeyReplacer *strings.Replacer
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader creates a loader from the supplied parameters.
func NewConfigurationLoader(parameters ConfigurationLoaderParameters) *ConfigurationLoader {
	duplicatedParameters := parameters
	duplicatedParameters.SearchPaths = append([]string{}, parameters.SearchPaths...)
	duplicatedParameters.EmbeddedConfiguration = append([]byte{}, parameters.EmbeddedConfiguration...)

	return &ConfigurationLoader{
		parameters:             duplicatedParameters,
		environmentKeyReplacer: strings.NewReplacer(environmentKeySeparatorOldConstant, environmentKeySeparatorNewConstant),
	}
}

// LoadConfiguration populates targetConfiguration from embedded defaults, files, explicit defaults, and environment variables.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.parameters.ConfigurationName)
	viperInstance.SetConfigType(loader.parameters.ConfigurationType)

	if len(loader.parameters.EmbeddedConfiguration) > 0 {
		mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.parameters.EmbeddedConfiguration))
		if mergeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(embeddedConfigurationErrorTemplateConstant, mergeError)
		}
	}

	for _, searchPath := range loader.parameters.SearchPaths {
		viperInstance.AddConfigPath(searchPath)
	}

	viperInstance.SetEnvPrefix(loader.parameters.EnvironmentPrefix)
	viperInstance.SetEnvKeyReplacer(loader.environmentKeyReplacer)
	viperInstance.AutomaticEnv()

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	if len(configurationFilePath) > 0 {
		viperInstance.SetConfigFile(configurationFilePath)
	}

	readError := viperInstance.MergeInConfig()
	if readError != nil {
		if _, isNotFound := readError.(viper.ConfigFileNotFoundError); !isNotFound {
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}
	}

	unmarshalError := viperInstance.Unmarshal(targetConfiguration)
	if unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}
