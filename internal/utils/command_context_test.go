package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nestoqa/pybundle/internal/utils"
)

func TestCommandContextAccessorRoundTripsValues(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	enrichedContext := accessor.WithConfigurationFilePath(context.Background(), "config.yaml")
	enrichedContext = accessor.WithLogLevel(enrichedContext, "debug")

	configurationFilePath, configurationAvailable := accessor.ConfigurationFilePath(enrichedContext)
	require.True(testInstance, configurationAvailable)
	require.Equal(testInstance, "config.yaml", configurationFilePath)

	logLevel, logLevelAvailable := accessor.LogLevel(enrichedContext)
	require.True(testInstance, logLevelAvailable)
	require.Equal(testInstance, "debug", logLevel)
}

func TestCommandContextAccessorReportsMissingValues(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	_, configurationAvailable := accessor.ConfigurationFilePath(context.Background())
	require.False(testInstance, configurationAvailable)

	_, logLevelAvailable := accessor.LogLevel(nil)
	require.False(testInstance, logLevelAvailable)
}
