package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/burhop/gittools/internal/utils"
)

const (
	supportedCombinationCaseNameConstant = "supported_combination"
	unsupportedLevelCaseNameConstant     = "unsupported_level"
	unsupportedFormatCaseNameConstant    = "unsupported_format"
	unknownLogLevelValueConstant         = "verbose"
	unknownLogFormatValueConstant        = "pretty"
)

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name        string
		logLevel    utils.LogLevel
		logFormat   utils.LogFormat
		expectError bool
	}{
		{
			name:      supportedCombinationCaseNameConstant,
			logLevel:  utils.LogLevelDebug,
			logFormat: utils.LogFormatConsole,
		},
		{
			name:        unsupportedLevelCaseNameConstant,
			logLevel:    utils.LogLevel(unknownLogLevelValueConstant),
			logFormat:   utils.LogFormatStructured,
			expectError: true,
		},
		{
			name:        unsupportedFormatCaseNameConstant,
			logLevel:    utils.LogLevelInfo,
			logFormat:   utils.LogFormat(unknownLogFormatValueConstant),
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			factory := utils.NewLoggerFactory()
			logger, creationError := factory.CreateLogger(testCase.logLevel, testCase.logFormat)

			if testCase.expectError {
				require.Error(testInstance, creationError)
				require.Nil(testInstance, logger)
				return
			}

			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, logger)
		})
	}
}
