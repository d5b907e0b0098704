package locreport

import "strings"

const (
	defaultOutputPathConstant = "github_loc_report.csv"

	outputConfigurationSuffixConstant = ".output"
	sinceConfigurationSuffixConstant  = ".since"
	untilConfigurationSuffixConstant  = ".until"
)

// CommandConfiguration captures persistent settings for the loc-report command.
type CommandConfiguration struct {
	OutputPath string `mapstructure:"output"`
	SinceDate  string `mapstructure:"since"`
	UntilDate  string `mapstructure:"until"`
}

// DefaultCommandConfiguration returns baseline configuration values for the loc-report command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{OutputPath: defaultOutputPathConstant}
}

// DefaultConfigurationValues exposes defaults keyed under the provided configuration prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationPrefix + outputConfigurationSuffixConstant: defaults.OutputPath,
		configurationPrefix + sinceConfigurationSuffixConstant:  defaults.SinceDate,
		configurationPrefix + untilConfigurationSuffixConstant:  defaults.UntilDate,
	}
}

// Sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.OutputPath = strings.TrimSpace(configuration.OutputPath)
	if len(sanitized.OutputPath) == 0 {
		sanitized.OutputPath = defaultOutputPathConstant
	}

	sanitized.SinceDate = strings.TrimSpace(configuration.SinceDate)
	sanitized.UntilDate = strings.TrimSpace(configuration.UntilDate)

	return sanitized
}
