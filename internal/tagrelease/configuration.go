package tagrelease

import "strings"

const (
	defaultRemoteNameConstant         = "origin"
	defaultWorkspaceDirectoryConstant = ".gittools/repositories"

	remoteConfigurationSuffixConstant        = ".remote"
	workspaceConfigurationSuffixConstant     = ".workspace_directory"
	requireSemverConfigurationSuffixConstant = ".require_semver"
)

// CommandConfiguration captures persistent settings for the tag-release command.
type CommandConfiguration struct {
	RemoteName         string `mapstructure:"remote"`
	WorkspaceDirectory string `mapstructure:"workspace_directory"`
	TagMessage         string `mapstructure:"message"`
	RequireSemver      bool   `mapstructure:"require_semver"`
}

// DefaultCommandConfiguration returns baseline configuration values for the tag-release command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RemoteName:         defaultRemoteNameConstant,
		WorkspaceDirectory: defaultWorkspaceDirectoryConstant,
	}
}

// DefaultConfigurationValues exposes defaults keyed under the provided configuration prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationPrefix + remoteConfigurationSuffixConstant:        defaults.RemoteName,
		configurationPrefix + workspaceConfigurationSuffixConstant:     defaults.WorkspaceDirectory,
		configurationPrefix + requireSemverConfigurationSuffixConstant: defaults.RequireSemver,
	}
}

// Sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = defaultRemoteNameConstant
	}

	sanitized.WorkspaceDirectory = strings.TrimSpace(configuration.WorkspaceDirectory)
	if len(sanitized.WorkspaceDirectory) == 0 {
		sanitized.WorkspaceDirectory = defaultWorkspaceDirectoryConstant
	}

	sanitized.TagMessage = strings.TrimSpace(configuration.TagMessage)

	return sanitized
}
