package linecount

import "strings"

const (
	defaultWorkspaceDirectoryConstant = ".gittools/repositories"
	gitMetadataDirectoryConstant      = ".git"

	workspaceConfigurationSuffixConstant = ".workspace_directory"
	ignoreConfigurationSuffixConstant    = ".ignore_directories"
)

// CommandConfiguration captures persistent settings for the linecount command.
type CommandConfiguration struct {
	WorkspaceDirectory string   `mapstructure:"workspace_directory"`
	IgnoreDirectories  []string `mapstructure:"ignore_directories"`
}

// DefaultCommandConfiguration returns baseline configuration values for the linecount command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		WorkspaceDirectory: defaultWorkspaceDirectoryConstant,
		IgnoreDirectories:  []string{gitMetadataDirectoryConstant},
	}
}

// DefaultConfigurationValues exposes defaults keyed under the provided configuration prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationPrefix + workspaceConfigurationSuffixConstant: defaults.WorkspaceDirectory,
		configurationPrefix + ignoreConfigurationSuffixConstant:    defaults.IgnoreDirectories,
	}
}

// Sanitize trims whitespace, applies defaults, and guarantees version-control
// metadata directories are always ignored.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.WorkspaceDirectory = strings.TrimSpace(configuration.WorkspaceDirectory)
	if len(sanitized.WorkspaceDirectory) == 0 {
		sanitized.WorkspaceDirectory = defaultWorkspaceDirectoryConstant
	}

	ignoredDirectories := make([]string, 0, len(configuration.IgnoreDirectories)+1)
	gitMetadataIgnored := false
	for _, ignoredDirectory := range configuration.IgnoreDirectories {
		trimmedDirectory := strings.TrimSpace(ignoredDirectory)
		if len(trimmedDirectory) == 0 {
			continue
		}
		if trimmedDirectory == gitMetadataDirectoryConstant {
			gitMetadataIgnored = true
		}
		ignoredDirectories = append(ignoredDirectories, trimmedDirectory)
	}
	if !gitMetadataIgnored {
		ignoredDirectories = append(ignoredDirectories, gitMetadataDirectoryConstant)
	}
	sanitized.IgnoreDirectories = ignoredDirectories

	return sanitized
}
