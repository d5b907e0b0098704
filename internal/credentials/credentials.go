// Package credentials loads the GitHub account and access token used to
// authenticate git subprocess calls.
package credentials

import (
	"fmt"
	"os"
	"strings"
)

// Environment variable names consulted during credential resolution.
const (
	EnvGitHubUser     = "GITHUB_USER"
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

const (
	ownerFieldNameConstant            = "owner"
	tokenFieldNameConstant            = "token"
	configErrorTemplateConstant       = "configuration error: missing required credential %q"
	redactedSecretPlaceholderConstant = "****"
)

var tokenEnvironmentPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

// Secret holds a credential value that must never appear in logs or reports.
type Secret string

// Redacted returns the placeholder used wherever the secret would be displayed.
func (Secret) Redacted() string {
	return redactedSecretPlaceholderConstant
}

// String implements fmt.Stringer and always returns the redacted placeholder,
// so accidental formatting of a Secret cannot leak it.
func (secret Secret) String() string {
	return secret.Redacted()
}

// Reveal returns the underlying secret value for authentication use.
func (secret Secret) Reveal() string {
	return string(secret)
}

// Credentials identifies the GitHub account operated on and its access token.
// Instances are built once at process start and treated as immutable.
type Credentials struct {
	Owner string
	Token Secret
}

// ConfigError reports a missing or unreadable required credential field.
type ConfigError struct {
	Field string
}

// Error names the missing credential field.
func (configError ConfigError) Error() string {
	return fmt.Sprintf(configErrorTemplateConstant, configError.Field)
}

// Resolve combines configured values with process environment fallbacks.
// Configuration-file values win: the owner falls back to GITHUB_USER and the
// token falls back to the first non-empty entry of GH_TOKEN, GITHUB_TOKEN, and
// GITHUB_API_TOKEN only when the configured value is empty. Resolution fails
// fast with a ConfigError when either field remains empty.
func Resolve(configuredOwner string, configuredToken string) (Credentials, error) {
	owner := strings.TrimSpace(configuredOwner)
	if len(owner) == 0 {
		owner = strings.TrimSpace(os.Getenv(EnvGitHubUser))
	}
	if len(owner) == 0 {
		return Credentials{}, ConfigError{Field: ownerFieldNameConstant}
	}

	if tokenValue := strings.TrimSpace(configuredToken); len(tokenValue) > 0 {
		return Credentials{Owner: owner, Token: Secret(tokenValue)}, nil
	}

	for _, environmentKey := range tokenEnvironmentPreference {
		tokenValue, tokenPresent := os.LookupEnv(environmentKey)
		if !tokenPresent {
			continue
		}
		tokenValue = strings.TrimSpace(tokenValue)
		if len(tokenValue) > 0 {
			return Credentials{Owner: owner, Token: Secret(tokenValue)}, nil
		}
	}

	return Credentials{}, ConfigError{Field: tokenFieldNameConstant}
}
