package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshProtocolPrefixConstant           = "ssh://"
	sshUserDelimiterConstant            = "@"
	sshPathDelimiterConstant            = ":"
	httpsProtocolPrefixConstant         = "https://"
	gitUserPrefixConstant               = "git@"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	requiredValueMessageConstant        = "value required"
)

// RemoteProtocol enumerates supported git remote protocols.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
)

// RemoteURL represents a structured git remote URL.
type RemoteURL struct {
	Protocol   RemoteProtocol
	Host       string
	Owner      string
	Repository string
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseRemoteURL converts a textual remote URL into a structured representation.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	switch {
	case strings.HasPrefix(trimmedRemote, sshProtocolPrefixConstant):
		return parseSSHRemote(strings.TrimPrefix(trimmedRemote, sshProtocolPrefixConstant))
	case strings.HasPrefix(trimmedRemote, gitUserPrefixConstant):
		return parseSSHRemote(trimmedRemote)
	case strings.HasPrefix(trimmedRemote, httpsProtocolPrefixConstant):
		return parseHTTPSRemote(strings.TrimPrefix(trimmedRemote, httpsProtocolPrefixConstant))
	}

	return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
}

func parseSSHRemote(remote string) (RemoteURL, error) {
	userSplitIndex := strings.Index(remote, sshUserDelimiterConstant)
	if userSplitIndex == -1 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	hostAndPath := remote[userSplitIndex+1:]
	hostSplitIndex := strings.IndexAny(hostAndPath, sshPathDelimiterConstant+pathSeparatorConstant)
	if hostSplitIndex == -1 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	host := hostAndPath[:hostSplitIndex]
	ownerAndRepository := strings.Split(hostAndPath[hostSplitIndex+1:], pathSeparatorConstant)
	if len(ownerAndRepository) != 2 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	repository := strings.TrimSuffix(ownerAndRepository[1], gitSuffixConstant)
	if len(repository) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	return RemoteURL{Protocol: RemoteProtocolSSH, Host: host, Owner: ownerAndRepository[0], Repository: repository}, nil
}

func parseHTTPSRemote(remote string) (RemoteURL, error) {
	pathComponents := strings.Split(remote, pathSeparatorConstant)
	if len(pathComponents) < 3 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	repository := strings.TrimSuffix(strings.Join(pathComponents[2:], pathSeparatorConstant), gitSuffixConstant)
	if len(repository) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	return RemoteURL{Protocol: RemoteProtocolHTTPS, Host: pathComponents[0], Owner: pathComponents[1], Repository: repository}, nil
}
