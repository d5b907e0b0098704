package gitrepo

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	httpsRemoteTemplateConstant        = "https://%s/%s/%s.git"
	gitHubHostNameConstant             = "github.com"
	descriptorDisplaySeparatorConstant = "/"
)

// RepositoryDescriptor identifies one configured repository: its short name,
// the remote it is cloned from, and where the local working tree lives.
type RepositoryDescriptor struct {
	Name      string
	RemoteURL string
	LocalPath string
}

// NewGitHubRepositoryDescriptor builds a descriptor for a repository hosted on
// github.com under the supplied owner, cloned below workspaceDirectory.
func NewGitHubRepositoryDescriptor(owner string, repositoryName string, workspaceDirectory string) RepositoryDescriptor {
	trimmedName := strings.TrimSpace(repositoryName)
	return RepositoryDescriptor{
		Name:      trimmedName,
		RemoteURL: fmt.Sprintf(httpsRemoteTemplateConstant, gitHubHostNameConstant, strings.TrimSpace(owner), trimmedName),
		LocalPath: filepath.Join(workspaceDirectory, trimmedName),
	}
}

// DisplayName renders the owner-qualified name when the remote URL parses, and
// falls back to the short name otherwise.
func (descriptor RepositoryDescriptor) DisplayName() string {
	parsedRemote, parseError := ParseRemoteURL(descriptor.RemoteURL)
	if parseError != nil {
		return descriptor.Name
	}
	return parsedRemote.Owner + descriptorDisplaySeparatorConstant + parsedRemote.Repository
}
