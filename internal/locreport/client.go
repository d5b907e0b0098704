package locreport

import (
	"context"

	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"

	"github.com/burhop/gittools/internal/credentials"
)

// CommitClient exposes the subset of the GitHub commits API the report needs.
type CommitClient interface {
	ListCommits(executionContext context.Context, owner string, repository string, options *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error)
	GetCommit(executionContext context.Context, owner string, repository string, commitSHA string) (*github.RepositoryCommit, *github.Response, error)
}

type githubCommitClient struct {
	client *github.Client
}

// NewGitHubCommitClient builds an authenticated GitHub API client from the
// resolved account credentials.
func NewGitHubCommitClient(executionContext context.Context, accountCredentials credentials.Credentials) CommitClient {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accountCredentials.Token.Reveal()})
	httpClient := oauth2.NewClient(executionContext, tokenSource)
	return &githubCommitClient{client: github.NewClient(httpClient)}
}

func (commitClient *githubCommitClient) ListCommits(executionContext context.Context, owner string, repository string, options *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
	return commitClient.client.Repositories.ListCommits(executionContext, owner, repository, options)
}

func (commitClient *githubCommitClient) GetCommit(executionContext context.Context, owner string, repository string, commitSHA string) (*github.RepositoryCommit, *github.Response, error) {
	commit, response, commitError := commitClient.client.Repositories.GetCommit(executionContext, owner, repository, commitSHA, nil)
	return commit, response, commitError
}
