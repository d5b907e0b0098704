package locreport_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-github/v74/github"
	"github.com/stretchr/testify/require"

	"github.com/burhop/gittools/internal/locreport"
)

const (
	testOwnerConstant            = "burhop"
	repositoryAConstant          = "repo-a"
	repositoryBConstant          = "repo-b"
	firstCommitShaConstant       = "aaa111"
	secondCommitShaConstant      = "bbb222"
	thirdCommitShaConstant       = "ccc333"
	unreachableRepositoryMessage = "404 repository not found"
)

type fakeCommit struct {
	sha       string
	date      time.Time
	additions int
}

type fakeCommitClient struct {
	commitsByRepository map[string][]fakeCommit
	listFailures        map[string]error
	rateLimitedCalls    map[string]int
	listCallCounts      map[string]int
	lastListOptions     *github.CommitsListOptions
}

func newFakeCommitClient() *fakeCommitClient {
	return &fakeCommitClient{
		commitsByRepository: map[string][]fakeCommit{},
		listFailures:        map[string]error{},
		rateLimitedCalls:    map[string]int{},
		listCallCounts:      map[string]int{},
	}
}

func (client *fakeCommitClient) ListCommits(_ context.Context, _ string, repository string, listOptions *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
	client.listCallCounts[repository]++
	client.lastListOptions = listOptions
	if remaining := client.rateLimitedCalls[repository]; remaining > 0 {
		client.rateLimitedCalls[repository] = remaining - 1
		return nil, nil, &github.RateLimitError{Message: "rate limit exceeded"}
	}
	if failure, found := client.listFailures[repository]; found {
		return nil, nil, failure
	}

	commits := make([]*github.RepositoryCommit, 0, len(client.commitsByRepository[repository]))
	for _, commit := range client.commitsByRepository[repository] {
		commits = append(commits, &github.RepositoryCommit{SHA: github.Ptr(commit.sha)})
	}
	return commits, &github.Response{NextPage: 0}, nil
}

func (client *fakeCommitClient) GetCommit(_ context.Context, _ string, repository string, commitSHA string) (*github.RepositoryCommit, *github.Response, error) {
	for _, commit := range client.commitsByRepository[repository] {
		if commit.sha != commitSHA {
			continue
		}
		return &github.RepositoryCommit{
			SHA:    github.Ptr(commit.sha),
			Stats:  &github.CommitStats{Additions: github.Ptr(commit.additions)},
			Commit: &github.Commit{Author: &github.CommitAuthor{Date: &github.Timestamp{Time: commit.date}}},
		}, nil, nil
	}
	return nil, nil, errors.New("commit not found")
}

func newTestService(t *testing.T, client locreport.CommitClient) *locreport.Service {
	t.Helper()
	service, serviceError := locreport.NewService(locreport.ServiceDependencies{Client: client})
	require.NoError(t, serviceError)
	return service
}

func TestRunAccumulatesAdditionsPerDay(t *testing.T) {
	client := newFakeCommitClient()
	dayOne := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	dayTwo := time.Date(2026, time.March, 2, 17, 30, 0, 0, time.UTC)
	client.commitsByRepository[repositoryAConstant] = []fakeCommit{
		{sha: firstCommitShaConstant, date: dayOne, additions: 100},
		{sha: secondCommitShaConstant, date: dayOne, additions: 50},
		{sha: thirdCommitShaConstant, date: dayTwo, additions: 25},
	}

	service := newTestService(t, client)
	report, runError := service.Run(context.Background(), locreport.Options{
		Owner:        testOwnerConstant,
		Repositories: []string{repositoryAConstant},
	})

	require.NoError(t, runError)
	require.Empty(t, report.Failures)
	require.Equal(t, []locreport.GrowthRow{
		{Repository: repositoryAConstant, Date: "2026-03-01", LinesAdded: 150, CumulativeLines: 150},
		{Repository: repositoryAConstant, Date: "2026-03-02", LinesAdded: 25, CumulativeLines: 175},
	}, report.Rows)
}

func TestRunRecordsRepositoryFailureAndContinues(t *testing.T) {
	client := newFakeCommitClient()
	client.listFailures[repositoryAConstant] = errors.New(unreachableRepositoryMessage)
	client.commitsByRepository[repositoryBConstant] = []fakeCommit{
		{sha: firstCommitShaConstant, date: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), additions: 10},
	}

	service := newTestService(t, client)
	report, runError := service.Run(context.Background(), locreport.Options{
		Owner:        testOwnerConstant,
		Repositories: []string{repositoryAConstant, repositoryBConstant},
	})

	require.NoError(t, runError)
	require.Len(t, report.Failures, 1)
	require.Equal(t, repositoryAConstant, report.Failures[0].Repository)
	require.Len(t, report.Rows, 1)
	require.Equal(t, repositoryBConstant, report.Rows[0].Repository)
}

func TestRunRetriesRateLimitedRequests(t *testing.T) {
	client := newFakeCommitClient()
	client.rateLimitedCalls[repositoryAConstant] = 1
	client.commitsByRepository[repositoryAConstant] = []fakeCommit{
		{sha: firstCommitShaConstant, date: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), additions: 5},
	}

	service := newTestService(t, client)
	report, runError := service.Run(context.Background(), locreport.Options{
		Owner:        testOwnerConstant,
		Repositories: []string{repositoryAConstant},
	})

	require.NoError(t, runError)
	require.Empty(t, report.Failures)
	require.Len(t, report.Rows, 1)
	require.GreaterOrEqual(t, client.listCallCounts[repositoryAConstant], 2)
}

func TestRunValidatesInput(t *testing.T) {
	testCases := []struct {
		name    string
		options locreport.Options
	}{
		{name: "missing_owner", options: locreport.Options{Repositories: []string{repositoryAConstant}}},
		{name: "missing_repositories", options: locreport.Options{Owner: testOwnerConstant}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service := newTestService(t, newFakeCommitClient())
			_, runError := service.Run(context.Background(), testCase.options)
			require.Error(t, runError)
		})
	}
}
