package locreport

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/go-github/v74/github"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const (
	clientNotConfiguredMessageConstant = "commit client not configured"
	missingOwnerMessageConstant        = "repository owner is required"
	missingRepositoriesMessageConstant = "no repositories configured"

	commitPageSizeConstant            = 100
	rateLimitRetryBaseDelayConstant   = 2 * time.Second
	rateLimitRetryMaximumRetriesConst = 3

	repositoryReportedLogMessageConstant = "repository growth collected"
	logFieldRepositoryConstant           = "repository"
	logFieldCommitCountConstant          = "commits"
	logFieldLinesAddedConstant           = "lines_added"
)

// GrowthRow records the additions contributed on one day in one repository.
type GrowthRow struct {
	Repository      string
	Date            string
	LinesAdded      int
	CumulativeLines int
}

// RepositoryFailure records one repository the API could not report on.
type RepositoryFailure struct {
	Repository string
	Cause      error
}

// Report aggregates the outcome of one loc-report run.
type Report struct {
	Rows     []GrowthRow
	Failures []RepositoryFailure
}

// ServiceDependencies collects the collaborators required by the report service.
type ServiceDependencies struct {
	Client CommitClient
	Logger *zap.Logger
}

// Service collects commit statistics across a repository batch.
type Service struct {
	client CommitClient
	logger *zap.Logger
}

// Options describes a single loc-report run.
type Options struct {
	Owner        string
	Repositories []string
	Since        time.Time
	Until        time.Time
}

// NewService validates dependencies and constructs a report service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Client == nil {
		return nil, errors.New(clientNotConfiguredMessageConstant)
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: dependencies.Client, logger: logger}, nil
}

// Run collects per-day addition totals for every repository sequentially. A
// repository whose API calls fail is recorded as a failure and skipped.
func (service *Service) Run(executionContext context.Context, options Options) (Report, error) {
	if len(options.Owner) == 0 {
		return Report{}, errors.New(missingOwnerMessageConstant)
	}
	if len(options.Repositories) == 0 {
		return Report{}, errors.New(missingRepositoriesMessageConstant)
	}

	report := Report{}
	for _, repositoryName := range options.Repositories {
		rows, repositoryError := service.collectRepository(executionContext, repositoryName, options)
		if repositoryError != nil {
			report.Failures = append(report.Failures, RepositoryFailure{Repository: repositoryName, Cause: repositoryError})
			continue
		}
		report.Rows = append(report.Rows, rows...)

		totalAdditions := 0
		for _, row := range rows {
			totalAdditions += row.LinesAdded
		}
		service.logger.Info(
			repositoryReportedLogMessageConstant,
			zap.String(logFieldRepositoryConstant, repositoryName),
			zap.Int(logFieldCommitCountConstant, len(rows)),
			zap.Int(logFieldLinesAddedConstant, totalAdditions),
		)
	}

	return report, nil
}

func (service *Service) collectRepository(executionContext context.Context, repositoryName string, options Options) ([]GrowthRow, error) {
	commits, listError := service.listAllCommits(executionContext, repositoryName, options)
	if listError != nil {
		return nil, listError
	}

	additionsByDate := map[string]int{}
	for _, commit := range commits {
		commitSHA := commit.GetSHA()
		if len(commitSHA) == 0 {
			continue
		}

		detailedCommit, commitError := service.getCommitWithRetry(executionContext, options.Owner, repositoryName, commitSHA)
		if commitError != nil {
			return nil, commitError
		}

		commitDate := detailedCommit.GetCommit().GetAuthor().GetDate().Time
		additionsByDate[commitDate.Format(time.DateOnly)] += detailedCommit.GetStats().GetAdditions()
	}

	dates := make([]string, 0, len(additionsByDate))
	for date := range additionsByDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	rows := make([]GrowthRow, 0, len(dates))
	cumulativeLines := 0
	for _, date := range dates {
		cumulativeLines += additionsByDate[date]
		rows = append(rows, GrowthRow{
			Repository:      repositoryName,
			Date:            date,
			LinesAdded:      additionsByDate[date],
			CumulativeLines: cumulativeLines,
		})
	}

	return rows, nil
}

func (service *Service) listAllCommits(executionContext context.Context, repositoryName string, options Options) ([]*github.RepositoryCommit, error) {
	listOptions := &github.CommitsListOptions{
		Since:       options.Since,
		Until:       options.Until,
		ListOptions: github.ListOptions{PerPage: commitPageSizeConstant},
	}

	allCommits := []*github.RepositoryCommit{}
	for {
		var pageCommits []*github.RepositoryCommit
		var pageResponse *github.Response

		retryError := retry.Do(executionContext, rateLimitBackoff(), func(retryContext context.Context) error {
			var listError error
			pageCommits, pageResponse, listError = service.client.ListCommits(retryContext, options.Owner, repositoryName, listOptions)
			return classifyAPIError(listError)
		})
		if retryError != nil {
			return nil, retryError
		}

		allCommits = append(allCommits, pageCommits...)
		if pageResponse == nil || pageResponse.NextPage == 0 {
			break
		}
		listOptions.Page = pageResponse.NextPage
	}

	return allCommits, nil
}

func (service *Service) getCommitWithRetry(executionContext context.Context, owner string, repositoryName string, commitSHA string) (*github.RepositoryCommit, error) {
	var detailedCommit *github.RepositoryCommit
	retryError := retry.Do(executionContext, rateLimitBackoff(), func(retryContext context.Context) error {
		var commitError error
		detailedCommit, _, commitError = service.client.GetCommit(retryContext, owner, repositoryName, commitSHA)
		return classifyAPIError(commitError)
	})
	return detailedCommit, retryError
}

func rateLimitBackoff() retry.Backoff {
	return retry.WithMaxRetries(rateLimitRetryMaximumRetriesConst, retry.NewExponential(rateLimitRetryBaseDelayConstant))
}

// classifyAPIError marks rate limit responses as retryable; everything else
// terminates the repository immediately.
func classifyAPIError(apiError error) error {
	if apiError == nil {
		return nil
	}

	rateLimitError := &github.RateLimitError{}
	if errors.As(apiError, &rateLimitError) {
		return retry.RetryableError(apiError)
	}
	abuseRateLimitError := &github.AbuseRateLimitError{}
	if errors.As(apiError, &abuseRateLimitError) {
		return retry.RetryableError(apiError)
	}

	return apiError
}
