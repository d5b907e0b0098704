package tagrelease

import "github.com/burhop/gittools/internal/gitrepo"

// RepositoryStatus tracks how far a repository progressed through the batch.
type RepositoryStatus string

// Per-repository states; each repository terminates in PUSHED or FAILED.
const (
	StatusPending RepositoryStatus = "PENDING"
	StatusCloned  RepositoryStatus = "CLONED"
	StatusTagged  RepositoryStatus = "TAGGED"
	StatusPushed  RepositoryStatus = "PUSHED"
	StatusFailed  RepositoryStatus = "FAILED"
)

// OperationResult records the outcome for a single repository. Exactly one
// result exists per configured repository regardless of failures.
type OperationResult struct {
	Descriptor    gitrepo.RepositoryDescriptor
	Status        RepositoryStatus
	Failure       error
	FailureReason string
}

// Succeeded reports whether the repository completed the full workflow.
func (result OperationResult) Succeeded() bool {
	return result.Status == StatusPushed
}

// BatchSummary aggregates the results of one tag-release run.
type BatchSummary struct {
	RunIdentifier string
	TagName       string
	Results       []OperationResult
}

// AllSucceeded reports whether every repository reached the pushed state.
func (summary BatchSummary) AllSucceeded() bool {
	for _, result := range summary.Results {
		if !result.Succeeded() {
			return false
		}
	}
	return true
}

// FailedCount returns the number of repositories that did not complete.
func (summary BatchSummary) FailedCount() int {
	failedCount := 0
	for _, result := range summary.Results {
		if !result.Succeeded() {
			failedCount++
		}
	}
	return failedCount
}
