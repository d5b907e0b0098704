package tagrelease

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/burhop/gittools/internal/gitrepo"
)

const (
	taggerNotConfiguredMessageConstant = "repository tagger not configured"
	missingTagNameMessageConstant      = "tag name is required"
	missingRepositoriesMessageConstant = "no repositories configured"
	defaultTagMessageTemplateConstant  = "Release %s"

	repositoryProcessedLogMessageConstant = "repository processed"
	logFieldRunIdentifierConstant         = "run_id"
	logFieldRepositoryConstant            = "repository"
	logFieldStatusConstant                = "status"
	logFieldFailureReasonConstant         = "failure_reason"
)

// RepositoryTagger exposes the git operations consumed by the workflow.
type RepositoryTagger interface {
	EnsureClone(executionContext context.Context, descriptor gitrepo.RepositoryDescriptor, remoteName string) (string, error)
	CreateAnnotatedTag(executionContext context.Context, descriptor gitrepo.RepositoryDescriptor, tagName string, tagMessage string) error
	PushTag(executionContext context.Context, descriptor gitrepo.RepositoryDescriptor, remoteName string, tagName string) error
}

// ServiceDependencies collects the collaborators required by the workflow service.
type ServiceDependencies struct {
	Tagger RepositoryTagger
	Logger *zap.Logger
}

// Service runs the tag-release workflow across a batch of repositories.
type Service struct {
	tagger RepositoryTagger
	logger *zap.Logger
}

// Options describes a single batch run.
type Options struct {
	Descriptors []gitrepo.RepositoryDescriptor
	TagName     string
	TagMessage  string
	RemoteName  string
}

// NewService validates dependencies and constructs a workflow service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Tagger == nil {
		return nil, errors.New(taggerNotConfiguredMessageConstant)
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{tagger: dependencies.Tagger, logger: logger}, nil
}

// Run processes every descriptor sequentially. A repository advances through
// clone, tag, and push; its first failure records a FAILED result and the
// batch moves on. The returned summary holds exactly one result per
// descriptor.
func (service *Service) Run(executionContext context.Context, options Options) (BatchSummary, error) {
	trimmedTagName := strings.TrimSpace(options.TagName)
	if len(trimmedTagName) == 0 {
		return BatchSummary{}, errors.New(missingTagNameMessageConstant)
	}
	if len(options.Descriptors) == 0 {
		return BatchSummary{}, errors.New(missingRepositoriesMessageConstant)
	}

	tagMessage := strings.TrimSpace(options.TagMessage)
	if len(tagMessage) == 0 {
		tagMessage = fmt.Sprintf(defaultTagMessageTemplateConstant, trimmedTagName)
	}

	summary := BatchSummary{
		RunIdentifier: uuid.NewString(),
		TagName:       trimmedTagName,
		Results:       make([]OperationResult, 0, len(options.Descriptors)),
	}

	for _, descriptor := range options.Descriptors {
		result := service.processRepository(executionContext, descriptor, trimmedTagName, tagMessage, options.RemoteName)
		summary.Results = append(summary.Results, result)

		service.logger.Info(
			repositoryProcessedLogMessageConstant,
			zap.String(logFieldRunIdentifierConstant, summary.RunIdentifier),
			zap.String(logFieldRepositoryConstant, descriptor.DisplayName()),
			zap.String(logFieldStatusConstant, string(result.Status)),
			zap.String(logFieldFailureReasonConstant, result.FailureReason),
		)
	}

	return summary, nil
}

func (service *Service) processRepository(executionContext context.Context, descriptor gitrepo.RepositoryDescriptor, tagName string, tagMessage string, remoteName string) OperationResult {
	result := OperationResult{Descriptor: descriptor, Status: StatusPending}

	if _, cloneError := service.tagger.EnsureClone(executionContext, descriptor, remoteName); cloneError != nil {
		result.Status = StatusFailed
		result.Failure = cloneError
		result.FailureReason = cloneError.Error()
		return result
	}
	result.Status = StatusCloned

	if tagError := service.tagger.CreateAnnotatedTag(executionContext, descriptor, tagName, tagMessage); tagError != nil {
		result.Status = StatusFailed
		result.Failure = tagError
		result.FailureReason = tagError.Error()
		return result
	}
	result.Status = StatusTagged

	if pushError := service.tagger.PushTag(executionContext, descriptor, remoteName, tagName); pushError != nil {
		result.Status = StatusFailed
		result.Failure = pushError
		result.FailureReason = pushError.Error()
		return result
	}
	result.Status = StatusPushed

	return result
}
