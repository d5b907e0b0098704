package tagrelease_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/burhop/gittools/internal/gitrepo"
	"github.com/burhop/gittools/internal/tagrelease"
)

const (
	testOwnerConstant              = "burhop"
	testWorkspaceConstant          = "/tmp/workspace"
	testTagNameConstant            = "v1.2.0"
	testTagMessageConstant         = "Release v1.2.0"
	testRemoteNameConstant         = "origin"
	repositoryAConstant            = "repo-a"
	repositoryBConstant            = "repo-b"
	repositoryCConstant            = "repo-c"
	missingTaggerTestNameConstant  = "missing_tagger"
	missingLoggerTestNameConstant  = "missing_logger_defaults_to_noop"
	missingTagNameTestNameConstant = "missing_tag_name"
	emptyBatchTestNameConstant     = "empty_repository_list"
)

type recordingTagger struct {
	cloneFailures map[string]error
	tagFailures   map[string]error
	pushFailures  map[string]error
	cloneCalls    []string
	tagCalls      []string
	pushCalls     []string
}

func newRecordingTagger() *recordingTagger {
	return &recordingTagger{
		cloneFailures: map[string]error{},
		tagFailures:   map[string]error{},
		pushFailures:  map[string]error{},
	}
}

func (tagger *recordingTagger) EnsureClone(_ context.Context, descriptor gitrepo.RepositoryDescriptor, _ string) (string, error) {
	tagger.cloneCalls = append(tagger.cloneCalls, descriptor.Name)
	if failure, found := tagger.cloneFailures[descriptor.Name]; found {
		return "", failure
	}
	return descriptor.LocalPath, nil
}

func (tagger *recordingTagger) CreateAnnotatedTag(_ context.Context, descriptor gitrepo.RepositoryDescriptor, _ string, _ string) error {
	tagger.tagCalls = append(tagger.tagCalls, descriptor.Name)
	return tagger.tagFailures[descriptor.Name]
}

func (tagger *recordingTagger) PushTag(_ context.Context, descriptor gitrepo.RepositoryDescriptor, _ string, _ string) error {
	tagger.pushCalls = append(tagger.pushCalls, descriptor.Name)
	return tagger.pushFailures[descriptor.Name]
}

func buildTestDescriptors(repositoryNames ...string) []gitrepo.RepositoryDescriptor {
	descriptors := make([]gitrepo.RepositoryDescriptor, 0, len(repositoryNames))
	for _, repositoryName := range repositoryNames {
		descriptors = append(descriptors, gitrepo.NewGitHubRepositoryDescriptor(testOwnerConstant, repositoryName, testWorkspaceConstant))
	}
	return descriptors
}

func TestNewServiceValidation(t *testing.T) {
	testCases := []struct {
		name         string
		dependencies tagrelease.ServiceDependencies
		expectError  bool
	}{
		{
			name:         missingTaggerTestNameConstant,
			dependencies: tagrelease.ServiceDependencies{Logger: zap.NewNop()},
			expectError:  true,
		},
		{
			name:         missingLoggerTestNameConstant,
			dependencies: tagrelease.ServiceDependencies{Tagger: newRecordingTagger()},
			expectError:  false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service, serviceError := tagrelease.NewService(testCase.dependencies)
			if testCase.expectError {
				require.Error(t, serviceError)
				require.Nil(t, service)
				return
			}
			require.NoError(t, serviceError)
			require.NotNil(t, service)
		})
	}
}

func TestRunInputValidation(t *testing.T) {
	testCases := []struct {
		name    string
		options tagrelease.Options
	}{
		{
			name:    missingTagNameTestNameConstant,
			options: tagrelease.Options{Descriptors: buildTestDescriptors(repositoryAConstant), TagName: "  "},
		},
		{
			name:    emptyBatchTestNameConstant,
			options: tagrelease.Options{TagName: testTagNameConstant},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service, serviceError := tagrelease.NewService(tagrelease.ServiceDependencies{Tagger: newRecordingTagger()})
			require.NoError(t, serviceError)

			_, runError := service.Run(context.Background(), testCase.options)
			require.Error(t, runError)
		})
	}
}

func TestRunProducesOneResultPerRepository(t *testing.T) {
	tagger := newRecordingTagger()
	tagger.cloneFailures[repositoryBConstant] = gitrepo.CloneError{Repository: repositoryBConstant, Cause: errors.New("network unreachable")}

	service, serviceError := tagrelease.NewService(tagrelease.ServiceDependencies{Tagger: tagger})
	require.NoError(t, serviceError)

	summary, runError := service.Run(context.Background(), tagrelease.Options{
		Descriptors: buildTestDescriptors(repositoryAConstant, repositoryBConstant, repositoryCConstant),
		TagName:     testTagNameConstant,
		TagMessage:  testTagMessageConstant,
		RemoteName:  testRemoteNameConstant,
	})

	require.NoError(t, runError)
	require.Len(t, summary.Results, 3)
	require.NotEmpty(t, summary.RunIdentifier)
	require.Equal(t, testTagNameConstant, summary.TagName)
}

func TestRunIsolatesCloneFailure(t *testing.T) {
	tagger := newRecordingTagger()
	tagger.cloneFailures[repositoryAConstant] = gitrepo.CloneError{Repository: repositoryAConstant, Cause: errors.New("repository not found")}

	service, serviceError := tagrelease.NewService(tagrelease.ServiceDependencies{Tagger: tagger})
	require.NoError(t, serviceError)

	summary, runError := service.Run(context.Background(), tagrelease.Options{
		Descriptors: buildTestDescriptors(repositoryAConstant, repositoryBConstant),
		TagName:     testTagNameConstant,
		RemoteName:  testRemoteNameConstant,
	})

	require.NoError(t, runError)
	require.Len(t, summary.Results, 2)

	require.Equal(t, tagrelease.StatusFailed, summary.Results[0].Status)
	require.NotEmpty(t, summary.Results[0].FailureReason)

	cloneError := gitrepo.CloneError{}
	require.ErrorAs(t, summary.Results[0].Failure, &cloneError)

	require.Equal(t, tagrelease.StatusPushed, summary.Results[1].Status)
	require.True(t, summary.Results[1].Succeeded())

	require.Equal(t, []string{repositoryBConstant}, tagger.tagCalls)
	require.Equal(t, []string{repositoryBConstant}, tagger.pushCalls)
}

func TestRunRecordsPushRejection(t *testing.T) {
	tagger := newRecordingTagger()
	tagger.pushFailures[repositoryBConstant] = gitrepo.PushError{
		Repository: repositoryBConstant,
		TagName:    testTagNameConstant,
		Cause:      errors.New("remote rejected: tag already exists"),
	}

	service, serviceError := tagrelease.NewService(tagrelease.ServiceDependencies{Tagger: tagger})
	require.NoError(t, serviceError)

	summary, runError := service.Run(context.Background(), tagrelease.Options{
		Descriptors: buildTestDescriptors(repositoryAConstant, repositoryBConstant),
		TagName:     testTagNameConstant,
		RemoteName:  testRemoteNameConstant,
	})

	require.NoError(t, runError)
	require.Len(t, summary.Results, 2)

	require.Equal(t, tagrelease.StatusPushed, summary.Results[0].Status)

	require.Equal(t, tagrelease.StatusFailed, summary.Results[1].Status)
	pushError := gitrepo.PushError{}
	require.ErrorAs(t, summary.Results[1].Failure, &pushError)
	require.Equal(t, repositoryBConstant, pushError.Repository)

	require.False(t, summary.AllSucceeded())
	require.Equal(t, 1, summary.FailedCount())
}

func TestRunStopsRepositoryAfterTagRefusal(t *testing.T) {
	tagger := newRecordingTagger()
	tagger.tagFailures[repositoryAConstant] = gitrepo.TagError{
		Repository: repositoryAConstant,
		TagName:    testTagNameConstant,
		Cause:      gitrepo.ErrTagAlreadyExists,
	}

	service, serviceError := tagrelease.NewService(tagrelease.ServiceDependencies{Tagger: tagger})
	require.NoError(t, serviceError)

	summary, runError := service.Run(context.Background(), tagrelease.Options{
		Descriptors: buildTestDescriptors(repositoryAConstant),
		TagName:     testTagNameConstant,
		RemoteName:  testRemoteNameConstant,
	})

	require.NoError(t, runError)
	require.Len(t, summary.Results, 1)
	require.Equal(t, tagrelease.StatusFailed, summary.Results[0].Status)
	require.ErrorIs(t, summary.Results[0].Failure, gitrepo.ErrTagAlreadyExists)
	require.Empty(t, tagger.pushCalls)
}

func TestRunDefaultsTagMessage(t *testing.T) {
	tagger := newRecordingTagger()
	capturedMessages := []string{}
	capturingTagger := &messageCapturingTagger{inner: tagger, capturedMessages: &capturedMessages}

	service, serviceError := tagrelease.NewService(tagrelease.ServiceDependencies{Tagger: capturingTagger})
	require.NoError(t, serviceError)

	_, runError := service.Run(context.Background(), tagrelease.Options{
		Descriptors: buildTestDescriptors(repositoryAConstant),
		TagName:     testTagNameConstant,
		RemoteName:  testRemoteNameConstant,
	})

	require.NoError(t, runError)
	require.Equal(t, []string{fmt.Sprintf("Release %s", testTagNameConstant)}, capturedMessages)
}

type messageCapturingTagger struct {
	inner            *recordingTagger
	capturedMessages *[]string
}

func (tagger *messageCapturingTagger) EnsureClone(executionContext context.Context, descriptor gitrepo.RepositoryDescriptor, remoteName string) (string, error) {
	return tagger.inner.EnsureClone(executionContext, descriptor, remoteName)
}

func (tagger *messageCapturingTagger) CreateAnnotatedTag(executionContext context.Context, descriptor gitrepo.RepositoryDescriptor, tagName string, tagMessage string) error {
	*tagger.capturedMessages = append(*tagger.capturedMessages, tagMessage)
	return tagger.inner.CreateAnnotatedTag(executionContext, descriptor, tagName, tagMessage)
}

func (tagger *messageCapturingTagger) PushTag(executionContext context.Context, descriptor gitrepo.RepositoryDescriptor, remoteName string, tagName string) error {
	return tagger.inner.PushTag(executionContext, descriptor, remoteName, tagName)
}
