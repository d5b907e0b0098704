package linecount

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/burhop/gittools/internal/gitrepo"
)

const (
	clonerNotConfiguredMessageConstant = "repository cloner not configured"
	missingRepositoriesMessage         = "no repositories configured"
	noExtensionBucketConstant          = "(none)"
	newlineByteConstant                = byte('\n')

	repositoryCountedLogMessageConstant = "repository counted"
	logFieldRepositoryConstant          = "repository"
	logFieldTotalLinesConstant          = "total_lines"
	logFieldReadFailuresConstant        = "read_failures"
)

// RepositoryCloner ensures a local working tree exists before the walk.
type RepositoryCloner interface {
	EnsureClone(executionContext context.Context, descriptor gitrepo.RepositoryDescriptor, remoteName string) (string, error)
}

// FileReadFailure records one unreadable file inside a working tree.
type FileReadFailure struct {
	Path  string
	Cause error
}

// Error describes the read failure.
func (failure FileReadFailure) Error() string {
	return fmt.Sprintf("read failed for %s: %v", failure.Path, failure.Cause)
}

// Unwrap exposes the underlying cause.
func (failure FileReadFailure) Unwrap() error {
	return failure.Cause
}

// RepositoryCount aggregates line totals for one repository working tree.
type RepositoryCount struct {
	Descriptor       gitrepo.RepositoryDescriptor
	TotalLines       int
	LinesByExtension map[string]int
	ReadFailures     []FileReadFailure
	Failure          error
}

// Report aggregates the counts of one linecount run.
type Report struct {
	Repositories []RepositoryCount
	GrandTotal   int
}

// ServiceDependencies collects the collaborators required by the linecount service.
type ServiceDependencies struct {
	Cloner     RepositoryCloner
	FileSystem afero.Fs
	Logger     *zap.Logger
}

// Service counts lines across the working trees of a repository batch.
type Service struct {
	cloner     RepositoryCloner
	fileSystem afero.Fs
	logger     *zap.Logger
}

// Options describes a single linecount run.
type Options struct {
	Descriptors       []gitrepo.RepositoryDescriptor
	RemoteName        string
	ExtensionFilter   string
	IgnoreDirectories []string
}

// NewService validates dependencies and constructs a linecount service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Cloner == nil {
		return nil, errors.New(clonerNotConfiguredMessageConstant)
	}
	fileSystem := dependencies.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cloner: dependencies.Cloner, fileSystem: fileSystem, logger: logger}, nil
}

// Run counts every repository sequentially. A repository whose clone cannot be
// ensured is recorded with its failure and skipped; unreadable files inside a
// tree are recorded and skipped. The walk never mutates the repositories.
func (service *Service) Run(executionContext context.Context, options Options) (Report, error) {
	if len(options.Descriptors) == 0 {
		return Report{}, errors.New(missingRepositoriesMessage)
	}

	ignoredDirectories := map[string]bool{}
	for _, ignoredDirectory := range options.IgnoreDirectories {
		ignoredDirectories[ignoredDirectory] = true
	}

	report := Report{Repositories: make([]RepositoryCount, 0, len(options.Descriptors))}
	for _, descriptor := range options.Descriptors {
		repositoryCount := service.countRepository(executionContext, descriptor, options, ignoredDirectories)
		report.Repositories = append(report.Repositories, repositoryCount)
		report.GrandTotal += repositoryCount.TotalLines

		service.logger.Info(
			repositoryCountedLogMessageConstant,
			zap.String(logFieldRepositoryConstant, descriptor.DisplayName()),
			zap.Int(logFieldTotalLinesConstant, repositoryCount.TotalLines),
			zap.Int(logFieldReadFailuresConstant, len(repositoryCount.ReadFailures)),
		)
	}

	return report, nil
}

func (service *Service) countRepository(executionContext context.Context, descriptor gitrepo.RepositoryDescriptor, options Options, ignoredDirectories map[string]bool) RepositoryCount {
	repositoryCount := RepositoryCount{Descriptor: descriptor, LinesByExtension: map[string]int{}}

	workingTreePath, cloneError := service.cloner.EnsureClone(executionContext, descriptor, options.RemoteName)
	if cloneError != nil {
		repositoryCount.Failure = cloneError
		return repositoryCount
	}

	walkError := afero.Walk(service.fileSystem, workingTreePath, func(path string, info os.FileInfo, pathError error) error {
		if pathError != nil {
			repositoryCount.ReadFailures = append(repositoryCount.ReadFailures, FileReadFailure{Path: path, Cause: pathError})
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if ignoredDirectories[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		extension := fileExtensionBucket(path)
		if len(options.ExtensionFilter) > 0 && extension != options.ExtensionFilter {
			return nil
		}

		lineCount, readError := countFileLines(service.fileSystem, path)
		if readError != nil {
			repositoryCount.ReadFailures = append(repositoryCount.ReadFailures, FileReadFailure{Path: path, Cause: readError})
			return nil
		}

		repositoryCount.TotalLines += lineCount
		repositoryCount.LinesByExtension[extension] += lineCount
		return nil
	})
	if walkError != nil {
		repositoryCount.ReadFailures = append(repositoryCount.ReadFailures, FileReadFailure{Path: workingTreePath, Cause: walkError})
	}

	return repositoryCount
}

func fileExtensionBucket(path string) string {
	extension := filepath.Ext(path)
	if len(extension) == 0 {
		return noExtensionBucketConstant
	}
	return extension
}

func countFileLines(fileSystem afero.Fs, path string) (int, error) {
	contents, readError := afero.ReadFile(fileSystem, path)
	if readError != nil {
		return 0, readError
	}
	if len(contents) == 0 {
		return 0, nil
	}
	lineCount := bytes.Count(contents, []byte{newlineByteConstant})
	if contents[len(contents)-1] != newlineByteConstant {
		lineCount++
	}
	return lineCount, nil
}

// SortedExtensions returns the extension buckets of one repository in
// deterministic order for reporting.
func (repositoryCount RepositoryCount) SortedExtensions() []string {
	extensions := make([]string, 0, len(repositoryCount.LinesByExtension))
	for extension := range repositoryCount.LinesByExtension {
		extensions = append(extensions, extension)
	}
	sort.Strings(extensions)
	return extensions
}

// NormalizeExtensionFilter canonicalizes a user supplied extension filter so
// "go" and ".go" select the same bucket.
func NormalizeExtensionFilter(extensionFilter string) string {
	trimmedFilter := strings.TrimSpace(extensionFilter)
	if len(trimmedFilter) == 0 {
		return ""
	}
	if !strings.HasPrefix(trimmedFilter, ".") {
		return "." + trimmedFilter
	}
	return trimmedFilter
}
