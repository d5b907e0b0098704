package linecount_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/burhop/gittools/internal/gitrepo"
	"github.com/burhop/gittools/internal/linecount"
)

func TestWriteReportRendersRepositoriesAndTotal(t *testing.T) {
	descriptors := buildDescriptors(repositoryAConstant, repositoryBConstant)
	report := linecount.Report{
		Repositories: []linecount.RepositoryCount{
			{
				Descriptor:       descriptors[0],
				TotalLines:       12,
				LinesByExtension: map[string]int{".go": 10, ".md": 2},
			},
			{
				Descriptor: descriptors[1],
				Failure:    gitrepo.CloneError{Repository: repositoryBConstant, Cause: errors.New("remote unreachable")},
			},
		},
		GrandTotal: 12,
	}

	output := &bytes.Buffer{}
	require.NoError(t, linecount.WriteReport(output, report, linecount.ReportOptions{}))

	rendered := output.String()
	require.Contains(t, rendered, "REPOSITORY")
	require.Contains(t, rendered, "burhop/repo-a")
	require.Contains(t, rendered, "12")
	require.Contains(t, rendered, "burhop/repo-b")
	require.Contains(t, rendered, "remote unreachable")
	require.Contains(t, rendered, "TOTAL")
	require.NotContains(t, rendered, ".go")
}

func TestWriteReportIncludesExtensionBreakdownWhenRequested(t *testing.T) {
	descriptors := buildDescriptors(repositoryAConstant)
	report := linecount.Report{
		Repositories: []linecount.RepositoryCount{
			{
				Descriptor:       descriptors[0],
				TotalLines:       12,
				LinesByExtension: map[string]int{".go": 10, ".md": 2},
			},
		},
		GrandTotal: 12,
	}

	output := &bytes.Buffer{}
	require.NoError(t, linecount.WriteReport(output, report, linecount.ReportOptions{ByExtension: true}))

	rendered := output.String()
	require.Contains(t, rendered, ".go")
	require.Contains(t, rendered, ".md")
}

func TestWriteReportNotesSkippedFiles(t *testing.T) {
	descriptors := buildDescriptors(repositoryAConstant)
	report := linecount.Report{
		Repositories: []linecount.RepositoryCount{
			{
				Descriptor: descriptors[0],
				TotalLines: 4,
				ReadFailures: []linecount.FileReadFailure{
					{Path: "/workspace/repo-a/locked.go", Cause: errors.New("permission denied")},
				},
			},
		},
		GrandTotal: 4,
	}

	output := &bytes.Buffer{}
	require.NoError(t, linecount.WriteReport(output, report, linecount.ReportOptions{}))
	require.Contains(t, output.String(), "1 unreadable files skipped")
}
