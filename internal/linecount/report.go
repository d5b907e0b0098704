package linecount

import (
	"fmt"
	"io"
	"text/tabwriter"
)

const (
	reportColumnHeadersConstant        = "REPOSITORY\tLINES\tNOTE\n"
	reportRowTemplateConstant          = "%s\t%d\t%s\n"
	reportFailedRowTemplateConstant    = "%s\t-\t%s\n"
	reportExtensionRowTemplateConstant = "  %s\t%d\t\n"
	reportTotalTemplateConstant        = "TOTAL\t%d\t\n"
	readFailureNoteTemplateConstant    = "%d unreadable files skipped"

	reportTabwriterTabWidthConstant = 8
	reportTabwriterPaddingConstant  = 2
)

// ReportOptions controls the rendering of a linecount report.
type ReportOptions struct {
	ByExtension bool
}

// WriteReport renders the aggregate line totals as an aligned table. Failed
// repositories appear with their failure note instead of a count.
func WriteReport(output io.Writer, report Report, options ReportOptions) error {
	tableWriter := tabwriter.NewWriter(output, 0, reportTabwriterTabWidthConstant, reportTabwriterPaddingConstant, ' ', 0)

	if _, headerError := fmt.Fprint(tableWriter, reportColumnHeadersConstant); headerError != nil {
		return headerError
	}

	for _, repositoryCount := range report.Repositories {
		if repositoryCount.Failure != nil {
			if _, rowError := fmt.Fprintf(tableWriter, reportFailedRowTemplateConstant, repositoryCount.Descriptor.DisplayName(), repositoryCount.Failure); rowError != nil {
				return rowError
			}
			continue
		}

		note := ""
		if len(repositoryCount.ReadFailures) > 0 {
			note = fmt.Sprintf(readFailureNoteTemplateConstant, len(repositoryCount.ReadFailures))
		}
		if _, rowError := fmt.Fprintf(tableWriter, reportRowTemplateConstant, repositoryCount.Descriptor.DisplayName(), repositoryCount.TotalLines, note); rowError != nil {
			return rowError
		}

		if options.ByExtension {
			for _, extension := range repositoryCount.SortedExtensions() {
				if _, rowError := fmt.Fprintf(tableWriter, reportExtensionRowTemplateConstant, extension, repositoryCount.LinesByExtension[extension]); rowError != nil {
					return rowError
				}
			}
		}
	}

	if _, totalError := fmt.Fprintf(tableWriter, reportTotalTemplateConstant, report.GrandTotal); totalError != nil {
		return totalError
	}

	return tableWriter.Flush()
}
