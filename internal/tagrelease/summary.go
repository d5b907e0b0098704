package tagrelease

import (
	"fmt"
	"io"
	"text/tabwriter"
)

const (
	summaryHeaderTemplateConstant = "Tag %s (run %s)\n"
	summaryColumnHeadersConstant  = "REPOSITORY\tSTATUS\tREASON\n"
	summaryRowTemplateConstant    = "%s\t%s\t%s\n"
	summaryFooterTemplateConstant = "%d repositories processed, %d failed\n"

	tabwriterMinWidthConstant = 0
	tabwriterTabWidthConstant = 8
	tabwriterPaddingConstant  = 2
	tabwriterPadCharConstant  = ' '
	tabwriterFlagsConstant    = 0
)

// WriteSummary renders the batch outcome as an aligned table. Every configured
// repository appears exactly once.
func WriteSummary(output io.Writer, summary BatchSummary) error {
	if _, headerError := fmt.Fprintf(output, summaryHeaderTemplateConstant, summary.TagName, summary.RunIdentifier); headerError != nil {
		return headerError
	}

	tableWriter := tabwriter.NewWriter(output, tabwriterMinWidthConstant, tabwriterTabWidthConstant, tabwriterPaddingConstant, tabwriterPadCharConstant, tabwriterFlagsConstant)
	if _, columnsError := fmt.Fprint(tableWriter, summaryColumnHeadersConstant); columnsError != nil {
		return columnsError
	}

	for _, result := range summary.Results {
		if _, rowError := fmt.Fprintf(tableWriter, summaryRowTemplateConstant, result.Descriptor.DisplayName(), result.Status, result.FailureReason); rowError != nil {
			return rowError
		}
	}

	if flushError := tableWriter.Flush(); flushError != nil {
		return flushError
	}

	_, footerError := fmt.Fprintf(output, summaryFooterTemplateConstant, len(summary.Results), summary.FailedCount())
	return footerError
}
