package locreport

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeaderRow = []string{"repository", "date", "lines_added", "cumulative_lines"}

// WriteCSV renders the growth rows as a CSV document with a header row.
func WriteCSV(output io.Writer, report Report) error {
	csvWriter := csv.NewWriter(output)

	if headerError := csvWriter.Write(csvHeaderRow); headerError != nil {
		return headerError
	}

	for _, row := range report.Rows {
		record := []string{
			row.Repository,
			row.Date,
			strconv.Itoa(row.LinesAdded),
			strconv.Itoa(row.CumulativeLines),
		}
		if rowError := csvWriter.Write(record); rowError != nil {
			return rowError
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
