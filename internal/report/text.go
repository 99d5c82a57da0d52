package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"server-sweep/internal/model"
)

// Render formats a sweep result as the plain-text summary.
//
// Each non-empty category is emitted in fixed order as a heading, a totals line
// and one line per failed record:
//
//	ACTIVE:
//	Total: 3, Succeeded: 2, Failed: 1
//	- db-02 (10.0.0.2) - Failed
//
// Sections are preceded by a blank line. A result with no probed records renders as "".
func Render(result *model.SweepResult) string {
	var b strings.Builder
	for _, category := range model.ReportCategories {
		cr := result.Category(category)
		if cr == nil || cr.Total() == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", category.Title())
		fmt.Fprintf(&b, "Total: %d, Succeeded: %d, Failed: %d\n", cr.Total(), cr.Succeeded, cr.Failed)
		for _, record := range cr.FailedRecords {
			fmt.Fprintf(&b, "- %s (%s) - Failed\n", record.Hostname, record.IPAddress)
		}
	}
	return b.String()
}

// TextWriter implements ReportWriter by saving Render output to a .txt file.
type TextWriter struct{}

// NewTextWriter creates a new text report writer.
func NewTextWriter() *TextWriter {
	return &TextWriter{}
}

// Format returns the format identifier for this writer.
func (w *TextWriter) Format() string {
	return "text"
}

// Write saves the rendered summary, prefixed with run metadata.
func (w *TextWriter) Write(result *model.SweepResult, outputPath string) error {
	if result == nil {
		return fmt.Errorf("sweep result is nil")
	}

	if !strings.HasSuffix(strings.ToLower(outputPath), ".txt") {
		outputPath = outputPath + ".txt"
	}

	var b strings.Builder
	if result.Environment != "" {
		fmt.Fprintf(&b, "Environment: %s\n", result.Environment)
	}
	if result.RunID != "" {
		fmt.Fprintf(&b, "Run ID: %s\n", result.RunID)
	}
	fmt.Fprintf(&b, "Started: %s\n", result.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Duration: %s\n", result.Duration.Round(time.Millisecond))
	b.WriteString(Render(result))

	if err := os.WriteFile(outputPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write text report: %w", err)
	}
	return nil
}
