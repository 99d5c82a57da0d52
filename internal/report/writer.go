// Package report renders sweep results. Render produces the plain-text
// summary printed after every run; ReportWriter implementations persist the
// same result as text, Excel or HTML files.
package report

import (
	"server-sweep/internal/model"
)

// ReportWriter defines the interface for generating sweep reports.
type ReportWriter interface {
	// Write generates a report from the sweep result and saves it
	// to the specified output path. The writer appends its own file
	// extension when the path lacks it.
	Write(result *model.SweepResult, outputPath string) error

	// Format returns the format identifier for this writer, e.g. "text", "excel" or "html".
	Format() string
}
