// Package html provides HTML report generation for the reachability sweep.
// It implements the report.ReportWriter interface to generate .html files
// with per-category totals and the list of unreachable hosts.
package html

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"server-sweep/internal/model"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Writer implements report.ReportWriter for HTML format.
type Writer struct {
	timezone     *time.Location
	templatePath string // User-defined template path (optional)
}

// TemplateData holds all data passed to the HTML template.
type TemplateData struct {
	Title       string
	Environment string
	RunID       string
	StartedAt   string
	Duration    string
	TotalProbed int
	TotalFailed int
	Categories  []*CategoryData
	Version     string
	GeneratedAt string
}

// CategoryData represents one probed category formatted for template rendering.
type CategoryData struct {
	Title       string
	Total       int
	Succeeded   int
	Failed      int
	StatusClass string
	FailedHosts []HostData
}

// HostData represents a failed record formatted for template rendering.
type HostData struct {
	Hostname      string
	IPAddress     string
	ServerType    string
	CanonicalName string
	Description   string
}

// NewWriter creates a new HTML report writer.
// If timezone is nil, it defaults to UTC.
// If templatePath is empty, the embedded default template will be used.
func NewWriter(timezone *time.Location, templatePath string) *Writer {
	if timezone == nil {
		timezone = time.UTC
	}
	return &Writer{
		timezone:     timezone,
		templatePath: templatePath,
	}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "html"
}

// Write generates an HTML report from the sweep result.
func (w *Writer) Write(result *model.SweepResult, outputPath string) error {
	if result == nil {
		return fmt.Errorf("sweep result is nil")
	}

	// Ensure output path has .html extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".html") {
		outputPath = outputPath + ".html"
	}

	tmpl, err := w.loadTemplate()
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	data := w.prepareTemplateData(result)

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := tmpl.Execute(file, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}

// loadTemplate loads the HTML template.
// It first tries to load a user-defined template, then falls back to the embedded default.
func (w *Writer) loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"statusClass": statusClass,
	}

	// Try user-defined template first
	if w.templatePath != "" {
		if _, err := os.Stat(w.templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(w.templatePath)).Funcs(funcMap).ParseFiles(w.templatePath)
			if err != nil {
				return nil, fmt.Errorf("failed to parse user template: %w", err)
			}
			return tmpl, nil
		}
		// User template not found, fall through to default
	}

	tmpl, err := template.New("default.html").Funcs(funcMap).ParseFS(embeddedTemplates, "templates/default.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}

// prepareTemplateData converts SweepResult to TemplateData for template rendering.
// Categories keep the fixed report order; empty categories are omitted.
func (w *Writer) prepareTemplateData(result *model.SweepResult) *TemplateData {
	categories := make([]*CategoryData, 0, len(model.ReportCategories))
	for _, category := range model.ReportCategories {
		cr := result.Category(category)
		if cr == nil || cr.Total() == 0 {
			continue
		}

		hosts := make([]HostData, 0, len(cr.FailedRecords))
		for _, r := range cr.FailedRecords {
			hosts = append(hosts, HostData{
				Hostname:      r.Hostname,
				IPAddress:     r.IPAddress,
				ServerType:    r.ServerType,
				CanonicalName: r.CanonicalName,
				Description:   r.Description,
			})
		}

		categories = append(categories, &CategoryData{
			Title:       category.Title(),
			Total:       cr.Total(),
			Succeeded:   cr.Succeeded,
			Failed:      cr.Failed,
			StatusClass: statusClass(cr.Failed),
			FailedHosts: hosts,
		})
	}

	return &TemplateData{
		Title:       "Reachability Sweep Report",
		Environment: result.Environment,
		RunID:       result.RunID,
		StartedAt:   result.StartedAt.In(w.timezone).Format("2006-01-02 15:04:05"),
		Duration:    formatDuration(result.Duration),
		TotalProbed: result.TotalProbed(),
		TotalFailed: result.TotalFailed(),
		Categories:  categories,
		Version:     result.Version,
		GeneratedAt: time.Now().In(w.timezone).Format("2006-01-02 15:04:05"),
	}
}

// statusClass returns the CSS class for a failure count.
func statusClass(failed int) string {
	if failed > 0 {
		return "status-failed"
	}
	return "status-ok"
}

// formatDuration formats a duration in a human-readable format.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
