package report

import (
	"strings"
	"time"
)

const defaultFilenameTemplate = "sweep_report_{{.Env}}_{{.Date}}"

// GenerateFilename creates a filename base from the template.
// Supports {{.Date}} (now in tz, 2006-01-02_150405) and {{.Env}} placeholders.
// Path separators in the environment name are replaced so the result stays a single file name.
func GenerateFilename(template, env string, now time.Time, tz *time.Location) string {
	if template == "" {
		template = defaultFilenameTemplate
	}
	if tz == nil {
		tz = time.UTC
	}
	if env == "" {
		env = "default"
	}

	dateStr := now.In(tz).Format("2006-01-02_150405")
	env = strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(env)

	// Replace placeholders
	filename := template
	for _, p := range []struct{ key, value string }{{"Date", dateStr}, {"Env", env}} {
		filename = strings.ReplaceAll(filename, "{{."+p.key+"}}", p.value)
		filename = strings.ReplaceAll(filename, "{{ ."+p.key+" }}", p.value)
	}

	return filename
}
