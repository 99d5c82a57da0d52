package report

import (
	"testing"
	"time"
)

func TestGenerateFilename(t *testing.T) {
	now := time.Date(2026, 3, 14, 23, 30, 5, 0, time.UTC)
	cst := time.FixedZone("CST", 8*3600)

	tests := []struct {
		name     string
		template string
		env      string
		tz       *time.Location
		want     string
	}{
		{"default template", "", "prod", nil, "sweep_report_prod_2026-03-14_233005"},
		{"timezone shifts date", "", "prod", cst, "sweep_report_prod_2026-03-15_073005"},
		{"spaced placeholders", "{{ .Env }}-{{ .Date }}", "dr", nil, "dr-2026-03-14_233005"},
		{"no placeholders", "fixed", "dev", nil, "fixed"},
		{"empty env", "r_{{.Env}}", "", nil, "r_default"},
		{"env with separators", "{{.Env}}", "team/a b", nil, "team_a_b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateFilename(tt.template, tt.env, now, tt.tz); got != tt.want {
				t.Errorf("GenerateFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}
