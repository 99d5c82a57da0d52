//go:build ignore
// +build ignore

// This script generates sample sweep reports (Excel, HTML, text) for manual verification.
// Run with: go run scripts/verify_excel.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"server-sweep/internal/model"
	"server-sweep/internal/report"
)

func main() {
	result := createSampleData()
	registry := report.NewRegistry(time.UTC, "")
	base := filepath.Join(".", "sample_sweep_report")

	for _, format := range registry.GetAll() {
		writer, _ := registry.Get(format)
		path := base + report.Extension(format)
		if err := writer.Write(result, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating %s report: %v\n", format, err)
			os.Exit(1)
		}
		fmt.Printf("✅ %s report generated: %s\n", format, path)
	}

	fmt.Println("\nPlease open the files to verify:")
	fmt.Println("  - Summary lists ACTIVE, Not active (tpa/hsn), Not active (tms) in that order")
	fmt.Println("  - Failed counts are red, zero failures are green")
	fmt.Println("  - Failed Hosts sheet keeps inventory order")
	fmt.Println("\nRead the workbook back with: go run scripts/read_excel.go sample_sweep_report.xlsx")
}

func createSampleData() *model.SweepResult {
	start := time.Now().Add(-3 * time.Second)
	result := model.NewSweepResult(start)
	result.RunID = "00000000-0000-4000-8000-000000000000"
	result.Environment = "sample"
	result.Version = "dev"

	add := func(hostname, serverType, active, ip string, category model.ProbeCategory, ok bool) {
		result.Record(model.ProbeOutcome{
			Record: model.InventoryRecord{
				Hostname:      hostname,
				ServerType:    serverType,
				CanonicalName: hostname + ".example.net",
				IPAddress:     ip,
				Description:   serverType + " node",
				ActiveFlag:    active,
			},
			Category:  category,
			Succeeded: ok,
		})
	}

	add("tpa-node-01", "tpa", "y", "10.10.0.1", model.CategoryActiveExpectedUp, true)
	add("tpa-node-02", "tpa", "y", "10.10.0.2", model.CategoryActiveExpectedUp, false)
	add("hsn-node-01", "hsn", "y", "10.10.0.3", model.CategoryActiveExpectedUp, true)
	add("tpa-node-09", "tpa", "n", "10.10.1.9", model.CategoryInactiveTPAHSN, false)
	add("hsn-node-07", "hsn", "n", "10.10.1.7", model.CategoryInactiveTPAHSN, true)
	add("tms-01", "tms", "n", "10.10.2.1", model.CategoryInactiveTMS, true)

	result.Finalize(time.Now())
	return result
}
