//go:build ignore
// +build ignore

// This script reads and displays the contents of a sweep Excel report for verification.
// Run with: go run scripts/read_excel.go [report.xlsx]
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

func main() {
	path := "sample_sweep_report.xlsx"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	defer f.Close()

	fmt.Println("📊 Sheets:", f.GetSheetList())
	fmt.Println()

	for _, sheet := range f.GetSheetList() {
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  %s\n", sheet)
		fmt.Println("═══════════════════════════════════════")

		rows, err := f.GetRows(sheet)
		if err != nil {
			fmt.Println("  Error:", err)
			continue
		}
		for _, row := range rows {
			if len(row) == 0 {
				continue
			}
			fmt.Printf("  %s\n", strings.Join(row, " | "))
		}
		fmt.Println()
	}
}
