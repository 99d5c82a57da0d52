// Package model provides data models for the reachability sweep.
package model

import "time"

// ProbeCategory is the closed set of routing buckets a record can land in.
type ProbeCategory string

const (
	CategoryActiveExpectedUp ProbeCategory = "active_expected_up" // active, port probe
	CategoryInactiveTPAHSN   ProbeCategory = "inactive_tpa_hsn"   // inactive tpa/hsn, echo probe
	CategoryInactiveTMS      ProbeCategory = "inactive_tms"       // inactive tms, echo probe
	CategoryUnclassified     ProbeCategory = "unclassified"       // never probed
)

// ReportCategories lists the probed categories in their fixed report order.
var ReportCategories = []ProbeCategory{
	CategoryActiveExpectedUp,
	CategoryInactiveTPAHSN,
	CategoryInactiveTMS,
}

// Title returns the heading used for the category in reports.
func (c ProbeCategory) Title() string {
	switch c {
	case CategoryActiveExpectedUp:
		return "ACTIVE"
	case CategoryInactiveTPAHSN:
		return "Not active (tpa/hsn)"
	case CategoryInactiveTMS:
		return "Not active (tms)"
	default:
		return "Unclassified"
	}
}

// IsProbed reports whether records in this category are probed at all.
func (c ProbeCategory) IsProbed() bool {
	switch c {
	case CategoryActiveExpectedUp, CategoryInactiveTPAHSN, CategoryInactiveTMS:
		return true
	default:
		return false
	}
}

// ProbeOutcome is the result of probing a single record.
type ProbeOutcome struct {
	Record    InventoryRecord `json:"record"`
	Category  ProbeCategory   `json:"category"`
	Succeeded bool            `json:"succeeded"`
}

// CategoryResult accumulates outcomes for one category.
// Invariant: Succeeded+Failed equals the number of records routed here and
// len(FailedRecords) == Failed.
type CategoryResult struct {
	Category      ProbeCategory     `json:"category"`
	Succeeded     int               `json:"succeeded"`
	Failed        int               `json:"failed"`
	FailedRecords []InventoryRecord `json:"failed_records"` // inventory order
}

// Total returns the number of records routed to the category.
func (r *CategoryResult) Total() int {
	return r.Succeeded + r.Failed
}

// SweepResult is the complete outcome of one sweep over an inventory.
type SweepResult struct {
	RunID       string        `json:"run_id"`
	Environment string        `json:"environment,omitempty"`
	Version     string        `json:"version,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`

	Categories map[ProbeCategory]*CategoryResult `json:"categories"`
}

// NewSweepResult creates an empty SweepResult started at the given time.
func NewSweepResult(startedAt time.Time) *SweepResult {
	return &SweepResult{
		StartedAt:  startedAt,
		Categories: make(map[ProbeCategory]*CategoryResult),
	}
}

// Record adds an outcome to its category. Outcomes for unprobed categories are ignored.
// Callers must add outcomes in inventory order to keep FailedRecords stable.
func (r *SweepResult) Record(outcome ProbeOutcome) {
	if !outcome.Category.IsProbed() {
		return
	}
	cr, ok := r.Categories[outcome.Category]
	if !ok {
		cr = &CategoryResult{Category: outcome.Category}
		r.Categories[outcome.Category] = cr
	}
	if outcome.Succeeded {
		cr.Succeeded++
		return
	}
	cr.Failed++
	cr.FailedRecords = append(cr.FailedRecords, outcome.Record)
}

// Category returns the result for a category, or nil when no record was routed there.
func (r *SweepResult) Category(c ProbeCategory) *CategoryResult {
	if r == nil {
		return nil
	}
	return r.Categories[c]
}

// Finalize records the sweep duration.
func (r *SweepResult) Finalize(endTime time.Time) {
	r.Duration = endTime.Sub(r.StartedAt)
}

// TotalProbed returns the number of probed records across all categories.
func (r *SweepResult) TotalProbed() int {
	total := 0
	for _, cr := range r.Categories {
		total += cr.Total()
	}
	return total
}

// TotalFailed returns the number of failed probes across all categories.
func (r *SweepResult) TotalFailed() int {
	total := 0
	for _, cr := range r.Categories {
		total += cr.Failed
	}
	return total
}

// HasFailures reports whether any probe failed.
func (r *SweepResult) HasFailures() bool {
	return r.TotalFailed() > 0
}
