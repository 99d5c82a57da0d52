// Package model provides data models for the reachability sweep.
package model

import "strings"

// ActiveState is the normalized form of an inventory record's active flag.
type ActiveState string

const (
	ActiveStateActive   ActiveState = "active"   // y
	ActiveStateInactive ActiveState = "inactive" // n
	ActiveStateUnknown  ActiveState = "unknown"  // anything else
)

// Recognized server types for probe routing.
const (
	ServerTypeTPA = "tpa"
	ServerTypeHSN = "hsn"
	ServerTypeTMS = "tms"
)

// InventoryRecord is one server row from the inventory source.
// Records are read-only for the duration of a sweep.
type InventoryRecord struct {
	Hostname      string `json:"hostname" yaml:"hostname"`       // server hostname
	ServerType    string `json:"type" yaml:"type"`               // tpa, hsn, tms, ...
	CanonicalName string `json:"cname" yaml:"cname"`             // descriptive only
	IPAddress     string `json:"ip" yaml:"ip"`                   // probe target
	Description   string `json:"description" yaml:"description"` // descriptive only
	ActiveFlag    string `json:"active" yaml:"active"`           // y / n as stored upstream
}

// State returns the normalized active state of the record.
// The flag is compared case-insensitively after trimming fixed-width padding.
func (r InventoryRecord) State() ActiveState {
	switch strings.ToLower(strings.TrimSpace(r.ActiveFlag)) {
	case "y":
		return ActiveStateActive
	case "n":
		return ActiveStateInactive
	default:
		return ActiveStateUnknown
	}
}

// NormalizedType returns the lower-cased, trimmed server type.
func (r InventoryRecord) NormalizedType() string {
	return strings.ToLower(strings.TrimSpace(r.ServerType))
}
