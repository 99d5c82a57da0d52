// Package service provides business logic services for the reachability sweep.
package service

import (
	"server-sweep/internal/model"
)

// Classify routes an inventory record to its probe category.
// Active flag and server type are compared case-insensitively. Any combination
// that matches no probe family maps to CategoryUnclassified, including records
// whose active flag is neither y nor n.
func Classify(record model.InventoryRecord) model.ProbeCategory {
	switch record.State() {
	case model.ActiveStateActive:
		return model.CategoryActiveExpectedUp
	case model.ActiveStateInactive:
		switch record.NormalizedType() {
		case model.ServerTypeTPA, model.ServerTypeHSN:
			return model.CategoryInactiveTPAHSN
		case model.ServerTypeTMS:
			return model.CategoryInactiveTMS
		}
	}
	return model.CategoryUnclassified
}
