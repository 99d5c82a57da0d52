// Package probe implements the reachability checks used by a sweep.
//
// Every Prober reports a plain boolean. Ordinary connectivity failures
// (timeouts, refusals, resolution errors, a missing ping binary) are
// absorbed and reported as false; they never surface as errors.
package probe

import (
	"context"
	"strings"
)

// Prober tests whether an address is reachable.
// Implementations must be safe for concurrent use.
type Prober interface {
	Probe(ctx context.Context, address string) bool
	Name() string
}

// Func adapts a plain function to the Prober interface.
type Func func(ctx context.Context, address string) bool

// Probe calls f.
func (f Func) Probe(ctx context.Context, address string) bool {
	return f(ctx, address)
}

// Name returns "func".
func (f Func) Name() string {
	return "func"
}

// normalizeAddress trims inventory padding from an address.
func normalizeAddress(address string) string {
	return strings.TrimSpace(address)
}
