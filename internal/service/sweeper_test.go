package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"server-sweep/internal/model"
	"server-sweep/internal/probe"
)

// fakeProber answers from a fixed table and records every address it was asked about.
type fakeProber struct {
	name      string
	reachable map[string]bool
	jitter    bool // sleep a per-address pseudo-random time to shuffle completion order

	mu       sync.Mutex
	calls    []string
	inFlight int32
	maxSeen  int32
}

func newFakeProber(name string, reachable map[string]bool) *fakeProber {
	return &fakeProber{name: name, reachable: reachable}
}

func (f *fakeProber) Probe(ctx context.Context, address string) bool {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		seen := atomic.LoadInt32(&f.maxSeen)
		if n <= seen || atomic.CompareAndSwapInt32(&f.maxSeen, seen, n) {
			break
		}
	}

	if f.jitter {
		h := fnv.New32a()
		_, _ = h.Write([]byte(address))
		time.Sleep(time.Duration(h.Sum32()%5) * time.Millisecond)
	}

	f.mu.Lock()
	f.calls = append(f.calls, address)
	f.mu.Unlock()
	return f.reachable[address]
}

func (f *fakeProber) Name() string { return f.name }

func (f *fakeProber) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func rec(hostname, serverType, active, ip string) model.InventoryRecord {
	return model.InventoryRecord{
		Hostname:   hostname,
		ServerType: serverType,
		IPAddress:  ip,
		ActiveFlag: active,
	}
}

func newTestSweeper(port, echo probe.Prober, opts ...SweeperOption) *Sweeper {
	return NewSweeper(port, echo, zerolog.Nop(), opts...)
}

func TestNewSweeper_Defaults(t *testing.T) {
	s := newTestSweeper(nil, nil)
	assert.Equal(t, defaultConcurrency, s.Concurrency())
	assert.Nil(t, s.limiter)

	s = newTestSweeper(nil, nil, WithConcurrency(0), WithRateLimit(0))
	assert.Equal(t, defaultConcurrency, s.Concurrency())
	assert.Nil(t, s.limiter)

	s = newTestSweeper(nil, nil, WithConcurrency(3), WithRateLimit(0.5))
	assert.Equal(t, 3, s.Concurrency())
	require.NotNil(t, s.limiter)
	assert.Equal(t, 1, s.limiter.Burst())
}

func TestSweep_ScenarioA_InactiveTPAEchoFails(t *testing.T) {
	port := newFakeProber("port", nil)
	echo := newFakeProber("echo", map[string]bool{"10.0.0.1": false})

	result, err := newTestSweeper(port, echo).Sweep(context.Background(), []model.InventoryRecord{
		rec("h1", "tpa", "n", "10.0.0.1"),
	})
	require.NoError(t, err)

	cr := result.Category(model.CategoryInactiveTPAHSN)
	require.NotNil(t, cr)
	assert.Equal(t, 0, cr.Succeeded)
	assert.Equal(t, 1, cr.Failed)
	require.Len(t, cr.FailedRecords, 1)
	assert.Equal(t, "h1", cr.FailedRecords[0].Hostname)

	assert.Nil(t, result.Category(model.CategoryActiveExpectedUp))
	assert.Nil(t, result.Category(model.CategoryInactiveTMS))
	assert.Empty(t, port.Calls())
	assert.Equal(t, []string{"10.0.0.1"}, echo.Calls())
}

func TestSweep_ScenarioB_ActivePortSucceeds(t *testing.T) {
	port := newFakeProber("port", map[string]bool{"10.0.0.2": true})
	echo := newFakeProber("echo", nil)

	result, err := newTestSweeper(port, echo).Sweep(context.Background(), []model.InventoryRecord{
		rec("h2", "any", "y", "10.0.0.2"),
	})
	require.NoError(t, err)

	cr := result.Category(model.CategoryActiveExpectedUp)
	require.NotNil(t, cr)
	assert.Equal(t, 1, cr.Succeeded)
	assert.Equal(t, 0, cr.Failed)
	assert.Empty(t, cr.FailedRecords)
	assert.Empty(t, echo.Calls())
}

func TestSweep_ScenarioC_UnclassifiedNotProbed(t *testing.T) {
	port := newFakeProber("port", nil)
	echo := newFakeProber("echo", nil)

	result, err := newTestSweeper(port, echo).Sweep(context.Background(), []model.InventoryRecord{
		rec("h3", "other", "n", "10.0.0.3"),
	})
	require.NoError(t, err)

	assert.Empty(t, result.Categories)
	assert.Equal(t, 0, result.TotalProbed())
	assert.Empty(t, port.Calls())
	assert.Empty(t, echo.Calls())
}

func TestSweep_EmptyInventory(t *testing.T) {
	result, err := newTestSweeper(newFakeProber("port", nil), newFakeProber("echo", nil)).
		Sweep(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Categories)
}

// mixedInventory builds n records cycling through every category.
func mixedInventory(n int) ([]model.InventoryRecord, map[string]bool) {
	kinds := []struct{ serverType, active string }{
		{"tpa", "y"}, {"tpa", "n"}, {"hsn", "N"}, {"tms", "n"}, {"other", "n"}, {"tms", "?"},
	}
	records := make([]model.InventoryRecord, 0, n)
	reachable := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		k := kinds[i%len(kinds)]
		ip := fmt.Sprintf("10.0.%d.%d", i/256, i%256)
		records = append(records, rec(fmt.Sprintf("h%03d", i), k.serverType, k.active, ip))
		reachable[ip] = i%5 != 0
	}
	return records, reachable
}

func TestSweep_CountsMatchClassification(t *testing.T) {
	records, reachable := mixedInventory(120)
	port := newFakeProber("port", reachable)
	echo := newFakeProber("echo", reachable)

	result, err := newTestSweeper(port, echo, WithConcurrency(8)).Sweep(context.Background(), records)
	require.NoError(t, err)

	routed := make(map[model.ProbeCategory]int)
	unclassified := 0
	for _, r := range records {
		c := Classify(r)
		if c == model.CategoryUnclassified {
			unclassified++
			continue
		}
		routed[c]++
	}
	require.Greater(t, unclassified, 0)

	for _, c := range model.ReportCategories {
		cr := result.Category(c)
		require.NotNil(t, cr, "category %s", c)
		assert.Equal(t, routed[c], cr.Succeeded+cr.Failed, "category %s", c)
		assert.Len(t, cr.FailedRecords, cr.Failed, "category %s", c)
		for _, failed := range cr.FailedRecords {
			assert.False(t, reachable[failed.IPAddress], "reachable record %s listed as failed", failed.Hostname)
			assert.Equal(t, c, Classify(failed))
		}
	}
	assert.Nil(t, result.Category(model.CategoryUnclassified))
	assert.Equal(t, len(records)-unclassified, result.TotalProbed())
	assert.Equal(t, len(records)-unclassified, len(port.Calls())+len(echo.Calls()))
}

func TestSweep_FailedRecordsKeepInventoryOrder(t *testing.T) {
	records, reachable := mixedInventory(90)

	sequential := func() *model.SweepResult {
		res, err := newTestSweeper(newFakeProber("port", reachable), newFakeProber("echo", reachable),
			WithConcurrency(1)).Sweep(context.Background(), records)
		require.NoError(t, err)
		return res
	}()

	port := newFakeProber("port", reachable)
	port.jitter = true
	echo := newFakeProber("echo", reachable)
	echo.jitter = true
	concurrent, err := newTestSweeper(port, echo, WithConcurrency(16)).Sweep(context.Background(), records)
	require.NoError(t, err)

	for _, c := range model.ReportCategories {
		assert.Equal(t, sequential.Category(c).FailedRecords, concurrent.Category(c).FailedRecords, "category %s", c)
	}

	// Encounter order means strictly increasing hostnames in this inventory.
	for _, c := range model.ReportCategories {
		failed := concurrent.Category(c).FailedRecords
		for i := 1; i < len(failed); i++ {
			assert.Less(t, failed[i-1].Hostname, failed[i].Hostname)
		}
	}
}

func TestSweep_RespectsConcurrencyLimit(t *testing.T) {
	records, reachable := mixedInventory(60)
	port := newFakeProber("port", reachable)
	port.jitter = true

	_, err := newTestSweeper(port, port, WithConcurrency(3)).Sweep(context.Background(), records)
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&port.maxSeen), int32(3))
}

func TestSweep_Idempotent(t *testing.T) {
	records, reachable := mixedInventory(48)
	s := newTestSweeper(newFakeProber("port", reachable), newFakeProber("echo", reachable), WithConcurrency(4))

	first, err := s.Sweep(context.Background(), records)
	require.NoError(t, err)
	second, err := s.Sweep(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, first.Categories, second.Categories)
}

func TestSweep_ProbeFailureDoesNotAbort(t *testing.T) {
	// The echo strategy behaves like a missing ping binary: always false.
	broken := probe.Func(func(ctx context.Context, address string) bool { return false })
	port := newFakeProber("port", map[string]bool{"10.0.0.2": true})

	result, err := newTestSweeper(port, broken).Sweep(context.Background(), []model.InventoryRecord{
		rec("h1", "tpa", "n", "10.0.0.1"),
		rec("h2", "tpa", "y", "10.0.0.2"),
		rec("h3", "tms", "n", "10.0.0.3"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Category(model.CategoryActiveExpectedUp).Succeeded)
	assert.Equal(t, 1, result.Category(model.CategoryInactiveTPAHSN).Failed)
	assert.Equal(t, 1, result.Category(model.CategoryInactiveTMS).Failed)
}

func TestSweep_CancelledContext(t *testing.T) {
	records, reachable := mixedInventory(12)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newTestSweeper(newFakeProber("port", reachable), newFakeProber("echo", reachable)).
		Sweep(ctx, records)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSweep_RateLimited(t *testing.T) {
	records := []model.InventoryRecord{
		rec("h1", "tpa", "y", "10.0.0.1"),
		rec("h2", "tpa", "y", "10.0.0.2"),
		rec("h3", "tpa", "y", "10.0.0.3"),
	}
	port := newFakeProber("port", nil)

	start := time.Now()
	result, err := newTestSweeper(port, nil, WithRateLimit(20)).Sweep(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Category(model.CategoryActiveExpectedUp).Failed)
	assert.Less(t, time.Since(start), 2*time.Second)
}
