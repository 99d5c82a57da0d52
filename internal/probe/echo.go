package probe

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// DefaultPingTimeout bounds a single ping invocation.
const DefaultPingTimeout = 5 * time.Second

// Diagnostic describes a failed ping invocation for operator debugging.
type Diagnostic struct {
	Address  string
	Command  []string
	ExitCode int // -1 when the process never ran or was killed
	Stdout   string
	Stderr   string
	Err      string
}

// CommandLine returns the invoked command as a single string.
func (d Diagnostic) CommandLine() string {
	return strings.Join(d.Command, " ")
}

// EchoProber checks reachability with a single ICMP echo issued by the
// operating system's ping utility.
type EchoProber struct {
	command   string
	goos      string
	timeout   time.Duration
	onFailure func(Diagnostic)
}

// EchoOption is a functional option for configuring an EchoProber.
type EchoOption func(*EchoProber)

// WithGOOS overrides the operating system used to pick ping arguments.
func WithGOOS(goos string) EchoOption {
	return func(p *EchoProber) {
		p.goos = goos
	}
}

// WithDiagnostics registers a hook that receives details of every failed ping.
// The hook never changes the probe outcome.
func WithDiagnostics(fn func(Diagnostic)) EchoOption {
	return func(p *EchoProber) {
		p.onFailure = fn
	}
}

// NewEchoProber creates an EchoProber running command (usually "ping").
func NewEchoProber(command string, timeout time.Duration, opts ...EchoOption) *EchoProber {
	if command == "" {
		command = "ping"
	}
	if timeout <= 0 {
		timeout = DefaultPingTimeout
	}
	p := &EchoProber{
		command: command,
		goos:    runtime.GOOS,
		timeout: timeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the probe identifier.
func (p *EchoProber) Name() string {
	return "echo"
}

// Args returns the ping arguments for a single echo request to address.
func (p *EchoProber) Args(address string) []string {
	return PingArgs(p.goos, address)
}

// PingArgs returns single-packet ping arguments for the given OS family.
func PingArgs(goos, address string) []string {
	if goos == "windows" {
		return []string{"-n", "1", address}
	}
	return []string{"-c", "1", address}
}

// Probe returns true when the ping utility exits with status zero.
func (p *EchoProber) Probe(ctx context.Context, address string) bool {
	address = normalizeAddress(address)
	args := p.Args(address)
	diag := Diagnostic{
		Address:  address,
		Command:  append([]string{p.command}, args...),
		ExitCode: -1,
	}

	// A leading dash would be parsed as a ping flag.
	if address == "" || strings.HasPrefix(address, "-") {
		diag.Err = "invalid address"
		p.fail(diag)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return true
	}

	diag.Stdout = stdout.String()
	diag.Stderr = stderr.String()
	diag.Err = err.Error()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		diag.ExitCode = exitErr.ExitCode()
	}
	if ctx.Err() != nil {
		diag.Err = "ping timed out after " + p.timeout.String()
	}
	p.fail(diag)
	return false
}

func (p *EchoProber) fail(diag Diagnostic) {
	if p.onFailure != nil {
		p.onFailure(diag)
	}
}
