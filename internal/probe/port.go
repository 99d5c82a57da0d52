package probe

import (
	"context"
	"net"
	"strconv"
	"time"
)

const (
	// DefaultPort is the port probed on servers expected to be up.
	DefaultPort = 1025
	// DefaultConnectTimeout bounds a single port probe.
	DefaultConnectTimeout = 2 * time.Second
)

// PortProber checks reachability with a TCP connect to a fixed port.
type PortProber struct {
	port    int
	timeout time.Duration
}

// NewPortProber creates a PortProber. Zero values fall back to the defaults.
func NewPortProber(port int, timeout time.Duration) *PortProber {
	if port <= 0 {
		port = DefaultPort
	}
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	return &PortProber{port: port, timeout: timeout}
}

// Name returns the probe identifier.
func (p *PortProber) Name() string {
	return "port"
}

// Port returns the probed port.
func (p *PortProber) Port() int {
	return p.port
}

// Probe returns true only when a TCP connection to address:port is established
// within the timeout.
func (p *PortProber) Probe(ctx context.Context, address string) bool {
	address = normalizeAddress(address)
	if address == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(address, strconv.Itoa(p.port)))
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
