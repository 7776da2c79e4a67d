package adapters

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// Connection descriptions reported by ReachabilityMonitor.
const (
	ConnectionUnknown = "unknown"
	ConnectionOnline  = "online"
	ConnectionOffline = "offline"
)

// ReachabilityMonitor probes a TCP address on an interval and remembers the
// outcome so ConnectionDescription never touches the network.
type ReachabilityMonitor struct {
	addr     string
	interval time.Duration
	timeout  time.Duration
	dialer   func(ctx context.Context, network, addr string) (net.Conn, error)
	logger   *slog.Logger

	state atomic.Value
	wg    sync.WaitGroup
}

type ReachabilityOption func(*ReachabilityMonitor)

func WithReachabilityLogger(logger *slog.Logger) ReachabilityOption {
	return func(m *ReachabilityMonitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithDialer replaces the TCP dialer.
func WithDialer(dial func(ctx context.Context, network, addr string) (net.Conn, error)) ReachabilityOption {
	return func(m *ReachabilityMonitor) { m.dialer = dial }
}

func NewReachabilityMonitor(addr string, interval, timeout time.Duration, opts ...ReachabilityOption) *ReachabilityMonitor {
	m := &ReachabilityMonitor{
		addr:     addr,
		interval: interval,
		timeout:  timeout,
		dialer:   (&net.Dialer{}).DialContext,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.state.Store(ConnectionUnknown)
	return m
}

// ConnectionDescription returns the last probe outcome.
func (m *ReachabilityMonitor) ConnectionDescription() string {
	return m.state.Load().(string)
}

// Probe dials once and records the outcome.
func (m *ReachabilityMonitor) Probe(ctx context.Context) string {
	dialCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	next := ConnectionOnline
	conn, err := m.dialer(dialCtx, "tcp", m.addr)
	if err != nil {
		next = ConnectionOffline
	} else {
		_ = conn.Close()
	}

	if prev := m.state.Swap(next).(string); prev != next {
		m.logger.InfoContext(ctx, "connectivity changed",
			"from", prev,
			"to", next,
			"probe_addr", m.addr,
		)
	}
	return next
}

// Start probes immediately and then on every interval until ctx is done.
// Wait blocks until the probing goroutine has exited.
func (m *ReachabilityMonitor) Start(ctx context.Context) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.Probe(ctx)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Probe(ctx)
			}
		}
	}()
}

func (m *ReachabilityMonitor) Wait() {
	m.wg.Wait()
}
