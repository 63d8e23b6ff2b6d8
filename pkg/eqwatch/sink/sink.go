// Package sink delivers event records to remote collectors. Delivery is
// best-effort telemetry: no retries, no acknowledgements, and a failing
// sink never blocks the others.
package sink

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
)

// A Sink delivers one wire record to a remote collector.
type Sink interface {
	Deliver(record string) error
	Close() error
}

// Facility and severity per RFC 3164. user-level notice matches what a
// stock syslog handler emits for informational application traffic.
const (
	facilityUser   = 1
	severityNotice = 5
	priority       = facilityUser*8 + severityNotice
)

// SyslogSink sends each record as a single UDP syslog datagram. The
// connection is unconnected in the TCP sense, so construction succeeds
// even when the collector is down; datagrams to a dead collector are
// silently dropped by the network, which is the behavior we want.
type SyslogSink struct {
	addr string
	conn net.Conn
}

// NewSyslogSink resolves host:port and opens a UDP socket toward it.
func NewSyslogSink(host string, port int) (*SyslogSink, error) {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("sink: dial %s: %w", addr, err)
	}
	return &SyslogSink{addr: addr, conn: conn}, nil
}

// Deliver writes the record as one datagram with an RFC 3164 PRI prefix.
func (s *SyslogSink) Deliver(record string) error {
	_, err := fmt.Fprintf(s.conn, "<%d>%s", priority, record)
	if err != nil {
		return fmt.Errorf("sink: send to %s: %w", s.addr, err)
	}
	return nil
}

// Close releases the socket.
func (s *SyslogSink) Close() error {
	return s.conn.Close()
}

// Addr returns the resolved collector address.
func (s *SyslogSink) Addr() string { return s.addr }

// Fanout delivers each record to every sink. Sinks are independent: one
// failing or slow sink does not affect the rest, and failures are logged
// and swallowed rather than returned.
type Fanout struct {
	sinks []Sink
	log   *slog.Logger
}

// NewFanout builds a fanout over the given sinks. A nil logger discards
// delivery failures silently.
func NewFanout(log *slog.Logger, sinks ...Sink) *Fanout {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fanout{sinks: sinks, log: log}
}

// Deliver sends the record to all sinks concurrently and waits for every
// delivery attempt to finish.
func (f *Fanout) Deliver(record string) {
	var wg sync.WaitGroup
	for _, s := range f.sinks {
		wg.Add(1)
		go func(s Sink) {
			defer wg.Done()
			if err := s.Deliver(record); err != nil {
				f.log.Warn("sink delivery failed", "error", err)
			}
		}(s)
	}
	wg.Wait()
}

// Len reports the number of configured sinks.
func (f *Fanout) Len() int { return len(f.sinks) }

// Close closes every sink, returning the first error encountered.
func (f *Fanout) Close() error {
	var first error
	for _, s := range f.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
