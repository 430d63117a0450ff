package udp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/MdSadiqMd/udp-sender/pkg/constants"
	"github.com/MdSadiqMd/udp-sender/pkg/endpoint"
	"github.com/MdSadiqMd/udp-sender/pkg/logging"
)

var (
	ErrClosed       = errors.New("udp: transactor closed")
	ErrNotOpen      = errors.New("udp: transactor not open")
	ErrHostNotFound = errors.New(constants.MsgHostNotFound)
)

// SocketInitError means no socket could be created; the session cannot run.
type SocketInitError struct {
	Addr string
	Err  error
}

func (e *SocketInitError) Error() string {
	return fmt.Sprintf("failed to open UDP socket on %s: %v", e.Addr, e.Err)
}

func (e *SocketInitError) Unwrap() error { return e.Err }

type Config struct {
	LocalAddr  string
	Timeout    time.Duration
	BufferSize int
	// Resolver is used for the destination lookup; nil means net.DefaultResolver.
	Resolver   *net.Resolver
}

func DefaultConfig() *Config {
	return &Config{
		LocalAddr:  constants.DefaultLocalAddr,
		Timeout:    constants.TimeoutMillis * time.Millisecond,
		BufferSize: constants.ReceiveBufferSize,
	}
}

// Reply is one received datagram, cut to the receive buffer.
type Reply struct {
	Text      string
	From      *net.UDPAddr
	Truncated bool
}

// Transactor owns a single broadcast-enabled UDP socket. Send and ReceiveOnce
// must not be called concurrently; pkg/session serializes them.
type Transactor struct {
	config *Config
	conn   *net.UDPConn

	closeOnce sync.Once
	closed    chan struct{}
}

func NewTransactor(config *Config) *Transactor {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Timeout <= 0 {
		config.Timeout = constants.TimeoutMillis * time.Millisecond
	}
	if config.BufferSize <= 0 {
		config.BufferSize = constants.ReceiveBufferSize
	}
	if config.LocalAddr == "" {
		config.LocalAddr = constants.DefaultLocalAddr
	}
	return &Transactor{
		config: config,
		closed: make(chan struct{}),
	}
}

// Open binds an ephemeral local port with SO_BROADCAST set.
func (t *Transactor) Open(ctx context.Context) error {
	select {
	case <-t.closed:
		return ErrClosed
	default:
	}
	if t.conn != nil {
		return nil
	}

	lc := net.ListenConfig{Control: enableBroadcast}
	pc, err := lc.ListenPacket(ctx, "udp4", t.config.LocalAddr)
	if err != nil {
		return &SocketInitError{Addr: t.config.LocalAddr, Err: err}
	}
	conn, ok := pc.(*net.UDPConn)
	if !ok {
		pc.Close()
		return &SocketInitError{Addr: t.config.LocalAddr, Err: fmt.Errorf("unexpected packet conn %T", pc)}
	}
	t.conn = conn

	logging.LogInfo("UDP socket open on %s (broadcast, timeout=%v, buffer=%d)",
		conn.LocalAddr(), t.config.Timeout, t.config.BufferSize)
	return nil
}

// Close is safe to call more than once. An in-flight ReceiveOnce returns
// with a read error, which callers treat as no reply.
func (t *Transactor) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.closed)
		if t.conn != nil {
			err = t.conn.Close()
			logging.LogInfo("UDP socket %s closed", t.conn.LocalAddr())
		}
	})
	return err
}

func (t *Transactor) LocalAddr() *net.UDPAddr {
	if t.conn == nil {
		return nil
	}
	return t.conn.LocalAddr().(*net.UDPAddr)
}

func (t *Transactor) Timeout() time.Duration {
	return t.config.Timeout
}

func (t *Transactor) ready() error {
	select {
	case <-t.closed:
		return ErrClosed
	default:
	}
	if t.conn == nil {
		return ErrNotOpen
	}
	return nil
}

// Send hands one datagram containing message to the network stack. Success
// says nothing about delivery.
func (t *Transactor) Send(ctx context.Context, message string, ep endpoint.Endpoint) (int, error) {
	payload := []byte(message)
	if len(payload) == 0 {
		return 0, endpoint.ErrEmptyMessage
	}
	if err := t.ready(); err != nil {
		return 0, err
	}

	addr, err := t.resolve(ctx, ep)
	if err != nil {
		return 0, err
	}

	n, err := t.conn.WriteToUDP(payload, addr)
	if err != nil {
		return n, fmt.Errorf("send to %s: %w", addr, err)
	}
	logging.LogUDP("Sent %d bytes to %s", n, addr)
	return n, nil
}

func (t *Transactor) resolve(ctx context.Context, ep endpoint.Endpoint) (*net.UDPAddr, error) {
	if ip := net.ParseIP(ep.IP); ip != nil {
		return &net.UDPAddr{IP: ip, Port: ep.Port}, nil
	}
	resolver := t.config.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	ips, err := resolver.LookupIP(ctx, "ip4", ep.IP)
	if err != nil || len(ips) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrHostNotFound, ep.IP)
	}
	return &net.UDPAddr{IP: ips[0], Port: ep.Port}, nil
}

// ReceiveOnce waits up to the configured timeout for one datagram. ok is false
// on timeout or any read failure, including the socket being closed.
func (t *Transactor) ReceiveOnce() (Reply, bool) {
	if err := t.ready(); err != nil {
		return Reply{}, false
	}

	buffer := make([]byte, t.config.BufferSize)
	if err := t.conn.SetReadDeadline(time.Now().Add(t.config.Timeout)); err != nil {
		return Reply{}, false
	}

	n, from, err := t.conn.ReadFromUDP(buffer)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			logging.LogUDP("No reply within %v", t.config.Timeout)
		} else {
			logging.LogWarning("Receive interrupted: %v", err)
		}
		return Reply{}, false
	}

	reply := Reply{Text: string(buffer[:n]), From: from}
	// A full buffer means the datagram may have been longer; the rest is
	// dropped by the kernel.
	reply.Truncated = n == len(buffer)
	logging.LogUDP("Received %d bytes from %s", n, from)
	return reply, true
}
