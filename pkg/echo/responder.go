// Package echo is a UDP peer that answers each datagram, used by the udp-echo
// tool and by tests that need something on the other end.
package echo

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/MdSadiqMd/udp-sender/pkg/constants"
	"github.com/MdSadiqMd/udp-sender/pkg/logging"
)

type Config struct {
	Addr       string
	BufferSize int
	// Repeat > 1 multiplies the payload so replies can outgrow the sender's buffer.
	Repeat     int
	Prefix     string
	// Silent peers read but never answer.
	Silent     bool
	// Transform, when set, builds the reply from the received payload.
	Transform  func([]byte) []byte
}

func DefaultConfig() *Config {
	return &Config{
		Addr:       constants.DefaultEchoAddr,
		BufferSize: 65535,
		Repeat:     1,
	}
}

type Stats struct {
	Received      int
	Replied       int
	BytesReceived int64
	BytesReplied  int64
	Peers         map[string]int
	StartTime     time.Time
	mu            sync.Mutex
}

func NewStats() *Stats {
	return &Stats{
		Peers:     make(map[string]int),
		StartTime: time.Now(),
	}
}

func (s *Stats) recordReceived(from *net.UDPAddr, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Received++
	s.BytesReceived += int64(n)
	s.Peers[from.String()]++
}

func (s *Stats) recordReplied(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Replied++
	s.BytesReplied += int64(n)
}

func (s *Stats) GetReceived() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Received
}

func (s *Stats) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("%d datagrams in (%d bytes), %d replies out (%d bytes), %d peers, up %v",
		s.Received, s.BytesReceived, s.Replied, s.BytesReplied, len(s.Peers),
		time.Since(s.StartTime).Round(time.Second))
}

type Responder struct {
	config *Config
	conn   *net.UDPConn
	stats  *Stats
	done   chan struct{}
}

func NewResponder(config *Config) *Responder {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 65535
	}
	if config.Repeat <= 0 {
		config.Repeat = 1
	}
	return &Responder{
		config: config,
		stats:  NewStats(),
		done:   make(chan struct{}),
	}
}

func (r *Responder) Start() error {
	addr, err := net.ResolveUDPAddr("udp4", r.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to resolve address: %w", err)
	}

	r.conn, err = net.ListenUDP("udp4", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", r.config.Addr, err)
	}

	logging.LogInfo("Echo listening on %s (repeat=%d, silent=%v)", r.conn.LocalAddr(), r.config.Repeat, r.config.Silent)
	return nil
}

func (r *Responder) Addr() *net.UDPAddr {
	return r.conn.LocalAddr().(*net.UDPAddr)
}

func (r *Responder) Port() int {
	return r.Addr().Port
}

func (r *Responder) Stats() *Stats {
	return r.stats
}

// Close stops Serve; Done is closed once Serve has returned.
func (r *Responder) Close() {
	if r.conn != nil {
		r.conn.Close()
	}
}

func (r *Responder) Done() <-chan struct{} {
	return r.done
}

func (r *Responder) reply(payload []byte) []byte {
	if r.config.Transform != nil {
		return r.config.Transform(payload)
	}
	out := make([]byte, 0, len(r.config.Prefix)+len(payload)*r.config.Repeat)
	out = append(out, r.config.Prefix...)
	return append(out, bytes.Repeat(payload, r.config.Repeat)...)
}

// Serve answers datagrams until the socket is closed.
func (r *Responder) Serve() {
	defer close(r.done)
	buffer := make([]byte, r.config.BufferSize)

	for {
		n, from, err := r.conn.ReadFromUDP(buffer)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			logging.LogError("Error reading UDP: %v", err)
			continue
		}
		r.stats.recordReceived(from, n)

		if r.config.Silent {
			continue
		}
		out := r.reply(buffer[:n])
		if _, err := r.conn.WriteToUDP(out, from); err != nil {
			logging.LogError("Reply to %s failed: %v", from, err)
			continue
		}
		r.stats.recordReplied(len(out))
	}
}
