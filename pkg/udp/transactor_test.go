package udp

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MdSadiqMd/udp-sender/pkg/constants"
	"github.com/MdSadiqMd/udp-sender/pkg/endpoint"
)

// startResponder answers every datagram with reply(payload).
func startResponder(t *testing.T, reply func([]byte) []byte) endpoint.Endpoint {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 65535)
		for {
			n, addr, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			if out := reply(buf[:n]); out != nil {
				conn.WriteToUDP(out, addr)
			}
		}
	}()

	return endpoint.Endpoint{IP: "127.0.0.1", Port: conn.LocalAddr().(*net.UDPAddr).Port}
}

func openTransactor(t *testing.T, timeout time.Duration) *Transactor {
	t.Helper()
	tr := NewTransactor(&Config{LocalAddr: "127.0.0.1:0", Timeout: timeout})
	require.NoError(t, tr.Open(context.Background()))
	t.Cleanup(func() { tr.Close() })
	return tr
}

func TestDefaults(t *testing.T) {
	tr := NewTransactor(nil)
	assert.Equal(t, constants.TimeoutMillis*time.Millisecond, tr.Timeout())
	assert.Equal(t, constants.ReceiveBufferSize, tr.config.BufferSize)
}

func TestSendAndReceiveEcho(t *testing.T) {
	target := startResponder(t, func(b []byte) []byte { return b })
	tr := openTransactor(t, time.Second)

	n, err := tr.Send(context.Background(), "hello", target)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	reply, ok := tr.ReceiveOnce()
	require.True(t, ok)
	assert.Equal(t, "hello", reply.Text)
	assert.False(t, reply.Truncated)
	assert.Equal(t, target.Port, reply.From.Port)
}

func TestReceiveTruncatesAtBuffer(t *testing.T) {
	target := startResponder(t, func(b []byte) []byte {
		return []byte(strings.Repeat("x", 400))
	})
	tr := openTransactor(t, time.Second)

	_, err := tr.Send(context.Background(), "big", target)
	require.NoError(t, err)

	reply, ok := tr.ReceiveOnce()
	require.True(t, ok)
	assert.Len(t, reply.Text, constants.ReceiveBufferSize)
	assert.True(t, reply.Truncated)
}

func TestReceiveTimesOut(t *testing.T) {
	target := startResponder(t, func([]byte) []byte { return nil })
	tr := openTransactor(t, 100*time.Millisecond)

	_, err := tr.Send(context.Background(), "hello", target)
	require.NoError(t, err)

	start := time.Now()
	_, ok := tr.ReceiveOnce()
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestSendEmptyMessage(t *testing.T) {
	tr := openTransactor(t, time.Second)
	_, err := tr.Send(context.Background(), "", endpoint.Endpoint{IP: "127.0.0.1", Port: 9})
	assert.Equal(t, endpoint.EmptyMessage, endpoint.KindOf(err))
}

func TestSendUnknownHost(t *testing.T) {
	tr := openTransactor(t, time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := tr.Send(ctx, "hello", endpoint.Endpoint{IP: "no-such-host.invalid", Port: 9})
	assert.ErrorIs(t, err, ErrHostNotFound)
}

func TestCloseTwice(t *testing.T) {
	tr := NewTransactor(&Config{LocalAddr: "127.0.0.1:0"})
	require.NoError(t, tr.Open(context.Background()))

	assert.NoError(t, tr.Close())
	assert.NotPanics(t, func() { tr.Close() })

	_, err := tr.Send(context.Background(), "hello", endpoint.Endpoint{IP: "127.0.0.1", Port: 9})
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, tr.Open(context.Background()), ErrClosed)
}

func TestCloseAbortsReceive(t *testing.T) {
	tr := NewTransactor(&Config{LocalAddr: "127.0.0.1:0", Timeout: 5 * time.Second})
	require.NoError(t, tr.Open(context.Background()))

	done := make(chan bool, 1)
	go func() {
		_, ok := tr.ReceiveOnce()
		done <- ok
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, tr.Close())

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("receive was not aborted by Close")
	}
}

func TestSendBeforeOpen(t *testing.T) {
	tr := NewTransactor(nil)
	_, err := tr.Send(context.Background(), "hello", endpoint.Endpoint{IP: "127.0.0.1", Port: 9})
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestOpenReportsSocketInitError(t *testing.T) {
	tr := NewTransactor(&Config{LocalAddr: "127.0.0.1:99999"})
	err := tr.Open(context.Background())
	var initErr *SocketInitError
	assert.ErrorAs(t, err, &initErr)
}
