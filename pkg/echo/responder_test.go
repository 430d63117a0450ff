package echo

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startResponder(t *testing.T, cfg *Config) *Responder {
	t.Helper()
	cfg.Addr = "127.0.0.1:0"
	r := NewResponder(cfg)
	require.NoError(t, r.Start())
	go r.Serve()
	t.Cleanup(func() {
		r.Close()
		<-r.Done()
	})
	return r
}

func roundTrip(t *testing.T, r *Responder, payload string) (string, bool) {
	t.Helper()
	conn, err := net.DialUDP("udp4", nil, r.Addr())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(payload))
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil {
		return "", false
	}
	return string(buf[:n]), true
}

func TestEcho(t *testing.T) {
	r := startResponder(t, DefaultConfig())
	got, ok := roundTrip(t, r, "hello")
	require.True(t, ok)
	assert.Equal(t, "hello", got)
	assert.Equal(t, 1, r.Stats().GetReceived())
}

func TestRepeatAndPrefix(t *testing.T) {
	r := startResponder(t, &Config{Repeat: 3, Prefix: "> "})
	got, ok := roundTrip(t, r, "ab")
	require.True(t, ok)
	assert.Equal(t, "> ababab", got)
}

func TestSilent(t *testing.T) {
	r := startResponder(t, &Config{Silent: true})
	_, ok := roundTrip(t, r, "hello")
	assert.False(t, ok)
	assert.Eventually(t, func() bool { return r.Stats().GetReceived() == 1 }, time.Second, 10*time.Millisecond)
}

func TestTransform(t *testing.T) {
	r := startResponder(t, &Config{Transform: func(b []byte) []byte {
		return []byte(strings.ToUpper(string(b)))
	}})
	got, ok := roundTrip(t, r, "shout")
	require.True(t, ok)
	assert.Equal(t, "SHOUT", got)
	assert.Contains(t, r.Stats().Summary(), "1 replies out")
}
