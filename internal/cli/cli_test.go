package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MdSadiqMd/udp-sender/internal/server"
	"github.com/MdSadiqMd/udp-sender/pkg/constants"
	"github.com/MdSadiqMd/udp-sender/pkg/echo"
	"github.com/MdSadiqMd/udp-sender/pkg/session"
	"github.com/MdSadiqMd/udp-sender/pkg/udp"
)

func peer(t *testing.T, cfg *echo.Config) string {
	t.Helper()
	cfg.Addr = "127.0.0.1:0"
	r := echo.NewResponder(cfg)
	require.NoError(t, r.Start())
	go r.Serve()
	t.Cleanup(r.Close)
	return strconv.Itoa(r.Port())
}

func upperPeer(t *testing.T) string {
	return peer(t, &echo.Config{Transform: bytes.ToUpper})
}

func executeCommand(stdin string, args ...string) (string, error) {
	out := new(bytes.Buffer)
	root := NewRootCmd()
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--no-color", "--local-addr", "127.0.0.1:0", "--timeout-ms", "300"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSendCommand(t *testing.T) {
	port := upperPeer(t)
	out, err := executeCommand("", "send", "127.0.0.1", port, "hello")
	require.NoError(t, err)
	assert.Equal(t, "HELLO\n", out)
}

func TestSendCommandFlags(t *testing.T) {
	port := upperPeer(t)
	out, err := executeCommand("", "send", "--ip", "127.0.0.1", "--port", port, "-m", "flags")
	require.NoError(t, err)
	assert.Equal(t, "FLAGS\n", out)
}

func TestSendCommandValidation(t *testing.T) {
	out, err := executeCommand("", "send", "", "9000", "hello")
	require.NoError(t, err)
	assert.Equal(t, constants.MsgBothInvalid+"\n", out)

	out, err = executeCommand("", "send", "1.1.1", "9000", "hello")
	require.NoError(t, err)
	assert.Equal(t, constants.MsgIPInvalid+"\n", out)

	out, err = executeCommand("", "send", "1.1.1.1", "70000", "hello")
	require.NoError(t, err)
	assert.Equal(t, constants.MsgPortInvalid+"\n", out)
}

func TestSendCommandTimeout(t *testing.T) {
	port := peer(t, &echo.Config{Silent: true})
	out, err := executeCommand("", "send", "127.0.0.1", port, "hello")
	require.NoError(t, err)
	assert.Equal(t, constants.MsgTimeout+"\n", out)
}

func TestTransactCancelledBeforeResult(t *testing.T) {
	port := peer(t, &echo.Config{Silent: true})
	sess, err := session.Open(context.Background(), session.Options{
		UDP: &udp.Config{LocalAddr: "127.0.0.1:0", Timeout: 5 * time.Second},
	})
	require.NoError(t, err)
	defer sess.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := new(bytes.Buffer)
	_, err = transact(ctx, sess, session.NewLoop(), out, "hello", "127.0.0.1", port)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestInteractiveCommand(t *testing.T) {
	port := upperPeer(t)
	stdin := "/ip 127.0.0.1\n/port " + port + "\none\ntwo\n/quit\n"

	out, err := executeCommand(stdin, "interactive")
	require.NoError(t, err)
	assert.Contains(t, out, "ONE\n")
	assert.Contains(t, out, "TWO\n")
	assert.Less(t, strings.Index(out, "ONE"), strings.Index(out, "TWO"))
}

func TestInteractiveStopsAtEOF(t *testing.T) {
	out, err := executeCommand("hello", "interactive", "--port", "9000")
	require.NoError(t, err)
	assert.Contains(t, out, constants.MsgBothInvalid)
}

func TestRemoteCommand(t *testing.T) {
	port := upperPeer(t)
	sess, err := session.Open(context.Background(), session.Options{
		UDP: &udp.Config{LocalAddr: "127.0.0.1:0", Timeout: time.Second},
	})
	require.NoError(t, err)
	defer sess.Close()

	ts := httptest.NewServer(server.NewHTTPServer(":0", sess).Router())
	defer ts.Close()

	out, err := executeCommand("", "remote", "--server", ts.URL, "127.0.0.1", port, "via http")
	require.NoError(t, err)
	assert.Equal(t, "VIA HTTP\n", out)

	out, err = executeCommand("", "remote", "--server", ts.URL, "", "", "x")
	require.NoError(t, err)
	assert.Equal(t, constants.MsgBothInvalid+"\n", out)
}

func TestRemoteCommandUnreachableServer(t *testing.T) {
	ts := httptest.NewServer(nil)
	url := ts.URL
	ts.Close()

	out, err := executeCommand("", "remote", "--server", url, "127.0.0.1", "9000", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not reachable")
	assert.Empty(t, out)
}
