package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MdSadiqMd/udp-sender/pkg/constants"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, constants.DefaultHTTPAddr, cfg.HTTPAddr)
	assert.Equal(t, 2*time.Second, cfg.Timeout())
	assert.Equal(t, constants.ReceiveBufferSize, cfg.Socket.BufferSize)
	assert.False(t, cfg.EndpointOptions().FullPortRange)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"http_addr":":9090","socket":{"timeout_ms":500},"endpoint":{"full_port_range":true}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 500*time.Millisecond, cfg.UDP().Timeout)
	assert.Equal(t, constants.ReceiveBufferSize, cfg.UDP().BufferSize)
	assert.True(t, cfg.EndpointOptions().FullPortRange)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "socket:\n  local_addr: 127.0.0.1:0\n  buffer_size: 1024\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:0", cfg.Socket.LocalAddr)
	assert.Equal(t, 1024, cfg.Socket.BufferSize)
	assert.Equal(t, constants.TimeoutMillis, cfg.Socket.TimeoutMillis)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("UDP_SENDER_TIMEOUT_MS", "750")
	t.Setenv("UDP_SENDER_FULL_PORT_RANGE", "true")

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, 750, cfg.Socket.TimeoutMillis)
	assert.True(t, cfg.Endpoint.FullPortRange)
}

func TestLoadOrDefaultUsesProjectConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/x\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "config", "config.json"), []byte(`{"http_addr":":7070"}`), 0o644))

	sub := filepath.Join(root, "cmd")
	require.NoError(t, os.Mkdir(sub, 0o755))
	chdir(t, sub)

	// t.TempDir may sit behind a symlink, so compare resolved paths.
	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(GetProjectRoot())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTPAddr)
}

func TestLoadOrDefaultWithoutProjectConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/x\n"), 0o644))
	chdir(t, root)

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultHTTPAddr, cfg.HTTPAddr)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.json", "{"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "big.json", `{"socket":{"buffer_size":70000}}`))
	assert.Error(t, err)
}
