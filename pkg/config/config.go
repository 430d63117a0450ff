package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MdSadiqMd/udp-sender/pkg/constants"
	"github.com/MdSadiqMd/udp-sender/pkg/endpoint"
	"github.com/MdSadiqMd/udp-sender/pkg/udp"
	"github.com/MdSadiqMd/udp-sender/pkg/utils"
)

type Config struct {
	HTTPAddr  string    `json:"http_addr" yaml:"http_addr"`
	Socket    UDPConfig `json:"socket" yaml:"socket"`
	Endpoint  Endpoint  `json:"endpoint" yaml:"endpoint"`
	NoColor   bool      `json:"no_color" yaml:"no_color"`
	ServerURL string    `json:"server_url" yaml:"server_url"`
}

type UDPConfig struct {
	LocalAddr     string `json:"local_addr" yaml:"local_addr"`
	TimeoutMillis int    `json:"timeout_ms" yaml:"timeout_ms"`
	BufferSize    int    `json:"buffer_size" yaml:"buffer_size"`
}

type Endpoint struct {
	// FullPortRange lifts the 32767 port ceiling to 65535.
	FullPortRange bool `json:"full_port_range" yaml:"full_port_range"`
}

func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a JSON or YAML file (by extension), fills defaults and applies
// UDP_SENDER_* environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	applyEnv(&config)
	applyDefaults(&config)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadOrDefault loads path, or config/config.json under the project root when
// path is empty and that file exists, or else defaults plus env overrides.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat(ProjectConfigPath()); err == nil {
			return LoadFromProjectRoot()
		}
		cfg := &Config{}
		applyEnv(cfg)
		applyDefaults(cfg)
		return cfg, cfg.Validate()
	}
	return Load(path)
}

func ProjectConfigPath() string {
	return filepath.Join(GetProjectRoot(), "config", "config.json")
}

func LoadFromProjectRoot() (*Config, error) {
	return Load(ProjectConfigPath())
}

func applyEnv(config *Config) {
	config.HTTPAddr = utils.GetEnvString(constants.EnvPrefix+"HTTP_ADDR", config.HTTPAddr)
	config.ServerURL = utils.GetEnvString(constants.EnvPrefix+"SERVER_URL", config.ServerURL)
	config.Socket.LocalAddr = utils.GetEnvString(constants.EnvPrefix+"LOCAL_ADDR", config.Socket.LocalAddr)
	config.Socket.TimeoutMillis = utils.GetEnvInt(constants.EnvPrefix+"TIMEOUT_MS", config.Socket.TimeoutMillis)
	config.Socket.BufferSize = utils.GetEnvInt(constants.EnvPrefix+"BUFFER_SIZE", config.Socket.BufferSize)
	config.Endpoint.FullPortRange = utils.GetEnvBool(constants.EnvPrefix+"FULL_PORT_RANGE", config.Endpoint.FullPortRange)
	config.NoColor = utils.GetEnvBool(constants.EnvPrefix+"NO_COLOR", config.NoColor)
}

func applyDefaults(config *Config) {
	if config.HTTPAddr == "" {
		config.HTTPAddr = constants.DefaultHTTPAddr
	}
	if config.ServerURL == "" {
		config.ServerURL = "http://localhost" + constants.DefaultHTTPAddr
	}
	if config.Socket.LocalAddr == "" {
		config.Socket.LocalAddr = constants.DefaultLocalAddr
	}
	if config.Socket.TimeoutMillis <= 0 {
		config.Socket.TimeoutMillis = constants.TimeoutMillis
	}
	if config.Socket.BufferSize <= 0 {
		config.Socket.BufferSize = constants.ReceiveBufferSize
	}
}

func (c *Config) Validate() error {
	if c.Socket.BufferSize > 65507 {
		return fmt.Errorf("socket.buffer_size %d exceeds the largest UDP payload", c.Socket.BufferSize)
	}
	return nil
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Socket.TimeoutMillis) * time.Millisecond
}

func (c *Config) UDP() *udp.Config {
	return &udp.Config{
		LocalAddr:  c.Socket.LocalAddr,
		Timeout:    c.Timeout(),
		BufferSize: c.Socket.BufferSize,
	}
}

func (c *Config) EndpointOptions() endpoint.Options {
	return endpoint.Options{FullPortRange: c.Endpoint.FullPortRange}
}

func GetProjectRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "."
}
