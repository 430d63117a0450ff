// Package endpoint validates the user-typed destination of a datagram.
//
// The IPv4 pattern is deliberately asymmetric: the first three octets must be
// 1-255 while the last octet may be 0. Ports are capped at 32767 unless the
// caller opts into the full unsigned 16-bit range.
package endpoint

import (
	"fmt"
	"net"
	"regexp"
	"strconv"

	"github.com/MdSadiqMd/udp-sender/pkg/constants"
)

const (
	leadOctet = `(25[0-5]|2[0-4][0-9]|[0-1][0-9]{2}|[1-9][0-9]|[1-9])`
	lastOctet = `(25[0-5]|2[0-4][0-9]|[0-1][0-9]{2}|[1-9][0-9]|[0-9])`
)

var ipPattern = regexp.MustCompile(`^` + leadOctet + `\.` + leadOctet + `\.` + leadOctet + `\.` + lastOctet + `$`)

// Endpoint is a validated send target.
type Endpoint struct {
	IP   string
	Port int
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.IP, strconv.Itoa(e.Port))
}

type Options struct {
	// FullPortRange accepts 1-65535 instead of 1-32767.
	FullPortRange bool
}

func (o Options) maxPort() int {
	if o.FullPortRange {
		return constants.MaxPortUnsigned
	}
	return constants.MaxPort
}

// PortHint is the per-field message shown when the port does not parse.
func (o Options) PortHint() string {
	return fmt.Sprintf("A valid port number is between %d and %d", constants.MinPort, o.maxPort())
}

func ValidIP(ip string) bool {
	if ip == "" {
		return false
	}
	return ipPattern.MatchString(ip)
}

func ParsePort(text string, opts Options) (int, bool) {
	if text == "" {
		return 0, false
	}
	port, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return 0, false
	}
	if port < constants.MinPort || port > int64(opts.maxPort()) {
		return 0, false
	}
	return int(port), true
}

// Validate checks both fields independently and reports a combined error
// when both are wrong. An empty address field always gets the combined
// error, whatever the port.
func Validate(ipText, portText string, opts Options) (Endpoint, error) {
	ipOK := ValidIP(ipText)
	port, portOK := ParsePort(portText, opts)

	var hints []string
	if !ipOK && ipText != "" {
		hints = append(hints, constants.HintIP)
	}
	if !portOK && portText != "" {
		hints = append(hints, opts.PortHint())
	}

	switch {
	case ipText == "", !ipOK && !portOK:
		return Endpoint{}, &ValidationError{Kind: BothInvalid, Hints: hints}
	case !ipOK:
		return Endpoint{}, &ValidationError{Kind: InvalidIP, Hints: hints}
	case !portOK:
		return Endpoint{}, &ValidationError{Kind: InvalidPort, Hints: hints}
	}
	return Endpoint{IP: ipText, Port: port}, nil
}
