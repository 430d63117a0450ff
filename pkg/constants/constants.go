package constants

const (
	// Socket receive timeout in milliseconds
	TimeoutMillis = 2000

	// Replies longer than this are truncated
	ReceiveBufferSize = 255

	MinPort         = 1
	MaxPort         = 32767 // signed 16-bit ceiling
	MaxPortUnsigned = 65535

	DefaultHTTPAddr  = ":8080"
	DefaultLocalAddr = "0.0.0.0:0"
	DefaultEchoAddr  = "0.0.0.0:9000"

	EnvPrefix = "UDP_SENDER_"
)

const (
	MsgBothInvalid  = "Ip and Port are invalid"
	MsgIPInvalid    = "IP is invalid"
	MsgPortInvalid  = "Port number is invalid"
	MsgEmptyMessage = "Message is empty"
	MsgHostNotFound = "Couldn't find host"
	MsgTimeout      = "Nothing received, timeout"

	HintIP = "Please enter a valid IP Address"
)
