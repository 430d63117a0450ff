package endpoint

import (
	"errors"

	"github.com/MdSadiqMd/udp-sender/pkg/constants"
)

type Kind int

const (
	InvalidIP Kind = iota + 1
	InvalidPort
	BothInvalid
	EmptyMessage
)

func (k Kind) String() string {
	switch k {
	case InvalidIP:
		return "invalid_ip"
	case InvalidPort:
		return "invalid_port"
	case BothInvalid:
		return "both_invalid"
	case EmptyMessage:
		return "empty_message"
	default:
		return "unknown"
	}
}

// ValidationError is always recoverable and never retried.
type ValidationError struct {
	Kind Kind
	// Hints are the per-field messages shown alongside the main one.
	Hints []string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case BothInvalid:
		return constants.MsgBothInvalid
	case InvalidIP:
		return constants.MsgIPInvalid
	case InvalidPort:
		return constants.MsgPortInvalid
	case EmptyMessage:
		return constants.MsgEmptyMessage
	default:
		return "validation failed"
	}
}

var ErrEmptyMessage = &ValidationError{Kind: EmptyMessage}

// KindOf returns the validation kind wrapped in err, or 0.
func KindOf(err error) Kind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return 0
}
