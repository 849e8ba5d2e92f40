package msp

import (
	"errors"
	"fmt"
)

var (
	// ErrOutputBufferSizeMismatch indicates the buffer passed to Serialize
	// doesn't match Packet.Size.
	ErrOutputBufferSizeMismatch = errors.New("output buffer size mismatch")
	// ErrPayloadTooLarge indicates the payload doesn't fit the length byte.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrInvalidDirection indicates the packet direction is not defined.
	ErrInvalidDirection = errors.New("invalid direction")
)

// ChecksumError is returned by Parser when the received checksum doesn't
// match the calculated one. The parser is already reset when it's returned.
type ChecksumError struct {
	Expected   byte
	Calculated byte
}

// Error implements error.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected %02x, calculated %02x", e.Expected, e.Calculated)
}

// FramingReason tells why a byte broke framing.
type FramingReason int

const (
	// InvalidHeader1 is a byte other than '$' where a frame should start.
	InvalidHeader1 FramingReason = iota
	// InvalidHeader2 is a byte other than 'M' after '$'.
	InvalidHeader2
	// InvalidDirection is a byte that is not a direction.
	InvalidDirection
	// InvalidLength is a length over the parser limit.
	InvalidLength
)

// String implements fmt.Stringer.
func (r FramingReason) String() string {
	switch r {
	case InvalidHeader1:
		return "header1"
	case InvalidHeader2:
		return "header2"
	case InvalidDirection:
		return "direction"
	case InvalidLength:
		return "length"
	}
	return "unknown"
}

// FramingError describes a byte discarded during resynchronization.
type FramingError struct {
	Reason FramingReason
	State  State
	Byte   byte
}

// Error implements error.
func (e *FramingError) Error() string {
	return fmt.Sprintf("invalid %s byte %02x in state %s", e.Reason, e.Byte, e.State)
}

// CommandError is the result of a command replied with Unsupported.
type CommandError struct {
	Code byte
}

// Error implements error.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command %d unsupported", e.Code)
}

// IsRecoverable indicates err is a parsing error after which the link
// keeps working.
func IsRecoverable(err error) bool {
	var csErr *ChecksumError
	var frErr *FramingError
	return errors.As(err, &csErr) || errors.As(err, &frErr)
}
