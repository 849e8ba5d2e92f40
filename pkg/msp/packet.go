package msp

import (
	"bytes"
	"io"
)

const (
	header1 byte = '$'
	header2 byte = 'M'

	// MaxPayloadSize is the largest payload the length byte can describe.
	MaxPayloadSize = 255
	// overhead is header1, header2, direction, length, code and checksum.
	overhead = 6
	// MaxPacketSize is the size of a packet with the largest payload.
	MaxPacketSize = MaxPayloadSize + overhead
)

// Packet contains the information of a parsed packet.
type Packet struct {
	Code      byte
	Direction Direction
	Data      Payload
}

// NewPacket creates a packet which owns a copy of data.
func NewPacket(code byte, dir Direction, data []byte) *Packet {
	return &Packet{Code: code, Direction: dir, Data: CopyOf(data)}
}

// NewRequest creates a packet to the flight controller borrowing data.
func NewRequest(code byte, data []byte) *Packet {
	return &Packet{Code: code, Direction: ToFlightController, Data: Borrowed(data)}
}

// Size returns the number of bytes needed to serialize the packet.
func (p *Packet) Size() int {
	return overhead + p.Data.Len()
}

// Checksum calculates the checksum over length, code and data.
func (p *Packet) Checksum() byte {
	return checksum(byte(p.Data.Len())^p.Code, p.Data.Bytes())
}

// Serialize encodes the packet into buf which must be exactly Size bytes.
// Nothing is written on error.
func (p *Packet) Serialize(buf []byte) error {
	l := len(buf)
	if l != p.Size() {
		return ErrOutputBufferSizeMismatch
	}
	if p.Data.Len() > MaxPayloadSize {
		return ErrPayloadTooLarge
	}
	if !p.Direction.IsValid() {
		return ErrInvalidDirection
	}
	buf[0], buf[1] = header1, header2
	buf[2] = p.Direction.Byte()
	buf[3] = byte(p.Data.Len())
	buf[4] = p.Code
	copy(buf[5:l-1], p.Data.Bytes())
	buf[l-1] = p.Checksum()
	return nil
}

// Bytes returns encoded bytes for sending.
func (p *Packet) Bytes() ([]byte, error) {
	b := make([]byte, p.Size())
	if err := p.Serialize(b); err != nil {
		return nil, err
	}
	return b, nil
}

// WriteTo writes encoded bytes in a single Write.
func (p *Packet) WriteTo(w io.Writer) (int64, error) {
	size := p.Size()
	if size > MaxPacketSize {
		return 0, ErrPayloadTooLarge
	}
	var buf [MaxPacketSize]byte
	b := buf[:size]
	if err := p.Serialize(b); err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

// Equal compares code, direction and payload, ignoring payload ownership.
func (p *Packet) Equal(o *Packet) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.Code == o.Code && p.Direction == o.Direction &&
		bytes.Equal(p.Data.Bytes(), o.Data.Bytes())
}

func checksum(crc byte, data []byte) byte {
	for _, b := range data {
		crc ^= b
	}
	return crc
}
