package msp

// Payload is the data carried by a packet. It either owns its bytes or
// borrows a caller's buffer.
//
// Parsed packets always own their payload. A borrowed payload must not be
// retained beyond the send call it was built for.
type Payload struct {
	data  []byte
	owned bool
}

// Owned wraps b as an owned payload. The caller gives up b.
func Owned(b []byte) Payload {
	return Payload{data: b, owned: true}
}

// Borrowed references b without copying.
func Borrowed(b []byte) Payload {
	return Payload{data: b}
}

// CopyOf creates an owned payload with a copy of b.
func CopyOf(b []byte) Payload {
	if len(b) == 0 {
		return Payload{owned: true}
	}
	data := make([]byte, len(b))
	copy(data, b)
	return Owned(data)
}

// Bytes returns the underlying bytes.
func (p Payload) Bytes() []byte {
	return p.data
}

// Len returns the number of bytes.
func (p Payload) Len() int {
	return len(p.data)
}

// IsOwned indicates the payload owns its bytes.
func (p Payload) IsOwned() bool {
	return p.owned
}

// Own returns an owned payload, copying only if p is borrowed.
func (p Payload) Own() Payload {
	if p.owned {
		return p
	}
	return CopyOf(p.data)
}

// Byte returns the byte at i, or 0 if i is out of range.
func (p Payload) Byte(i int) byte {
	if i < 0 || i >= len(p.data) {
		return 0
	}
	return p.data[i]
}
