// Package capture records packets to a CBOR stream and reads them back.
package capture

import (
	"io"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/robotalks/msp.go/pkg/msp"
)

// Entry is one recorded packet.
type Entry struct {
	Time      int64  `cbor:"t"`
	Direction byte   `cbor:"d"`
	Code      byte   `cbor:"c"`
	Payload   []byte `cbor:"p"`
}

// EntryOf creates an entry of pkt received at ts.
func EntryOf(ts time.Time, pkt *msp.Packet) Entry {
	return Entry{
		Time:      ts.UnixNano(),
		Direction: pkt.Direction.Byte(),
		Code:      pkt.Code,
		Payload:   pkt.Data.Bytes(),
	}
}

// Timestamp returns the recording time.
func (e Entry) Timestamp() time.Time {
	return time.Unix(0, e.Time)
}

// Packet restores the recorded packet.
func (e Entry) Packet() (*msp.Packet, error) {
	dir, ok := msp.DirectionFromByte(e.Direction)
	if !ok {
		return nil, msp.ErrInvalidDirection
	}
	return &msp.Packet{Code: e.Code, Direction: dir, Data: msp.Owned(e.Payload)}, nil
}

// Writer appends entries to a stream. It's safe for concurrent use.
type Writer struct {
	enc  *cbor.Encoder
	lock sync.Mutex
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewWriter creates a Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: cbor.NewEncoder(w), Now: time.Now}
}

// Write records a packet.
func (w *Writer) Write(pkt *msp.Packet) error {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.enc.Encode(EntryOf(w.Now(), pkt))
}

// Reader reads entries from a stream.
type Reader struct {
	dec *cbor.Decoder
}

// NewReader creates a Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: cbor.NewDecoder(r)}
}

// Next reads the next entry. It returns io.EOF at the end.
func (r *Reader) Next() (e Entry, err error) {
	err = r.dec.Decode(&e)
	return
}
