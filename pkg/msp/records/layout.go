// Package records decodes MSP payloads of well known codes into records
// described by table-driven layouts.
package records

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Kind is the wire type of a field.
type Kind int

// Field kinds. Multi-byte integers are little-endian.
const (
	Uint8 Kind = iota
	Uint16
	Uint32
	Int16
	Int32
	// Bytes is a fixed size byte array.
	Bytes
	// String is a byte array trimmed of trailing zeros.
	// Size 0 means the rest of the payload.
	String
	// Flag is a single bit. Bit uses msb0 numbering: bit 0 is 0x80.
	Flag
)

var kindSizes = [...]int{Uint8: 1, Uint16: 2, Uint32: 4, Int16: 2, Int32: 4, Flag: 1}

// Field describes one named value in a payload.
type Field struct {
	Name   string
	Kind   Kind
	Offset int
	Size   int
	Bit    uint
}

func (f *Field) size() int {
	if f.Kind == Bytes || f.Kind == String {
		return f.Size
	}
	return kindSizes[f.Kind]
}

// Layout describes the payload of a code.
type Layout struct {
	Code   byte
	Name   string
	Fields []Field
}

// MinSize is the least payload size Unpack accepts.
func (l *Layout) MinSize() int {
	var size int
	for i := range l.Fields {
		if end := l.Fields[i].Offset + l.Fields[i].size(); end > size {
			size = end
		}
	}
	return size
}

// Field finds a field by name.
func (l *Layout) Field(name string) (*Field, bool) {
	for i := range l.Fields {
		if l.Fields[i].Name == name {
			return &l.Fields[i], true
		}
	}
	return nil, false
}

// SizeError indicates the payload is shorter than the layout.
type SizeError struct {
	Layout string
	Size   int
	Min    int
}

// Error implements error.
func (e *SizeError) Error() string {
	return fmt.Sprintf("%s: payload size %d, expect at least %d", e.Layout, e.Size, e.Min)
}

// FieldError indicates a value can't be packed into a field.
type FieldError struct {
	Layout string
	Field  string
	Value  interface{}
}

// Error implements error.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: invalid value %v (%T)", e.Layout, e.Field, e.Value, e.Value)
}

// Record is a decoded payload.
type Record struct {
	Layout *Layout
	Values map[string]interface{}
}

// Get returns the value of a field.
func (r *Record) Get(name string) interface{} {
	return r.Values[name]
}

// Unpack decodes data. Extra trailing bytes are ignored since newer
// firmware appends fields.
func (l *Layout) Unpack(data []byte) (*Record, error) {
	if min := l.MinSize(); len(data) < min {
		return nil, &SizeError{Layout: l.Name, Size: len(data), Min: min}
	}
	r := &Record{Layout: l, Values: make(map[string]interface{}, len(l.Fields))}
	for i := range l.Fields {
		f := &l.Fields[i]
		b := data[f.Offset:]
		var val interface{}
		switch f.Kind {
		case Uint8:
			val = b[0]
		case Uint16:
			val = binary.LittleEndian.Uint16(b)
		case Uint32:
			val = binary.LittleEndian.Uint32(b)
		case Int16:
			val = int16(binary.LittleEndian.Uint16(b))
		case Int32:
			val = int32(binary.LittleEndian.Uint32(b))
		case Bytes:
			v := make([]byte, f.Size)
			copy(v, b)
			val = v
		case String:
			if f.Size > 0 {
				b = b[:f.Size]
			}
			val = string(bytes.TrimRight(b, "\x00"))
		case Flag:
			val = b[0]&(0x80>>f.Bit) != 0
		}
		r.Values[f.Name] = val
	}
	return r, nil
}

// Pack encodes values. Missing fields are zero.
func (l *Layout) Pack(values map[string]interface{}) ([]byte, error) {
	size := l.MinSize()
	for i := range l.Fields {
		f := &l.Fields[i]
		if f.Kind == String && f.Size == 0 {
			if s, ok := values[f.Name].(string); ok {
				size = f.Offset + len(s)
			}
		}
	}
	out := make([]byte, size)
	for i := range l.Fields {
		f := &l.Fields[i]
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		if !packField(out[f.Offset:], f, v) {
			return nil, &FieldError{Layout: l.Name, Field: f.Name, Value: v}
		}
	}
	return out, nil
}

func packField(b []byte, f *Field, v interface{}) bool {
	switch f.Kind {
	case Uint8:
		n, ok := v.(uint8)
		if ok {
			b[0] = n
		}
		return ok
	case Uint16:
		n, ok := v.(uint16)
		if ok {
			binary.LittleEndian.PutUint16(b, n)
		}
		return ok
	case Uint32:
		n, ok := v.(uint32)
		if ok {
			binary.LittleEndian.PutUint32(b, n)
		}
		return ok
	case Int16:
		n, ok := v.(int16)
		if ok {
			binary.LittleEndian.PutUint16(b, uint16(n))
		}
		return ok
	case Int32:
		n, ok := v.(int32)
		if ok {
			binary.LittleEndian.PutUint32(b, uint32(n))
		}
		return ok
	case Bytes:
		data, ok := v.([]byte)
		if !ok || len(data) != f.Size {
			return false
		}
		copy(b, data)
	case String:
		s, ok := v.(string)
		if !ok || (f.Size > 0 && len(s) > f.Size) {
			return false
		}
		copy(b, s)
	case Flag:
		on, ok := v.(bool)
		if !ok {
			return false
		}
		if on {
			b[0] |= 0x80 >> f.Bit
		}
	}
	return true
}
