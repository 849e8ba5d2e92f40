package msp

// State is the state of the parser.
type State int

const (
	// StateHeader1 waits for '$'. It's the only state between packets.
	StateHeader1 State = iota
	// StateHeader2 waits for 'M'.
	StateHeader2
	// StateDirection waits for the direction byte.
	StateDirection
	// StateLength waits for the payload length.
	StateLength
	// StateCode waits for the command code.
	StateCode
	// StateData receives payload bytes.
	StateData
	// StateChecksum waits for the checksum.
	StateChecksum
)

var stateNames = [...]string{
	StateHeader1:   "header1",
	StateHeader2:   "header2",
	StateDirection: "direction",
	StateLength:    "length",
	StateCode:      "code",
	StateData:      "data",
	StateChecksum:  "checksum",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "invalid"
}

// FramingObserver is notified of every byte discarded for resynchronization.
type FramingObserver interface {
	ObserveFraming(*FramingError)
}

// ObserveFramingFunc is func type of FramingObserver.
type ObserveFramingFunc func(*FramingError)

// ObserveFraming implements FramingObserver.
func (f ObserveFramingFunc) ObserveFraming(err *FramingError) {
	f(err)
}

// Parser finds packets in a byte stream.
// The zero value is ready to use. It's not safe for concurrent use.
type Parser struct {
	// Strict makes Parse return framing errors. Otherwise bytes breaking
	// the framing are skipped silently and only reported to Observer.
	Strict bool
	// MaxPayloadSize limits the accepted length byte. 0 means no limit.
	MaxPayloadSize int
	// Observer is optional.
	Observer FramingObserver

	state     State
	direction Direction
	code      byte
	remaining int
	data      []byte
	crc       byte
}

// State gets the current parsing state.
func (p *Parser) State() State {
	return p.state
}

// IsBetweenPackets indicates the parser is waiting for a new packet.
func (p *Parser) IsBetweenPackets() bool {
	return p.state == StateHeader1
}

// Reset drops any partially received packet.
func (p *Parser) Reset() {
	p.state = StateHeader1
	p.direction = ToFlightController
	p.code = 0
	p.remaining = 0
	p.data = nil
	p.crc = 0
}

// Parse consumes one byte. It returns a packet when one is complete.
// Both a nil packet and a returned error mean: keep feeding bytes.
func (p *Parser) Parse(b byte) (*Packet, error) {
	switch p.state {
	case StateHeader1:
		if b != header1 {
			return nil, p.discard(InvalidHeader1, b)
		}
		p.state = StateHeader2
	case StateHeader2:
		if b != header2 {
			return nil, p.discard(InvalidHeader2, b)
		}
		p.state = StateDirection
	case StateDirection:
		dir, ok := DirectionFromByte(b)
		if !ok {
			return nil, p.discard(InvalidDirection, b)
		}
		p.direction, p.state = dir, StateLength
	case StateLength:
		if p.MaxPayloadSize > 0 && int(b) > p.MaxPayloadSize {
			return nil, p.discard(InvalidLength, b)
		}
		p.remaining = int(b)
		p.crc ^= b
		p.data = make([]byte, 0, p.remaining)
		p.state = StateCode
	case StateCode:
		p.code = b
		p.crc ^= b
		if p.remaining == 0 {
			p.state = StateChecksum
		} else {
			p.state = StateData
		}
	case StateData:
		p.data = append(p.data, b)
		p.crc ^= b
		if p.remaining--; p.remaining == 0 {
			p.state = StateChecksum
		}
	case StateChecksum:
		if crc := p.crc; b != crc {
			p.Reset()
			return nil, &ChecksumError{Expected: b, Calculated: crc}
		}
		pkt := &Packet{Code: p.code, Direction: p.direction, Data: Owned(p.data)}
		p.data = nil
		p.Reset()
		return pkt, nil
	}
	return nil, nil
}

func (p *Parser) discard(reason FramingReason, b byte) error {
	err := &FramingError{Reason: reason, State: p.state, Byte: b}
	p.Reset()
	if o := p.Observer; o != nil {
		o.ObserveFraming(err)
	}
	if p.Strict {
		return err
	}
	return nil
}
