package msp

// Direction indicates where a packet is travelling.
type Direction int

const (
	// ToFlightController is a request sent to the flight controller.
	ToFlightController Direction = iota
	// FromFlightController is a reply or event from the flight controller.
	FromFlightController
	// Unsupported is the reply for a command the flight controller doesn't know.
	Unsupported
)

const (
	dirByteTo          byte = '<'
	dirByteFrom        byte = '>'
	dirByteUnsupported byte = '!'
)

// DirectionFromByte maps a network byte to Direction.
// ok is false if b is not a direction byte.
func DirectionFromByte(b byte) (d Direction, ok bool) {
	switch b {
	case dirByteTo:
		return ToFlightController, true
	case dirByteFrom:
		return FromFlightController, true
	case dirByteUnsupported:
		return Unsupported, true
	}
	return ToFlightController, false
}

// Byte returns the network byte.
func (d Direction) Byte() byte {
	switch d {
	case FromFlightController:
		return dirByteFrom
	case Unsupported:
		return dirByteUnsupported
	}
	return dirByteTo
}

// IsValid checks if d is one of the defined directions.
func (d Direction) IsValid() bool {
	return d >= ToFlightController && d <= Unsupported
}

// Reply returns the direction of a reply to a packet in direction d.
func (d Direction) Reply() Direction {
	switch d {
	case ToFlightController:
		return FromFlightController
	case FromFlightController:
		return ToFlightController
	}
	return Unsupported
}

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case ToFlightController:
		return "to"
	case FromFlightController:
		return "from"
	case Unsupported:
		return "unsupported"
	}
	return "invalid"
}

// ParseDirection parses the name returned by String.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "to", "<":
		return ToFlightController, true
	case "from", ">":
		return FromFlightController, true
	case "unsupported", "!":
		return Unsupported, true
	}
	return ToFlightController, false
}
