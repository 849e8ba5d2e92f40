// Package msp provides MultiWii Serial Protocol (v1) framing support.
package msp

// MSP frames are exchanged between a host and a flight controller over a
// peer-to-peer byte stream (e.g. serial port or UART bridge):
//
//   '$' 'M' DIR LEN CODE DATA[LEN] CHECKSUM
//
// DIR is one of '<' (to flight controller), '>' (from flight controller)
// or '!' (unsupported command reply). CHECKSUM is the XOR of LEN, CODE and
// every DATA byte.
//
// The Parser consumes bytes one at a time and never performs I/O itself.
// Link and Client wrap a caller supplied io.ReadWriter for convenience.
//
// Producer: flight controller firmware / host
// Consumer: host / flight controller firmware
