package msp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

type parseOutcome struct {
	packets []*Packet
	errs    []error
	// index of the input byte producing each packet.
	at []int
}

func parseAll(p *Parser, in []byte) (out parseOutcome) {
	for i, b := range in {
		pkt, err := p.Parse(b)
		if err != nil {
			out.errs = append(out.errs, err)
		}
		if pkt != nil {
			out.packets = append(out.packets, pkt)
			out.at = append(out.at, i)
		}
	}
	return
}

func mustBytes(t *testing.T, pkt *Packet) []byte {
	b, err := pkt.Bytes()
	require.NoError(t, err)
	return b
}

func TestParserFixture(t *testing.T) {
	var parser Parser
	in := []byte{'$', 'M', '<', 0x02, 0x02, 0xbe, 0xef, 0x51}
	for i, b := range in {
		pkt, err := parser.Parse(b)
		require.NoError(t, err)
		if i+1 < len(in) {
			require.Nilf(t, pkt, "byte %d", i)
			require.False(t, i > 0 && parser.IsBetweenPackets())
			continue
		}
		require.NotNil(t, pkt)
		require.True(t, pkt.Equal(NewPacket(2, ToFlightController, []byte{0xbe, 0xef})))
		require.True(t, pkt.Data.IsOwned())
	}
	require.True(t, parser.IsBetweenPackets())
}

func TestParserRoundTrip(t *testing.T) {
	large := make([]byte, MaxPayloadSize)
	for i := range large {
		large[i] = byte(i)
	}
	testCases := []struct {
		name   string
		packet *Packet
	}{
		{"zeros", NewPacket(1, ToFlightController, []byte{0, 0, 0})},
		{"empty", NewPacket(200, FromFlightController, nil)},
		{"unsupported", NewPacket(100, Unsupported, []byte{0x44, 0x20, 0x00, 0x80})},
		{"header bytes in data", NewPacket('$', FromFlightController, []byte{'$', 'M', '<'})},
		{"max", NewPacket(255, FromFlightController, large)},
		{"borrowed", NewRequest(5, []byte{9, 8, 7})},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var parser Parser
			out := parseAll(&parser, mustBytes(t, tc.packet))
			require.Empty(t, out.errs)
			require.Len(t, out.packets, 1)
			require.True(t, out.packets[0].Equal(tc.packet))
			require.Equal(t, tc.packet.Data.Len(), out.packets[0].Data.Len())
		})
	}
}

func TestParserResync(t *testing.T) {
	pkt := NewPacket(108, FromFlightController, []byte{1, 2, 3, 4, 5, 6})
	noise := []byte{0x00, 0xff, '$', 'X', 'M', '$', 'M', 'x', 0x10, '$', '$', 0x3c}
	in := append(append([]byte{}, noise...), mustBytes(t, pkt)...)

	var discarded []*FramingError
	parser := Parser{Observer: ObserveFramingFunc(func(err *FramingError) {
		discarded = append(discarded, err)
	})}
	out := parseAll(&parser, in)
	require.Empty(t, out.errs)
	require.Len(t, out.packets, 1)
	require.True(t, out.packets[0].Equal(pkt))
	require.NotEmpty(t, discarded)
	require.True(t, parser.IsBetweenPackets())
}

func TestParserFramingErrors(t *testing.T) {
	testCases := []struct {
		name   string
		in     []byte
		expect FramingError
	}{
		{"header1", []byte{'x'}, FramingError{Reason: InvalidHeader1, State: StateHeader1, Byte: 'x'}},
		{"header2", []byte{'$', 'X'}, FramingError{Reason: InvalidHeader2, State: StateHeader2, Byte: 'X'}},
		{"direction", []byte{'$', 'M', '?'}, FramingError{Reason: InvalidDirection, State: StateDirection, Byte: '?'}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lenient := Parser{}
			out := parseAll(&lenient, tc.in)
			require.Empty(t, out.errs)
			require.True(t, lenient.IsBetweenPackets())

			strict := Parser{Strict: true}
			out = parseAll(&strict, tc.in)
			require.Len(t, out.errs, 1)
			require.Equal(t, &tc.expect, out.errs[0])
			require.True(t, IsRecoverable(out.errs[0]))
			require.True(t, strict.IsBetweenPackets())
		})
	}
}

func TestParserMaxPayloadSize(t *testing.T) {
	parser := Parser{Strict: true, MaxPayloadSize: 4}
	tooLarge := mustBytes(t, NewPacket(1, FromFlightController, []byte{1, 2, 3, 4, 5}))
	out := parseAll(&parser, tooLarge[:4])
	require.Len(t, out.errs, 1)
	require.Equal(t, &FramingError{Reason: InvalidLength, State: StateLength, Byte: 5}, out.errs[0])
	require.Empty(t, out.packets)

	out = parseAll(&parser, mustBytes(t, NewPacket(1, FromFlightController, []byte{1, 2, 3, 4})))
	require.Empty(t, out.errs)
	require.Len(t, out.packets, 1)
}

func TestParserChecksumMismatch(t *testing.T) {
	pkt := NewPacket(2, ToFlightController, []byte{0xbe, 0xef})
	in := mustBytes(t, pkt)
	in[len(in)-1] = 0x52

	var parser Parser
	out := parseAll(&parser, in)
	require.Empty(t, out.packets)
	require.Len(t, out.errs, 1)
	require.Equal(t, &ChecksumError{Expected: 0x52, Calculated: 0x51}, out.errs[0])
	require.True(t, IsRecoverable(out.errs[0]))
	require.True(t, parser.IsBetweenPackets())

	out = parseAll(&parser, mustBytes(t, pkt))
	require.Empty(t, out.errs)
	require.Len(t, out.packets, 1)
	require.True(t, out.packets[0].Equal(pkt))
}

func TestParserConsecutivePackets(t *testing.T) {
	first := NewPacket(1, FromFlightController, []byte{1, 2, 3})
	second := NewPacket(2, FromFlightController, []byte{4, 5})
	in := append(mustBytes(t, first), mustBytes(t, second)...)

	var parser Parser
	out := parseAll(&parser, in)
	require.Empty(t, out.errs)
	require.Len(t, out.packets, 2)
	require.Equal(t, []int{first.Size() - 1, len(in) - 1}, out.at)
	require.True(t, out.packets[0].Equal(first))
	require.True(t, out.packets[1].Equal(second))

	// each packet gets its own buffer.
	out.packets[1].Data.Bytes()[0] = 0xff
	require.Equal(t, []byte{1, 2, 3}, out.packets[0].Data.Bytes())
}

func TestParserReset(t *testing.T) {
	var parser Parser
	parseAll(&parser, []byte{'$', 'M', '>', 3, 7, 1})
	require.Equal(t, StateData, parser.State())
	parser.Reset()
	require.True(t, parser.IsBetweenPackets())

	pkt := NewPacket(7, FromFlightController, bytes.Repeat([]byte{2}, 3))
	out := parseAll(&parser, mustBytes(t, pkt))
	require.Empty(t, out.errs)
	require.Len(t, out.packets, 1)
	require.True(t, out.packets[0].Equal(pkt))
}

func TestStateString(t *testing.T) {
	require.Equal(t, "header1", StateHeader1.String())
	require.Equal(t, "checksum", StateChecksum.String())
	require.Equal(t, "invalid", State(42).String())
}
