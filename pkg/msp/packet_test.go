package msp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPacketSerialize(t *testing.T) {
	pkt := NewPacket(2, ToFlightController, []byte{0xbe, 0xef})
	require.Equal(t, 8, pkt.Size())
	out := make([]byte, pkt.Size())
	require.NoError(t, pkt.Serialize(out))
	require.Equal(t, []byte{'$', 'M', '<', 2, 2, 0xbe, 0xef, 0x51}, out)
	require.Equal(t, byte(2^2^0xbe^0xef), pkt.Checksum())
}

func TestPacket(t *testing.T) {
	testCases := []struct {
		name   string
		packet *Packet
		expect []byte
	}{
		{"no data", NewPacket(200, FromFlightController, nil), []byte{'$', 'M', '>', 0, 200, 200}},
		{"zeros", NewPacket(1, ToFlightController, []byte{0, 0, 0}), []byte{'$', 'M', '<', 3, 1, 0, 0, 0, 2}},
		{"unsupported", NewPacket(100, Unsupported, []byte{0x44, 0x20, 0x00, 0x80}), []byte{'$', 'M', '!', 4, 100, 0x44, 0x20, 0x00, 0x80, 4 ^ 100 ^ 0x44 ^ 0x20 ^ 0x80}},
		{"borrowed", NewRequest(108, nil), []byte{'$', 'M', '<', 0, 108, 108}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := tc.packet.Bytes()
			require.NoError(t, err)
			require.Equal(t, tc.expect, out)
			var buf bytes.Buffer
			n, err := tc.packet.WriteTo(&buf)
			require.NoError(t, err)
			require.Equal(t, tc.expect, buf.Bytes())
			require.EqualValues(t, len(tc.expect), n)
		})
	}
}

func TestPacketBufferSizeMismatch(t *testing.T) {
	pkt := NewPacket(2, ToFlightController, []byte{0xbe, 0xef})
	for _, size := range []int{0, pkt.Size() - 1, pkt.Size() + 1} {
		out := bytes.Repeat([]byte{0xaa}, size)
		require.Equal(t, ErrOutputBufferSizeMismatch, pkt.Serialize(out))
		require.Equal(t, bytes.Repeat([]byte{0xaa}, size), out)
	}
}

func TestPacketBoundarySizes(t *testing.T) {
	pkt := NewPacket(1, ToFlightController, nil)
	out, err := pkt.Bytes()
	require.NoError(t, err)
	require.Len(t, out, 6)

	pkt = NewPacket(1, FromFlightController, bytes.Repeat([]byte{0x5a}, MaxPayloadSize))
	out, err = pkt.Bytes()
	require.NoError(t, err)
	require.Len(t, out, MaxPacketSize)
	require.Equal(t, byte(MaxPayloadSize), out[3])
}

func TestPacketTooLarge(t *testing.T) {
	pkt := NewRequest(1, make([]byte, MaxPayloadSize+1))
	out := make([]byte, pkt.Size())
	require.Equal(t, ErrPayloadTooLarge, pkt.Serialize(out))
	require.Equal(t, make([]byte, pkt.Size()), out)
	_, err := pkt.WriteTo(&bytes.Buffer{})
	require.Equal(t, ErrPayloadTooLarge, err)
}

func TestPacketInvalidDirection(t *testing.T) {
	pkt := &Packet{Code: 1, Direction: Direction(7)}
	_, err := pkt.Bytes()
	require.Equal(t, ErrInvalidDirection, err)
}

func TestChecksumPermutation(t *testing.T) {
	data := []byte{0x01, 0x22, 0x83, 0xf4, 0x05, 0x00, 0x7f}
	expect := NewPacket(9, ToFlightController, data).Checksum()
	perm := make([]byte, len(data))
	// rotate and reverse to cover several permutations.
	for shift := range data {
		for i := range data {
			perm[i] = data[(i+shift)%len(data)]
		}
		require.Equal(t, expect, NewPacket(9, ToFlightController, perm).Checksum())
		for i, j := 0, len(perm)-1; i < j; i, j = i+1, j-1 {
			perm[i], perm[j] = perm[j], perm[i]
		}
		require.Equal(t, expect, NewPacket(9, ToFlightController, perm).Checksum())
	}
}

func TestPacketEqual(t *testing.T) {
	data := []byte{1, 2}
	require.True(t, NewRequest(3, data).Equal(NewPacket(3, ToFlightController, data)))
	require.False(t, NewRequest(3, data).Equal(NewPacket(3, FromFlightController, data)))
	require.False(t, NewRequest(3, data).Equal(nil))
	var nilPkt *Packet
	require.True(t, nilPkt.Equal(nil))
}

func TestPayload(t *testing.T) {
	b := []byte{1, 2, 3}
	borrowed := Borrowed(b)
	require.False(t, borrowed.IsOwned())
	owned := borrowed.Own()
	require.True(t, owned.IsOwned())
	b[0] = 9
	require.Equal(t, byte(9), borrowed.Byte(0))
	require.Equal(t, byte(1), owned.Byte(0))
	require.Equal(t, byte(0), owned.Byte(3))
	require.Equal(t, owned, owned.Own())
}
