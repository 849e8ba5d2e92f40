package msp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirection(t *testing.T) {
	testCases := []struct {
		dir  Direction
		b    byte
		name string
	}{
		{ToFlightController, '<', "to"},
		{FromFlightController, '>', "from"},
		{Unsupported, '!', "unsupported"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.b, tc.dir.Byte())
			require.Equal(t, tc.name, tc.dir.String())
			dir, ok := DirectionFromByte(tc.b)
			require.True(t, ok)
			require.Equal(t, tc.dir, dir)
			dir, ok = ParseDirection(tc.name)
			require.True(t, ok)
			require.Equal(t, tc.dir, dir)
		})
	}
}

func TestDirectionFromInvalidByte(t *testing.T) {
	for b := 0; b < 256; b++ {
		if b == '<' || b == '>' || b == '!' {
			continue
		}
		_, ok := DirectionFromByte(byte(b))
		require.Falsef(t, ok, "byte %02x", b)
	}
}

func TestDirectionReply(t *testing.T) {
	require.Equal(t, FromFlightController, ToFlightController.Reply())
	require.Equal(t, ToFlightController, FromFlightController.Reply())
	require.Equal(t, Unsupported, Unsupported.Reply())
	require.False(t, Direction(3).IsValid())
	require.Equal(t, "invalid", Direction(-1).String())
}
