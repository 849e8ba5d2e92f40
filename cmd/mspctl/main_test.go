package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/msp.go/pkg/capture"
	"github.com/robotalks/msp.go/pkg/msp"
)

func execute(t *testing.T, args ...string) string {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestEncodeCmd(t *testing.T) {
	require.Equal(t, "244d3c0202beef51\n", execute(t, "encode", "--code", "2", "be:ef"))
	require.Equal(t, "244d3e006c6c\n", execute(t, "encode", "--code", "108", "--dir", "from"))
}

func TestDecodeCmd(t *testing.T) {
	out := execute(t, "decode", "00ff", "244d3e066c9cff6400680104", "244d3c0202beef52", "244d")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, `from code=108 len=6 data=9cff64006801 attitude={"pitch":100,"roll":-100,"yaw":360}`, lines[0])
	require.Equal(t, "error: checksum mismatch: expected 52, calculated 51", lines[1])
	require.Equal(t, "incomplete packet in state direction", lines[2])
}

func TestParseCode(t *testing.T) {
	code, err := parseCode("attitude")
	require.NoError(t, err)
	require.Equal(t, byte(108), code)
	code, err = parseCode("0x65")
	require.NoError(t, err)
	require.Equal(t, byte(101), code)
	_, err = parseCode("300")
	require.Error(t, err)
}

func TestParseHex(t *testing.T) {
	data, err := parseHex("0x24 4d:3c")
	require.NoError(t, err)
	require.Equal(t, []byte{'$', 'M', '<'}, data)
	_, err = parseHex("zz")
	require.Error(t, err)
}

func TestDumpCapture(t *testing.T) {
	var buf bytes.Buffer
	w := capture.NewWriter(&buf)
	w.Now = func() time.Time { return time.Unix(0, 0) }
	require.NoError(t, w.Write(msp.NewPacket(250, msp.FromFlightController, []byte{1})))

	var out bytes.Buffer
	require.NoError(t, dumpCapture(&buf, &out))
	require.Equal(t, "1970-01-01T00:00:00Z from code=250 len=1 data=01\n", out.String())
}
