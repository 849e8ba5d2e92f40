package msp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startClient(t *testing.T) (*Client, *testStream, context.CancelFunc) {
	s := newTestStream(t)
	c := NewClient(NewLink(s))
	ctx, cancel := context.WithCancel(context.Background())
	go c.Run(ctx)
	return c, s, cancel
}

func waitResult(t *testing.T, cmd *Command) Result {
	select {
	case res := <-cmd.ResultChan():
		return res
	case <-time.After(time.Second):
		require.Fail(t, "no result")
	}
	return Result{}
}

func TestClientDo(t *testing.T) {
	c, s, cancel := startClient(t)
	defer cancel()

	resCh := make(chan Result, 1)
	go func() {
		pkt, err := c.Do(context.Background(), 1, nil)
		resCh <- Result{Packet: pkt, Err: err}
	}()
	require.Equal(t, []byte{'$', 'M', '<', 0, 1, 1}, s.written(t))
	reply := NewPacket(1, FromFlightController, []byte{0, 1, 46})
	s.inject(mustBytes(t, reply))
	res := <-resCh
	require.NoError(t, res.Err)
	require.True(t, res.Packet.Equal(reply))
}

func TestClientMatchesByCode(t *testing.T) {
	c, s, cancel := startClient(t)
	defer cancel()

	cmd1 := c.Start(1, nil)
	s.written(t)
	cmd2 := c.Start(2, nil)
	s.written(t)
	cmd3 := c.Start(1, nil)
	s.written(t)

	s.inject(mustBytes(t, NewPacket(2, FromFlightController, []byte{2})))
	s.inject(mustBytes(t, NewPacket(1, FromFlightController, []byte{1})))
	s.inject(mustBytes(t, NewPacket(1, Unsupported, nil)))

	res := waitResult(t, cmd2)
	require.NoError(t, res.Err)
	require.Equal(t, []byte{2}, res.Packet.Data.Bytes())
	res = waitResult(t, cmd1)
	require.NoError(t, res.Err)
	require.Equal(t, []byte{1}, res.Packet.Data.Bytes())
	res = waitResult(t, cmd3)
	require.Equal(t, &CommandError{Code: 1}, res.Err)
}

func TestClientUnsolicited(t *testing.T) {
	c, s, cancel := startClient(t)
	defer cancel()

	pkt := NewPacket(105, FromFlightController, []byte{1})
	s.inject(mustBytes(t, pkt))
	select {
	case got := <-c.Unsolicited():
		require.True(t, got.Equal(pkt))
	case <-time.After(time.Second):
		require.Fail(t, "no unsolicited packet")
	}
}

func TestClientCancel(t *testing.T) {
	c, s, cancel := startClient(t)
	defer cancel()

	ctx, cancelDo := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := c.Do(ctx, 3, nil)
		errCh <- err
	}()
	s.written(t)
	cancelDo()
	require.Equal(t, context.Canceled, <-errCh)

	// the reply no longer matches a command.
	s.inject(mustBytes(t, NewPacket(3, FromFlightController, nil)))
	select {
	case got := <-c.Unsolicited():
		require.Equal(t, byte(3), got.Code)
	case <-time.After(time.Second):
		require.Fail(t, "no unsolicited packet")
	}
}
