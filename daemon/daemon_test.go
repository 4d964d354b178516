package daemon

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/columbia/loom"
	"github.com/columbia/loom/filter"
	"github.com/stretchr/testify/require"
)

// fakeController listens once, accepts a single connection, and hands it
// to the test over a channel, standing in for spec §6.1's controller.
func fakeController(t *testing.T) (addr string, conns <-chan net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	ch := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			ch <- conn
		}
	}()
	return ln.Addr().String(), ch
}

func TestDaemon_HandshakeThenUnknownCommand(t *testing.T) {
	addr, conns := fakeController(t)

	engine := loom.NewEngine()
	registry := filter.NewRegistry(engine)

	d, err := Start(context.Background(), registry, addr)
	require.NoError(t, err)
	defer d.Stop()

	var conn net.Conn
	select {
	case conn = <-conns:
	case <-time.After(time.Second):
		t.Fatal("daemon never connected")
	}
	defer conn.Close()

	sc := bufio.NewScanner(conn)

	require.True(t, sc.Scan())
	require.Equal(t, handshake, sc.Text())

	_, err = conn.Write([]byte("unknown command here\n"))
	require.NoError(t, err)

	require.True(t, sc.Scan())
	require.Equal(t, "unknown command", sc.Text())
}

func TestDaemon_StopClosesConnection(t *testing.T) {
	addr, conns := fakeController(t)

	d, err := Start(context.Background(), filter.NewRegistry(loom.NewEngine()), addr)
	require.NoError(t, err)

	var conn net.Conn
	select {
	case conn = <-conns:
	case <-time.After(time.Second):
		t.Fatal("daemon never connected")
	}
	defer conn.Close()

	d.Stop()

	buf := make([]byte, 1)
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, err = conn.Read(buf)
	require.Error(t, err)
}
