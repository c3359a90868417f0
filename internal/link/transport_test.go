package link_test

import (
	"context"
	"net"
	"testing"
	"time"

	"codeberg.org/dazzo/dazzod/internal/link"
	"codeberg.org/dazzo/dazzod/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frame prepends the one-byte length prefix used on the wire.
func frame(payload []byte) []byte {
	return append([]byte{byte(len(payload))}, payload...)
}

func TestTCPTransportDeliversFrames(t *testing.T) {
	require.NoError(t, logger.Init("error", true))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	received := make(chan []byte, 8)
	transport := link.NewTCPTransport(listener.Addr().String(), time.Second, func(payload []byte) {
		received <- append([]byte(nil), payload...)
	})

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := listener.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	require.NoError(t, transport.Connect(context.Background()))
	defer transport.Close()
	assert.True(t, transport.Connected())

	conn := <-accepted
	defer conn.Close()

	// A well-formed 12-byte frame and a short one: both are delivered,
	// the length guard is the consumer's concern.
	wellFormed := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	short := []byte{1, 2, 3}
	_, err = conn.Write(frame(wellFormed))
	require.NoError(t, err)
	_, err = conn.Write(frame(short))
	require.NoError(t, err)

	assert.Equal(t, wellFormed, <-received)
	assert.Equal(t, short, <-received)
}

func TestTCPTransportReportsDrop(t *testing.T) {
	require.NoError(t, logger.Init("error", true))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	transport := link.NewTCPTransport(listener.Addr().String(), time.Second, func([]byte) {})

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := listener.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	require.NoError(t, transport.Connect(context.Background()))
	conn := <-accepted

	// Peer closes: the transport reports exactly one drop and goes
	// disconnected.
	conn.Close()

	select {
	case err := <-transport.Drops():
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("drop was not reported")
	}
	assert.False(t, transport.Connected())
}

func TestTCPTransportCloseIsSilent(t *testing.T) {
	require.NoError(t, logger.Init("error", true))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		conn, err := listener.Accept()
		if err == nil {
			defer conn.Close()
			buf := make([]byte, 16)
			for {
				if _, err := conn.Read(buf); err != nil {
					return
				}
			}
		}
	}()

	transport := link.NewTCPTransport(listener.Addr().String(), time.Second, func([]byte) {})
	require.NoError(t, transport.Connect(context.Background()))
	require.NoError(t, transport.Close())

	select {
	case err := <-transport.Drops():
		t.Fatalf("deliberate close must not report a drop, got %v", err)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTCPTransportDialFailure(t *testing.T) {
	transport := link.NewTCPTransport("127.0.0.1:1", 100*time.Millisecond, func([]byte) {})

	err := transport.Connect(context.Background())
	require.Error(t, err)
	assert.False(t, transport.Connected())
}
