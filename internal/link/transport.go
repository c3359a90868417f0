package link

import (
	"bufio"
	"context"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/dazzo/dazzod/internal/errors"
)

// maxFrameSize bounds a single frame; the read buffer is allocated once
// per connection, never per frame.
const maxFrameSize = 255

// Handler receives one raw frame payload per link notification. The
// payload slice is only valid for the duration of the call.
type Handler func(payload []byte)

// TCPTransport carries sensor frames over a TCP stream from a radio
// bridge. Each frame is a one-byte length prefix followed by the
// payload; payload length is not validated here, the consumer applies
// its own malformed-length guard.
type TCPTransport struct {
	addr        string
	dialTimeout time.Duration
	handler     Handler

	mu        sync.Mutex
	conn      net.Conn
	closing   bool
	connected atomic.Bool
	drops     chan error
}

// NewTCPTransport returns a transport that dials addr and delivers
// frame payloads to handler.
func NewTCPTransport(addr string, dialTimeout time.Duration, handler Handler) *TCPTransport {
	return &TCPTransport{
		addr:        addr,
		dialTimeout: dialTimeout,
		handler:     handler,
		drops:       make(chan error, 1),
	}
}

// Connect dials the bridge and starts the read loop. Returns an error
// if already connected or if the dial fails within the timeout.
func (t *TCPTransport) Connect(ctx context.Context) error {
	errFactory := errors.New()

	t.mu.Lock()
	if t.conn != nil {
		t.mu.Unlock()
		return errFactory.New(ErrAlreadyConnected)
	}
	t.closing = false
	t.mu.Unlock()

	dialer := net.Dialer{Timeout: t.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return errFactory.Wrap(ErrDialFailed, err)
	}

	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()
	t.connected.Store(true)

	go t.readLoop(conn)

	return nil
}

// Close tears down the connection without reporting a drop.
func (t *TCPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closing = true
	t.connected.Store(false)
	if t.conn == nil {
		return nil
	}

	err := t.conn.Close()
	t.conn = nil
	if err != nil {
		return errors.New().Wrap(errors.ErrShutdownFailed, err)
	}

	return nil
}

// Connected reports whether the link is currently up.
func (t *TCPTransport) Connected() bool {
	return t.connected.Load()
}

// Drops delivers one error per lost connection.
func (t *TCPTransport) Drops() <-chan error {
	return t.drops
}

func (t *TCPTransport) readLoop(conn net.Conn) {
	reader := bufio.NewReader(conn)
	frame := make([]byte, maxFrameSize)

	for {
		length, err := reader.ReadByte()
		if err != nil {
			t.dropped(err)
			return
		}

		payload := frame[:int(length)]
		if _, err := io.ReadFull(reader, payload); err != nil {
			t.dropped(err)
			return
		}

		t.handler(payload)
	}
}

func (t *TCPTransport) dropped(cause error) {
	t.mu.Lock()
	deliberate := t.closing
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}
	t.mu.Unlock()
	t.connected.Store(false)

	if deliberate {
		return
	}

	err := errors.New().Wrap(ErrReadFailed, cause)
	select {
	case t.drops <- err:
	default:
	}
}

var _ Transport = (*TCPTransport)(nil)
