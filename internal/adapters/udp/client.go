package udp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// DefaultTimeout bounds the wait for each datagram of a response.
const DefaultTimeout = 2 * time.Second

// ErrNoEndMarker means the receive timeout fired before the marker arrived;
// the partial body is still returned.
var ErrNoEndMarker = errors.New("udp: response ended without end marker")

// Client sends one command per datagram and reassembles the chunked reply.
// It is not safe for concurrent Do calls.
type Client struct {
	conn    net.Conn
	timeout time.Duration
	bufSize int
}

func Dial(addr string, timeout time.Duration) (*Client, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	// larger than any chunk the server may be configured with
	return &Client{conn: conn, timeout: timeout, bufSize: 64 * 1024}, nil
}

func (c *Client) Close() error { return c.conn.Close() }

// Do sends cmd and reads datagrams until the end marker. On timeout it returns
// what arrived so far together with ErrNoEndMarker.
func (c *Client) Do(ctx context.Context, cmd string) (string, error) {
	if _, err := c.conn.Write([]byte(cmd)); err != nil {
		return "", fmt.Errorf("send: %w", err)
	}

	var got [][]byte
	partial := func() string {
		body, _ := Reassemble(got)
		return string(body)
	}
	buf := make([]byte, c.bufSize)
	for {
		deadline := time.Now().Add(c.timeout)
		if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
			deadline = d
		}
		if err := c.conn.SetReadDeadline(deadline); err != nil {
			return partial(), err
		}
		n, err := c.conn.Read(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				if ctx.Err() != nil {
					return partial(), ctx.Err()
				}
				return partial(), ErrNoEndMarker
			}
			return partial(), fmt.Errorf("receive: %w", err)
		}
		got = append(got, bytes.Clone(buf[:n]))
		if IsEnd(buf[:n]) {
			return partial(), nil
		}
	}
}
