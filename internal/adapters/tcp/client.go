package tcp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// Client drives one session from the other side: it consumes the greeting on
// Dial and then reads each response up to the next prompt.
type Client struct {
	conn    net.Conn
	r       *bufio.Reader
	timeout time.Duration

	// Banner holds the greeting lines sent on connect.
	Banner string
}

func Dial(addr string, timeout time.Duration) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	c := &Client{conn: conn, r: bufio.NewReader(conn), timeout: timeout}
	banner, err := c.readUntilPrompt()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read greeting: %w", err)
	}
	c.Banner = banner
	return c, nil
}

func (c *Client) Close() error { return c.conn.Close() }

// Do sends one command and returns the response lines joined by "\n". For
// the exit command it returns the farewell and the connection is done.
func (c *Client) Do(cmd string) (string, error) {
	if err := c.deadline(); err != nil {
		return "", err
	}
	if _, err := io.WriteString(c.conn, cmd+"\n"); err != nil {
		return "", err
	}
	if strings.EqualFold(strings.TrimSpace(cmd), "exit") {
		b, err := io.ReadAll(c.r)
		return strings.TrimRight(string(b), "\r\n"), err
	}
	return c.readUntilPrompt()
}

func (c *Client) deadline() error {
	if c.timeout <= 0 {
		return nil
	}
	return c.conn.SetDeadline(time.Now().Add(c.timeout))
}

// readUntilPrompt collects full lines until a line starts with Prompt.
func (c *Client) readUntilPrompt() (string, error) {
	if err := c.deadline(); err != nil {
		return "", err
	}
	var lines []string
	for {
		head, err := c.r.Peek(len(Prompt))
		if err == nil && string(head) == Prompt {
			_, _ = c.r.Discard(len(Prompt))
			return strings.Join(lines, "\n"), nil
		}
		line, rerr := c.r.ReadString('\n')
		if rerr != nil {
			if errors.Is(rerr, io.EOF) && line != "" {
				lines = append(lines, strings.TrimRight(line, "\r\n"))
			}
			return strings.Join(lines, "\n"), rerr
		}
		lines = append(lines, strings.TrimRight(line, "\r\n"))
	}
}
