package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"lodging_query/internal/adapters/tcp"
	"lodging_query/internal/adapters/udp"
	"lodging_query/internal/app"
)

// exchanger sends one command and returns the full reply text.
type exchanger interface {
	do(cmd string) (string, error)
	close() error
}

type tcpExchanger struct{ c *tcp.Client }

func (t tcpExchanger) do(cmd string) (string, error) { return t.c.Do(cmd) }
func (t tcpExchanger) close() error                  { return t.c.Close() }

type udpExchanger struct{ c *udp.Client }

func (u udpExchanger) do(cmd string) (string, error) {
	return u.c.Do(context.Background(), cmd)
}
func (u udpExchanger) close() error { return u.c.Close() }

func main() {
	proto := flag.String("proto", "tcp", "transport: tcp or udp")
	host := flag.String("host", "localhost", "server host")
	port := flag.Int("port", 0, "server port (default 1050 for tcp, 3030 for udp)")
	timeout := flag.Duration("timeout", udp.DefaultTimeout, "dial and receive timeout")
	flag.Parse()

	color.NoColor = !isatty.IsTerminal(os.Stdout.Fd())
	errorf := color.New(color.FgRed).SprintFunc()
	promptf := color.New(color.FgCyan, color.Bold).SprintFunc()

	if *port == 0 {
		*port = 1050
		if *proto == "udp" {
			*port = 3030
		}
	}
	addr := net.JoinHostPort(*host, strconv.Itoa(*port))

	var ex exchanger
	switch *proto {
	case "tcp":
		c, err := tcp.Dial(addr, *timeout)
		if err != nil {
			fmt.Fprintln(os.Stderr, errorf("connect: ", err))
			os.Exit(1)
		}
		fmt.Println(c.Banner)
		ex = tcpExchanger{c}
	case "udp":
		c, err := udp.Dial(addr, *timeout)
		if err != nil {
			fmt.Fprintln(os.Stderr, errorf("connect: ", err))
			os.Exit(1)
		}
		ex = udpExchanger{c}
	default:
		fmt.Fprintln(os.Stderr, errorf("unknown -proto ", *proto))
		os.Exit(2)
	}
	defer ex.close()

	le := newLineEditor()
	defer le.close()

	for {
		line, err := le.line(promptf(tcp.Prompt))
		if err != nil {
			return
		}
		cmd := strings.TrimSpace(line)
		if cmd == "" {
			continue
		}
		reply, err := ex.do(cmd)
		switch {
		case errors.Is(err, udp.ErrNoEndMarker):
			fmt.Println(reply)
			fmt.Fprintln(os.Stderr, errorf("reply incomplete: ", err))
			continue
		case err != nil && !errors.Is(err, io.EOF):
			fmt.Fprintln(os.Stderr, errorf(err))
			return
		}
		if strings.HasPrefix(reply, "ERROR:") {
			fmt.Println(errorf(reply))
		} else {
			fmt.Println(reply)
		}
		if app.Parse(cmd).Op == app.OpExit || err != nil {
			return
		}
	}
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: client [-proto tcp|udp] [-host h] [-port n] [-timeout d]\n")
		flag.PrintDefaults()
	}
}
