package tcp

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lodging_query/internal/adapters/observability"
	"lodging_query/internal/app"
	"lodging_query/internal/dispatch"
)

// Session framing.
const (
	Greeting     = "Benvenuto nel server Strutture Ricettive!"
	Instructions = "Digita 'help' per l'elenco comandi, 'exit' per chiudere."
	Prompt       = ">>> "
)

// Executor answers one command line.
type Executor interface {
	Execute(ctx context.Context, line string) app.Reply
}

type Options struct {
	IdleTimeout time.Duration // 0 disables it
}

// Server runs one session per accepted connection. Sessions share nothing
// but the Executor.
type Server struct {
	ln   net.Listener
	exec Executor
	idle time.Duration
	pool *dispatch.Pool
}

// Listen binds addr. A bind failure is returned, not logged.
func Listen(addr string, exec Executor, opts Options) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{ln: ln, exec: exec, idle: opts.IdleTimeout, pool: dispatch.NewPool("tcp", 0)}, nil
}

func (s *Server) Name() string   { return "tcp" }
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Serve accepts connections until ctx is done, then waits for open sessions
// to end. Sessions are closed when ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = s.ln.Close() })
	defer stop()
	defer s.pool.Wait()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Warn().Err(err).Msg("tcp accept failed")
			continue
		}
		if err := s.pool.Go(ctx, func() { s.Handle(ctx, conn) }); err != nil {
			_ = conn.Close()
			return nil
		}
	}
}

// Handle runs the session protocol on conn and closes it:
// greeting, then prompt / read / dispatch until exit, EOF or an I/O error.
func (s *Server) Handle(ctx context.Context, conn net.Conn) {
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	defer conn.Close()

	done := observability.SessionOpened("tcp")
	defer done()

	l := log.With().Str("remote", conn.RemoteAddr().String()).Logger()
	l.Info().Msg("tcp_session open")

	ss := &session{r: bufio.NewReader(conn), w: bufio.NewWriter(conn), conn: conn, idle: s.idle}
	err := s.run(ctx, ss, l)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		l.Info().Msg("tcp_session closed")
	case errors.Is(err, os.ErrDeadlineExceeded):
		l.Info().Msg("tcp_session idle timeout")
	default:
		l.Warn().Err(err).Str("err_type", observability.LabelErr(err)).Msg("tcp_session failed")
	}
}

func (s *Server) run(ctx context.Context, ss *session, l zerolog.Logger) error {
	if err := ss.writeLines(Greeting, Instructions); err != nil {
		return err
	}
	if err := ss.prompt(); err != nil {
		return err
	}
	for {
		line, err := ss.readLine()
		if err != nil {
			return err
		}
		cmd := strings.TrimSpace(line)

		if app.Parse(cmd).Op == app.OpExit {
			return ss.writeLines(app.FarewellReply)
		}

		start := time.Now()
		reply := s.exec.Execute(ctx, cmd)
		observability.ObserveCommand("tcp", reply.Op.String(), reply.Outcome, time.Since(start))
		l.Debug().Str("command", reply.Op.String()).Str("outcome", reply.Outcome).Msg("tcp_command")

		if err := ss.writeLines(strings.Split(reply.Text, "\n")...); err != nil {
			return err
		}
		if err := ss.prompt(); err != nil {
			return err
		}
	}
}

type session struct {
	r    *bufio.Reader
	w    *bufio.Writer
	conn net.Conn
	idle time.Duration
}

// readLine returns the next line without its terminator. A final line that
// ends at EOF without a newline is still returned.
func (ss *session) readLine() (string, error) {
	if ss.idle > 0 {
		if err := ss.conn.SetReadDeadline(time.Now().Add(ss.idle)); err != nil {
			return "", err
		}
	}
	line, err := ss.r.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (ss *session) writeLines(lines ...string) error {
	for _, l := range lines {
		if _, err := ss.w.WriteString(l + "\n"); err != nil {
			return err
		}
	}
	return ss.w.Flush()
}

func (ss *session) prompt() error {
	if _, err := ss.w.WriteString(Prompt); err != nil {
		return err
	}
	return ss.w.Flush()
}
