package udp

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"lodging_query/internal/adapters/observability"
	"lodging_query/internal/app"
	"lodging_query/internal/dispatch"
)

// Executor answers one command line.
type Executor interface {
	Execute(ctx context.Context, line string) app.Reply
}

type Options struct {
	ChunkSize int // bytes per datagram, also the receive buffer size
	SendRPS   int // chunk pacing; 0 disables it
	Workers   int // concurrent exchanges; 0 means unbounded
}

// Server answers each datagram with a chunked response followed by one
// EndMarker datagram. There are no sequence numbers, acknowledgements or
// retransmissions: delivery is assumed in-order and lossless, and a client
// that loses the marker recovers through its own receive timeout.
type Server struct {
	conn    net.PacketConn
	exec    Executor
	chunk   int
	limiter *rate.Limiter
	pool    *dispatch.Pool
}

// Listen binds addr. A bind failure is returned, not logged.
func Listen(addr string, exec Executor, opts Options) (*Server, error) {
	pc, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, err
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	lim := rate.NewLimiter(rate.Inf, 1)
	if opts.SendRPS > 0 {
		lim = rate.NewLimiter(rate.Limit(opts.SendRPS), opts.SendRPS)
	}
	return &Server{
		conn:    pc,
		exec:    exec,
		chunk:   opts.ChunkSize,
		limiter: lim,
		pool:    dispatch.NewPool("udp", opts.Workers),
	}, nil
}

func (s *Server) Name() string   { return "udp" }
func (s *Server) Addr() net.Addr { return s.conn.LocalAddr() }

// Serve reads datagrams until ctx is done, handing each to the worker pool.
func (s *Server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = s.conn.Close() })
	defer stop()
	defer s.pool.Wait()

	for {
		buf := make([]byte, s.chunk)
		n, from, err := s.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Warn().Err(err).Msg("udp read failed")
			continue
		}
		payload := buf[:n]
		if err := s.pool.Go(ctx, func() { s.handle(ctx, from, payload) }); err != nil {
			return nil
		}
	}
}

func (s *Server) handle(ctx context.Context, to net.Addr, payload []byte) {
	done := observability.SessionOpened("udp")
	defer done()

	cmd := strings.TrimSpace(string(payload))
	start := time.Now()
	reply := s.exec.Execute(ctx, cmd)
	observability.ObserveCommand("udp", reply.Op.String(), reply.Outcome, time.Since(start))

	chunks, err := s.send(ctx, to, []byte(reply.Text))
	ev := log.Info()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Str("remote", to.String()).
		Str("command", reply.Op.String()).
		Int("bytes", len(reply.Text)).
		Int("chunks", chunks).
		Msg("udp_request")
}

// send writes every chunk and then the marker, stopping at the first error.
func (s *Server) send(ctx context.Context, to net.Addr, body []byte) (int, error) {
	sent := 0
	for _, c := range Chunks(body, s.chunk) {
		if err := s.limiter.Wait(ctx); err != nil {
			return sent, err
		}
		if _, err := s.conn.WriteTo(c, to); err != nil {
			return sent, err
		}
		sent++
		observability.ObserveDatagram("chunk")
	}
	if _, err := s.conn.WriteTo(endMarker, to); err != nil {
		return sent, err
	}
	observability.ObserveDatagram("marker")
	return sent, nil
}
