package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	server "lodging_query/internal/adapters/http_server"
	"lodging_query/internal/adapters/observability"
	redisad "lodging_query/internal/adapters/redis"
	"lodging_query/internal/adapters/tcp"
	"lodging_query/internal/adapters/udp"
	"lodging_query/internal/app"
	"lodging_query/internal/dispatch"
	"lodging_query/internal/domain"
	"lodging_query/internal/shared"
	"lodging_query/internal/storage/memory"
)

// usage: server [data-file [tcp-port [udp-port]]]
func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if err := cfg.ApplyArgs(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("invalid arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// data
	st, rep, err := memory.LoadFile(cfg.DataFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.DataFile).Msg("load failed")
	}
	logLoad(cfg.DataFile, rep)
	holder := memory.NewHolder(st)
	observability.RecordsLoaded.Set(float64(rep.Loaded))

	// deps
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, reply cache disabled")
			_ = rc.Close()
		} else {
			defer rc.Close()
			cache = rc
			log.Info().Str("addr", cfg.RedisAddr).Msg("reply cache enabled")
		}
	}
	q := app.NewQueryService(holder, cache, cfg.CacheTTL)

	// listeners
	tcpSrv, err := tcp.Listen(cfg.TCPAddr, q, tcp.Options{IdleTimeout: cfg.TCPIdleTimeout})
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.TCPAddr).Msg("tcp bind failed")
	}
	udpSrv, err := udp.Listen(cfg.UDPAddr, q, udp.Options{
		ChunkSize: cfg.UDPChunkSize,
		SendRPS:   cfg.UDPSendRPS,
		Workers:   cfg.Workers,
	})
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.UDPAddr).Msg("udp bind failed")
	}
	listeners := []dispatch.Listener{tcpSrv, udpSrv}

	if cfg.AdminAddr != "" {
		srv := server.New()
		reg := observability.InitRegistry()
		srv.Mount("/metrics", observability.MetricsHandler(reg))
		srv.MountHandlers(&server.Handlers{Q: q, Stores: holder})
		admin, err := server.Listen(cfg.AdminAddr, srv.Mux())
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.AdminAddr).Msg("admin bind failed")
		}
		listeners = append(listeners, admin)
		log.Info().Str("addr", admin.Addr().String()).Msg("admin listening")
	}

	go reloadOnHangup(ctx, holder, cfg.DataFile)

	log.Info().
		Str("tcp", tcpSrv.Addr().String()).
		Str("udp", udpSrv.Addr().String()).
		Int("records", rep.Loaded).
		Msg("server listening")

	if err := dispatch.New(listeners...).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

// reloadOnHangup swaps in a freshly loaded store on every SIGHUP.
func reloadOnHangup(ctx context.Context, h *memory.Holder, path string) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			rep, err := h.Reload(path)
			if err != nil {
				log.Error().Err(err).Str("file", path).Msg("reload failed, keeping current data")
				continue
			}
			observability.RecordsLoaded.Set(float64(rep.Loaded))
			logLoad(path, rep)
		}
	}
}

func logLoad(path string, rep memory.LoadReport) {
	log.Info().
		Str("file", path).
		Int("lines", rep.Lines).
		Int("loaded", rep.Loaded).
		Int("skipped", len(rep.Skipped)).
		Int("dropped", rep.Dropped).
		Msg("data loaded")
}
