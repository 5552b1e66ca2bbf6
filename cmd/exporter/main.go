package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"lodging_query/internal/adapters/observability"
	"lodging_query/internal/app"
	"lodging_query/internal/shared"
	"lodging_query/internal/storage/memory"
	mysqlrepo "lodging_query/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()
	csvPath := flag.String("csv", "", "write a CSV projection to this path instead of MySQL")
	flag.Parse()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if err := cfg.ApplyArgs(flag.Args()); err != nil {
		log.Fatal().Err(err).Msg("invalid arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, rep, err := memory.LoadFile(cfg.DataFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.DataFile).Msg("load failed")
	}
	log.Info().
		Str("file", cfg.DataFile).
		Int("loaded", rep.Loaded).
		Int("skipped", len(rep.Skipped)).
		Int("dropped", rep.Dropped).
		Msg("exporter starting")
	holder := memory.NewHolder(st)

	if *csvPath != "" {
		n, err := app.NewExportService(holder, nil, 1, cfg.ExportBatch).ExportCSVFile(*csvPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *csvPath).Msg("csv export failed")
		}
		log.Info().Str("path", *csvPath).Int("records", n).Msg("csv export completed")
		return
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	svc := app.NewExportService(holder, repo, cfg.ExportWorkers, cfg.ExportBatch)
	out, err := svc.ExportToRepo(ctx)
	if err != nil {
		log.Fatal().Err(err).Int("batches", out.Batches).Msg("export failed")
	}
	total, err := repo.CountRecords(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("count after export failed")
	}
	log.Info().
		Int("records", out.Records).
		Int("batches", out.Batches).
		Int("table_rows", total).
		Dur("duration", out.Duration).
		Msg("export completed")
}
