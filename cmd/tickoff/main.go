package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tickoff/internal/config"
	"tickoff/internal/http/handlers"
	applog "tickoff/internal/log"
	"tickoff/internal/monitoring"
	"tickoff/internal/repos"
)

const shutdownGrace = 10 * time.Second

func main() {
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := migrate(os.Args[2:]); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := serve(); err != nil {
		log.Fatal(err)
	}
}

// migrate runs `tickoff migrate [up|down|status]` against DB_DSN.
func migrate(args []string) error {
	command := "up"
	if len(args) > 0 {
		command = args[0]
	}
	db, err := repos.Connect(config.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	return repos.Migrate(context.Background(), db, command)
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logFile, err := applog.Setup(cfg.LogFile)
	if err != nil {
		log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
	}
	defer logFile.Close()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	metrics := monitoring.New()
	deps, err := handlers.NewDeps(db, cfg, metrics)
	if err != nil {
		return err
	}
	app := handlers.NewApp(deps, handlers.Options{CORSOrigins: cfg.CORSOrigins, AccessLog: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	applog.Info(nil, "server.listen", map[string]any{"port": cfg.Port, "env": cfg.Env})
	go func() { errc <- app.Listen(":" + cfg.Port) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	applog.Info(nil, "server.shutdown", nil)
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return app.ShutdownWithContext(sctx)
}
